// Package app wires configuration into the components shared by the binaries.
package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/config"
	"github.com/gdg-garage/maitri-passes/internal/database"
	"github.com/gdg-garage/maitri-passes/internal/notifier"
	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/gdg-garage/maitri-passes/internal/store"
	"github.com/rs/zerolog"
)

func Tables(cfg *config.Config) database.Tables {
	return database.Tables{
		Attendee: cfg.AttendeeTable,
		VIP:      cfg.VipTable,
		Faculty:  cfg.FacultyTable,
	}
}

func Variants(cfg *config.Config) *registration.Variants {
	return registration.NewVariants(registration.Settings{
		AttendeeTable:   cfg.AttendeeTable,
		VipTable:        cfg.VipTable,
		FacultyTable:    cfg.FacultyTable,
		VipPasscode:     cfg.VipPasscode,
		FacultyPasscode: cfg.FacultyPasscode,
		CaptureScale:    cfg.CaptureScale,
	})
}

// OpenStore returns the configured inserter and a func releasing it.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Inserter, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx, cfg.AttendeeTable, cfg.VipTable, cfg.FacultyTable); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, func() { pg.Close() }, nil
	case "supabase":
		sb, err := store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return sb, func() {}, nil
	default:
		db, err := database.Connect(cfg.DatabasePath, Tables(cfg))
		if err != nil {
			return nil, nil, err
		}
		return store.NewGormStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil
	}
}

// Renderer builds the pass renderer for the configured capture driver.
func Renderer(cfg *config.Config) (*pass.Renderer, func()) {
	if cfg.CaptureDriver == "chromedp" {
		c := pass.NewChromeCapturer()
		return pass.NewRenderer(c, pass.NewPDFPackager()), c.Close
	}
	return pass.NewRenderer(pass.NewNativeCapturer(), pass.NewPDFPackager()), func() {}
}

// Notifiers connects every configured notification channel. Failures are logged and skipped.
func Notifiers(cfg *config.Config, log *zerolog.Logger) (registration.Notifier, func()) {
	var (
		multi   notifier.Multi
		closers []func()
	)

	if cfg.DiscordBotToken != "" {
		session, err := notifier.OpenDiscord(cfg.DiscordBotToken)
		if err != nil {
			log.Warn().Err(err).Msg("Discord notifier not initialized")
		} else {
			multi = append(multi, notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID))
		}
	}
	if cfg.NATSURL != "" {
		nc, err := notifier.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("NATS notifier not initialized")
		} else {
			log.Info().Str("url", cfg.NATSURL).Msg("connected to NATS")
			multi = append(multi, notifier.NewNATSNotifier(nc, cfg.NATSSubjectPrefix))
			closers = append(closers, nc.Close)
		}
	}
	if cfg.RabbitMQURL != "" {
		rc, err := notifier.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ notifier not initialized")
		} else {
			log.Info().Str("exchange", cfg.RabbitMQExchange).Msg("RabbitMQ initialized")
			multi = append(multi, notifier.NewRabbitNotifier(rc.Channel, cfg.RabbitMQExchange))
			closers = append(closers, rc.Close)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(multi) == 0 {
		return nil, closeAll
	}
	return multi, closeAll
}

// Secret returns the configured secret, or a random one that lives as long as the process.
func Secret(configured string, log *zerolog.Logger, name string) string {
	if configured != "" {
		return configured
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random: %v", err))
	}
	log.Warn().Str("key", name).Msg("not set, using a random value for this process")
	return hex.EncodeToString(b)
}

// CSRFKey derives the 32 byte key gorilla/csrf expects.
func CSRFKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// FlowOptions are the options every form instance is built with.
func FlowOptions(renderer *pass.Renderer, n registration.Notifier, log *zerolog.Logger) []registration.FlowOption {
	opts := []registration.FlowOption{
		registration.WithLogger(log),
		registration.WithRenderer(renderer),
		registration.WithClock(time.Now),
	}
	if n != nil {
		opts = append(opts, registration.WithNotifier(n))
	}
	return opts
}
