package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabasePath  string `mapstructure:"DATABASE_PATH"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SupabaseURL   string `mapstructure:"SUPABASE_URL"`
	SupabaseKey   string `mapstructure:"SUPABASE_KEY"`
	AttendeeTable string `mapstructure:"ATTENDEE_TABLE"`
	VipTable      string `mapstructure:"VIP_TABLE"`
	FacultyTable  string `mapstructure:"FACULTY_TABLE"`

	VipPasscode     string        `mapstructure:"VIP_PASSCODE"`
	FacultyPasscode string        `mapstructure:"FACULTY_PASSCODE"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	GateTTL         time.Duration `mapstructure:"GATE_TTL"`
	PassTokenTTL    time.Duration `mapstructure:"PASS_TOKEN_TTL"`
	CSRFKey         string        `mapstructure:"CSRF_KEY"`
	SecureCookies   bool          `mapstructure:"SECURE_COOKIES"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`

	CaptureDriver     string        `mapstructure:"CAPTURE_DRIVER"`
	CaptureScale      float64       `mapstructure:"CAPTURE_SCALE"`
	AutoDownloadDelay time.Duration `mapstructure:"AUTO_DOWNLOAD_DELAY"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	NATSURL                       string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix             string `mapstructure:"NATS_SUBJECT_PREFIX"`
	RabbitMQURL                   string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange              string `mapstructure:"RABBITMQ_EXCHANGE"`
}

var envKeys = []string{
	"DATABASE_URL",
	"SUPABASE_URL",
	"SUPABASE_KEY",
	"JWT_SECRET",
	"CSRF_KEY",
	"DISCORD_BOT_TOKEN",
	"DISCORD_NOTIFICATIONS_CHANNEL_ID",
	"NATS_URL",
	"RABBITMQ_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "maitri.db")
	v.SetDefault("ATTENDEE_TABLE", "attendee_registrations")
	v.SetDefault("VIP_TABLE", "vip_registrations")
	v.SetDefault("FACULTY_TABLE", "faculty_registrations")

	v.SetDefault("VIP_PASSCODE", "MAITRIVIP26")
	v.SetDefault("FACULTY_PASSCODE", "MAITRIFACULTY26")
	v.SetDefault("GATE_TTL", 12*time.Hour)
	v.SetDefault("PASS_TOKEN_TTL", 15*time.Minute)
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("SESSION_TTL", 2*time.Hour)

	v.SetDefault("CAPTURE_DRIVER", "native")
	v.SetDefault("CAPTURE_SCALE", 3.0)
	v.SetDefault("AUTO_DOWNLOAD_DELAY", 800*time.Millisecond)

	v.SetDefault("NATS_SUBJECT_PREFIX", "maitri.registrations")
	v.SetDefault("RABBITMQ_EXCHANGE", "maitri.registrations")
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.CaptureDriver {
	case "native", "chromedp":
	default:
		return fmt.Errorf("unknown CAPTURE_DRIVER %q", c.CaptureDriver)
	}
	if c.CaptureScale <= 0 {
		return fmt.Errorf("CAPTURE_SCALE must be positive")
	}
	return nil
}
