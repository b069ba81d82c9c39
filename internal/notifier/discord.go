package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
)

// MessageSender is the part of *discordgo.Session the notifier uses.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// OpenDiscord creates a bot session. The REST client needs no gateway connection.
func OpenDiscord(token string) (*discordgo.Session, error) {
	return discordgo.New("Bot " + token)
}

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, c pass.Credential) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, discordMessage(c), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func discordMessage(c pass.Credential) string {
	var b strings.Builder
	switch c.Kind() {
	case models.KindVIP:
		b.WriteString("⭐ **VIP Pass Issued**")
	case models.KindFaculty:
		b.WriteString("🎓 **Faculty Pass Issued**")
	default:
		b.WriteString("🎉 **New Registration**")
	}
	fmt.Fprintf(&b, "\n**Name:** %s", c.Name)
	if c.PIN != "" {
		fmt.Fprintf(&b, "\n**PIN:** %s", c.PIN)
	}
	if c.Designation != "" {
		fmt.Fprintf(&b, "\n**Designation:** %s", c.Designation)
	}
	if c.Code != "" {
		fmt.Fprintf(&b, "\n**Code:** %s", c.Code)
	}
	return b.String()
}
