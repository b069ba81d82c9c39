package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdg-garage/maitri-passes/internal/pass"
	"github.com/nats-io/nats.go"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes each registration on <prefix>.<variant>.
type NATSNotifier struct {
	conn   Publisher
	prefix string
}

func NewNATSNotifier(conn Publisher, prefix string) *NATSNotifier {
	return &NATSNotifier{conn: conn, prefix: prefix}
}

func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("maitri-passes"))
}

func (n *NATSNotifier) Subject(c pass.Credential) string {
	return n.prefix + "." + string(c.Kind())
}

func (n *NATSNotifier) NotifyRegistration(ctx context.Context, c pass.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(NewEvent(c))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(n.Subject(c), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
