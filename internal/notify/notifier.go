package notify

import (
	"context"
	"log/slog"
)

// Message is one push notification addressed to a single subscription. The
// key material arrives decrypted; the Notifier implementation owns transport
// and encoding.
type Message struct {
	Endpoint string
	P256dh   string
	Auth     string
	Title    string
	Body     string
}

// Notifier delivers push messages. Delivery is an external collaborator;
// the worker only depends on this interface.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier records deliveries instead of performing them. It is the
// default until a real push service is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.Info("push notification",
		"endpoint", msg.Endpoint,
		"title", msg.Title,
	)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
