package notification

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is a push notification addressed to one device.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type noopNotifier struct {
	log *logrus.Logger
}

// NewNoopNotifier logs messages instead of sending them. Used when no Firebase credentials are configured.
func NewNoopNotifier(log *logrus.Logger) Notifier {
	return &noopNotifier{log: log}
}

func (n *noopNotifier) Send(ctx context.Context, msg Message) error {
	n.log.WithFields(logrus.Fields{
		"title": msg.Title,
		"data":  msg.Data,
	}).Debug("Push notification skipped, no provider configured")
	return nil
}
