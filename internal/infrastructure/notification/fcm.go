package notification

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrMissingToken = errors.New("device token is empty")

type fcmNotifier struct {
	client *messaging.Client
	log    *logrus.Logger
}

func NewFCMNotifier(ctx context.Context, credentialsFile string, log *logrus.Logger) (Notifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Info("Firebase Cloud Messaging ready")
	return &fcmNotifier{client: client, log: log}, nil
}

func (n *fcmNotifier) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return ErrMissingToken
	}

	id, err := n.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}

	n.log.Debugf("Push notification sent: %s", id)
	return nil
}
