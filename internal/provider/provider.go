// Package provider adapts the channel clients in pkg/ to the delivery
// worker's provider port.
package provider

import (
	"context"
	"fmt"

	"github.com/avkhn/notify-pipeline/internal/rabbitmq/queue"
	"github.com/avkhn/notify-pipeline/pkg/email"
	"github.com/avkhn/notify-pipeline/pkg/push"
)

// Email sends rendered notifications over SMTP.
type Email struct {
	client *email.Client
}

// NewEmail creates the email provider adapter.
func NewEmail(client *email.Client) *Email {
	return &Email{client: client}
}

func (p *Email) Send(_ context.Context, msg queue.DeliveryMessage, subject, body string) error {
	if msg.Email == "" {
		return fmt.Errorf("notification %s has no recipient email", msg.NotificationID)
	}

	return p.client.Send(msg.Email, subject, body)
}

// Push sends rendered notifications through the push gateway.
type Push struct {
	client *push.Client
}

// NewPush creates the push provider adapter.
func NewPush(client *push.Client) *Push {
	return &Push{client: client}
}

func (p *Push) Send(ctx context.Context, msg queue.DeliveryMessage, subject, body string) error {
	if msg.PushToken == "" {
		return fmt.Errorf("notification %s has no push token", msg.NotificationID)
	}

	data := map[string]string{
		"notification_id": msg.NotificationID,
		"request_id":      msg.RequestID,
	}

	return p.client.Send(ctx, msg.PushToken, subject, body, data)
}
