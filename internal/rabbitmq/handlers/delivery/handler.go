// Package delivery drives the per-message state machine of the worker:
// parse, render, dispatch through the circuit breaker, then ack, requeue
// with backoff, or dead-letter.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/breaker"
	"github.com/avkhn/notify-pipeline/internal/clients/template"
	"github.com/avkhn/notify-pipeline/internal/model"
	"github.com/avkhn/notify-pipeline/internal/rabbitmq/queue"
	"github.com/avkhn/notify-pipeline/internal/render"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/delivery/mock.go -package=mocks

type deliveryPublisher interface {
	Publish(ctx context.Context, msg queue.DeliveryMessage, retryCount int) error
	PublishFailed(ctx context.Context, msg queue.DeliveryMessage, reason string) error
}

type templateStore interface {
	Get(ctx context.Context, strategy retry.Strategy, code, language string) (template.Rendered, error)
}

type statusReporter interface {
	Report(notificationID, status, errMsg string)
}

// Provider sends one rendered notification to a downstream channel.
type Provider interface {
	Send(ctx context.Context, msg queue.DeliveryMessage, subject, body string) error
}

// Config holds the retry budget of the delivery loop.
type Config struct {
	MaxRetries int           // total dispatch attempts per message
	BaseDelay  time.Duration // exponential backoff base
	JitterMax  time.Duration // upper bound of the random jitter added to backoff
	Strategy   retry.Strategy
}

// Handler processes one delivery at a time per worker goroutine. Requeue
// timers run in the background and are tracked so shutdown can drain them
// without dropping or double-publishing a retry.
type Handler struct {
	publisher deliveryPublisher
	templates templateStore
	reporter  statusReporter
	providers map[string]Provider
	breakers  map[string]*breaker.Breaker
	cfg       Config

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewHandler creates a delivery handler. providers and breakers are keyed
// by notification type.
func NewHandler(
	publisher deliveryPublisher,
	templates templateStore,
	reporter statusReporter,
	providers map[string]Provider,
	breakers map[string]*breaker.Breaker,
	cfg Config,
) *Handler {
	return &Handler{
		publisher: publisher,
		templates: templates,
		reporter:  reporter,
		providers: providers,
		breakers:  breakers,
		cfg:       cfg,
		quit:      make(chan struct{}),
	}
}

// HandleDelivery runs the state machine for one broker delivery. The message
// is always settled exactly once: ack on success or scheduled retry,
// reject on poison, annotated dead-letter plus ack on exhaustion.
func (h *Handler) HandleDelivery(ctx context.Context, raw amqp.Delivery) {
	d, err := queue.ParseDelivery(raw)
	if err != nil {
		// Poison message: retrying a malformed payload can never succeed.
		zlog.Logger.Error().Err(err).Msg("poison message, rejecting to dead-letter queue")

		if rejErr := d.Reject(); rejErr != nil {
			zlog.Logger.Error().Err(rejErr).Msg("failed to reject poison message")
		}
		return
	}

	msg := d.Message

	zlog.Logger.Info().
		Str("notification_id", msg.NotificationID).
		Str("type", msg.Type).
		Int("attempt", d.RetryCount+1).
		Msg("processing delivery")

	h.reporter.Report(msg.NotificationID, model.StatusPending, "")

	provider, ok := h.providers[msg.Type]
	if !ok {
		h.fail(ctx, d, fmt.Sprintf("no provider for notification type %q", msg.Type))
		return
	}

	tmpl, err := h.templates.Get(ctx, h.cfg.Strategy, msg.TemplateCode, msg.Language)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Unrenderable content is permanent; no retry will fix it.
			h.fail(ctx, d, fmt.Sprintf("template %s not found", msg.TemplateCode))
			return
		}

		h.transient(ctx, d, err)
		return
	}

	subject := render.Render(tmpl.Subject, msg.Variables)
	body := render.Render(tmpl.Body, msg.Variables)

	err = h.breakers[msg.Type].Do(ctx, func(ctx context.Context) error {
		return provider.Send(ctx, msg, subject, body)
	})
	if err != nil {
		h.transient(ctx, d, err)
		return
	}

	h.reporter.Report(msg.NotificationID, model.StatusDelivered, "")

	if err := d.Ack(); err != nil {
		zlog.Logger.Error().Err(err).Str("notification_id", msg.NotificationID).Msg("failed to ack delivery")
	}
}

// Drain stops accepting new requeue delays and waits for outstanding
// requeue timers to settle their messages.
func (h *Handler) Drain() {
	close(h.quit)
	h.wg.Wait()
}

// transient handles a retryable failure: requeue with an incremented retry
// count after backoff, or dead-letter once the budget is exhausted.
func (h *Handler) transient(ctx context.Context, d queue.Delivery, cause error) {
	if d.RetryCount < h.cfg.MaxRetries-1 {
		h.scheduleRetry(d, cause)
		return
	}

	zlog.Logger.Error().Err(cause).
		Str("notification_id", d.Message.NotificationID).
		Int("attempts", d.RetryCount+1).
		Msg("retries exhausted, dead-lettering")

	h.fail(ctx, d, cause.Error())
}

// fail reports the failure, parks an annotated copy in the dead-letter
// queue and acks the original. If the annotated publish itself fails, the
// original is rejected instead so the broker's dead-letter routing still
// preserves the payload.
func (h *Handler) fail(ctx context.Context, d queue.Delivery, reason string) {
	h.reporter.Report(d.Message.NotificationID, model.StatusFailed, reason)

	if err := h.publisher.PublishFailed(ctx, d.Message, reason); err != nil {
		zlog.Logger.Error().Err(err).
			Str("notification_id", d.Message.NotificationID).
			Msg("failed to publish to dead-letter queue, rejecting original")

		if rejErr := d.Reject(); rejErr != nil {
			zlog.Logger.Error().Err(rejErr).Msg("failed to reject delivery")
		}
		return
	}

	if err := d.Ack(); err != nil {
		zlog.Logger.Error().Err(err).Str("notification_id", d.Message.NotificationID).Msg("failed to ack delivery")
	}
}

// scheduleRetry republishes the same payload with retry_count+1 after an
// exponential backoff delay, then acks the original so queue depth does not
// double-count the in-flight retry. On shutdown pending timers republish
// immediately instead of being dropped.
func (h *Handler) scheduleRetry(d queue.Delivery, cause error) {
	delay := h.backoffDelay(d.RetryCount)

	zlog.Logger.Warn().Err(cause).
		Str("notification_id", d.Message.NotificationID).
		Int("retry", d.RetryCount+1).
		Dur("delay", delay).
		Msg("transient delivery failure, scheduling retry")

	h.wg.Add(1)

	go func() {
		defer h.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-h.quit:
		}

		h.republish(d)
	}()
}

func (h *Handler) republish(d queue.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, d.Message, d.RetryCount+1); err != nil {
		zlog.Logger.Error().Err(err).
			Str("notification_id", d.Message.NotificationID).
			Msg("failed to republish retry, rejecting original")

		if rejErr := d.Reject(); rejErr != nil {
			zlog.Logger.Error().Err(rejErr).Msg("failed to reject delivery")
		}
		return
	}

	if err := d.Ack(); err != nil {
		zlog.Logger.Error().Err(err).
			Str("notification_id", d.Message.NotificationID).
			Msg("failed to ack requeued delivery")
	}
}

// backoffDelay computes base_delay * 2^retryCount plus bounded random jitter.
func (h *Handler) backoffDelay(retryCount int) time.Duration {
	delay := h.cfg.BaseDelay << uint(retryCount)

	if h.cfg.JitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(h.cfg.JitterMax)))
	}

	return delay
}
