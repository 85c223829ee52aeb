package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/breaker"
	"github.com/avkhn/notify-pipeline/internal/clients/template"
	mocks "github.com/avkhn/notify-pipeline/internal/mocks/rabbitmq/handlers/delivery"
	"github.com/avkhn/notify-pipeline/internal/model"
	"github.com/avkhn/notify-pipeline/internal/rabbitmq/queue"
)

// fakeAcker records how the broker delivery was settled.
type fakeAcker struct {
	mu      sync.Mutex
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = true
	return nil
}

func (a *fakeAcker) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcker) settled() (acked, nacked bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acked, a.nacked
}

type handlerDeps struct {
	publisher *mocks.MockdeliveryPublisher
	templates *mocks.MocktemplateStore
	reporter  *mocks.MockstatusReporter
	provider  *mocks.MockProvider
}

func setupHandler(t *testing.T, cfg Config) (*Handler, handlerDeps) {
	ctrl := gomock.NewController(t)

	d := handlerDeps{
		publisher: mocks.NewMockdeliveryPublisher(ctrl),
		templates: mocks.NewMocktemplateStore(ctrl),
		reporter:  mocks.NewMockstatusReporter(ctrl),
		provider:  mocks.NewMockProvider(ctrl),
	}

	brk := breaker.New(model.TypeEmail, breaker.Config{
		Timeout:        time.Second,
		ErrorThreshold: 100,
		ResetTimeout:   time.Minute,
		Window:         time.Minute,
		MinRequests:    1000, // never trips within a test
	})

	h := NewHandler(
		d.publisher,
		d.templates,
		d.reporter,
		map[string]Provider{model.TypeEmail: d.provider},
		map[string]*breaker.Breaker{model.TypeEmail: brk},
		cfg,
	)

	return h, d
}

func testConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		JitterMax:  0,
		Strategy:   retry.Strategy{Attempts: 1},
	}
}

func rawDelivery(t *testing.T, acker amqp.Acknowledger, retryCount int) (amqp.Delivery, queue.DeliveryMessage) {
	msg := queue.DeliveryMessage{
		NotificationID: "n1",
		RequestID:      "r1",
		Type:           model.TypeEmail,
		UserID:         "u1",
		Email:          "u1@example.com",
		TemplateCode:   "welcome",
		Variables:      map[string]interface{}{"name": "A"},
	}

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return amqp.Delivery{
		Acknowledger: acker,
		Body:         body,
		Headers:      amqp.Table{"x-retry-count": int32(retryCount)},
	}, msg
}

func TestHandleDelivery_Success(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}
	raw, _ := rawDelivery(t, acker, 0)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{Subject: "Hi {{name}}", Body: "Welcome, {{name}}"}, nil)
	d.provider.EXPECT().Send(gomock.Any(), gomock.Any(), "Hi A", "Welcome, A").Return(nil)
	d.reporter.EXPECT().Report("n1", model.StatusDelivered, "")

	h.HandleDelivery(context.Background(), raw)

	acked, nacked := acker.settled()
	assert.True(t, acked)
	assert.False(t, nacked)
}

func TestHandleDelivery_PoisonMessageRejected(t *testing.T) {
	h, _ := setupHandler(t, testConfig())
	acker := &fakeAcker{}

	h.HandleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: acker,
		Body:         []byte("{not json"),
	})

	acked, nacked := acker.settled()
	assert.False(t, acked)
	assert.True(t, nacked)
	assert.False(t, acker.requeue)
}

func TestHandleDelivery_TransientFailureRequeuesWithBackoff(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}
	raw, msg := rawDelivery(t, acker, 0)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{Subject: "s", Body: "b"}, nil)
	d.provider.EXPECT().Send(gomock.Any(), gomock.Any(), "s", "b").Return(errors.New("smtp timeout"))

	republished := make(chan struct{})
	d.publisher.EXPECT().Publish(gomock.Any(), msg, 1).DoAndReturn(
		func(context.Context, queue.DeliveryMessage, int) error {
			close(republished)
			return nil
		})

	h.HandleDelivery(context.Background(), raw)

	select {
	case <-republished:
	case <-time.After(time.Second):
		t.Fatal("retry was not republished")
	}

	h.Drain()

	acked, nacked := acker.settled()
	assert.True(t, acked)
	assert.False(t, nacked)
}

func TestHandleDelivery_ExhaustedRetriesDeadLetter(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}
	raw, msg := rawDelivery(t, acker, 2) // third and final attempt

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{Subject: "s", Body: "b"}, nil)
	d.provider.EXPECT().Send(gomock.Any(), gomock.Any(), "s", "b").Return(errors.New("smtp timeout"))
	d.reporter.EXPECT().Report("n1", model.StatusFailed, gomock.Any())
	d.publisher.EXPECT().PublishFailed(gomock.Any(), msg, gomock.Any()).Return(nil)

	h.HandleDelivery(context.Background(), raw)

	acked, nacked := acker.settled()
	assert.True(t, acked)
	assert.False(t, nacked)
}

func TestHandleDelivery_DeadLetterPublishFailureRejectsOriginal(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}
	raw, msg := rawDelivery(t, acker, 2)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{Subject: "s", Body: "b"}, nil)
	d.provider.EXPECT().Send(gomock.Any(), gomock.Any(), "s", "b").Return(errors.New("smtp timeout"))
	d.reporter.EXPECT().Report("n1", model.StatusFailed, gomock.Any())
	d.publisher.EXPECT().PublishFailed(gomock.Any(), msg, gomock.Any()).Return(errors.New("broker down"))

	h.HandleDelivery(context.Background(), raw)

	acked, nacked := acker.settled()
	assert.False(t, acked)
	assert.True(t, nacked)
	assert.False(t, acker.requeue)
}

func TestHandleDelivery_TemplateNotFoundIsPermanent(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}
	raw, msg := rawDelivery(t, acker, 0)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{}, apperrors.ErrNotFound)
	d.reporter.EXPECT().Report("n1", model.StatusFailed, "template welcome not found")
	d.publisher.EXPECT().PublishFailed(gomock.Any(), msg, "template welcome not found").Return(nil)

	h.HandleDelivery(context.Background(), raw)

	acked, _ := acker.settled()
	assert.True(t, acked)
}

func TestHandleDelivery_UnknownProviderTypeDeadLetters(t *testing.T) {
	h, d := setupHandler(t, testConfig())
	acker := &fakeAcker{}

	msg := queue.DeliveryMessage{NotificationID: "n1", Type: "sms", TemplateCode: "welcome"}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.reporter.EXPECT().Report("n1", model.StatusFailed, gomock.Any())
	d.publisher.EXPECT().PublishFailed(gomock.Any(), msg, gomock.Any()).Return(nil)

	h.HandleDelivery(context.Background(), amqp.Delivery{Acknowledger: acker, Body: body})

	acked, _ := acker.settled()
	assert.True(t, acked)
}

func TestDrain_RepublishesPendingRetriesImmediately(t *testing.T) {
	cfg := testConfig()
	cfg.BaseDelay = time.Hour // timer would never fire on its own

	h, d := setupHandler(t, cfg)
	acker := &fakeAcker{}
	raw, msg := rawDelivery(t, acker, 0)

	d.reporter.EXPECT().Report("n1", model.StatusPending, "")
	d.templates.EXPECT().Get(gomock.Any(), gomock.Any(), "welcome", "").
		Return(template.Rendered{Subject: "s", Body: "b"}, nil)
	d.provider.EXPECT().Send(gomock.Any(), gomock.Any(), "s", "b").Return(errors.New("smtp timeout"))
	d.publisher.EXPECT().Publish(gomock.Any(), msg, 1).Return(nil)

	h.HandleDelivery(context.Background(), raw)

	done := make(chan struct{})
	go func() {
		h.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain did not settle the pending retry")
	}

	acked, _ := acker.settled()
	assert.True(t, acked)
}

func TestBackoffDelay(t *testing.T) {
	h, _ := setupHandler(t, Config{MaxRetries: 5, BaseDelay: time.Second, JitterMax: time.Second})

	for retryCount, base := range map[int]time.Duration{
		0: time.Second,
		1: 2 * time.Second,
		2: 4 * time.Second,
	} {
		d := h.backoffDelay(retryCount)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+time.Second)
	}
}
