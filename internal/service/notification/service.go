package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/clients/user"
	"github.com/avkhn/notify-pipeline/internal/model"
	"github.com/avkhn/notify-pipeline/internal/rabbitmq/queue"
	"github.com/avkhn/notify-pipeline/internal/repository/notification"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

type notificationRepository interface {
	Create(context.Context, model.Notification) (model.Notification, error)
	GetByRequestID(context.Context, string) (model.Notification, error)
	GetByID(context.Context, uuid.UUID) (model.Notification, error)
	GetStatusByID(context.Context, uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, errMsg string) error
}

type deliveryPublisher interface {
	Publish(ctx context.Context, msg queue.DeliveryMessage, retryCount int) error
}

type userDirectory interface {
	Get(ctx context.Context, strategy retry.Strategy, userID string) (user.Profile, error)
}

type templateStore interface {
	EnsureExists(ctx context.Context, strategy retry.Strategy, code string) error
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// SubmitRequest carries a validated notification request into the coordinator.
type SubmitRequest struct {
	RequestID string
	UserID    string
	Type      string
	Template  string
	Language  string
	Variables map[string]interface{}
	Priority  int
	Metadata  map[string]interface{}
}

// Service is the ingestion coordinator: it enforces idempotency, persists
// the ledger entry and publishes the delivery message. It also owns the
// status-update surface used by the worker's callback.
type Service struct {
	repo      notificationRepository
	queue     deliveryPublisher
	users     userDirectory
	templates templateStore
	cache     cache
}

// NewService creates the coordinator.
func NewService(
	repo notificationRepository,
	queue deliveryPublisher,
	users userDirectory,
	templates templateStore,
	cache cache,
) *Service {
	return &Service{
		repo:      repo,
		queue:     queue,
		users:     users,
		templates: templates,
		cache:     cache,
	}
}

// Submit records a notification and enqueues it for delivery.
//
// Submitting the same request_id again returns the existing notification
// unchanged: no new message is published and no side effects re-run. Two
// concurrent submissions racing past the lookup are resolved by the unique
// constraint; the loser re-reads and returns the winner's row.
func (s *Service) Submit(ctx context.Context, strategy retry.Strategy, req SubmitRequest) (model.Notification, error) {
	existing, err := s.repo.GetByRequestID(ctx, req.RequestID)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, notification.ErrNotificationNotFound) {
		return model.Notification{}, fmt.Errorf("lookup by request_id: %w", err)
	}

	profile, err := s.users.Get(ctx, strategy, req.UserID)
	if err != nil {
		return model.Notification{}, fmt.Errorf("get user: %w", err)
	}

	if !profile.Allows(req.Type) {
		return model.Notification{}, fmt.Errorf("%w: %s", apperrors.ErrPreferenceDisabled, req.Type)
	}

	if err := s.templates.EnsureExists(ctx, strategy, req.Template); err != nil {
		return model.Notification{}, fmt.Errorf("check template: %w", err)
	}

	n, err := s.repo.Create(ctx, model.Notification{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Type:      req.Type,
		Template:  req.Template,
		Variables: req.Variables,
		Priority:  req.Priority,
		Metadata:  req.Metadata,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRequest) {
			// Lost the insert race: someone else created it first.
			existing, err := s.repo.GetByRequestID(ctx, req.RequestID)
			if err != nil {
				return model.Notification{}, fmt.Errorf("re-read after conflict: %w", err)
			}

			return existing, nil
		}

		return model.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	msg := queue.DeliveryMessage{
		NotificationID: n.ID.String(),
		RequestID:      n.RequestID,
		Type:           n.Type,
		UserID:         n.UserID,
		Email:          profile.Email,
		PushToken:      profile.PushToken,
		TemplateCode:   n.Template,
		Language:       req.Language,
		Variables:      n.Variables,
		Priority:       n.Priority,
		Metadata:       n.Metadata,
		CreatedAt:      n.CreatedAt,
	}

	if err := s.queue.Publish(ctx, msg, 0); err != nil {
		zlog.Logger.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to publish delivery message")

		// Never leave a pending row with no message in flight.
		if updErr := s.repo.UpdateStatus(ctx, n.ID, model.StatusFailed, "enqueue failed"); updErr != nil {
			zlog.Logger.Error().Err(updErr).Str("notification_id", n.ID.String()).Msg("failed to mark notification failed")
		}

		return model.Notification{}, fmt.Errorf("%w: enqueue failed", apperrors.ErrUnavailable)
	}

	s.cacheStatus(ctx, strategy, n.ID, n.Status)

	return n, nil
}

// UpdateStatus applies a lifecycle transition reported by the delivery
// worker. Transitions are monotone; a duplicate terminal update is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID, status, errMsg string) error {
	switch status {
	case model.StatusPending, model.StatusDelivered, model.StatusFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status, errMsg); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.cacheStatus(ctx, strategy, id, status)

	return nil
}

// GetByID returns a notification from the ledger.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Notification{}, fmt.Errorf("get notification: %w", err)
	}

	return n, nil
}

// GetStatusByID returns a notification's status, preferring the cache.
func (s *Service) GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error) {
	key := statusKey(id)

	status, err := s.cache.GetWithRetry(ctx, strategy, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Warn().Err(err).Str("notification_id", id.String()).Msg("failed to read status cache")
	}

	if err == nil && status != "" {
		return status, nil
	}

	status, err = s.repo.GetStatusByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get notification status: %w", err)
	}

	s.cacheStatus(ctx, strategy, id, status)

	return status, nil
}

func (s *Service) cacheStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID, status string) {
	if err := s.cache.SetWithRetry(ctx, strategy, statusKey(id), status); err != nil {
		zlog.Logger.Warn().Err(err).Str("notification_id", id.String()).Msg("failed to cache status")
	}
}

func statusKey(id uuid.UUID) string {
	return "status:" + id.String()
}
