package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/avkhn/notify-pipeline/internal/api/respond"
	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/config"
	"github.com/avkhn/notify-pipeline/internal/model"
	repo "github.com/avkhn/notify-pipeline/internal/repository/notification"
	svc "github.com/avkhn/notify-pipeline/internal/service/notification"
)

// notificationService defines the interface that the Handler depends on.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	Submit(ctx context.Context, strategy retry.Strategy, req svc.SubmitRequest) (model.Notification, error)
	UpdateStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID, status, errMsg string) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Notification, error)
	GetStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (string, error)
}

// Handler handles HTTP requests related to notifications: submission,
// fetching, status lookup and the internal status callback used by the
// delivery worker.
type Handler struct {
	service   notificationService
	validator *validator.Validate
	cfg       *config.Config
}

// NewHandler creates a new Handler instance.
func NewHandler(s notificationService, v *validator.Validate, cfg *config.Config) *Handler {
	return &Handler{service: s, validator: v, cfg: cfg}
}

// CreateRequest represents the JSON body expected in a notification
// submission.
type CreateRequest struct {
	RequestID string                 `json:"request_id" validate:"required"`
	UserID    string                 `json:"user_id" validate:"required"`
	Type      string                 `json:"notification_type" validate:"required,oneof=email push"`
	Template  string                 `json:"template_code" validate:"required"`
	Language  string                 `json:"language"`
	Variables map[string]interface{} `json:"variables"`
	Priority  int                    `json:"priority" validate:"gte=0"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// StatusRequest is the internal status callback payload pushed by the
// delivery worker.
type StatusRequest struct {
	NotificationID string `json:"notification_id" validate:"required,uuid"`
	Status         string `json:"status" validate:"required,oneof=pending delivered failed"`
	Error          string `json:"error"`
	Timestamp      string `json:"timestamp"`
}

// Create handles HTTP POST requests to submit a new notification.
//
// Submissions are idempotent by request_id: a replay returns the existing
// notification without publishing a new delivery message.
func (h *Handler) Create(c *ginext.Context) {
	var req CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	n, err := h.service.Submit(c.Request.Context(), h.cfg.Retry, svc.SubmitRequest{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Type:      req.Type,
		Template:  req.Template,
		Language:  req.Language,
		Variables: req.Variables,
		Priority:  req.Priority,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.failSubmit(c, req, err)
		return
	}

	respond.Created(c.Writer, n)
}

func (h *Handler) failSubmit(c *ginext.Context, req CreateRequest, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPreferenceDisabled):
		zlog.Logger.Warn().Err(err).Str("user_id", req.UserID).Msg("notification type disabled")
		respond.Fail(c.Writer, http.StatusBadRequest, err)
	case errors.Is(err, apperrors.ErrNotFound):
		zlog.Logger.Warn().Err(err).Str("request_id", req.RequestID).Msg("user or template not found")
		respond.Fail(c.Writer, http.StatusNotFound, err)
	case errors.Is(err, apperrors.ErrUnavailable):
		zlog.Logger.Error().Err(err).Str("request_id", req.RequestID).Msg("collaborator unavailable")
		respond.Fail(c.Writer, http.StatusServiceUnavailable, err)
	default:
		zlog.Logger.Error().Err(err).Str("request_id", req.RequestID).Msg("failed to submit notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
	}
}

// Get handles HTTP GET requests to retrieve a notification by ID.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	n, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, n)
}

// GetStatus handles HTTP GET requests to retrieve the status of a notification.
func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatusByID(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}

// UpdateStatus handles the internal PUT callback reporting a lifecycle
// transition from the delivery worker. Duplicate identical updates are
// harmless.
func (h *Handler) UpdateStatus(c *ginext.Context) {
	var req StatusRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode status body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate status body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	id, err := uuid.Parse(req.NotificationID)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid notification_id"))
		return
	}

	err = h.service.UpdateStatus(c.Request.Context(), h.cfg.Retry, id, req.Status, req.Error)
	if err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Err(err).Msg("notification not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("notification not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to update notification status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, "status updated")
}

func (h *Handler) parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("idStr", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return uuid.Nil, false
	}

	return id, true
}
