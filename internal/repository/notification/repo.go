package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// Repository provides methods to interact with the notifications table.
//
// It is both the notification ledger and the idempotency store: the UNIQUE
// constraint on request_id makes concurrent inserts with the same key fail
// with apperrors.ErrDuplicateRequest, which the service resolves by
// re-reading the existing row.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification with status "pending" and returns the
// stored row. A request_id conflict is reported as apperrors.ErrDuplicateRequest.
func (r *Repository) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	query := `
		INSERT INTO notifications (
		    request_id, user_id, notification_type, template_code, variables, priority, metadata, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING id, created_at, updated_at;
    `

	variables, err := json.Marshal(n.Variables)
	if err != nil {
		return model.Notification{}, fmt.Errorf("failed to marshal variables: %w", err)
	}

	metadata, err := marshalNullable(n.Metadata)
	if err != nil {
		return model.Notification{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	err = r.db.Master.QueryRowContext(
		ctx, query, n.RequestID, n.UserID, n.Type, n.Template, variables, n.Priority, metadata,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.Notification{}, apperrors.ErrDuplicateRequest
		}

		return model.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	n.Status = model.StatusPending

	return n, nil
}

// GetByRequestID retrieves a notification by its idempotency key.
func (r *Repository) GetByRequestID(ctx context.Context, requestID string) (model.Notification, error) {
	query := selectNotification + `WHERE request_id = $1;`

	return r.scanOne(r.db.Master.QueryRowContext(ctx, query, requestID))
}

// GetByID retrieves a notification by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	query := selectNotification + `WHERE id = $1;`

	return r.scanOne(r.db.Master.QueryRowContext(ctx, query, id))
}

// GetStatusByID retrieves the status of a notification by its ID.
func (r *Repository) GetStatusByID(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT status
		FROM notifications
		WHERE id = $1;
    `

	var status string
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotificationNotFound
		}

		return "", fmt.Errorf("failed to get notification status: %w", err)
	}

	return status, nil
}

// UpdateStatus transitions a notification out of "pending".
//
// The WHERE guard makes transitions monotone: a terminal row is never moved
// back, and a repeated identical update is a harmless no-op.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status, errMsg string) error {
	query := `
		UPDATE notifications
		SET status = $1, error = NULLIF($2, ''), updated_at = now()
		WHERE id = $3 AND (status = 'pending' OR status = $1);
    `

	res, err := r.db.ExecContext(ctx, query, status, errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		// Either the row does not exist or it is already terminal.
		if _, err := r.GetStatusByID(ctx, id); err != nil {
			return err
		}

		return nil
	}

	return nil
}

const selectNotification = `
		SELECT id, request_id, user_id, notification_type, template_code, variables, priority, metadata, status, COALESCE(error, ''), created_at, updated_at
		FROM notifications
	`

func (r *Repository) scanOne(row *sql.Row) (model.Notification, error) {
	var (
		n         model.Notification
		variables []byte
		metadata  []byte
	)

	err := row.Scan(
		&n.ID, &n.RequestID, &n.UserID, &n.Type, &n.Template, &variables,
		&n.Priority, &metadata, &n.Status, &n.Error, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, ErrNotificationNotFound
		}

		return model.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}

	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &n.Variables); err != nil {
			return model.Notification{}, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return model.Notification{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return n, nil
}

func marshalNullable(m map[string]interface{}) (interface{}, error) {
	if m == nil {
		return nil, nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return b, nil
}
