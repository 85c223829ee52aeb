package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
	"github.com/avkhn/notify-pipeline/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

var insertQuery = regexp.QuoteMeta(`
		INSERT INTO notifications (
		    request_id, user_id, notification_type, template_code, variables, priority, metadata, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING id, created_at, updated_at;
    `)

func TestCreate(t *testing.T) {
	repo, mock := setupMockDB(t)

	n := model.Notification{
		RequestID: "r1",
		UserID:    "u1",
		Type:      model.TypeEmail,
		Template:  "welcome",
		Variables: map[string]interface{}{"name": "A"},
		Priority:  1,
	}

	id := uuid.New()
	now := time.Now()
	variables, _ := json.Marshal(n.Variables)

	mock.ExpectQuery(insertQuery).
		WithArgs(n.RequestID, n.UserID, n.Type, n.Template, variables, n.Priority, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))

	created, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, model.StatusPending, created.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateRequestID(t *testing.T) {
	repo, mock := setupMockDB(t)

	n := model.Notification{
		RequestID: "r1",
		UserID:    "u1",
		Type:      model.TypeEmail,
		Template:  "welcome",
	}

	mock.ExpectQuery(insertQuery).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), n)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE notifications
		SET status = $1, error = NULLIF($2, ''), updated_at = now()
		WHERE id = $3 AND (status = 'pending' OR status = $1);
    `)).
		WithArgs(model.StatusDelivered, "", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, model.StatusDelivered, "")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_AlreadyTerminalIsNoOp(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs(model.StatusFailed, "boom", id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT status
		FROM notifications
		WHERE id = $1;
    `)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusDelivered))

	err := repo.UpdateStatus(context.Background(), id, model.StatusFailed, "boom")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(`UPDATE notifications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT status`).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateStatus(context.Background(), id, model.StatusFailed, "boom")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestGetByRequestID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	now := time.Now()
	variables, _ := json.Marshal(map[string]interface{}{"name": "A"})

	rows := sqlmock.NewRows([]string{
		"id", "request_id", "user_id", "notification_type", "template_code",
		"variables", "priority", "metadata", "status", "error", "created_at", "updated_at",
	}).AddRow(id, "r1", "u1", model.TypeEmail, "welcome", variables, 1, nil, model.StatusPending, "", now, now)

	mock.ExpectQuery(`(?s)SELECT id, request_id.+FROM notifications.+WHERE request_id`).
		WithArgs("r1").
		WillReturnRows(rows)

	n, err := repo.GetByRequestID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, id, n.ID)
	assert.Equal(t, "A", n.Variables["name"])
	assert.Equal(t, model.StatusPending, n.Status)
}

func TestGetByRequestID_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT id, request_id`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByRequestID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestGetStatusByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(`SELECT status`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusDelivered))

	status, err := repo.GetStatusByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, status)
}
