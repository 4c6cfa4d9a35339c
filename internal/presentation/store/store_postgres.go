package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"credex/internal/presentation/models"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO presentations
			(id, version, format, presentation_request_id, presentation_request_info, encrypted_presentation, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.Version,
		record.Format.String(),
		record.PresentationRequestID,
		string(record.PresentationRequestInfo),
		string(record.EncryptedPresentation),
		record.ReceivedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("save presentation %s: %w", record.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save presentation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, submissionID id.SubmissionID) (*models.Record, error) {
	query := `
		SELECT id, version, format, presentation_request_id,
			presentation_request_info::text, encrypted_presentation::text, received_at
		FROM presentations
		WHERE id = $1
	`
	var (
		r         models.Record
		rawID     uuid.UUID
		format    string
		info      string
		encrypted string
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(submissionID)).
		Scan(&rawID, &r.Version, &format, &r.PresentationRequestID, &info, &encrypted, &r.ReceivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find presentation: %w", err)
	}
	r.ID = id.SubmissionID(rawID)
	r.Format = models.WireFormat(format)
	r.PresentationRequestInfo = json.RawMessage(info)
	r.EncryptedPresentation = json.RawMessage(encrypted)
	return &r, nil
}
