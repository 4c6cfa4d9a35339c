package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"credex/internal/presentationrequest/models"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
)

const uniqueViolation = "23505"

// PostgresStore keeps the signed body in a JSON column so the bytes read back
// are the bytes written.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.Record) error {
	query := `
		INSERT INTO presentation_requests
			(id, verifier_did, holder_app_uuid, expires_at, deeplink, qr_code, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var expiresAt sql.NullTime
	if record.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *record.ExpiresAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.VerifierDID.String(),
		record.HolderAppUUID,
		expiresAt,
		record.Deeplink,
		record.QRCode,
		string(record.Body),
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("save presentation request %s: %w", record.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save presentation request: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error) {
	query := `
		SELECT id, verifier_did, holder_app_uuid, expires_at, deeplink, qr_code, body::text, created_at
		FROM presentation_requests
		WHERE id = $1
	`
	var (
		r         models.Record
		rawID     uuid.UUID
		did       string
		expiresAt sql.NullTime
		body      string
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(prID)).
		Scan(&rawID, &did, &r.HolderAppUUID, &expiresAt, &r.Deeplink, &r.QRCode, &body, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find presentation request: %w", err)
	}
	r.ID = id.PresentationRequestID(rawID)
	r.VerifierDID = id.DID(did)
	if expiresAt.Valid {
		t := expiresAt.Time
		r.ExpiresAt = &t
	}
	r.Body = []byte(body)
	return &r, nil
}
