package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"credex/internal/sentinel"
	"credex/internal/verifier/models"
	id "credex/pkg/domain"
)

const uniqueViolation = "23505"

// PostgresStore persists verifiers in the verifiers table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, filter models.Filter) (*models.Verifier, error) {
	query := `
		SELECT id, verifier_did, auth_token, signing_private_key, created_at, updated_at
		FROM verifiers
		WHERE verifier_did = $1
	`
	var v models.Verifier
	var rawID uuid.UUID
	var did string
	err := s.db.QueryRowContext(ctx, query, filter.VerifierDID.String()).
		Scan(&rawID, &did, &v.AuthToken, &v.SigningPrivateKey, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verifier by did: %w", err)
	}
	v.ID = id.VerifierID(rawID)
	v.VerifierDID = id.DID(did)
	return &v, nil
}

// Patch overwrites the fields present in patch. Concurrent patches are last-write-wins.
func (s *PostgresStore) Patch(ctx context.Context, verifierID id.VerifierID, patch models.Patch, at time.Time) error {
	query := `
		UPDATE verifiers
		SET auth_token = COALESCE($2, auth_token),
			updated_at = $3
		WHERE id = $1
	`
	var token sql.NullString
	if patch.AuthToken != nil {
		token = sql.NullString{String: *patch.AuthToken, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(verifierID), token, at)
	if err != nil {
		return fmt.Errorf("patch verifier: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("patch verifier rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, verifier *models.Verifier) error {
	query := `
		INSERT INTO verifiers (id, verifier_did, auth_token, signing_private_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(verifier.ID),
		verifier.VerifierDID.String(),
		verifier.AuthToken,
		verifier.SigningPrivateKey,
		verifier.CreatedAt,
		verifier.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("create verifier %s: %w", verifier.VerifierDID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create verifier: %w", err)
	}
	return nil
}
