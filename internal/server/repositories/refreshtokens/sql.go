package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// SQLRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// dbTime normalizes timestamps to UTC seconds. SQLite keeps them as text, so
// a single layout is required for expires_at comparisons to order correctly.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (r *SQLRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token_id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	createdAt := token.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		token.TokenID, token.UserID, token.Token, dbTime(token.ExpiresAt), dbTime(createdAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the session stored under tokenID.
// If not found, it returns common.ErrorNotFound.
func (r *SQLRepository) Find(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	query := `
		SELECT token_id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token_id = $1
	`
	t := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), tokenID).
		Scan(&t.TokenID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, tokenID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE token_id = $1
	`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), tokenID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), dbTime(now))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
