package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepository holds the revocation blocklist for issued tokens. Signed
// tokens cannot be invalidated on their own; logout records the token's jti
// here until its natural expiry.
type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Revoke adds a token id to the blocklist and prunes entries whose expiry
// has passed. Revoking the same token twice is a no-op.
func (r *TokenRepository) Revoke(ctx context.Context, jti string, userID int, expiresAt time.Time) error {
	const prune = `DELETE FROM revoked_tokens WHERE expires_at < now()`
	if _, err := r.db.ExecContext(ctx, prune); err != nil {
		return err
	}

	const query = `
		INSERT INTO revoked_tokens (jti, usuario_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, jti, userID, expiresAt)
	return err
}

// IsRevoked reports whether a token id is on the blocklist.
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT 1 FROM revoked_tokens WHERE jti = $1`
	var one int
	err := r.db.QueryRowContext(ctx, query, jti).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
