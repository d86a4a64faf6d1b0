package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gestiong/apiserver/types"
)

// UserRepository handles persistence for user accounts. It is the only
// component that reads secret hashes.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, username, secret_hash, COALESCE(email, ''), created_at
		FROM usuarios
		WHERE id = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.SecretHash,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, secret_hash, COALESCE(email, ''), created_at
		FROM usuarios
		WHERE username = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.SecretHash,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.CreatedAt = time.Now()

	const query = `
		INSERT INTO usuarios (username, secret_hash, email, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.SecretHash,
		user.Email,
		user.CreatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, mapError(err)
	}
	return user, nil
}

// UpdateSecret rotates a user's secret hash.
func (r *UserRepository) UpdateSecret(ctx context.Context, id int, secretHash string) error {
	const query = `UPDATE usuarios SET secret_hash = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, secretHash, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWithEmail returns users that have a notification address configured.
func (r *UserRepository) ListWithEmail(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, username, secret_hash, email, created_at
		FROM usuarios
		WHERE email IS NOT NULL AND email <> ''
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.SecretHash,
			&user.Email,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
