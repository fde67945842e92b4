package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidtube/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateAccount(ctx context.Context, id, fullName, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, url, key string) error
	UpdateCoverImage(ctx context.Context, id, url, key string) error
	SetRefreshTokenHash(ctx context.Context, id, hash string) error
	GetRefreshTokenHash(ctx context.Context, id string) (string, error)
	RotateRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) (bool, error)
	ClearRefreshTokenHash(ctx context.Context, id string) error
	AppendWatchHistory(ctx context.Context, id, videoID string) error
}

// IsUniqueViolation reporta si err es una violación de índice único de postgres.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, username, email, full_name,
	avatar_url, avatar_key, cover_image_url, cover_image_key,
	password_hash, COALESCE(refresh_token_hash, ''), watch_history,
	created_at, updated_at
`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.AvatarURL,
		&u.AvatarKey,
		&u.CoverImageURL,
		&u.CoverImageKey,
		&u.PasswordHash,
		&u.RefreshTokenHash,
		&u.WatchHistory,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, full_name,
			avatar_url, avatar_key, cover_image_url, cover_image_key,
			password_hash, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.AvatarKey,
		user.CoverImageURL,
		user.CoverImageKey,
		user.PasswordHash,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *PgUserRepository) GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, login))
}

func (r *PgUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, username, email).Scan(&exists)
	return exists, err
}

func (r *PgUserRepository) UpdateAccount(ctx context.Context, id, fullName, email string) (domain.User, error) {
	const query = `
		UPDATE users
		SET full_name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, fullName, email))
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}

func (r *PgUserRepository) UpdateAvatar(ctx context.Context, id, url, key string) error {
	const query = `UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, url, key)
	return err
}

func (r *PgUserRepository) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	const query = `UPDATE users SET cover_image_url = $2, cover_image_key = $3, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, url, key)
	return err
}

func (r *PgUserRepository) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	const query = `UPDATE users SET refresh_token_hash = $2, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) GetRefreshTokenHash(ctx context.Context, id string) (string, error) {
	const query = `SELECT COALESCE(refresh_token_hash, '') FROM users WHERE id = $1`
	var hash string
	err := r.pool.QueryRow(ctx, query, id).Scan(&hash)
	return hash, err
}

// RotateRefreshTokenHash reemplaza el hash solo si el valor previo coincide.
// Devuelve false cuando otra rotación concurrente ya lo reemplazó.
func (r *PgUserRepository) RotateRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	const query = `
		UPDATE users
		SET refresh_token_hash = $3, updated_at = now()
		WHERE id = $1 AND refresh_token_hash = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, oldHash, newHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgUserRepository) ClearRefreshTokenHash(ctx context.Context, id string) error {
	const query = `UPDATE users SET refresh_token_hash = NULL, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgUserRepository) AppendWatchHistory(ctx context.Context, id, videoID string) error {
	const query = `
		UPDATE users
		SET watch_history = array_prepend($2::uuid, watch_history), updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, videoID)
	return err
}
