package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"itams/pkg/apperr"
	"itams/pkg/db"
)

var (
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")
	ErrEmailTaken   = apperr.New(apperr.KindConflict, "user exists with that email")
)

type UserRepository interface {
	CreateUser(ctx context.Context, name, email, role, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmailIncludingDeleted(ctx context.Context, email string) (User, bool, error)
	ReviveUserByEmail(ctx context.Context, email, name, role, passwordHash string) (User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error)
	GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error)
}

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func mapEmailConflict(err error) error {
	if db.IsUniqueViolation(err, "users_email_key") {
		return ErrEmailTaken
	}
	return err
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, name, email, role, passwordHash string) (User, error) {
	query := `INSERT INTO users (name, email, role, password_hash)
              VALUES ($1, $2, $3, $4)
              RETURNING id, name, email, role, created_at`
	u, err := scanUser(r.pool.QueryRow(ctx, query, name, email, role, passwordHash))
	if err != nil {
		return User{}, mapEmailConflict(err)
	}
	return u, nil
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	query := `UPDATE users
              SET name = $1, email = $2, role = $3
              WHERE id = $4 AND is_deleted = false
              RETURNING id, name, email, role, created_at`
	out, err := scanUser(r.pool.QueryRow(ctx, query, u.Name, u.Email, u.Role, u.ID))
	if err != nil {
		return User{}, mapEmailConflict(err)
	}
	return out, nil
}

// DeleteUser is a soft delete. Assignment and audit history keep pointing at
// the row.
func (r *postgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE users SET is_deleted = true WHERE id = $1 AND is_deleted = false", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	query := `SELECT id, name, email, role, created_at
              FROM users
              WHERE id = $1 AND is_deleted = false`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresUserRepository) GetUserByEmailIncludingDeleted(ctx context.Context, email string) (User, bool, error) {
	query := `SELECT id, name, email, role, created_at, is_deleted
              FROM users
              WHERE email = $1`

	var u User
	var deleted bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, ErrUserNotFound
	}
	if err != nil {
		return User{}, false, err
	}
	return u, deleted, nil
}

func (r *postgresUserRepository) ReviveUserByEmail(ctx context.Context, email, name, role, passwordHash string) (User, error) {
	query := `UPDATE users
              SET name = $1, role = $2, password_hash = $3, is_deleted = false
              WHERE email = $4 AND is_deleted = true
              RETURNING id, name, email, role, created_at`
	return scanUser(r.pool.QueryRow(ctx, query, name, role, passwordHash, email))
}

func (r *postgresUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error) {
	query := `SELECT id, name, email, role, created_at
              FROM users
              WHERE is_deleted = false
              ORDER BY name, id
              LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE is_deleted = false").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresUserRepository) GetUserAuthByEmail(ctx context.Context, email string) (int64, string, error) {
	var id int64
	var hash string
	err := r.pool.QueryRow(ctx,
		"SELECT id, password_hash FROM users WHERE email = $1 AND is_deleted = false", email).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", ErrUserNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}
