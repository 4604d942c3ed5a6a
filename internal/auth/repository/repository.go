package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipeline_backend/platform/apperr"
	"pipeline_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no account matches.
var ErrNotFound = errors.New("not found")

const (
	userColumns = `id, email, password_hash, nome, created_at, updated_at`

	listUsersQuery = `
		SELECT u.id, u.email, u.nome, u.created_at,
			COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}') AS roles
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at ASC`

	listUsersByRoleQuery = `
		SELECT u.id, u.email, u.nome, u.created_at,
			array_agg(all_roles.role ORDER BY all_roles.role) AS roles
		FROM user_roles ur
		JOIN users u ON u.id = ur.user_id
		JOIN user_roles all_roles ON all_roles.user_id = u.id
		WHERE ur.role = $1
		GROUP BY u.id
		ORDER BY lower(COALESCE(u.nome, u.email)) ASC`
)

// Repository implements AuthRepository with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// User is a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Nome         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserWithRoles is an account summary with its role grants.
type UserWithRoles struct {
	ID        uuid.UUID
	Email     string
	Nome      *string
	CreatedAt time.Time
	Roles     []string
}

// CreateUser inserts an account. A taken email is a Conflict.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns, email, passwordHash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdateUserName(ctx context.Context, userID uuid.UUID, nome string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET nome = $2, updated_at = now() WHERE id = $1`, userID, nome)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes an account together with its role grants.
func (r *Repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *Repository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}
	return roles, nil
}

// GrantRole adds role to the user. Granting an existing role is a no-op.
func (r *Repository) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`, userID, role)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// RevokeRole removes role from the user.
func (r *Repository) RevokeRole(ctx context.Context, userID uuid.UUID, role string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role)
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]UserWithRoles, error) {
	return r.listUsers(ctx, listUsersQuery)
}

func (r *Repository) ListUsersByRole(ctx context.Context, role string) ([]UserWithRoles, error) {
	return r.listUsers(ctx, listUsersByRoleQuery, role)
}

func (r *Repository) AnyUserWithRole(ctx context.Context, role string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE role = $1)`, role).Scan(&exists); err != nil {
		return false, fmt.Errorf("check role holders: %w", err)
	}
	return exists, nil
}

func (r *Repository) listUsers(ctx context.Context, query string, args ...any) ([]UserWithRoles, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]UserWithRoles, 0)
	for rows.Next() {
		var u UserWithRoles
		if err := rows.Scan(&u.ID, &u.Email, &u.Nome, &u.CreatedAt, &u.Roles); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nome, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
