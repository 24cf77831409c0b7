package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserService manages the account register. Password hashing and verification
// live in the application layer; this service only stores and returns hashes.
type UserService interface {
	Create(ctx context.Context, in UserInput) (*User, error)
	// GetByEmail returns an active user for login. Deactivated accounts are
	// invisible here so they cannot authenticate.
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// UserInput carries the fields for account creation. PasswordHash must already
// be a bcrypt hash.
type UserInput struct {
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
}

func (in UserInput) validate() error {
	if in.Email == "" {
		return errors.New("user email must not be empty")
	}
	if in.PasswordHash == "" {
		return errors.New("user password hash must not be empty")
	}
	if !ValidRole(in.Role) {
		return fmt.Errorf("invalid role %q", in.Role)
	}
	return nil
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = "id, email, display_name, password_hash, role, is_active, created_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	u, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (email, display_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING `+userColumns,
		in.Email, in.DisplayName, in.PasswordHash, string(in.Role),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user with email %s already exists", in.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1 AND is_active = true", email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found", email)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", email, err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role Role) error {
	if !ValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE users SET role = $1 WHERE id = $2", string(role), id)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE users SET is_active = $1 WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("failed to update active flag for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}
