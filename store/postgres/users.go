package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/florafolio/florafolio"
)

// uniqueViolation is the PostgreSQL error code raised when an insert or
// update collides with a unique constraint.
const uniqueViolation = "23505"

// UserStore implements florafolio.UserStore on top of the users table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*florafolio.User, error) {
	const q = `SELECT id, username, password_hash, email, role FROM users WHERE username = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, username))
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*florafolio.User, error) {
	const q = `SELECT id, username, password_hash, email, role FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, id))
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *UserStore) Save(ctx context.Context, user *florafolio.User) (*florafolio.User, error) {
	const q = `
		INSERT INTO users (id, username, password_hash, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, password_hash, email, role
	`
	saved, err := s.scanUser(s.db.QueryRowContext(ctx, q,
		user.ID, user.Username, user.PasswordHash, user.Email, string(user.Role)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, florafolio.ErrUsernameTaken
		}
		return nil, err
	}
	return saved, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, q, id, newHash)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *UserStore) UpdateUsername(ctx context.Context, id uuid.UUID, newUsername string) error {
	const q = `UPDATE users SET username = $2 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, q, id, newUsername)
	if err != nil {
		if isUniqueViolation(err) {
			return florafolio.ErrUsernameTaken
		}
		return err
	}
	return requireRow(result)
}

func (s *UserStore) scanUser(row *sql.Row) (*florafolio.User, error) {
	u := &florafolio.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent is a result, not a fault.
			return nil, nil
		}
		return nil, err
	}
	u.Role = florafolio.Role(role)
	return u, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return florafolio.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
