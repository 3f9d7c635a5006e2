package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"station_monitor/internal/models"
	"station_monitor/internal/repository/db"
)

type UserRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewUserRepository(conn *sql.DB, dialect db.Dialect) *UserRepository {
	return &UserRepository{db: conn, dialect: dialect}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, password_hash, firstname, lastname, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO NOTHING
		RETURNING id`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, firstname, lastname, position FROM users WHERE username = ?`
)

// Create inserts a new operator and returns its ID. An existing username is
// left untouched and reported as id 0 with no error.
func (r *UserRepository) Create(ctx context.Context, u models.Operator) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL),
		u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Position,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return id, nil
}

// GetByUsername fetches an operator by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var u models.Operator
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectUserByUsernameSQL), username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return &u, nil
}
