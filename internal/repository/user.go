package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkarpenko/minibank/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	Delete(ctx context.Context, userID int64) error
}

type userRepository struct {
	db *Database
}

func NewUserRepository(db *Database) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user row and its zero-balance account row in one
// transaction, so a user never exists without an account.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, query, user.Login, user.PasswordHash).Scan(&user.ID, &user.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (user_id, balance) VALUES ($1, 0)`, user.ID); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return tx.Commit()
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, login, password_hash, created_at FROM users WHERE login = $1`
	err := r.db.db.QueryRowContext(ctx, query, login).Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := r.db.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes the user row; the session and account rows go with it via
// ON DELETE CASCADE, so the cascade is a single atomic statement.
func (r *userRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
