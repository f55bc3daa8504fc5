package repository

import (
	"context"
	"fmt"
)

type AccountRepository interface {
	GetBalance(ctx context.Context, userID int64) (float64, error)
	ApplyDelta(ctx context.Context, userID int64, delta float64) (float64, error)
}

type accountRepository struct {
	db *Database
}

func NewAccountRepository(db *Database) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	query := `SELECT balance FROM accounts WHERE user_id = $1`
	err := r.db.db.QueryRowContext(ctx, query, userID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// ApplyDelta adds the signed amount to the balance and returns the new value.
// The add happens inside one UPDATE statement, so concurrent deltas on the
// same account serialize on the row and none are lost.
func (r *accountRepository) ApplyDelta(ctx context.Context, userID int64, delta float64) (float64, error) {
	var balance float64
	query := `UPDATE accounts SET balance = balance + $1 WHERE user_id = $2 RETURNING balance`
	err := r.db.db.QueryRowContext(ctx, query, delta, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to apply delta: %w", err)
	}
	return balance, nil
}
