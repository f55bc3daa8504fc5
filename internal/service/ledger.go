package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/vkarpenko/minibank/internal/repository"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
)

type LedgerService interface {
	GetBalance(ctx context.Context, userID int64) (float64, error)
	Deposit(ctx context.Context, userID int64, amount float64) (float64, error)
	Withdraw(ctx context.Context, userID int64, amount float64) (float64, error)
}

type ledgerService struct {
	accountRepo repository.AccountRepository
}

func NewLedgerService(accountRepo repository.AccountRepository) LedgerService {
	return &ledgerService{accountRepo: accountRepo}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (float64, error) {
	balance, err := s.accountRepo.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (s *ledgerService) Deposit(ctx context.Context, userID int64, amount float64) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}
	return s.applyDelta(ctx, userID, amount)
}

// Withdraw applies the negated amount. A resulting negative balance is
// allowed: there is no overdraft check.
func (s *ledgerService) Withdraw(ctx context.Context, userID int64, amount float64) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}
	return s.applyDelta(ctx, userID, -amount)
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

func (s *ledgerService) applyDelta(ctx context.Context, userID int64, delta float64) (float64, error) {
	balance, err := s.accountRepo.ApplyDelta(ctx, userID, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return balance, nil
}
