package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vkarpenko/minibank/internal/model"
	"go.uber.org/zap"
)

var ErrSessionInvalid = errors.New("session invalid")

// Gateway is the single entry point for every operation at the service
// boundary. It resolves the login to a user and checks the session code
// before any credential or ledger call runs.
type Gateway interface {
	Register(ctx context.Context, login, password string) error
	Login(ctx context.Context, login, password string) (string, error)
	UpdatePassword(ctx context.Context, login, password, newPassword string) error
	DeleteUser(ctx context.Context, login, password, code string) error
	Logout(ctx context.Context, login, code string) error
	GetBalance(ctx context.Context, login, code string) (float64, error)
	Deposit(ctx context.Context, login, code string, amount float64) (float64, error)
	Withdraw(ctx context.Context, login, code string, amount float64) (float64, error)
}

type gateway struct {
	credentials CredentialService
	sessions    SessionService
	ledger      LedgerService
	logger      *zap.Logger
}

func NewGateway(
	credentials CredentialService,
	sessions SessionService,
	ledger LedgerService,
	logger *zap.Logger,
) Gateway {
	return &gateway{
		credentials: credentials,
		sessions:    sessions,
		ledger:      ledger,
		logger:      logger,
	}
}

func (g *gateway) Register(ctx context.Context, login, password string) error {
	user, err := g.credentials.Register(ctx, login, password)
	if err != nil {
		return err
	}

	g.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("login", user.Login))
	return nil
}

func (g *gateway) Login(ctx context.Context, login, password string) (string, error) {
	user, err := g.credentials.Verify(ctx, login, password)
	if err != nil {
		return "", err
	}

	code, err := g.sessions.Login(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}

	g.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return code, nil
}

// UpdatePassword requires the current password and does not consult the
// session at all.
func (g *gateway) UpdatePassword(ctx context.Context, login, password, newPassword string) error {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return err
	}

	if _, err := g.credentials.Verify(ctx, login, password); err != nil {
		return err
	}

	return g.credentials.SetPassword(ctx, user.ID, newPassword)
}

// DeleteUser demands both the password and a valid session code before the
// cascading delete of session, account and user rows.
func (g *gateway) DeleteUser(ctx context.Context, login, password, code string) error {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return err
	}

	if _, err := g.credentials.Verify(ctx, login, password); err != nil {
		return err
	}

	if err := g.authorize(ctx, user.ID, code); err != nil {
		return err
	}

	if err := g.credentials.Delete(ctx, user.ID); err != nil {
		return err
	}

	g.logger.Info("User deleted", zap.Int64("user_id", user.ID))
	return nil
}

func (g *gateway) Logout(ctx context.Context, login, code string) error {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return err
	}

	removed, err := g.sessions.Terminate(ctx, user.ID, code)
	if err != nil {
		return err
	}
	if !removed {
		return ErrSessionInvalid
	}
	return nil
}

func (g *gateway) GetBalance(ctx context.Context, login, code string) (float64, error) {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return 0, err
	}
	if err := g.authorize(ctx, user.ID, code); err != nil {
		return 0, err
	}
	return g.ledger.GetBalance(ctx, user.ID)
}

func (g *gateway) Deposit(ctx context.Context, login, code string, amount float64) (float64, error) {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return 0, err
	}
	if err := g.authorize(ctx, user.ID, code); err != nil {
		return 0, err
	}
	return g.ledger.Deposit(ctx, user.ID, amount)
}

func (g *gateway) Withdraw(ctx context.Context, login, code string, amount float64) (float64, error) {
	user, err := g.resolve(ctx, login)
	if err != nil {
		return 0, err
	}
	if err := g.authorize(ctx, user.ID, code); err != nil {
		return 0, err
	}
	return g.ledger.Withdraw(ctx, user.ID, amount)
}

func (g *gateway) resolve(ctx context.Context, login string) (*model.User, error) {
	user, err := g.credentials.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (g *gateway) authorize(ctx context.Context, userID int64, code string) error {
	valid, err := g.sessions.Validate(ctx, userID, code)
	if err != nil {
		return err
	}
	if !valid {
		return ErrSessionInvalid
	}
	return nil
}
