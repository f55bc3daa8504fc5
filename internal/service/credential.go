package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vkarpenko/minibank/internal/model"
	"github.com/vkarpenko/minibank/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("login and password are required")
	ErrUserNotFound       = errors.New("user not found")
)

const pgUniqueViolation = "23505"

// dummyHash is a valid bcrypt hash (cost 10) compared against when the login
// is unknown, so that path costs one hash comparison just like a wrong
// password does.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type CredentialService interface {
	Register(ctx context.Context, login, password string) (*model.User, error)
	Verify(ctx context.Context, login, password string) (*model.User, error)
	SetPassword(ctx context.Context, userID int64, newPassword string) error
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type credentialService struct {
	userRepo repository.UserRepository
}

func NewCredentialService(userRepo repository.UserRepository) CredentialService {
	return &credentialService{userRepo: userRepo}
}

func (s *credentialService) Register(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	existingUser, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Login:        login,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

// Verify fails with the same error for an unknown login and for a wrong
// password, so callers cannot tell the two apart from the response or from
// timing.
func (s *credentialService) Verify(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *credentialService) SetPassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

func (s *credentialService) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.userRepo.GetByLogin(ctx, login)
}

func (s *credentialService) Delete(ctx context.Context, userID int64) error {
	return s.userRepo.Delete(ctx, userID)
}
