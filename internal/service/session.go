package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vkarpenko/minibank/internal/model"
	"github.com/vkarpenko/minibank/internal/repository"
	"github.com/vkarpenko/minibank/internal/util/otp"
)

type SessionService interface {
	Login(ctx context.Context, userID int64) (string, error)
	Validate(ctx context.Context, userID int64, code string) (bool, error)
	Terminate(ctx context.Context, userID int64, code string) (bool, error)
	ReapExpired(ctx context.Context) (int64, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	generate    func() (string, error)
	now         func() time.Time
}

func NewSessionService(sessionRepo repository.SessionRepository, ttl time.Duration) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		ttl:         ttl,
		generate:    otp.Generate,
		now:         time.Now,
	}
}

// Login issues a fresh code and stores it, superseding any session the user
// already had. The code is returned to the caller for out-of-band delivery.
func (s *sessionService) Login(ctx context.Context, userID int64) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", err
	}

	session := &model.Session{
		UserID:    userID,
		OTP:       code,
		CreatedAt: s.now(),
	}

	if err := s.sessionRepo.Replace(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return code, nil
}

// Validate reports whether the user's live session carries exactly this code.
// Age is not checked here: an old session stays valid until it is superseded,
// terminated, or reaped.
func (s *sessionService) Validate(ctx context.Context, userID int64, code string) (bool, error) {
	session, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	return session.OTP == code, nil
}

func (s *sessionService) Terminate(ctx context.Context, userID int64, code string) (bool, error) {
	return s.sessionRepo.DeleteMatching(ctx, userID, code)
}

func (s *sessionService) ReapExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now().Add(-s.ttl))
}
