package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/vkarpenko/minibank/internal/model"
)

// memStore is an in-memory stand-in for the three repositories. Per-row
// operations take a single lock, mirroring the row-level atomicity the SQL
// statements provide.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*model.User
	sessions map[int64]*model.Session
	balances map[int64]float64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*model.User),
		sessions: make(map[int64]*model.Session),
		balances: make(map[int64]float64),
	}
}

// --- repository.UserRepository ---

func (s *memStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Login == user.Login {
			return &pq.Error{Code: "23505"}
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	s.balances[user.ID] = 0
	return nil
}

func (s *memStore) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Login == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *memStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	delete(s.sessions, userID)
	delete(s.balances, userID)
	return nil
}

// --- repository.SessionRepository ---

func (s *memStore) Replace(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.UserID] = &copied
	return nil
}

func (s *memStore) Get(ctx context.Context, userID int64) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (s *memStore) DeleteMatching(ctx context.Context, userID int64, otp string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.OTP != otp {
		return false, nil
	}
	delete(s.sessions, userID)
	return true, nil
}

func (s *memStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reaped int64
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			reaped++
		}
	}
	return reaped, nil
}

// --- repository.AccountRepository ---

func (s *memStore) GetBalance(ctx context.Context, userID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[userID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return balance, nil
}

func (s *memStore) ApplyDelta(ctx context.Context, userID int64, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[userID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	balance += delta
	s.balances[userID] = balance
	return balance, nil
}

// newTestSessionService returns a session service whose generator replays the
// given codes in order, falling back to the last one.
func newTestSessionService(store *memStore, ttl time.Duration, codes ...string) SessionService {
	i := 0
	return &sessionService{
		sessionRepo: store,
		ttl:         ttl,
		generate: func() (string, error) {
			code := codes[i]
			if i < len(codes)-1 {
				i++
			}
			return code, nil
		},
		now: time.Now,
	}
}
