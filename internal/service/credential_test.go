package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialService_RegisterAndVerify(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Login)

	// The stored hash must not be the plaintext.
	require.NotEqual(t, "pw1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))

	verified, err := svc.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, user.ID, verified.ID)
}

func TestCredentialService_Register_DuplicateLogin(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCredentialService_Register_EmptyInput(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrEmptyCredentials)

	_, err = svc.Register(ctx, "bob", "")
	require.ErrorIs(t, err, ErrEmptyCredentials)
}

func TestCredentialService_Verify_UniformFailure(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Unknown user and wrong password fail with the same error.
	_, unknownErr := svc.Verify(ctx, "ghost", "pw1")
	_, wrongErr := svc.Verify(ctx, "alice", "nope")
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestCredentialService_Verify_UniformCost(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	const rounds = 3

	start := time.Now()
	for i := 0; i < rounds; i++ {
		_, err := svc.Verify(ctx, "ghost", "pw1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	unknownUser := time.Since(start)

	start = time.Now()
	for i := 0; i < rounds; i++ {
		_, err := svc.Verify(ctx, "alice", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	wrongPassword := time.Since(start)

	// Both paths must pay for a hash comparison; without the dummy compare
	// the unknown-user path finishes orders of magnitude faster. A loose
	// factor keeps the check stable across machines.
	require.Greater(t, unknownUser, wrongPassword/5,
		"unknown-user path must cost a hash comparison too")
}

func TestCredentialService_SetPassword(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "old")
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword(ctx, user.ID, "new"))

	_, err = svc.Verify(ctx, "alice", "old")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "alice", "new")
	require.NoError(t, err)
}
