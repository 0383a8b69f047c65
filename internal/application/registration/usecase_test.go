package registration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/infrastructure/identity"
	"glassbird/internal/infrastructure/repository"
	"glassbird/internal/infrastructure/security"
	"glassbird/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stack struct {
	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	identity *identity.Database
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db, err := repository.OpenMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	s := &stack{
		users:    repository.NewUserRepository(db),
		profiles: repository.NewProfileRepository(db),
	}
	s.identity = identity.NewDatabase(s.users, s.profiles, security.NewPasswordHasherWithCost(bcrypt.MinCost), true, logger.Nop())
	return s
}

type failingProfiles struct{}

func (failingProfiles) Upsert(context.Context, *domain.Profile) error {
	return errors.New("profiles table unavailable")
}

type recordingSender struct {
	to, name, token string
}

func (r *recordingSender) SendConfirmationEmail(_ context.Context, to, name, token string) error {
	r.to, r.name, r.token = to, name, token
	return nil
}

func TestRegisterCreatesIdentityAndProfile(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	uc := NewUseCase(s.identity, s.profiles, logger.Nop())

	got, err := uc.Register(ctx, "Alice", "alice@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "Alice", got.Name)

	profile, err := s.profiles.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, domain.RoleStudent, profile.Role)

	identityRow, err := s.users.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.True(t, identityRow.Confirmed)
}

func TestRegisterMissingFields(t *testing.T) {
	s := newStack(t)
	uc := NewUseCase(s.identity, s.profiles, logger.Nop())

	_, err := uc.Register(context.Background(), "", "alice@x.com", "abcdef")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
	_, err = uc.Register(context.Background(), "Alice", "alice@x.com", "")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	uc := NewUseCase(s.identity, s.profiles, logger.Nop())

	_, err := uc.Register(ctx, "Alice", "alice@x.com", "abcdef")
	require.NoError(t, err)
	_, err = uc.Register(ctx, "Alice", "alice@x.com", "abcdef")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterRollsBackIdentityOnProfileFailure(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	uc := NewUseCase(s.identity, failingProfiles{}, logger.Nop())

	_, err := uc.Register(ctx, "Alice", "alice@x.com", "abcdef")
	require.ErrorIs(t, err, domain.ErrProfileWriteFailure)

	_, err = s.users.GetByEmail(ctx, "alice@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterWithConfirmation(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	tokens := cache.NewTokenCache(cache.NewMemoryKV())
	sender := &recordingSender{}
	uc := NewUseCase(s.identity, s.profiles, logger.Nop()).WithConfirmation(sender, tokens)
	uc.async = func(fn func()) { fn() }

	got, err := uc.Register(ctx, "Alice", "alice@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", sender.to)
	require.NotEmpty(t, sender.token)

	_, err = s.identity.SignIn(ctx, "alice@x.com", "abcdef")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	confirm := NewConfirmUseCase(tokens, s.identity)
	require.NoError(t, confirm.Confirm(ctx, sender.token))

	account, err := s.identity.SignIn(ctx, "alice@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, got.ID, account.ID)

	assert.ErrorIs(t, confirm.Confirm(ctx, sender.token), ErrInvalidConfirmToken)
	assert.ErrorIs(t, confirm.Confirm(ctx, ""), ErrInvalidConfirmToken)
}

type stuckTokens struct {
	userID string
}

func (s stuckTokens) GetConfirmToken(context.Context, string) (string, error) {
	return s.userID, nil
}

func (stuckTokens) DeleteConfirmToken(context.Context, string) error {
	return errors.New("redis: connection reset")
}

func TestConfirmDoesNotConfirmWhenTokenCannotBeConsumed(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	id, err := s.identity.CreateIdentity(ctx, "bob@x.com", "abcdef", false)
	require.NoError(t, err)

	err = NewConfirmUseCase(stuckTokens{userID: id}, s.identity).Confirm(ctx, "tok")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfirmToken)
	stored, err := s.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.Confirmed)
}
