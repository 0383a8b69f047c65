package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"glassbird/internal/application/session"
	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/infrastructure/identity"
	"glassbird/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	signInErr error
	signUpErr error
	block     bool
	calls     int
}

func (p *fakeProvider) SignIn(ctx context.Context, email, _ string) (*identity.Account, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &identity.Account{Email: email}, nil
}

func (p *fakeProvider) SignUp(ctx context.Context, name, email, _ string) (*identity.Account, error) {
	p.calls++
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	return &identity.Account{ID: "new-id", Email: email, Name: name}, nil
}

type fixture struct {
	backend  *cache.SessionCache
	provider *fakeProvider
	manager  *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend:  cache.NewSessionCache(cache.NewMemoryKV(), time.Hour),
		provider: &fakeProvider{},
	}
	f.manager = f.newManager()
	require.NoError(t, f.manager.Init(context.Background()))
	return f
}

func (f *fixture) newManager() *Manager {
	return NewManager(
		session.NewStore(f.backend, "sid", logger.Nop()),
		f.provider,
		Options{AdminEmail: "admin@glassbird.com", AdminPassword: "admin123", Timeout: 50 * time.Millisecond},
		logger.Nop(),
	)
}

func TestLoadingUntilInit(t *testing.T) {
	f := &fixture{backend: cache.NewSessionCache(cache.NewMemoryKV(), time.Hour), provider: &fakeProvider{}}
	m := f.newManager()

	assert.True(t, m.Snapshot().IsLoading)
	require.NoError(t, m.Init(context.Background()))

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	user, err := f.manager.Login(context.Background(), "admin@glassbird.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "admin", user.DisplayName)
	assert.True(t, f.manager.Snapshot().IsAdmin)
	assert.Zero(t, f.provider.calls)
}

func TestStudentLogin(t *testing.T) {
	f := newFixture(t)

	user, err := f.manager.Login(context.Background(), "student@x.com", "longpassword")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "student", user.DisplayName)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.EnrolledCourseIDs)
	assert.Empty(t, user.Progress)

	snap := f.manager.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsAdmin)
	assert.False(t, snap.IsLoading)
}

func TestShortPasswordRejectedLocally(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Login(context.Background(), "student@x.com", "abc12")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Zero(t, f.provider.calls)
	assert.False(t, f.manager.Snapshot().IsLoading)
	assert.Nil(t, f.manager.CurrentUser())
}

func TestAdminEmailWithWrongPasswordIsStudent(t *testing.T) {
	f := newFixture(t)

	user, err := f.manager.Login(context.Background(), "admin@glassbird.com", "notadmin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
}

func TestProviderRejection(t *testing.T) {
	f := newFixture(t)
	f.provider.signInErr = fmt.Errorf("%w: account disabled", domain.ErrInvalidCredentials)

	_, err := f.manager.Login(context.Background(), "student@x.com", "longpassword")

	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "account disabled")
	assert.False(t, f.manager.Snapshot().IsLoading)
}

func TestProviderOutageIsNotCredentials(t *testing.T) {
	f := newFixture(t)
	outage := errors.New("connection refused")
	f.provider.signInErr = outage

	_, err := f.manager.Login(context.Background(), "student@x.com", "longpassword")

	require.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, f.manager.CurrentUser())
	assert.False(t, f.manager.Snapshot().IsLoading)
}

func TestLoginTimeout(t *testing.T) {
	f := newFixture(t)
	f.provider.block = true

	_, err := f.manager.Login(context.Background(), "student@x.com", "longpassword")

	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.False(t, f.manager.Snapshot().IsLoading)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "Alice", "a@x.com", "abc12")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = f.manager.Register(ctx, "A", "a@x.com", "abcdef")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Zero(t, f.provider.calls)

	user, err := f.manager.Register(ctx, "Al", "a@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "Al", user.DisplayName)
	assert.Equal(t, "new-id", user.ID)
	assert.False(t, f.manager.Snapshot().IsLoading)
}

func TestRegisterNameCountsRunes(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Register(context.Background(), "Я", "ya@x.com", "abcdef")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestRegisterProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.signUpErr = domain.ErrProfileWriteFailure

	_, err := f.manager.Register(context.Background(), "Al", "a@x.com", "abcdef")

	assert.ErrorIs(t, err, domain.ErrProfileWriteFailure)
	assert.Nil(t, f.manager.CurrentUser())
}

func TestLogoutThenRestoreReturnsNil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.manager.Login(ctx, "student@x.com", "longpassword")
	require.NoError(t, err)

	f.manager.Logout(ctx)
	assert.Nil(t, f.manager.CurrentUser())

	restored, err := session.NewStore(f.backend, "sid", logger.Nop()).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestSessionSurvivesReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.manager.Login(ctx, "student@x.com", "longpassword")
	require.NoError(t, err)

	reloaded := f.newManager()
	require.NoError(t, reloaded.Init(ctx))

	assert.Equal(t, user.ID, reloaded.CurrentUser().ID)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.UpdateUser(ctx, domain.UserPatch{EnrolledCourseIDs: []string{"python"}}))
	assert.Nil(t, f.manager.CurrentUser())

	_, err := f.manager.Login(ctx, "student@x.com", "longpassword")
	require.NoError(t, err)

	name := "Student One"
	require.NoError(t, f.manager.UpdateUser(ctx, domain.UserPatch{
		DisplayName:       &name,
		EnrolledCourseIDs: []string{"python", "python"},
		Progress:          map[string]domain.CourseProgress{"python": {Score: 5, CompletedLessonIDs: []string{"1-1"}}},
	}))
	require.NoError(t, f.manager.Enroll(ctx, "go"))

	user := f.manager.CurrentUser()
	assert.Equal(t, "Student One", user.DisplayName)
	assert.Equal(t, []string{"python", "go"}, user.EnrolledCourseIDs)
	assert.Equal(t, domain.RoleStudent, user.Role)

	err = f.manager.UpdateUser(ctx, domain.UserPatch{Progress: map[string]domain.CourseProgress{"python": {Score: 1}}})
	assert.ErrorIs(t, err, domain.ErrScoreDecrease)
	assert.Equal(t, 5, f.manager.CurrentUser().Progress["python"].Score)

	restored, err := session.NewStore(f.backend, "sid", logger.Nop()).Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Student One", restored.DisplayName)
	assert.Equal(t, []string{"1-1"}, restored.Progress["python"].CompletedLessonIDs)
}

func TestUpdateUserRejectsNegativeScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.manager.Login(ctx, "student@x.com", "longpassword")
	require.NoError(t, err)

	err = f.manager.UpdateUser(ctx, domain.UserPatch{Progress: map[string]domain.CourseProgress{"python": {Score: -7}}})

	assert.ErrorIs(t, err, domain.ErrInvalidScore)
	_, stored := f.manager.CurrentUser().Progress["python"]
	assert.False(t, stored)
}

func TestEnrollRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.manager.Enroll(context.Background(), "python"), domain.ErrUnauthenticated)
}
