package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/identity"
	"glassbird/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Account, error)
	SignUp(ctx context.Context, name, email, password string) (*identity.Account, error)
}

type Store interface {
	Restore(ctx context.Context) (*domain.User, error)
	Persist(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

type Options struct {
	AdminEmail    string
	AdminPassword string
	// Timeout bounds every provider call. Zero means 10s.
	Timeout time.Duration
	Now     func() time.Time
}

type Snapshot struct {
	User            *domain.User `json:"user"`
	IsLoading       bool         `json:"is_loading"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsAdmin         bool         `json:"is_admin"`
}

// Manager owns the signed-in user of one session. It starts loading until
// Init restores the persisted session.
type Manager struct {
	store    Store
	provider Provider
	opts     Options
	log      *logger.Logger

	mu        sync.Mutex
	user      *domain.User
	pending   int
	restoring bool
}

func NewManager(store Store, provider Provider, opts Options, log *logger.Logger) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		store:     store,
		provider:  provider,
		opts:      opts,
		log:       log.With("component", "auth.manager"),
		restoring: true,
	}
}

func (m *Manager) Init(ctx context.Context) error {
	user, err := m.store.Restore(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.restoring = false
	if err != nil {
		m.log.Error("failed to restore session", "error", err)
		return err
	}
	m.user = user
	return nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		User:            m.user.Clone(),
		IsLoading:       m.restoring || m.pending > 0,
		IsAuthenticated: m.user != nil,
		IsAdmin:         m.user.IsAdmin(),
	}
}

func (m *Manager) CurrentUser() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

func (m *Manager) begin() func() {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.pending--
		m.mu.Unlock()
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	defer m.begin()()

	isAdmin := email == m.opts.AdminEmail && password == m.opts.AdminPassword
	if !isAdmin && len(password) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}

	user := &domain.User{
		Email:             email,
		DisplayName:       domain.LocalPart(email),
		Role:              domain.RoleStudent,
		CreatedAt:         m.opts.Now(),
		EnrolledCourseIDs: []string{},
		Progress:          map[string]domain.CourseProgress{},
	}

	if isAdmin {
		user.Role = domain.RoleAdmin
	} else {
		account, err := m.callProvider(ctx, func(ctx context.Context) (*identity.Account, error) {
			return m.provider.SignIn(ctx, email, password)
		})
		if err != nil {
			return nil, err
		}
		user.ID = account.ID
		if account.Name != "" {
			user.DisplayName = account.Name
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	m.setUser(ctx, user)
	m.log.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return user.Clone(), nil
}

// ValidateRegistration applies the local sign-up rules, checked before any
// remote call.
func ValidateRegistration(name, password string) error {
	if len(password) < minPasswordLen {
		return domain.ErrWeakPassword
	}
	if utf8.RuneCountInString(name) < minNameLen {
		return domain.ErrInvalidName
	}
	return nil
}

func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	defer m.begin()()

	if err := ValidateRegistration(name, password); err != nil {
		return nil, err
	}

	account, err := m.callProvider(ctx, func(ctx context.Context) (*identity.Account, error) {
		return m.provider.SignUp(ctx, name, email, password)
	})
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:                account.ID,
		Email:             email,
		DisplayName:       name,
		Role:              domain.RoleStudent,
		CreatedAt:         m.opts.Now(),
		EnrolledCourseIDs: []string{},
		Progress:          map[string]domain.CourseProgress{},
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	m.setUser(ctx, user)
	m.log.Info("user registered", "user_id", user.ID)
	return user.Clone(), nil
}

func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error("failed to clear session", "error", err)
	}
}

// UpdateUser merges patch into the current user and persists the result.
// Without a current user it does nothing.
func (m *Manager) UpdateUser(ctx context.Context, patch domain.UserPatch) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return nil
	}
	next := m.user.Clone()
	for courseID, incoming := range patch.Progress {
		if incoming.Score < 0 {
			m.mu.Unlock()
			return fmt.Errorf("%w: course %s", domain.ErrInvalidScore, courseID)
		}
		if existing, ok := next.Progress[courseID]; ok && incoming.Score < existing.Score {
			m.mu.Unlock()
			return fmt.Errorf("%w: course %s", domain.ErrScoreDecrease, courseID)
		}
	}

	if patch.DisplayName != nil {
		next.DisplayName = *patch.DisplayName
	}
	if patch.EnrolledCourseIDs != nil {
		next.EnrolledCourseIDs = domain.MergeSet(next.EnrolledCourseIDs, patch.EnrolledCourseIDs)
	}
	for courseID, incoming := range patch.Progress {
		existing := next.Progress[courseID]
		merged := domain.CourseProgress{
			CompletedLessonIDs:   domain.MergeSet(existing.CompletedLessonIDs, incoming.CompletedLessonIDs),
			CompletedExerciseIDs: domain.MergeSet(existing.CompletedExerciseIDs, incoming.CompletedExerciseIDs),
			LastAccessedAt:       existing.LastAccessedAt,
			Score:                incoming.Score,
		}
		if incoming.LastAccessedAt.After(merged.LastAccessedAt) {
			merged.LastAccessedAt = incoming.LastAccessedAt
		}
		next.Progress[courseID] = merged
	}
	m.user = next
	m.mu.Unlock()

	return m.store.Persist(ctx, next)
}

// Enroll adds courseID to the current user's enrolled courses.
func (m *Manager) Enroll(ctx context.Context, courseID string) error {
	m.mu.Lock()
	authenticated := m.user != nil
	m.mu.Unlock()
	if !authenticated {
		return domain.ErrUnauthenticated
	}
	return m.UpdateUser(ctx, domain.UserPatch{EnrolledCourseIDs: []string{courseID}})
}

func (m *Manager) setUser(ctx context.Context, user *domain.User) {
	m.mu.Lock()
	m.user = user.Clone()
	m.mu.Unlock()

	if err := m.store.Persist(ctx, user); err != nil {
		m.log.Error("failed to persist session", "user_id", user.ID, "error", err)
	}
}

func (m *Manager) callProvider(ctx context.Context, call func(context.Context) (*identity.Account, error)) (*identity.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	account, err := call(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrTimeout
		}
		return nil, err
	}
	if account == nil {
		return &identity.Account{}, nil
	}
	return account, nil
}
