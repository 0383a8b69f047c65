// Package workspace hands out the per-session auth managers and the
// per-profile course navigators, building them on first use.
package workspace

import (
	"context"
	"sync"
	"time"

	"glassbird/internal/application/auth"
	"glassbird/internal/application/navigation"
	"glassbird/internal/application/progress"
	"glassbird/internal/application/session"
	"glassbird/internal/domain"
	"glassbird/internal/platform/logger"
)

type Outlines interface {
	Get(courseID string) (*domain.Outline, error)
}

type Deps struct {
	Sessions    session.Backend
	Provider    auth.Provider
	AuthOptions auth.Options
	Progress    progress.Storage
	Outlines    Outlines
	Resolver    navigation.Resolver
	// NavigationOptions builds the callbacks of a new navigator; may be nil.
	NavigationOptions func(profileID, courseID string) navigation.Options
	Log               *logger.Logger
}

type managerEntry struct {
	manager  *auth.Manager
	lastUsed time.Time
}

type courseKey struct {
	profileID string
	courseID  string
}

type courseEntry struct {
	tracker   *progress.Tracker
	navigator *navigation.Navigator
	lastUsed  time.Time
}

type Registry struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	managers map[string]*managerEntry
	courses  map[courseKey]*courseEntry
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps,
		now:      time.Now,
		managers: map[string]*managerEntry{},
		courses:  map[courseKey]*courseEntry{},
	}
}

// Manager returns the auth manager of sessionID, restoring its persisted
// session the first time.
func (r *Registry) Manager(ctx context.Context, sessionID string) (*auth.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.managers[sessionID]; ok {
		e.lastUsed = r.now()
		return e.manager, nil
	}

	store := session.NewStore(r.deps.Sessions, sessionID, r.deps.Log)
	m := auth.NewManager(store, r.deps.Provider, r.deps.AuthOptions, r.deps.Log)
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	r.managers[sessionID] = &managerEntry{manager: m, lastUsed: r.now()}
	return m, nil
}

// Course returns the navigator and tracker of (profileID, courseID). A new
// navigator starts at the first lesson.
func (r *Registry) Course(ctx context.Context, profileID, courseID string) (*navigation.Navigator, *progress.Tracker, error) {
	key := courseKey{profileID: profileID, courseID: courseID}

	r.mu.Lock()
	if e, ok := r.courses[key]; ok {
		e.lastUsed = r.now()
		r.mu.Unlock()
		return e.navigator, e.tracker, nil
	}
	r.mu.Unlock()

	outline, err := r.deps.Outlines.Get(courseID)
	if err != nil {
		return nil, nil, err
	}
	tracker, err := progress.NewTracker(ctx, profileID+":"+courseID, r.deps.Progress, r.deps.Log)
	if err != nil {
		return nil, nil, err
	}
	var opts navigation.Options
	if r.deps.NavigationOptions != nil {
		opts = r.deps.NavigationOptions(profileID, courseID)
	}
	nav := navigation.New(outline, tracker, r.deps.Resolver, opts, r.deps.Log.With("profile_id", profileID))

	r.mu.Lock()
	if e, ok := r.courses[key]; ok {
		// another request built it first
		e.lastUsed = r.now()
		r.mu.Unlock()
		return e.navigator, e.tracker, nil
	}
	r.courses[key] = &courseEntry{tracker: tracker, navigator: nav, lastUsed: r.now()}
	r.mu.Unlock()

	if err := nav.Start(ctx); err != nil {
		return nil, nil, err
	}
	return nav, tracker, nil
}

// Sweep drops everything unused for longer than idle. Dropped entries are
// rebuilt from persisted state on next use.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, e := range r.managers {
		if e.lastUsed.Before(cutoff) {
			delete(r.managers, id)
			dropped++
		}
	}
	for key, e := range r.courses {
		if e.lastUsed.Before(cutoff) {
			delete(r.courses, key)
			dropped++
		}
	}
	return dropped
}

// SweepEvery runs Sweep on a ticker until ctx is done.
func (r *Registry) SweepEvery(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.deps.Log.Debug("swept idle workspace entries", "count", n)
			}
		}
	}
}
