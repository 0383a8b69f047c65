package progress

import (
	"context"
	"errors"
	"sync"

	"glassbird/internal/domain"
	"glassbird/internal/platform/logger"
)

type Storage interface {
	Load(ctx context.Context, owner string) (domain.CompletionMap, bool, error)
	Save(ctx context.Context, owner string, snapshot domain.CompletionMap) error
}

// Tracker owns the completion map of one owner and persists it after
// every mutation.
type Tracker struct {
	owner   string
	storage Storage
	log     *logger.Logger

	mu        sync.Mutex
	completed domain.CompletionMap
}

// NewTracker loads the stored snapshot for owner. A missing or corrupt
// snapshot starts empty.
func NewTracker(ctx context.Context, owner string, storage Storage, log *logger.Logger) (*Tracker, error) {
	t := &Tracker{
		owner:   owner,
		storage: storage,
		log:     log.With("component", "progress.tracker", "owner", owner),
	}
	snapshot, _, err := storage.Load(ctx, owner)
	if err != nil {
		if !errors.Is(err, domain.ErrPersistenceCorruption) {
			return nil, err
		}
		t.log.Warn("discarding corrupt progress snapshot", "error", err)
		snapshot = domain.NewCompletionMap()
	}
	t.completed = snapshot.Clone()
	return t, nil
}

// MaxLessonsPerModule bounds the completion array of one module.
const MaxLessonsPerModule = 1000

func (t *Tracker) MarkLessonComplete(ctx context.Context, moduleID, lessonID int) error {
	if lessonID <= 0 || lessonID > MaxLessonsPerModule {
		return domain.ErrInvalidLesson
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	key := domain.ModuleKey(moduleID)
	flags := t.completed.Lessons[key]
	if len(flags) < lessonID {
		grown := make([]bool, lessonID)
		copy(grown, flags)
		flags = grown
	}
	flags[lessonID-1] = true
	t.completed.Lessons[key] = flags
	return t.persist(ctx)
}

func (t *Tracker) MarkSubLessonComplete(ctx context.Context, subLessonID string) error {
	if subLessonID == "" {
		return domain.ErrInvalidSubLesson
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed.SubLessons[subLessonID] = true
	return t.persist(ctx)
}

func (t *Tracker) IsLessonComplete(moduleID, lessonID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed.IsLessonComplete(moduleID, lessonID)
}

func (t *Tracker) IsSubLessonComplete(subLessonID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed.SubLessons[subLessonID]
}

func (t *Tracker) Snapshot() domain.CompletionMap {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed.Clone()
}

// persist is called with t.mu held.
func (t *Tracker) persist(ctx context.Context) error {
	if err := t.storage.Save(ctx, t.owner, t.completed.Clone()); err != nil {
		t.log.Error("failed to persist progress", "error", err)
		return err
	}
	return nil
}
