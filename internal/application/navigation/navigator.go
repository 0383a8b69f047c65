package navigation

import (
	"context"
	"sync"
	"time"

	"glassbird/internal/domain"
	"glassbird/internal/platform/logger"
)

type Tracker interface {
	MarkLessonComplete(ctx context.Context, moduleID, lessonID int) error
	MarkSubLessonComplete(ctx context.Context, subLessonID string) error
	IsLessonComplete(moduleID, lessonID int) bool
	IsSubLessonComplete(subLessonID string) bool
}

type Resolver interface {
	Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error)
}

type StateKind string

const (
	NoPosition        StateKind = "no-position"
	LessonSelected    StateKind = "lesson-selected"
	SubLessonSelected StateKind = "sub-lesson-selected"
)

type Options struct {
	// OnPanelToggle runs after a lesson selected in compact layout.
	OnPanelToggle func()
	// OnContent receives every content result that is applied.
	OnContent      func(domain.Content)
	ResolveTimeout time.Duration
}

type NodeView struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type SubLessonView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type State struct {
	State      StateKind        `json:"state"`
	Position   *domain.Position `json:"position,omitempty"`
	Module     *NodeView        `json:"module,omitempty"`
	Lesson     *NodeView        `json:"lesson,omitempty"`
	SubLesson  *SubLessonView   `json:"subLesson,omitempty"`
	Content    *domain.Content  `json:"content,omitempty"`
	Resolving  bool             `json:"resolving"`
	Generation uint64           `json:"generation"`
}

type SubLessonState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Available bool   `json:"available"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// Navigator tracks the reader's position in one course outline and the
// content shown for it. Content is resolved asynchronously; only the result
// of the latest selection is ever applied.
type Navigator struct {
	outline  *domain.Outline
	tracker  Tracker
	resolver Resolver
	opts     Options
	log      *logger.Logger

	mu         sync.Mutex
	position   *domain.Position
	content    *domain.Content
	generation uint64
	resolving  bool
	settled    chan struct{}
	cancel     context.CancelFunc
}

func New(outline *domain.Outline, tracker Tracker, resolver Resolver, opts Options, log *logger.Logger) *Navigator {
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = 15 * time.Second
	}
	return &Navigator{
		outline:  outline,
		tracker:  tracker,
		resolver: resolver,
		opts:     opts,
		log:      log.With("component", "navigation", "course_id", outline.CourseID),
	}
}

// Start opens the first lesson of the outline unless a position is already set.
func (n *Navigator) Start(ctx context.Context) error {
	n.mu.Lock()
	started := n.position != nil
	n.mu.Unlock()
	if started {
		return nil
	}
	first, ok := n.outline.First()
	if !ok {
		return nil
	}
	return n.SelectLesson(ctx, first.ModuleID, first.LessonID, false)
}

// SelectLesson moves to a lesson, marks it complete and clears any
// sub-lesson selection.
func (n *Navigator) SelectLesson(ctx context.Context, moduleID, lessonID int, compact bool) error {
	_, lesson, ok := n.outline.FindLesson(moduleID, lessonID)
	if !ok {
		return domain.ErrUnknownLesson
	}

	if err := n.tracker.MarkLessonComplete(ctx, moduleID, lessonID); err != nil {
		n.log.Warn("lesson completion not saved", "module_id", moduleID, "lesson_id", lessonID, "error", err)
	}

	n.mu.Lock()
	n.position = &domain.Position{ModuleID: moduleID, LessonID: lessonID}
	notify := n.startResolveLocked(ctx, lesson.Content, lesson.Title)
	toggle := n.opts.OnPanelToggle
	n.mu.Unlock()

	notify()
	if compact && toggle != nil {
		toggle()
	}
	return nil
}

// SelectSubLesson opens a sub-lesson of the current lesson. The first
// sub-lesson is always open; every other one opens once its predecessor
// is complete.
func (n *Navigator) SelectSubLesson(ctx context.Context, subLessonID string) error {
	n.mu.Lock()
	if n.position == nil {
		n.mu.Unlock()
		return domain.ErrUnknownSubLesson
	}
	_, lesson, ok := n.outline.FindLesson(n.position.ModuleID, n.position.LessonID)
	if !ok {
		n.mu.Unlock()
		return domain.ErrUnknownSubLesson
	}
	idx := lesson.SubLessonIndex(subLessonID)
	if idx < 0 {
		n.mu.Unlock()
		return domain.ErrUnknownSubLesson
	}
	if idx > 0 && !n.tracker.IsSubLessonComplete(lesson.SubLessons[idx-1].ID) {
		n.mu.Unlock()
		return domain.ErrSubLessonLocked
	}

	sub := lesson.SubLessons[idx]
	n.position = &domain.Position{ModuleID: n.position.ModuleID, LessonID: n.position.LessonID, SubLessonID: sub.ID}
	notify := n.startResolveLocked(ctx, sub.Content, sub.Title)
	n.mu.Unlock()

	notify()

	if err := n.tracker.MarkSubLessonComplete(ctx, sub.ID); err != nil {
		n.log.Warn("sub-lesson completion not saved", "sub_lesson_id", sub.ID, "error", err)
	}
	return nil
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := State{State: NoPosition, Resolving: n.resolving, Generation: n.generation}
	if n.position == nil {
		return st
	}
	pos := *n.position
	st.Position = &pos
	st.State = LessonSelected

	module, lesson, ok := n.outline.FindLesson(pos.ModuleID, pos.LessonID)
	if ok {
		st.Module = &NodeView{ID: module.ID, Title: module.Title}
		st.Lesson = &NodeView{ID: lesson.ID, Title: lesson.Title}
		if pos.SubLessonID != "" {
			if idx := lesson.SubLessonIndex(pos.SubLessonID); idx >= 0 {
				st.State = SubLessonSelected
				st.SubLesson = &SubLessonView{ID: lesson.SubLessons[idx].ID, Title: lesson.SubLessons[idx].Title}
			}
		}
	}
	if n.content != nil {
		c := *n.content
		st.Content = &c
	}
	return st
}

// Availability projects the sub-lessons of the current lesson with their
// lock state.
func (n *Navigator) Availability() []SubLessonState {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.position == nil {
		return nil
	}
	_, lesson, ok := n.outline.FindLesson(n.position.ModuleID, n.position.LessonID)
	if !ok {
		return nil
	}
	out := make([]SubLessonState, len(lesson.SubLessons))
	prevDone := true
	for i, s := range lesson.SubLessons {
		done := n.tracker.IsSubLessonComplete(s.ID)
		out[i] = SubLessonState{
			ID:        s.ID,
			Title:     s.Title,
			Available: i == 0 || prevDone,
			Completed: done,
			Current:   n.position.SubLessonID == s.ID,
		}
		prevDone = done
	}
	return out
}

func (n *Navigator) Outline() *domain.Outline {
	return n.outline
}

// Wait blocks until the content of the latest selection is applied.
func (n *Navigator) Wait(ctx context.Context) error {
	for {
		n.mu.Lock()
		if !n.resolving {
			n.mu.Unlock()
			return nil
		}
		ch := n.settled
		n.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// settleLocked releases waiters of the current resolution.
func (n *Navigator) settleLocked() {
	if n.resolving {
		close(n.settled)
		n.resolving = false
	}
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

// startResolveLocked bumps the generation and begins resolving ref. The
// returned func delivers content that was available synchronously and must
// be called after n.mu is released.
func (n *Navigator) startResolveLocked(ctx context.Context, ref *domain.ContentRef, title string) func() {
	n.settleLocked()
	n.generation++
	n.content = nil

	if ref == nil {
		c := domain.UnderDevelopment(title)
		n.content = &c
		cb := n.opts.OnContent
		return func() {
			if cb != nil {
				cb(c)
			}
		}
	}

	gen := n.generation
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.opts.ResolveTimeout)
	n.cancel = cancel
	n.resolving = true
	n.settled = make(chan struct{})

	go n.resolve(rctx, cancel, gen, *ref, title)
	return func() {}
}

func (n *Navigator) resolve(ctx context.Context, cancel context.CancelFunc, gen uint64, ref domain.ContentRef, title string) {
	defer cancel()

	c, err := n.resolver.Resolve(ctx, ref)
	if err != nil {
		n.log.Warn("content resolution failed", "kind", ref.Kind, "location", ref.Location, "error", err)
		c = domain.TemporarilyUnavailable(title)
	}
	if c.Title == "" {
		c.Title = title
	}

	n.mu.Lock()
	if gen != n.generation {
		n.mu.Unlock()
		n.log.Debug("dropping stale content", "generation", gen)
		return
	}
	n.content = &c
	n.cancel = nil
	n.settleLocked()
	cb := n.opts.OnContent
	n.mu.Unlock()

	if cb != nil {
		cb(c)
	}
}
