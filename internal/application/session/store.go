package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/platform/logger"
)

// Backend persists one opaque record per session id. Load returns
// cache.ErrMiss when nothing is stored.
type Backend interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// Store keeps the signed-in user of one session.
type Store struct {
	backend   Backend
	sessionID string
	log       *logger.Logger
}

func NewStore(backend Backend, sessionID string, log *logger.Logger) *Store {
	return &Store{
		backend:   backend,
		sessionID: sessionID,
		log:       log.With("component", "session.store", "session_id", sessionID),
	}
}

// Restore returns the persisted user, or nil when there is none. A record
// that cannot be decoded is removed and treated as absent.
func (s *Store) Restore(ctx context.Context) (*domain.User, error) {
	raw, err := s.backend.Load(ctx, s.sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, nil
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		if err == nil {
			err = errors.New("record has no user id")
		}
		s.log.Warn("discarding corrupt session record", "error", fmt.Errorf("%w: %v", domain.ErrPersistenceCorruption, err))
		if clearErr := s.backend.Delete(ctx, s.sessionID); clearErr != nil {
			s.log.Error("failed to clear corrupt session record", "error", clearErr)
		}
		return nil, nil
	}
	if user.EnrolledCourseIDs == nil {
		user.EnrolledCourseIDs = []string{}
	}
	if user.Progress == nil {
		user.Progress = map[string]domain.CourseProgress{}
	}
	return &user, nil
}

func (s *Store) Persist(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, s.sessionID, raw)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.sessionID)
}
