package identity

import (
	"context"
	"sync"
	"time"

	"glassbird/internal/domain"

	"github.com/google/uuid"
)

// Simulated accepts every credential pair after a fixed delay. It stands in
// for a remote provider in demos and local runs.
type Simulated struct {
	delay time.Duration

	mu         sync.Mutex
	identities map[string]string // email -> id
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay, identities: map[string]string{}}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Simulated) SignIn(ctx context.Context, email, _ string) (*Account, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	id := s.identities[email]
	s.mu.Unlock()
	return &Account{ID: id, Email: email, Role: domain.RoleStudent}, nil
}

func (s *Simulated) SignUp(ctx context.Context, name, email, password string) (*Account, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	id, err := s.CreateIdentity(ctx, email, password, true)
	if err != nil {
		return nil, err
	}
	return &Account{ID: id, Email: email, Name: name, Role: domain.RoleStudent}, nil
}

func (s *Simulated) CreateIdentity(_ context.Context, email, _ string, _ bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[email]; ok {
		return "", domain.ErrUserAlreadyExists
	}
	id := uuid.NewString()
	s.identities[email] = id
	return id, nil
}

func (s *Simulated) DeleteIdentity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, known := range s.identities {
		if known == id {
			delete(s.identities, email)
		}
	}
	return nil
}

func (s *Simulated) ConfirmIdentity(context.Context, string) error {
	return nil
}
