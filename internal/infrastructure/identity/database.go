package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/repository"
	"glassbird/internal/infrastructure/security"
	"glassbird/internal/platform/logger"

	"github.com/google/uuid"
)

type Database struct {
	users            *repository.UserRepository
	profiles         *repository.ProfileRepository
	hasher           *security.PasswordHasher
	requireConfirmed bool
	log              *logger.Logger
}

func NewDatabase(
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	hasher *security.PasswordHasher,
	requireConfirmed bool,
	log *logger.Logger,
) *Database {
	return &Database{
		users:            users,
		profiles:         profiles,
		hasher:           hasher,
		requireConfirmed: requireConfirmed,
		log:              log.With("component", "identity.database"),
	}
}

func (d *Database) SignIn(ctx context.Context, email, password string) (*Account, error) {
	identity, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := d.hasher.Compare(identity.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if d.requireConfirmed && !identity.Confirmed {
		return nil, fmt.Errorf("%w: email not confirmed", domain.ErrInvalidCredentials)
	}

	account := &Account{ID: identity.ID, Email: identity.Email, Role: domain.RoleStudent}
	profile, err := d.profiles.GetByID(ctx, identity.ID)
	switch {
	case err == nil:
		account.Name = profile.Name
		if profile.Role != "" {
			account.Role = profile.Role
		}
	case errors.Is(err, domain.ErrUserNotFound):
		d.log.Warn("identity has no profile", "user_id", identity.ID)
	default:
		return nil, err
	}
	return account, nil
}

// SignUp creates an identity with its student profile. The identity starts
// unconfirmed when confirmation is required. A failed profile write removes
// the identity again.
func (d *Database) SignUp(ctx context.Context, name, email, password string) (*Account, error) {
	id, err := d.CreateIdentity(ctx, email, password, !d.requireConfirmed)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{ID: id, Email: email, Name: name, Role: domain.RoleStudent, UpdatedAt: time.Now()}
	if err := d.profiles.Upsert(ctx, profile); err != nil {
		if delErr := d.DeleteIdentity(ctx, id); delErr != nil {
			d.log.Error("failed to roll back identity", "user_id", id, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileWriteFailure, err)
	}
	return &Account{ID: id, Email: email, Name: name, Role: domain.RoleStudent}, nil
}

func (d *Database) CreateIdentity(ctx context.Context, email, password string, confirmed bool) (string, error) {
	hash, err := d.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	identity := &repository.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Confirmed:    confirmed,
	}
	if err := d.users.Create(ctx, identity); err != nil {
		return "", err
	}
	return identity.ID, nil
}

func (d *Database) DeleteIdentity(ctx context.Context, id string) error {
	return d.users.Delete(ctx, id)
}

func (d *Database) ConfirmIdentity(ctx context.Context, id string) error {
	return d.users.Confirm(ctx, id)
}
