package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"glassbird/internal/domain"
	"glassbird/internal/platform/logger"

	"github.com/google/uuid"
)

type IdentityAdmin interface {
	CreateIdentity(ctx context.Context, email, password string, confirmed bool) (string, error)
	DeleteIdentity(ctx context.Context, id string) error
}

type ProfileWriter interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type ConfirmationSender interface {
	SendConfirmationEmail(ctx context.Context, toEmail, name, token string) error
}

type TokenStore interface {
	SaveConfirmToken(ctx context.Context, token, userID string) error
}

type Registered struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UseCase struct {
	identities IdentityAdmin
	profiles   ProfileWriter
	log        *logger.Logger

	// optional email confirmation; nil sender means identities are created confirmed
	sender ConfirmationSender
	tokens TokenStore
	async  func(func())
}

func NewUseCase(identities IdentityAdmin, profiles ProfileWriter, log *logger.Logger) *UseCase {
	return &UseCase{
		identities: identities,
		profiles:   profiles,
		log:        log.With("component", "registration"),
		async:      func(fn func()) { go fn() },
	}
}

// WithConfirmation makes new identities unconfirmed until the emailed token is used.
func (uc *UseCase) WithConfirmation(sender ConfirmationSender, tokens TokenStore) *UseCase {
	uc.sender = sender
	uc.tokens = tokens
	return uc
}

func (uc *UseCase) Register(ctx context.Context, name, email, password string) (Registered, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return Registered{}, domain.ErrMissingFields
	}

	confirmed := uc.sender == nil
	id, err := uc.identities.CreateIdentity(ctx, email, password, confirmed)
	if err != nil {
		return Registered{}, err
	}

	profile := &domain.Profile{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      domain.RoleStudent,
		UpdatedAt: time.Now(),
	}
	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		uc.log.Error("profile write failed, removing identity", "user_id", id, "error", err)
		if delErr := uc.identities.DeleteIdentity(ctx, id); delErr != nil {
			uc.log.Error("failed to remove identity", "user_id", id, "error", delErr)
		}
		return Registered{}, fmt.Errorf("%w: %v", domain.ErrProfileWriteFailure, err)
	}

	if !confirmed {
		uc.sendConfirmation(ctx, id, email, name)
	}

	uc.log.Info("user registered", "user_id", id)
	return Registered{ID: id, Email: email, Name: name}, nil
}

func (uc *UseCase) sendConfirmation(ctx context.Context, id, email, name string) {
	token := uuid.NewString()
	if err := uc.tokens.SaveConfirmToken(ctx, token, id); err != nil {
		uc.log.Error("failed to save confirmation token", "user_id", id, "error", err)
		return
	}
	uc.async(func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.sender.SendConfirmationEmail(sendCtx, email, name, token); err != nil {
			uc.log.Error("failed to send confirmation email", "user_id", id, "error", err)
			return
		}
		uc.log.Info("confirmation email sent", "user_id", id)
	})
}
