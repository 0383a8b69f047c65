package registration

import (
	"context"
	"errors"
	"fmt"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
)

var ErrInvalidConfirmToken = errors.New("invalid or expired confirmation token")

type ConfirmTokenStore interface {
	GetConfirmToken(ctx context.Context, token string) (string, error)
	DeleteConfirmToken(ctx context.Context, token string) error
}

type IdentityConfirmer interface {
	ConfirmIdentity(ctx context.Context, id string) error
}

// ConfirmUseCase redeems emailed confirmation tokens.
type ConfirmUseCase struct {
	tokens     ConfirmTokenStore
	identities IdentityConfirmer
}

func NewConfirmUseCase(tokens ConfirmTokenStore, identities IdentityConfirmer) *ConfirmUseCase {
	return &ConfirmUseCase{tokens: tokens, identities: identities}
}

func (uc *ConfirmUseCase) Confirm(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidConfirmToken
	}
	userID, err := uc.tokens.GetConfirmToken(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return ErrInvalidConfirmToken
		}
		return err
	}
	// consume first so a token can never be redeemed twice
	if err := uc.tokens.DeleteConfirmToken(ctx, token); err != nil {
		return fmt.Errorf("consume confirmation token: %w", err)
	}
	if err := uc.identities.ConfirmIdentity(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ErrInvalidConfirmToken
		}
		return err
	}
	return nil
}
