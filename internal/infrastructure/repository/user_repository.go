package repository

import (
	"context"
	"errors"
	"time"

	"glassbird/internal/domain"

	"gorm.io/gorm"
)

// Identity is a credential record owned by the identity provider.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}

type UserGorm struct {
	ID        string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"uniqueIndex;not null;size:100"`
	Password  string `gorm:"not null"`
	Confirmed bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserGorm) TableName() string {
	return "users"
}

func toGormUser(i *Identity) *UserGorm {
	return &UserGorm{
		ID:        i.ID,
		Email:     i.Email,
		Password:  i.PasswordHash,
		Confirmed: i.Confirmed,
		CreatedAt: i.CreatedAt,
	}
}

func toIdentity(u *UserGorm) *Identity {
	return &Identity{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.Password,
		Confirmed:    u.Confirmed,
		CreatedAt:    u.CreatedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, identity *Identity) error {
	gormUser := toGormUser(identity)

	result := r.db.WithContext(ctx).Create(gormUser)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return result.Error
	}

	identity.CreatedAt = gormUser.CreatedAt
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*Identity, error) {
	var userModel UserGorm

	err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return toIdentity(&userModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*Identity, error) {
	var userModel UserGorm

	err := r.db.WithContext(ctx).First(&userModel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return toIdentity(&userModel), nil
}

func (r *UserRepository) Confirm(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&UserGorm{}).
		Where("id = ?", id).
		Update("confirmed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserGorm{}).Error
}
