package repository

import (
	"context"
	"errors"
	"time"

	"glassbird/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileGorm struct {
	ID        string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"index;size:100"`
	Name      string `gorm:"size:100"`
	Role      string `gorm:"size:16;default:'student'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileGorm) TableName() string {
	return "profiles"
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert writes the profile row, overwriting email, name, role and
// updated_at when the id already exists.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	row := &ProfileGorm{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      string(p.Role),
		UpdatedAt: p.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "role", "updated_at"}),
	}).Create(row).Error
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var row ProfileGorm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.Profile{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Role:      domain.Role(row.Role),
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *ProfileRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Model(&ProfileGorm{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		}).Error
}
