package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glassbird/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressSnapshot stores one CompletionMap per owner key
// (typically "<profile>:<course>").
type ProgressSnapshot struct {
	OwnerKey  string         `gorm:"primaryKey;size:128"`
	Data      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (ProgressSnapshot) TableName() string {
	return "progress_snapshots"
}

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Load returns found=false when nothing was ever saved for owner.
func (r *ProgressRepository) Load(ctx context.Context, owner string) (domain.CompletionMap, bool, error) {
	var row ProgressSnapshot
	err := r.db.WithContext(ctx).Where("owner_key = ?", owner).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewCompletionMap(), false, nil
		}
		return domain.CompletionMap{}, false, err
	}

	snapshot := domain.NewCompletionMap()
	if err := json.Unmarshal(row.Data, &snapshot); err != nil {
		return domain.NewCompletionMap(), false, fmt.Errorf("%w: %v", domain.ErrPersistenceCorruption, err)
	}
	if snapshot.Lessons == nil {
		snapshot.Lessons = map[string][]bool{}
	}
	if snapshot.SubLessons == nil {
		snapshot.SubLessons = map[string]bool{}
	}
	return snapshot, true, nil
}

func (r *ProgressRepository) Save(ctx context.Context, owner string, snapshot domain.CompletionMap) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	row := &ProgressSnapshot{
		OwnerKey:  owner,
		Data:      datatypes.JSON(data),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(row).Error
}
