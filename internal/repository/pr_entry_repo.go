package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/model"
)

// PrEntryRepository is the procurement-request data-access interface.
type PrEntryRepository interface {
	Create(ctx context.Context, entry *model.PrEntry) error
	GetByID(ctx context.Context, id string) (*model.PrEntry, error)
	ListByDefect(ctx context.Context, defectID string) ([]model.PrEntry, error)
	Delete(ctx context.Context, id string) error
}

type prEntryRepo struct {
	db *gorm.DB
}

// NewPrEntryRepo creates the GORM-backed PrEntryRepository.
func NewPrEntryRepo(db *gorm.DB) PrEntryRepository {
	return &prEntryRepo{db: db}
}

func (r *prEntryRepo) Create(ctx context.Context, entry *model.PrEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *prEntryRepo) GetByID(ctx context.Context, id string) (*model.PrEntry, error) {
	var entry model.PrEntry
	err := r.db.WithContext(ctx).
		Where("pr_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *prEntryRepo) ListByDefect(ctx context.Context, defectID string) ([]model.PrEntry, error) {
	var entries []model.PrEntry
	err := r.db.WithContext(ctx).
		Where("defect_id = ?", defectID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *prEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("pr_entry_id = ?", id).
		Delete(&model.PrEntry{}).Error
}
