package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Staunch-Software/Drs-backend/internal/model"
)

// ThreadRepository is the thread data-access interface.
type ThreadRepository interface {
	// CreateIdempotent inserts the thread unless its id already exists,
	// reporting whether the insert happened.
	CreateIdempotent(ctx context.Context, thread *model.Thread) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Thread, error)
	Create(ctx context.Context, thread *model.Thread) error
	ListByDefect(ctx context.Context, defectID string) ([]model.Thread, error)
}

type threadRepo struct {
	db *gorm.DB
}

// NewThreadRepo creates the GORM-backed ThreadRepository.
func NewThreadRepo(db *gorm.DB) ThreadRepository {
	return &threadRepo{db: db}
}

func (r *threadRepo) CreateIdempotent(ctx context.Context, thread *model.Thread) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(thread)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *threadRepo) Create(ctx context.Context, thread *model.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepo) GetByID(ctx context.Context, id string) (*model.Thread, error) {
	var thread model.Thread
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("thread_id = ?", id).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepo) ListByDefect(ctx context.Context, defectID string) ([]model.Thread, error) {
	var threads []model.Thread
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("defect_id = ?", defectID).
		Order("created_at ASC").
		Find(&threads).Error
	return threads, err
}
