package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Staunch-Software/Drs-backend/internal/model"
)

// AttachmentRepository is the attachment data-access interface.
type AttachmentRepository interface {
	CreateIdempotent(ctx context.Context, attachment *model.Attachment) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Attachment, error)
}

type attachmentRepo struct {
	db *gorm.DB
}

// NewAttachmentRepo creates the GORM-backed AttachmentRepository.
func NewAttachmentRepo(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) CreateIdempotent(ctx context.Context, attachment *model.Attachment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(attachment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attachmentRepo) GetByID(ctx context.Context, id string) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.db.WithContext(ctx).
		Where("attachment_id = ?", id).
		First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}
