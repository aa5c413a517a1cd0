package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all data-access interfaces.
type Repository struct {
	User         UserRepository
	Vessel       VesselRepository
	Defect       DefectRepository
	Thread       ThreadRepository
	Attachment   AttachmentRepository
	PrEntry      PrEntryRepository
	Task         TaskRepository
	Notification NotificationRepository

	db *gorm.DB
}

// NewRepository builds the aggregate over one gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Vessel:       NewVesselRepo(db),
		Defect:       NewDefectRepo(db),
		Thread:       NewThreadRepo(db),
		Attachment:   NewAttachmentRepo(db),
		PrEntry:      NewPrEntryRepo(db),
		Task:         NewTaskRepo(db),
		Notification: NewNotificationRepo(db),
		db:           db,
	}
}

// Transaction runs fn against a Repository bound to a single database
// transaction; any error from fn rolls everything back. Aggregates built
// without a db handle (unit tests with mock members) run fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
