package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Staunch-Software/Drs-backend/internal/model"
)

// DefectListFilters narrows a defect listing. A non-nil empty VesselIMOs
// slice means "restrict to these vessels" and yields nothing.
type DefectListFilters struct {
	VesselIMOs []string // fleet-side membership restriction
	VesselIMO  string   // explicit shore-side filter
}

// DefectRepository is the defect data-access interface.
type DefectRepository interface {
	// CreateIdempotent inserts the defect unless a row with the same id
	// already exists, reporting whether the insert happened. The conflict
	// target is the primary key, so concurrent duplicate submissions
	// cannot race past the check.
	CreateIdempotent(ctx context.Context, defect *model.Defect) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Defect, error)
	List(ctx context.Context, filters DefectListFilters) ([]model.Defect, error)
	Update(ctx context.Context, defect *model.Defect) error
}

type defectRepo struct {
	db *gorm.DB
}

// NewDefectRepo creates the GORM-backed DefectRepository.
func NewDefectRepo(db *gorm.DB) DefectRepository {
	return &defectRepo{db: db}
}

func (r *defectRepo) CreateIdempotent(ctx context.Context, defect *model.Defect) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(defect)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *defectRepo) GetByID(ctx context.Context, id string) (*model.Defect, error) {
	var defect model.Defect
	err := r.db.WithContext(ctx).
		Preload("PrEntries").
		Where("defect_id = ?", id).
		First(&defect).Error
	if err != nil {
		return nil, err
	}
	return &defect, nil
}

func (r *defectRepo) List(ctx context.Context, filters DefectListFilters) ([]model.Defect, error) {
	var defects []model.Defect

	db := r.db.WithContext(ctx).Where("is_deleted = ?", false)

	if filters.VesselIMOs != nil {
		if len(filters.VesselIMOs) == 0 {
			return defects, nil
		}
		db = db.Where("vessel_imo IN ?", filters.VesselIMOs)
	} else if filters.VesselIMO != "" {
		db = db.Where("vessel_imo = ?", filters.VesselIMO)
	}

	err := db.Order("created_at DESC").Find(&defects).Error
	return defects, err
}

func (r *defectRepo) Update(ctx context.Context, defect *model.Defect) error {
	return r.db.WithContext(ctx).Save(defect).Error
}
