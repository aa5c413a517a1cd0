package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/model"
)

// VesselRepository is the vessel data-access interface.
type VesselRepository interface {
	Create(ctx context.Context, vessel *model.Vessel) error
	GetByIMO(ctx context.Context, imo string) (*model.Vessel, error)
	GetByIMOWithUsers(ctx context.Context, imo string) (*model.Vessel, error)
	ListByIMOs(ctx context.Context, imos []string) ([]model.Vessel, error)
	List(ctx context.Context) ([]model.Vessel, error)
}

type vesselRepo struct {
	db *gorm.DB
}

// NewVesselRepo creates the GORM-backed VesselRepository.
func NewVesselRepo(db *gorm.DB) VesselRepository {
	return &vesselRepo{db: db}
}

func (r *vesselRepo) Create(ctx context.Context, vessel *model.Vessel) error {
	return r.db.WithContext(ctx).Create(vessel).Error
}

func (r *vesselRepo) GetByIMO(ctx context.Context, imo string) (*model.Vessel, error) {
	var vessel model.Vessel
	err := r.db.WithContext(ctx).
		Where("imo = ?", imo).
		First(&vessel).Error
	if err != nil {
		return nil, err
	}
	return &vessel, nil
}

func (r *vesselRepo) GetByIMOWithUsers(ctx context.Context, imo string) (*model.Vessel, error) {
	var vessel model.Vessel
	err := r.db.WithContext(ctx).
		Preload("Users").
		Where("imo = ?", imo).
		First(&vessel).Error
	if err != nil {
		return nil, err
	}
	return &vessel, nil
}

func (r *vesselRepo) ListByIMOs(ctx context.Context, imos []string) ([]model.Vessel, error) {
	var vessels []model.Vessel
	if len(imos) == 0 {
		return vessels, nil
	}
	err := r.db.WithContext(ctx).
		Where("imo IN ?", imos).
		Find(&vessels).Error
	return vessels, err
}

func (r *vesselRepo) List(ctx context.Context) ([]model.Vessel, error) {
	var vessels []model.Vessel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&vessels).Error
	return vessels, err
}
