package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

var (
	ErrVesselNotFound = errors.New("vessel not found")
	ErrVesselExists   = errors.New("a vessel with this IMO already exists")
)

// VesselService manages the fleet registry.
type VesselService interface {
	Create(ctx context.Context, req *dto.CreateVesselRequest) (*dto.VesselResponse, error)
	Get(ctx context.Context, imo string) (*dto.VesselResponse, error)
	List(ctx context.Context) ([]dto.VesselResponse, error)
}

type vesselService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVesselService creates the VesselService.
func NewVesselService(repo *repository.Repository, logger *zap.Logger) VesselService {
	return &vesselService{repo: repo, logger: logger}
}

func (s *vesselService) Create(ctx context.Context, req *dto.CreateVesselRequest) (*dto.VesselResponse, error) {
	if !model.ValidIMO(req.IMO) {
		return nil, fmt.Errorf("%w: %q is not a 7-digit IMO number", ErrInvalidInput, req.IMO)
	}
	if _, err := s.repo.Vessel.GetByIMO(ctx, req.IMO); err == nil {
		return nil, ErrVesselExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vessel := &model.Vessel{
		IMO:        req.IMO,
		Name:       req.Name,
		Code:       req.Code,
		VesselType: req.VesselType,
		Email:      req.Email,
		IsActive:   true,
	}
	if err := s.repo.Vessel.Create(ctx, vessel); err != nil {
		s.logger.Error("creating vessel failed", zap.String("imo", req.IMO), zap.Error(err))
		return nil, err
	}
	return toVesselResponse(vessel), nil
}

func (s *vesselService) Get(ctx context.Context, imo string) (*dto.VesselResponse, error) {
	vessel, err := s.repo.Vessel.GetByIMO(ctx, imo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		return nil, err
	}
	return toVesselResponse(vessel), nil
}

func (s *vesselService) List(ctx context.Context) ([]dto.VesselResponse, error) {
	vessels, err := s.repo.Vessel.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.VesselResponse, 0, len(vessels))
	for i := range vessels {
		result = append(result, *toVesselResponse(&vessels[i]))
	}
	return result, nil
}

func toVesselResponse(v *model.Vessel) *dto.VesselResponse {
	return &dto.VesselResponse{
		IMO:        v.IMO,
		Name:       v.Name,
		Code:       v.Code,
		VesselType: v.VesselType,
		Email:      v.Email,
		IsActive:   v.IsActive,
		CreatedAt:  v.CreatedAt,
	}
}
