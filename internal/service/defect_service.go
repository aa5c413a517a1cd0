package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Staunch-Software/Drs-backend/internal/dto"
	"github.com/Staunch-Software/Drs-backend/internal/model"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
)

var (
	ErrDefectNotFound   = errors.New("defect not found")
	ErrVesselNotAllowed = errors.New("user is not assigned to this vessel")
	ErrDefectClosed     = errors.New("defect is already closed")
	ErrPrEntryNotFound  = errors.New("pr entry not found")
)

// DefectService implements the defect lifecycle:
// create → update/escalate → close → soft delete, with role-scoped
// visibility and notification fan-out on every state change.
type DefectService interface {
	List(ctx context.Context, actorID, vesselFilter string) ([]dto.DefectResponse, error)
	Get(ctx context.Context, actorID, defectID string) (*dto.DefectResponse, error)
	// Create reports false when the id was seen before and the existing
	// record is returned instead of a new one.
	Create(ctx context.Context, actorID string, req *dto.CreateDefectRequest) (*dto.DefectResponse, bool, error)
	Update(ctx context.Context, actorID, defectID string, req *dto.UpdateDefectRequest) (*dto.DefectResponse, error)
	Close(ctx context.Context, actorID, defectID string, req *dto.CloseDefectRequest) (*dto.DefectResponse, error)
	Delete(ctx context.Context, actorID, defectID string) error

	CreatePrEntry(ctx context.Context, actorID, defectID string, req *dto.CreatePrEntryRequest) (*dto.PrEntryResponse, error)
	ListPrEntries(ctx context.Context, actorID, defectID string) ([]dto.PrEntryResponse, error)
	DeletePrEntry(ctx context.Context, actorID, prEntryID string) error
}

type defectService struct {
	repo     *repository.Repository
	notifier *Notifier
	mailer   EmailService
	logger   *zap.Logger
}

// NewDefectService creates the DefectService.
func NewDefectService(repo *repository.Repository, notifier *Notifier, mailer EmailService, logger *zap.Logger) DefectService {
	return &defectService{repo: repo, notifier: notifier, mailer: mailer, logger: logger}
}

// List applies the role-scoped visibility rule: VESSEL users see only
// defects of their assigned ships (no assignments means an empty list);
// SHORE and ADMIN see the whole fleet, optionally narrowed to one vessel.
// Soft-deleted defects never appear.
func (s *defectService) List(ctx context.Context, actorID, vesselFilter string) ([]dto.DefectResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var filters repository.DefectListFilters
	if actor.Role == model.RoleVessel {
		filters.VesselIMOs = actor.VesselIMOs()
	} else {
		filters.VesselIMO = vesselFilter
	}

	defects, err := s.repo.Defect.List(ctx, filters)
	if err != nil {
		s.logger.Error("listing defects failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DefectResponse, 0, len(defects))
	for i := range defects {
		result = append(result, *toDefectResponse(&defects[i]))
	}
	return result, nil
}

// Get fetches one defect by id. Deleted defects stay fetchable for audit.
func (s *defectService) Get(ctx context.Context, actorID, defectID string) (*dto.DefectResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	defect, err := s.loadDefect(ctx, defectID, true)
	if err != nil {
		return nil, err
	}

	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}

	return toDefectResponse(defect), nil
}

func (s *defectService) Create(ctx context.Context, actorID string, req *dto.CreateDefectRequest) (*dto.DefectResponse, bool, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, false, err
	}

	priority, err := model.ParseDefectPriority(req.Priority)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	status, err := model.ParseDefectStatus(req.Status)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	source, err := model.ParseDefectSource(req.DefectSource)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	imo, err := s.resolveTargetVessel(actor, req.VesselIMO)
	if err != nil {
		return nil, false, err
	}
	vessel, err := s.repo.Vessel.GetByIMO(ctx, imo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrVesselNotFound
		}
		return nil, false, err
	}

	defect := &model.Defect{
		DefectID:            req.ID,
		VesselIMO:           vessel.IMO,
		ReportedByID:        actor.UserID,
		Title:               req.Title,
		EquipmentName:       req.EquipmentName,
		Description:         req.Description,
		DefectSource:        source,
		Priority:            priority,
		Status:              status,
		Responsibility:      req.Responsibility,
		PrStatus:            req.PrStatus,
		BeforeImageRequired: req.BeforeImageRequired,
		AfterImageRequired:  req.AfterImageRequired,
		BeforeImagePath:     req.BeforeImagePath,
		AfterImagePath:      req.AfterImagePath,
		DateIdentified:      req.DateIdentified,
		TargetCloseDate:     req.TargetCloseDate,
		JSONBackupPath:      req.JSONBackupPath,
	}

	var result *model.Defect
	var created bool
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var txErr error
		created, txErr = txRepo.Defect.CreateIdempotent(ctx, defect)
		if txErr != nil {
			return txErr
		}

		if !created {
			// A retry of an earlier submission: return the existing record
			// without re-firing any side effects.
			result, txErr = txRepo.Defect.GetByID(ctx, req.ID)
			return txErr
		}

		result = defect
		return s.notifier.NotifyVesselUsers(ctx, txRepo, defect, vessel.Name,
			"New Defect Reported",
			fmt.Sprintf("New defect reported: %s", defect.Title),
			actor.UserID,
		)
	})
	if err != nil {
		s.logger.Error("creating defect failed",
			zap.String("defect_id", req.ID), zap.Error(err))
		return nil, false, err
	}

	if created {
		s.mailer.SendDefectEvent(EmailDefectCreated, *result, vessel.Name)
	}

	return toDefectResponse(result), created, nil
}

// Update applies a partial patch. A priority change additionally writes a
// system thread narrating the change and re-fires notification fan-out;
// that synthetic chat entry doubles as the escalation audit trail.
func (s *defectService) Update(ctx context.Context, actorID, defectID string, req *dto.UpdateDefectRequest) (*dto.DefectResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	defect, err := s.loadDefect(ctx, defectID, false)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}

	oldPriority := defect.Priority
	if err := applyDefectPatch(defect, req); err != nil {
		return nil, err
	}
	priorityChanged := defect.Priority != oldPriority

	var vessel *model.Vessel
	if priorityChanged {
		if vessel, err = s.repo.Vessel.GetByIMO(ctx, defect.VesselIMO); err != nil {
			return nil, err
		}
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if txErr := txRepo.Defect.Update(ctx, defect); txErr != nil {
			return txErr
		}
		if !priorityChanged {
			return nil
		}

		systemThread := &model.Thread{
			DefectID:        defect.DefectID,
			UserID:          actor.UserID,
			AuthorRole:      "System",
			Body:            fmt.Sprintf("Priority changed from %s to %s", oldPriority, defect.Priority),
			IsSystemMessage: true,
		}
		if txErr := txRepo.Thread.Create(ctx, systemThread); txErr != nil {
			return txErr
		}

		return s.notifier.NotifyVesselUsers(ctx, txRepo, defect, vessel.Name,
			"Defect Priority Changed",
			fmt.Sprintf("Priority of '%s' changed from %s to %s", defect.Title, oldPriority, defect.Priority),
			actor.UserID,
		)
	})
	if err != nil {
		s.logger.Error("updating defect failed",
			zap.String("defect_id", defectID), zap.Error(err))
		return nil, err
	}

	if priorityChanged {
		s.mailer.SendDefectEvent(EmailDefectUpdated, *defect, vessel.Name)
	}

	return toDefectResponse(defect), nil
}

func (s *defectService) Close(ctx context.Context, actorID, defectID string, req *dto.CloseDefectRequest) (*dto.DefectResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	defect, err := s.loadDefect(ctx, defectID, false)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}
	if !defect.Closeable() {
		return nil, ErrDefectClosed
	}

	vessel, err := s.repo.Vessel.GetByIMO(ctx, defect.VesselIMO)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	defect.Status = model.StatusClosed
	defect.ClosedAt = &now
	defect.ClosedByID = &actor.UserID
	defect.ClosureRemarks = &req.ClosureRemarks
	defect.ClosureImageBefore = &req.ClosureImageBefore
	defect.ClosureImageAfter = &req.ClosureImageAfter

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if txErr := txRepo.Defect.Update(ctx, defect); txErr != nil {
			return txErr
		}

		systemThread := &model.Thread{
			DefectID:        defect.DefectID,
			UserID:          actor.UserID,
			AuthorRole:      "System",
			Body:            fmt.Sprintf("Defect closed by %s. Remarks: %s", actor.FullName, req.ClosureRemarks),
			IsSystemMessage: true,
		}
		if txErr := txRepo.Thread.Create(ctx, systemThread); txErr != nil {
			return txErr
		}

		return s.notifier.NotifyVesselUsers(ctx, txRepo, defect, vessel.Name,
			"Defect Closed",
			fmt.Sprintf("Defect closed: %s", defect.Title),
			actor.UserID,
		)
	})
	if err != nil {
		s.logger.Error("closing defect failed",
			zap.String("defect_id", defectID), zap.Error(err))
		return nil, err
	}

	s.mailer.SendDefectEvent(EmailDefectClosed, *defect, vessel.Name)

	return toDefectResponse(defect), nil
}

// Delete soft-deletes: the row is flagged and disappears from listings
// but stays queryable by id. Children are retained.
func (s *defectService) Delete(ctx context.Context, actorID, defectID string) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	defect, err := s.loadDefect(ctx, defectID, false)
	if err != nil {
		return err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return ErrVesselNotAllowed
	}

	vessel, err := s.repo.Vessel.GetByIMO(ctx, defect.VesselIMO)
	if err != nil {
		return err
	}

	// Snapshot before the flag flips: the removal email reports the
	// defect as it was.
	snapshot := *defect

	defect.IsDeleted = true
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Defect.Update(ctx, defect)
	})
	if err != nil {
		s.logger.Error("deleting defect failed",
			zap.String("defect_id", defectID), zap.Error(err))
		return err
	}

	s.mailer.SendDefectEvent(EmailDefectRemoved, snapshot, vessel.Name)

	return nil
}

// CreatePrEntry links a procurement request to an open defect.
func (s *defectService) CreatePrEntry(ctx context.Context, actorID, defectID string, req *dto.CreatePrEntryRequest) (*dto.PrEntryResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	defect, err := s.loadDefect(ctx, defectID, false)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}

	entry := &model.PrEntry{
		DefectID:      defect.DefectID,
		PrNumber:      req.PrNumber,
		PrDescription: req.PrDescription,
		CreatedByID:   &actor.UserID,
	}
	if err := s.repo.PrEntry.Create(ctx, entry); err != nil {
		s.logger.Error("creating pr entry failed",
			zap.String("defect_id", defectID), zap.Error(err))
		return nil, err
	}
	return toPrEntryResponse(entry), nil
}

func (s *defectService) ListPrEntries(ctx context.Context, actorID, defectID string) ([]dto.PrEntryResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	defect, err := s.loadDefect(ctx, defectID, true)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}

	entries, err := s.repo.PrEntry.ListByDefect(ctx, defectID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PrEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toPrEntryResponse(&entries[i]))
	}
	return result, nil
}

func (s *defectService) DeletePrEntry(ctx context.Context, actorID, prEntryID string) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	entry, err := s.repo.PrEntry.GetByID(ctx, prEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPrEntryNotFound
		}
		return err
	}
	defect, err := s.loadDefect(ctx, entry.DefectID, true)
	if err != nil {
		return err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return ErrVesselNotAllowed
	}

	return s.repo.PrEntry.Delete(ctx, prEntryID)
}

// ── helpers ──

func (s *defectService) loadActor(ctx context.Context, actorID string) (*model.User, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return actor, nil
}

// loadDefect fetches a defect. Deleted rows count as not found except
// when includeDeleted is set (the audit-style Get by id).
func (s *defectService) loadDefect(ctx context.Context, defectID string, includeDeleted bool) (*model.Defect, error) {
	defect, err := s.repo.Defect.GetByID(ctx, defectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, err
	}
	if defect.IsDeleted && !includeDeleted {
		return nil, ErrDefectNotFound
	}
	return defect, nil
}

// resolveTargetVessel picks the vessel a new defect belongs to. Fleet
// users default to their first assignment and may only report on ships
// they are assigned to; shore users must name the vessel explicitly.
func (s *defectService) resolveTargetVessel(actor *model.User, requested string) (string, error) {
	if actor.Role == model.RoleVessel {
		if requested == "" {
			if len(actor.Vessels) == 0 {
				return "", ErrVesselNotAllowed
			}
			return actor.Vessels[0].IMO, nil
		}
		if !actor.AssignedTo(requested) {
			return "", ErrVesselNotAllowed
		}
		return requested, nil
	}

	if requested == "" {
		return "", fmt.Errorf("%w: vessel_imo is required for shore-side reports", ErrInvalidInput)
	}
	if !model.ValidIMO(requested) {
		return "", fmt.Errorf("%w: %q is not a 7-digit IMO number", ErrInvalidInput, requested)
	}
	return requested, nil
}

func applyDefectPatch(defect *model.Defect, req *dto.UpdateDefectRequest) error {
	if req.Status != nil {
		if defect.Status == model.StatusClosed {
			// Closure is final as far as the generic update path goes.
			return ErrDefectClosed
		}
		status, err := model.ParseDefectStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		defect.Status = status
	}
	if req.Priority != nil {
		priority, err := model.ParseDefectPriority(*req.Priority)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		defect.Priority = priority
	}
	if req.DefectSource != nil {
		source, err := model.ParseDefectSource(*req.DefectSource)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		defect.DefectSource = source
	}

	if req.Title != nil {
		defect.Title = *req.Title
	}
	if req.EquipmentName != nil {
		defect.EquipmentName = *req.EquipmentName
	}
	if req.Description != nil {
		defect.Description = *req.Description
	}
	if req.Responsibility != nil {
		defect.Responsibility = req.Responsibility
	}
	if req.PrStatus != nil {
		defect.PrStatus = req.PrStatus
	}
	if req.BeforeImageRequired != nil {
		defect.BeforeImageRequired = *req.BeforeImageRequired
	}
	if req.AfterImageRequired != nil {
		defect.AfterImageRequired = *req.AfterImageRequired
	}
	if req.BeforeImagePath != nil {
		defect.BeforeImagePath = req.BeforeImagePath
	}
	if req.AfterImagePath != nil {
		defect.AfterImagePath = req.AfterImagePath
	}
	if req.DateIdentified != nil {
		defect.DateIdentified = req.DateIdentified
	}
	if req.TargetCloseDate != nil {
		defect.TargetCloseDate = req.TargetCloseDate
	}

	return nil
}

func toPrEntryResponse(e *model.PrEntry) *dto.PrEntryResponse {
	return &dto.PrEntryResponse{
		ID:            e.PrEntryID,
		DefectID:      e.DefectID,
		PrNumber:      e.PrNumber,
		PrDescription: e.PrDescription,
		CreatedByID:   e.CreatedByID,
		CreatedAt:     e.CreatedAt,
	}
}

func toDefectResponse(d *model.Defect) *dto.DefectResponse {
	return &dto.DefectResponse{
		ID:                  d.DefectID,
		VesselIMO:           d.VesselIMO,
		ReportedByID:        d.ReportedByID,
		Title:               d.Title,
		EquipmentName:       d.EquipmentName,
		Description:         d.Description,
		DefectSource:        string(d.DefectSource),
		Priority:            string(d.Priority),
		Status:              string(d.Status),
		Responsibility:      d.Responsibility,
		PrStatus:            d.PrStatus,
		BeforeImageRequired: d.BeforeImageRequired,
		AfterImageRequired:  d.AfterImageRequired,
		BeforeImagePath:     d.BeforeImagePath,
		AfterImagePath:      d.AfterImagePath,
		DateIdentified:      d.DateIdentified,
		TargetCloseDate:     d.TargetCloseDate,
		ClosedAt:            d.ClosedAt,
		ClosedByID:          d.ClosedByID,
		ClosureRemarks:      d.ClosureRemarks,
		ClosureImageBefore:  d.ClosureImageBefore,
		ClosureImageAfter:   d.ClosureImageAfter,
		IsDeleted:           d.IsDeleted,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
