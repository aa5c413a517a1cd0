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
	ErrThreadNotFound     = errors.New("thread not found")
	ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum size")
)

// ThreadService handles the per-defect chat: messages, mentions, and
// attachment metadata.
type ThreadService interface {
	// Create and CreateAttachment report false when the id was seen
	// before and the existing record is returned instead of a new one.
	Create(ctx context.Context, actorID string, req *dto.CreateThreadRequest) (*dto.ThreadResponse, bool, error)
	ListByDefect(ctx context.Context, actorID, defectID string) ([]dto.ThreadResponse, error)
	CreateAttachment(ctx context.Context, actorID string, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, bool, error)
}

type threadService struct {
	repo     *repository.Repository
	notifier *Notifier
	signer   URLSigner
	logger   *zap.Logger
}

// NewThreadService creates the ThreadService.
func NewThreadService(repo *repository.Repository, notifier *Notifier, signer URLSigner, logger *zap.Logger) ThreadService {
	return &threadService{repo: repo, notifier: notifier, signer: signer, logger: logger}
}

// Create posts a message. Tagging users spawns one task and one mention
// notification per tagged user, in the same transaction as the message
// itself. A retried id returns the existing message without re-tagging.
func (s *threadService) Create(ctx context.Context, actorID string, req *dto.CreateThreadRequest) (*dto.ThreadResponse, bool, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}

	defect, err := s.repo.Defect.GetByID(ctx, req.DefectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrDefectNotFound
		}
		return nil, false, err
	}
	if defect.IsDeleted {
		return nil, false, ErrDefectNotFound
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, false, ErrVesselNotAllowed
	}

	tagged := req.TaggedUserIDs
	if tagged == nil {
		tagged = []string{}
	}
	thread := &model.Thread{
		ThreadID:      req.ID,
		DefectID:      defect.DefectID,
		UserID:        actor.UserID,
		AuthorRole:    req.Author,
		Body:          req.Body,
		TaggedUserIDs: tagged,
	}

	var result *model.Thread
	var created bool
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var txErr error
		created, txErr = txRepo.Thread.CreateIdempotent(ctx, thread)
		if txErr != nil {
			return txErr
		}
		if !created {
			result, txErr = txRepo.Thread.GetByID(ctx, req.ID)
			return txErr
		}

		result = thread
		if len(tagged) == 0 {
			return nil
		}
		return s.notifier.CreateMentionTasks(ctx, txRepo, defect, actor.UserID, tagged)
	})
	if err != nil {
		s.logger.Error("creating thread failed",
			zap.String("thread_id", req.ID),
			zap.String("defect_id", req.DefectID),
			zap.Error(err))
		return nil, false, err
	}

	return s.toThreadResponse(result), created, nil
}

// ListByDefect returns the conversation oldest first. Attachment blob
// paths are swapped for fresh read URLs so the UI can render inline; a
// signing failure falls back to the raw path rather than dropping the
// attachment.
func (s *threadService) ListByDefect(ctx context.Context, actorID, defectID string) ([]dto.ThreadResponse, error) {
	actor, err := s.repo.User.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	defect, err := s.repo.Defect.GetByID(ctx, defectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefectNotFound
		}
		return nil, err
	}
	if actor.Role == model.RoleVessel && !actor.AssignedTo(defect.VesselIMO) {
		return nil, ErrVesselNotAllowed
	}

	threads, err := s.repo.Thread.ListByDefect(ctx, defectID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ThreadResponse, 0, len(threads))
	for i := range threads {
		result = append(result, *s.toThreadResponse(&threads[i]))
	}
	return result, nil
}

// CreateAttachment registers metadata for a blob the client already
// uploaded via a write SAS URL. Size is capped server-side as well.
func (s *threadService) CreateAttachment(ctx context.Context, actorID string, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, bool, error) {
	if req.FileSize > model.MaxAttachmentSize {
		return nil, false, fmt.Errorf("%w: %d bytes (max %d)", ErrAttachmentTooLarge, req.FileSize, model.MaxAttachmentSize)
	}

	if _, err := s.repo.Thread.GetByID(ctx, req.ThreadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrThreadNotFound
		}
		return nil, false, err
	}

	attachment := &model.Attachment{
		AttachmentID: req.ID,
		ThreadID:     req.ThreadID,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		ContentType:  req.ContentType,
		BlobPath:     req.BlobPath,
	}

	created, err := s.repo.Attachment.CreateIdempotent(ctx, attachment)
	if err != nil {
		s.logger.Error("creating attachment failed",
			zap.String("attachment_id", req.ID), zap.Error(err))
		return nil, false, err
	}
	if !created {
		existing, err := s.repo.Attachment.GetByID(ctx, req.ID)
		if err != nil {
			return nil, false, err
		}
		attachment = existing
	}

	return s.toAttachmentResponse(attachment), created, nil
}

func (s *threadService) toThreadResponse(t *model.Thread) *dto.ThreadResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(t.Attachments))
	for i := range t.Attachments {
		attachments = append(attachments, *s.toAttachmentResponse(&t.Attachments[i]))
	}

	tagged := []string(t.TaggedUserIDs)
	if tagged == nil {
		tagged = []string{}
	}

	return &dto.ThreadResponse{
		ID:              t.ThreadID,
		DefectID:        t.DefectID,
		UserID:          t.UserID,
		AuthorRole:      t.AuthorRole,
		Body:            t.Body,
		IsSystemMessage: t.IsSystemMessage,
		TaggedUserIDs:   tagged,
		Attachments:     attachments,
		CreatedAt:       t.CreatedAt,
	}
}

func (s *threadService) toAttachmentResponse(a *model.Attachment) *dto.AttachmentResponse {
	blobPath := a.BlobPath
	if url, err := s.signer.ReadURL(a.BlobPath); err == nil {
		blobPath = url
	} else {
		s.logger.Warn("signing attachment read url failed",
			zap.String("blob_path", a.BlobPath), zap.Error(err))
	}

	return &dto.AttachmentResponse{
		ID:          a.AttachmentID,
		ThreadID:    a.ThreadID,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		BlobPath:    blobPath,
		CreatedAt:   a.CreatedAt,
	}
}
