package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/config"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
	"github.com/Staunch-Software/Drs-backend/pkg/jwt"
	"github.com/Staunch-Software/Drs-backend/pkg/redis"
)

// ErrInvalidInput marks request payloads that fail domain validation,
// e.g. an unknown enum value. Wrapped errors carry the specifics.
var ErrInvalidInput = errors.New("invalid input")

// URLSigner mints time-boxed blob URLs. Satisfied by pkg/blob.Signer.
type URLSigner interface {
	WriteURL(blobName string) (string, error)
	ReadURL(blobPath string) (string, error)
}

// Service aggregates all business services.
type Service struct {
	Auth   AuthService
	User   UserService
	Vessel VesselService
	Defect DefectService
	Thread ThreadService
	Blob   BlobService
	Export ExportService
}

// NewService wires the service aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	signer URLSigner,
	logger *zap.Logger,
) *Service {
	notifier := NewNotifier(logger)
	mailer := NewEmailService(&cfg.Mail, repo, logger)

	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, rdb, logger),
		User:   NewUserService(repo, logger),
		Vessel: NewVesselService(repo, logger),
		Defect: NewDefectService(repo, notifier, mailer, logger),
		Thread: NewThreadService(repo, notifier, signer, logger),
		Blob:   NewBlobService(cfg, signer, logger),
		Export: NewExportService(repo, logger),
	}
}
