package service

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/config"
	"github.com/Staunch-Software/Drs-backend/internal/dto"
)

// BlobService mints time-boxed SAS URLs so clients talk to Azure Blob
// Storage directly; file bytes never pass through this backend.
type BlobService interface {
	UploadURL(fileName string) (*dto.UploadURLResponse, error)
	SignedURL(blobPath string) (*dto.SignedURLResponse, error)
	BatchSignedURLs(blobPaths []string) []dto.BatchSignedURLEntry
}

type blobService struct {
	cfg    *config.BlobConfig
	signer URLSigner
	logger *zap.Logger
}

// NewBlobService creates the BlobService.
func NewBlobService(cfg *config.Config, signer URLSigner, logger *zap.Logger) BlobService {
	return &blobService{cfg: &cfg.Blob, signer: signer, logger: logger}
}

// UploadURL mints a write-capable URL under a fresh unique blob name, so
// concurrent uploads of same-named files never collide.
func (s *blobService) UploadURL(fileName string) (*dto.UploadURLResponse, error) {
	blobName := fmt.Sprintf("uploads/%s/%s_%s",
		time.Now().UTC().Format("2006/01"), uuid.NewString(), sanitizeFileName(fileName))

	url, err := s.signer.WriteURL(blobName)
	if err != nil {
		s.logger.Error("minting upload url failed", zap.String("blob", blobName), zap.Error(err))
		return nil, err
	}
	return &dto.UploadURLResponse{URL: url, BlobPath: blobName}, nil
}

func (s *blobService) SignedURL(blobPath string) (*dto.SignedURLResponse, error) {
	url, err := s.signer.ReadURL(blobPath)
	if err != nil {
		s.logger.Error("minting read url failed", zap.String("blob", blobPath), zap.Error(err))
		return nil, err
	}
	return &dto.SignedURLResponse{
		URL:         url,
		BlobPath:    blobPath,
		ExpiryHours: int(s.cfg.ReadTTL / time.Hour),
	}, nil
}

// BatchSignedURLs signs each path independently; one bad path does not
// fail the batch.
func (s *blobService) BatchSignedURLs(blobPaths []string) []dto.BatchSignedURLEntry {
	entries := make([]dto.BatchSignedURLEntry, 0, len(blobPaths))
	for _, p := range blobPaths {
		url, err := s.signer.ReadURL(p)
		if err != nil {
			s.logger.Warn("minting read url failed", zap.String("blob", p), zap.Error(err))
			entries = append(entries, dto.BatchSignedURLEntry{BlobPath: p, Error: err.Error()})
			continue
		}
		entries = append(entries, dto.BatchSignedURLEntry{BlobPath: p, URL: url, Success: true})
	}
	return entries
}

// sanitizeFileName keeps only the base name and replaces characters that
// are awkward in blob names or URLs.
func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
