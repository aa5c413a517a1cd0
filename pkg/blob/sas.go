// Package blob mints time-boxed Azure Blob Storage SAS URLs. Signing is
// fully delegated to the vendor SDK; the package keeps no state beyond the
// shared key credential.
package blob

import (
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/Staunch-Software/Drs-backend/config"
)

// Signer issues read and write SAS URLs for blobs in one container.
type Signer struct {
	accountName string
	container   string
	writeTTL    time.Duration
	readTTL     time.Duration
	clockSkew   time.Duration
	cred        *azblob.SharedKeyCredential
}

// NewSigner builds a Signer from blob configuration.
func NewSigner(cfg *config.BlobConfig) (*Signer, error) {
	if cfg.AccountName == "" || cfg.AccountKey == "" {
		return nil, fmt.Errorf("blob: account_name and account_key must be configured")
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("blob: invalid shared key credential: %w", err)
	}

	return &Signer{
		accountName: cfg.AccountName,
		container:   cfg.Container,
		writeTTL:    cfg.WriteTTL,
		readTTL:     cfg.ReadTTL,
		clockSkew:   cfg.ClockSkew,
		cred:        cred,
	}, nil
}

// WriteURL mints an upload-capable URL (read+write+create). The validity
// window starts in the past to tolerate client clock skew.
func (s *Signer) WriteURL(blobName string) (string, error) {
	now := time.Now().UTC()
	perms := sas.BlobPermissions{Read: true, Write: true, Create: true}
	return s.sign(blobName, perms.String(), now.Add(-s.clockSkew), now.Add(s.writeTTL))
}

// ReadURL mints a read-only URL for viewing or downloading a blob.
func (s *Signer) ReadURL(blobPath string) (string, error) {
	now := time.Now().UTC()
	perms := sas.BlobPermissions{Read: true}
	return s.sign(blobPath, perms.String(), time.Time{}, now.Add(s.readTTL))
}

func (s *Signer) sign(blobName, permissions string, start, expiry time.Time) (string, error) {
	vals := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     start,
		ExpiryTime:    expiry,
		Permissions:   permissions,
		ContainerName: s.container,
		BlobName:      blobName,
	}

	qp, err := vals.SignWithSharedKey(s.cred)
	if err != nil {
		return "", fmt.Errorf("blob: signing SAS for %q: %w", blobName, err)
	}

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s?%s",
		s.accountName, s.container, blobName, qp.Encode()), nil
}
