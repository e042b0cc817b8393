package cloudinary

import (
	"context"
	"fmt"
	"os"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// CloudinaryUploader forwards locally staged files to Cloudinary.
type CloudinaryUploader struct {
	cld     *cld.Cloudinary
	folder  string
	timeout time.Duration
}

// NewCloudinaryUploader builds an uploader from the CLOUDINARY_URL style
// connection string.
func NewCloudinaryUploader(cfg *config.Config) (*CloudinaryUploader, error) {
	if cfg.CloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is not configured")
	}
	client, err := cld.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	return &CloudinaryUploader{
		cld:     client,
		folder:  cfg.CloudinaryFolder,
		timeout: cfg.UploadTimeout,
	}, nil
}

var _ portssvc.Uploader = (*CloudinaryUploader)(nil)

// Upload sends the file at localPath to Cloudinary and returns its public
// descriptor. An empty localPath returns (nil, nil) so optional uploads can be
// skipped. On failure the staged file is removed.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath string) (*domain.UploadResult, error) {
	if localPath == "" {
		return nil, nil
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged file %s: %w", localPath, err)
	}
	defer file.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	res, err := u.cld.Upload.Upload(uploadCtx, file, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		_ = os.Remove(localPath)
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}

	return &domain.UploadResult{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
	}, nil
}
