package services

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// Uploader forwards locally staged files to the remote media host.
type Uploader interface {
	// Upload sends the file at localPath to the provider and returns its
	// public descriptor. An empty localPath returns (nil, nil) so optional
	// uploads can be skipped. On provider failure the local file is removed
	// and an error is returned.
	Upload(ctx context.Context, localPath string) (*domain.UploadResult, error)
}

// Publisher emits domain events to the message broker. Publishing is best
// effort; callers must not fail their request on a publish error.
type Publisher interface {
	PublishMessage(ctx context.Context, key, value []byte) error
}
