package repositories

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// VideoReader defines the read operations the account service needs over
// videos. Videos are owned by the video service; this side only references them.
type VideoReader interface {
	// FindVideoByID retrieves a video by ID.
	FindVideoByID(ctx context.Context, videoID string) (*domain.Video, error)
}

// VideoWriter persists videos (used by seeding and the video service boundary).
type VideoWriter interface {
	// SaveVideo persists a new video.
	SaveVideo(ctx context.Context, video domain.Video) error
}

// VideoRepositoryFacade combines video reads and writes.
type VideoRepositoryFacade interface {
	VideoReader
	VideoWriter
}
