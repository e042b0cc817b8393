package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	"github.com/vidtube/vidtube_backend/internal/models"
)

type PgxVideoRepository struct {
	BaseRepository
}

func newPgxVideoRepository(db *pgxpool.Pool) portsrepo.VideoRepositoryFacade {
	return &PgxVideoRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.VideoRepositoryFacade = (*PgxVideoRepository)(nil)

func toDomainVideo(m models.Video) domain.Video {
	return domain.Video{
		VideoID:      m.VideoID,
		OwnerID:      m.OwnerID,
		VideoFileURL: m.VideoFileURL,
		ThumbnailURL: m.ThumbnailURL,
		Title:        m.Title,
		Description:  m.Description,
		Duration:     m.Duration,
		Views:        m.Views,
		IsPublished:  m.IsPublished,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func (r *PgxVideoRepository) FindVideoByID(ctx context.Context, videoID string) (*domain.Video, error) {
	query := `
        SELECT video_id, owner_id, video_file_url, thumbnail_url, title, description,
            duration, views, is_published, created_at, last_updated_at
        FROM videos
        WHERE video_id = $1;
    `
	var m models.Video
	err := r.Pool.QueryRow(ctx, query, videoID).Scan(
		&m.VideoID,
		&m.OwnerID,
		&m.VideoFileURL,
		&m.ThumbnailURL,
		&m.Title,
		&m.Description,
		&m.Duration,
		&m.Views,
		&m.IsPublished,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find video by ID %s: %w", videoID, err)
	}
	v := toDomainVideo(m)
	return &v, nil
}

func (r *PgxVideoRepository) SaveVideo(ctx context.Context, video domain.Video) error {
	query := `
        INSERT INTO videos (video_id, owner_id, video_file_url, thumbnail_url, title,
            description, duration, views, is_published, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		video.VideoID,
		video.OwnerID,
		video.VideoFileURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}
