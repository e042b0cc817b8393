package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	"github.com/vidtube/vidtube_backend/internal/models"
)

const uniqueViolationCode = "23505"

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Email:        d.Email,
		FullName:     d.FullName,
		AvatarURL:    d.AvatarURL,
		PasswordHash: d.PasswordHash,
		AuthProvider: string(d.AuthProvider),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
		DeletedAt: d.DeletedAt,
	}
	if d.CoverImageURL != "" {
		m.CoverImageURL = sql.NullString{String: d.CoverImageURL, Valid: true}
	}
	if d.RefreshToken != "" {
		m.RefreshToken = sql.NullString{String: d.RefreshToken, Valid: true}
	}
	if d.ProviderUserID != "" {
		m.ProviderUserID = sql.NullString{String: d.ProviderUserID, Valid: true}
	}
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Username:       m.Username,
		Email:          m.Email,
		FullName:       m.FullName,
		AvatarURL:      m.AvatarURL,
		CoverImageURL:  m.CoverImageURL.String,
		PasswordHash:   m.PasswordHash,
		RefreshToken:   m.RefreshToken.String,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID.String,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
		DeletedAt: m.DeletedAt,
	}
}

const userColumns = `user_id, username, email, full_name, avatar_url, cover_image_url,
		password_hash, refresh_token, auth_provider, provider_user_id,
		created_at, last_updated_at, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.AvatarURL,
		&m.CoverImageURL,
		&m.PasswordHash,
		&m.RefreshToken,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (user_id, username, email, full_name, avatar_url, cover_image_url,
            password_hash, refresh_token, auth_provider, provider_user_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.FullName,
		m.AvatarURL,
		m.CoverImageURL,
		m.PasswordHash,
		m.RefreshToken,
		m.AuthProvider,
		m.ProviderUserID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) findUserWhere(ctx context.Context, where string, args ...any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL AND ` + where
	m, err := scanUser(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u := toDomainUser(*m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserWhere(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUserWhere(ctx, `username = lower($1)`, username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUserWhere(ctx, `email = $1`, email)
}

func (r *PgxUserRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.findUserWhere(ctx, `(username = lower($1) OR email = $2)`, username, email)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	return r.findUserWhere(ctx, `auth_provider = $1 AND provider_user_id = $2`, authProvider, providerUserID)
}

// execSingleRowUpdate runs an UPDATE expected to touch exactly one live user row.
func (r *PgxUserRepository) execSingleRowUpdate(ctx context.Context, query string, args ...any) error {
	cmdTag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to execute user update: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateProfile(ctx context.Context, userID, fullName, email string) error {
	query := `
        UPDATE users
        SET full_name = $1, email = $2, last_updated_at = $3
        WHERE user_id = $4 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, fullName, email, time.Now(), userID)
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
        UPDATE users
        SET password_hash = $1, last_updated_at = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, passwordHash, time.Now(), userID)
}

func (r *PgxUserRepository) UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error {
	query := `
        UPDATE users
        SET avatar_url = $1, last_updated_at = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, avatarURL, time.Now(), userID)
}

func (r *PgxUserRepository) UpdateCoverImageURL(ctx context.Context, userID, coverImageURL string) error {
	query := `
        UPDATE users
        SET cover_image_url = $1, last_updated_at = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, coverImageURL, time.Now(), userID)
}

// UpdateRefreshToken is the relaxed write of the token flow: a single-column
// UPDATE that never touches the password hash.
func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	query := `
        UPDATE users
        SET refresh_token = $1, last_updated_at = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, refreshToken, time.Now(), userID)
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
        UPDATE users
        SET refresh_token = NULL, last_updated_at = $1
        WHERE user_id = $2 AND deleted_at IS NULL;
    `
	return r.execSingleRowUpdate(ctx, query, time.Now(), userID)
}

func (r *PgxUserRepository) AddWatchEntry(ctx context.Context, userID, videoID string) error {
	query := `
        INSERT INTO watch_history (user_id, video_id, watched_at)
        VALUES ($1, $2, $3);
    `
	_, err := r.Pool.Exec(ctx, query, userID, videoID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add watch entry: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryEntry, error) {
	query := `
        SELECT v.video_id, v.owner_id, v.video_file_url, v.thumbnail_url, v.title,
            v.description, v.duration, v.views, v.is_published, v.created_at, v.last_updated_at,
            o.user_id, o.username, o.full_name, o.avatar_url,
            wh.watched_at
        FROM watch_history wh
        JOIN videos v ON v.video_id = wh.video_id
        JOIN users o ON o.user_id = v.owner_id
        WHERE wh.user_id = $1
        ORDER BY wh.id;
    `
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	entries := []domain.WatchHistoryEntry{}
	for rows.Next() {
		var row models.WatchHistoryRow
		err := rows.Scan(
			&row.Video.VideoID,
			&row.Video.OwnerID,
			&row.Video.VideoFileURL,
			&row.Video.ThumbnailURL,
			&row.Video.Title,
			&row.Video.Description,
			&row.Video.Duration,
			&row.Video.Views,
			&row.Video.IsPublished,
			&row.Video.CreatedAt,
			&row.Video.LastUpdatedAt,
			&row.OwnerID,
			&row.OwnerUsername,
			&row.OwnerFullName,
			&row.OwnerAvatarURL,
			&row.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		entries = append(entries, domain.WatchHistoryEntry{
			Video: domain.Video{
				VideoID:      row.Video.VideoID,
				OwnerID:      row.Video.OwnerID,
				VideoFileURL: row.Video.VideoFileURL,
				ThumbnailURL: row.Video.ThumbnailURL,
				Title:        row.Video.Title,
				Description:  row.Video.Description,
				Duration:     row.Video.Duration,
				Views:        row.Video.Views,
				IsPublished:  row.Video.IsPublished,
				AuditFields: domain.AuditFields{
					CreatedAt:     row.Video.CreatedAt,
					LastUpdatedAt: row.Video.LastUpdatedAt,
				},
			},
			Owner: domain.VideoOwner{
				UserID:    row.OwnerID,
				Username:  row.OwnerUsername,
				FullName:  row.OwnerFullName,
				AvatarURL: row.OwnerAvatarURL,
			},
			WatchedAt: row.WatchedAt,
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating watch history rows: %w", rows.Err())
	}

	return entries, nil
}
