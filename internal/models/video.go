package models

import "time"

// Video is the database row shape for the videos table.
type Video struct {
	VideoID      string  `db:"video_id"`
	OwnerID      string  `db:"owner_id"`
	VideoFileURL string  `db:"video_file_url"`
	ThumbnailURL string  `db:"thumbnail_url"`
	Title        string  `db:"title"`
	Description  string  `db:"description"`
	Duration     float64 `db:"duration"`
	Views        int64   `db:"views"`
	IsPublished  bool    `db:"is_published"`
	AuditFields
}

// WatchHistoryRow is one watch_history row joined with its video and owner.
type WatchHistoryRow struct {
	Video          Video
	OwnerID        string    `db:"owner_user_id"`
	OwnerUsername  string    `db:"owner_username"`
	OwnerFullName  string    `db:"owner_full_name"`
	OwnerAvatarURL string    `db:"owner_avatar_url"`
	WatchedAt      time.Time `db:"watched_at"`
}
