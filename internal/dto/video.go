package dto

import (
	"time"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// VideoOwnerResponse is the trimmed owner profile inside a history entry.
type VideoOwnerResponse struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	AvatarURL string `json:"avatar"`
}

// WatchHistoryEntryResponse is one watched video with its owner.
type WatchHistoryEntryResponse struct {
	VideoID      string             `json:"videoID"`
	VideoFileURL string             `json:"videoFile"`
	ThumbnailURL string             `json:"thumbnail"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Duration     float64            `json:"duration"`
	Views        int64              `json:"views"`
	Owner        VideoOwnerResponse `json:"owner"`
	WatchedAt    time.Time          `json:"watchedAt"`
}

// WatchHistoryResponse wraps the ordered history list.
type WatchHistoryResponse struct {
	History []WatchHistoryEntryResponse `json:"watchHistory"`
}

// ToWatchHistoryResponse converts domain history entries; an empty input
// yields an empty (non-nil) list.
func ToWatchHistoryResponse(entries []domain.WatchHistoryEntry) WatchHistoryResponse {
	history := make([]WatchHistoryEntryResponse, len(entries))
	for i, e := range entries {
		history[i] = WatchHistoryEntryResponse{
			VideoID:      e.Video.VideoID,
			VideoFileURL: e.Video.VideoFileURL,
			ThumbnailURL: e.Video.ThumbnailURL,
			Title:        e.Video.Title,
			Description:  e.Video.Description,
			Duration:     e.Video.Duration,
			Views:        e.Video.Views,
			Owner: VideoOwnerResponse{
				UserID:    e.Owner.UserID,
				Username:  e.Owner.Username,
				FullName:  e.Owner.FullName,
				AvatarURL: e.Owner.AvatarURL,
			},
			WatchedAt: e.WatchedAt,
		}
	}
	return WatchHistoryResponse{History: history}
}
