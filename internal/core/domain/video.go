package domain

import "time"

// Video represents an uploaded video. The account service only reads videos
// (watch history); ownership and publishing live in the video service.
type Video struct {
	VideoID      string  `json:"videoID"`
	OwnerID      string  `json:"ownerID"`
	VideoFileURL string  `json:"videoFileURL"`
	ThumbnailURL string  `json:"thumbnailURL"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Duration     float64 `json:"duration"` // seconds
	Views        int64   `json:"views"`
	IsPublished  bool    `json:"isPublished"`
	AuditFields
}

// VideoOwner is the trimmed owner profile attached to watch-history entries.
type VideoOwner struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarURL"`
}

// WatchHistoryEntry is one watched video with its owner, in viewing order.
// Duplicate videos are allowed; each view appends a new entry.
type WatchHistoryEntry struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
