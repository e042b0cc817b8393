package dto

import "github.com/vidtube/vidtube_backend/internal/core/domain"

// ChannelProfileResponse is the fixed public projection of a channel.
type ChannelProfileResponse struct {
	UserID                    string `json:"userID"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullname"`
	Email                     string `json:"email"`
	AvatarURL                 string `json:"avatar"`
	CoverImageURL             string `json:"coverImage,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// ToChannelProfileResponse converts the aggregated channel view.
func ToChannelProfileResponse(p *domain.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		UserID:                    p.UserID,
		Username:                  p.Username,
		FullName:                  p.FullName,
		Email:                     p.Email,
		AvatarURL:                 p.AvatarURL,
		CoverImageURL:             p.CoverImageURL,
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
	}
}
