package domain

import "time"

// Subscription links a subscriber to a channel (both are users).
type Subscription struct {
	SubscriptionID string    `json:"subscriptionID"`
	SubscriberID   string    `json:"subscriberID"`
	ChannelID      string    `json:"channelID"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChannelProfile is the public channel view derived by the subscription
// aggregation: profile fields plus subscriber counts and whether the
// requesting user is subscribed.
type ChannelProfile struct {
	UserID                    string `json:"userID"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	AvatarURL                 string `json:"avatarURL"`
	CoverImageURL             string `json:"coverImageURL,omitempty"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// UploadResult describes a file successfully hosted by the media provider.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicID"`
}
