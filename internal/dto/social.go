package dto

// SocialProfile is what an OAuth provider tells us about the signed-in user.
type SocialProfile struct {
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   string
}
