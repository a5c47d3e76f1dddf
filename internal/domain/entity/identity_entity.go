package entity

// ExternalIdentity is the canonical identity extracted from a Google
// profile payload. It is produced per login attempt and never stored.
type ExternalIdentity struct {
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   string
}
