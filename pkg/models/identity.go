package models

// Identity is what the identity provider yields: a signed-in user id or guest mode
type Identity struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Guest  bool   `json:"guest" yaml:"guest"`
}

// GuestIdentity returns the guest identity
func GuestIdentity() Identity {
	return Identity{Guest: true}
}

// IsAuthenticated reports whether the identity carries a user id
func (i Identity) IsAuthenticated() bool {
	return !i.Guest && i.UserID != ""
}
