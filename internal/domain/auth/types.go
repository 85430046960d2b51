package auth

// Package auth contains domain-level types for the authenticated caller.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity is the caller resolved by the user service from a bearer token.
// CreatorID and InfluencerID are empty until the user creates those profiles.
type Identity struct {
	UserID       string    `json:"userId"`
	CreatorID    string    `json:"creatorId,omitempty"`
	InfluencerID string    `json:"influencerId,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitzero"`
}

// IsCreator reports whether the caller owns a creator profile.
func (i Identity) IsCreator() bool { return i.CreatorID != "" }

// IsInfluencer reports whether the caller owns an influencer profile.
func (i Identity) IsInfluencer() bool { return i.InfluencerID != "" }

// Session is the cached resolution of one token.
// ID is a digest of the token, never the token itself.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the cached identity is past its own expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.Identity.ExpiresAt.IsZero() && now.After(s.Identity.ExpiresAt)
}
