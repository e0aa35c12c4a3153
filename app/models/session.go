package models

import "time"

// SessionUser is the profile shown in the header once signed in.
type SessionUser struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Session is a signed-in visitor. Token holds the provider token sealed at
// rest and is never sent to the browser.
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	Provider  string      `json:"provider"`
	Token     []byte      `json:"token,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// DisplayName is the name shown next to the avatar.
func (u SessionUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}

// Initial is the avatar letter.
func (u SessionUser) Initial() string {
	if u.Name != "" {
		return Initial(u.Name)
	}
	return Initial(u.Email)
}
