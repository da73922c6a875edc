package models

import "time"

// ResetCode is the single outstanding password-reset code of a user.
type ResetCode struct {
	ID        string
	UserID    string
	Code      string
	Attempts  int
	CreatedAt time.Time
}

// ExpiresAt is the last instant at which the code is still accepted.
func (r *ResetCode) ExpiresAt(ttl time.Duration) time.Time {
	return r.CreatedAt.Add(ttl)
}

// IsExpired reports whether now is past the code's lifetime.
func (r *ResetCode) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(r.ExpiresAt(ttl))
}
