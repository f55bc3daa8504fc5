package model

import "time"

// Session is the single live authorization record for a user. At most one
// row exists per user; a new login replaces it.
type Session struct {
	UserID    int64
	OTP       string
	CreatedAt time.Time
}
