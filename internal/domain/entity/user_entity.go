package entity

import (
	"time"
)

// User is the persisted identity record. Password holds a bcrypt hash, never
// the raw password. PendingOTP is set only while an email challenge is
// outstanding and is cleared when the challenge is consumed.
type User struct {
	ID              string
	Name            string
	Email           string
	Mobile          string
	Password        string
	IsVerified      bool
	PendingOTP      string
	OTPExpiresAt    time.Time
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Registrations holds back-references to event-registration records.
	// The events domain owns and mutates them; this service only reads.
	Registrations []string
}

// ChallengeOutstanding reports whether an unconsumed OTP exists on the record.
func (u *User) ChallengeOutstanding() bool {
	return !u.IsVerified && u.PendingOTP != ""
}
