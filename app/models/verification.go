package models

import "time"

// EmailVerification holds a pending email-verification token. Rows past
// ExpiresAt are swept by the scheduler.
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Token     string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"                      json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
