package models

import "time"

type Account struct {
	BaseModel

	Email         string `json:"email" gorm:"uniqueIndex"`
	Password      string `json:"-"`
	EmailVerified bool   `json:"email_verified"`

	VerificationToken *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetExpiredAt    *time.Time `json:"-"`

	Profile *Profile `json:"profile,omitempty"`
}
