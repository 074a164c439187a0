package model

import (
	"time"
)

// PasswordReset is a single-use reset challenge. OldPassword snapshots the
// secret hash at issuance; NewPassword records the hash set at redemption.
// Both feed the password-reuse check on later resets.
type PasswordReset struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Token       string    `gorm:"not null;index" json:"-"`
	IsUsed      bool      `gorm:"default:false" json:"isUsed"`
	ExpireDate  time.Time `gorm:"not null" json:"expireDate"`
	OldPassword string    `gorm:"not null" json:"-"`
	NewPassword string    `json:"-"`
	Base

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
