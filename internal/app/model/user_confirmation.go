package model

import (
	"time"
)

// UserConfirmation is a code/token challenge proving control of the
// account's mailbox. Code and token are independent secrets; both are
// required together to confirm an account.
type UserConfirmation struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Code       int       `gorm:"not null" json:"-"`
	Token      string    `gorm:"not null" json:"-"`
	IsUsed     bool      `gorm:"default:false" json:"isUsed"`
	ExpireDate time.Time `gorm:"not null" json:"expireDate"`
	Base

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserConfirmation) TableName() string {
	return "user_confirmations"
}

// Expired reports whether the challenge can no longer be redeemed.
func (c *UserConfirmation) Expired(now time.Time) bool {
	return now.After(c.ExpireDate)
}
