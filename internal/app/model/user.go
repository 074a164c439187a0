package model

import (
	"time"
)

type User struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	PasswordChangedAt *time.Time `json:"-"`
	AccountConfirmed  bool       `gorm:"default:false" json:"accountConfirmed"`
	RoleID            uint       `gorm:"not null;index" json:"-"`
	Base

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PasswordChangedAfter reports whether the password was changed after the
// given token issue time. Used to invalidate sessions minted before a reset.
// Compared at second granularity because JWT iat carries no sub-second part.
func (u *User) PasswordChangedAfter(tokenIssuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(tokenIssuedAt.Truncate(time.Second))
}
