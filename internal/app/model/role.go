package model

// Role numbers are stable reference data seeded at startup.
const (
	RoleAdmin = 1
	RoleUser  = 2
)

// RoleNumbers lists every role the API knows about.
var RoleNumbers = []int{RoleAdmin, RoleUser}

// RoleName returns the display name of a role number.
func RoleName(number int) string {
	switch number {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return ""
	}
}

type Role struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Number      int    `gorm:"uniqueIndex;not null" json:"number"`
	Base
}

func (Role) TableName() string {
	return "roles"
}
