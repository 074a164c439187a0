package model

import (
	"time"
)

// Base carries the audit and lifecycle fields shared by every entity.
// Removal is always soft: rows are flagged deleted, never destroyed.
type Base struct {
	IsActive   bool       `gorm:"default:true" json:"isActive"`
	IsDeleted  bool       `gorm:"default:false;index" json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  *uint      `json:"createdBy,omitempty"`
	LastEditAt *time.Time `json:"lastEditAt,omitempty"`
	LastEditBy *uint      `json:"lastEditBy,omitempty"`
}

// Touch stamps the audit fields for an edit by the given user.
func (b *Base) Touch(editorID uint) {
	now := time.Now()
	b.LastEditAt = &now
	b.LastEditBy = &editorID
}
