package model

type Manufacturer struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	Name        string      `gorm:"not null;index" json:"name"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Logo        *Attachment `gorm:"serializer:json" json:"logo"`
	Base

	Tools []Tool `gorm:"many2many:manufacturer_tools" json:"tools,omitempty"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}
