package model

type Tool struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Name             string            `gorm:"not null;index" json:"name"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	Photo            *Attachment       `gorm:"serializer:json" json:"photo"`
	InformationLinks []InformationLink `gorm:"serializer:json" json:"informationLinks"`
	Base
}

func (Tool) TableName() string {
	return "tools"
}
