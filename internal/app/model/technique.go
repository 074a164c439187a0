package model

type Technique struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Name             string            `gorm:"not null;index" json:"name"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	Acronym          string            `gorm:"not null" json:"acronym"`
	Photo            *Attachment       `gorm:"serializer:json" json:"photo"`
	InformationLinks []InformationLink `gorm:"serializer:json" json:"informationLinks"`
	Base
}

func (Technique) TableName() string {
	return "techniques"
}
