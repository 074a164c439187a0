package model

type Product struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Name             string            `gorm:"not null;index" json:"name"`
	ShortDescription string            `gorm:"not null" json:"shortDescription"`
	LongDescription  string            `gorm:"type:text" json:"longDescription"`
	Photo            *Attachment       `gorm:"serializer:json" json:"photo"`
	Video            *Attachment       `gorm:"serializer:json" json:"video"`
	Details          []Detail          `gorm:"serializer:json" json:"details"`
	InformationLinks []InformationLink `gorm:"serializer:json" json:"informationLinks"`
	ManufacturerID   uint              `gorm:"not null;index" json:"manufacturerId"`
	ToolID           uint              `gorm:"not null;index" json:"typeId"`
	Base

	Manufacturer *Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer,omitempty"`
	Tool         *Tool         `gorm:"foreignKey:ToolID" json:"type,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
