package models

import "gorm.io/datatypes"

type Opportunity struct {
	BaseModel
	Position     string                      `gorm:"not null" json:"position"`
	Company      string                      `gorm:"not null" json:"company"`
	Description  string                      `gorm:"type:text" json:"description"`
	Requirements string                      `gorm:"type:text" json:"requirements"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Featured     bool                        `gorm:"not null;default:false;index" json:"featured"`
	LogoURL      string                      `json:"logo_url"`
	ContactEmail string                      `json:"contact_email"`
	Location     string                      `json:"location"`
}
