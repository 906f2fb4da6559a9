package dto

type OpportunityRequest struct {
	Position     string   `json:"position" form:"position" validate:"required,max=200"`
	Company      string   `json:"company" form:"company" validate:"required,max=200"`
	Description  string   `json:"description" form:"description"`
	Requirements string   `json:"requirements" form:"requirements"`
	Tags         []string `json:"tags" form:"tags"`
	Featured     bool     `json:"featured" form:"featured"`
	LogoURL      string   `json:"logo_url" form:"logo_url" validate:"omitempty,url"`
	ContactEmail string   `json:"contact_email" form:"contact_email" validate:"omitempty,email"`
	Location     string   `json:"location" form:"location"`

	Logo *FileUpload `json:"-" form:"-"`
}

type ApplyRequest struct {
	Message string `json:"message" validate:"max=5000"`
}
