package email

type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

type Email struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	ReplyTo     string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

// TemplateData - values for email templates
type TemplateData map[string]interface{}

// Template names
const (
	TemplateMagicLink           = "magic_link"
	TemplateAcceptance          = "acceptance"
	TemplateConfirmation        = "confirmation"
	TemplateApplicationInterest = "application_interest"
)
