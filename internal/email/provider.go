package email

import "context"

// Provider sends email
type Provider interface {
	Send(ctx context.Context, email *Email) error

	// SendTemplate renders templateName as the HTML body and sends it
	SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error

	Validate() error
	Close() error
}

// TemplateRenderer renders named HTML templates
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
