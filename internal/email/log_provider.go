package email

import (
	"context"
	"fmt"

	"pareto_backend/internal/logger"
)

// LogProvider renders messages and logs them instead of sending; used when email is disabled.
type LogProvider struct {
	renderer TemplateRenderer
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "Email delivery disabled, message logged",
		"to", email.To,
		"subject", email.Subject,
		"html_bytes", len(email.HTMLBody),
	)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	body, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: body})
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
