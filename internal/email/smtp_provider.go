package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"pareto_backend/internal/logger"
)

// SMTPProvider sends through an SMTP relay with gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if config.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}
		// port 465 is implicit TLS, everything else upgrades with STARTTLS
		d.SSL = config.Port == 465
	}

	return &SMTPProvider{
		config:   config,
		dialer:   d,
		renderer: renderer,
	}
}

func (p *SMTPProvider) Send(ctx context.Context, email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	m := p.buildMessage(email)

	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			logger.CtxWithError(ctx, "SMTP send failed", err, "to", email.To, "subject", email.Subject)
			return fmt.Errorf("smtp send: %w", err)
		}
		logger.CtxInfo(ctx, "Email sent", "to", email.To, "subject", email.Subject)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *SMTPProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

func (p *SMTPProvider) Close() error {
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	if len(email.Cc) > 0 {
		m.SetHeader("Cc", email.Cc...)
	}
	if len(email.Bcc) > 0 {
		m.SetHeader("Bcc", email.Bcc...)
	}
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	for _, a := range email.Attachments {
		content := a.Content
		m.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}
