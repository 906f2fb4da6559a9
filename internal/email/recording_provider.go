package email

import (
	"context"
	"sync"
)

// SentEmail - one captured send
type SentEmail struct {
	To       []string
	Subject  string
	Template string
	Data     TemplateData
	HTMLBody string
}

// RecordingProvider keeps every email in memory instead of sending it.
// Used by tests and local runs; SetFail makes the next sends return an error.
type RecordingProvider struct {
	mu       sync.Mutex
	renderer TemplateRenderer
	sent     []SentEmail
	fail     error
}

func NewRecordingProvider(renderer TemplateRenderer) *RecordingProvider {
	return &RecordingProvider{renderer: renderer}
}

func (p *RecordingProvider) Send(ctx context.Context, email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, SentEmail{To: email.To, Subject: email.Subject, HTMLBody: email.HTMLBody})
	return nil
}

func (p *RecordingProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	var body string
	if p.renderer != nil {
		rendered, err := p.renderer.Render(templateName, data)
		if err != nil {
			return err
		}
		body = rendered
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, SentEmail{To: to, Subject: subject, Template: templateName, Data: data, HTMLBody: body})
	return nil
}

// Sent returns a copy of everything captured so far
func (p *RecordingProvider) Sent() []SentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SentEmail, len(p.sent))
	copy(out, p.sent)
	return out
}

// SentTo filters captured emails by recipient
func (p *RecordingProvider) SentTo(address string) []SentEmail {
	var out []SentEmail
	for _, e := range p.Sent() {
		for _, to := range e.To {
			if to == address {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (p *RecordingProvider) SetFail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *RecordingProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
	p.fail = nil
}

func (p *RecordingProvider) Validate() error { return nil }
func (p *RecordingProvider) Close() error    { return nil }
