package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"pareto_backend/internal/email"
	"pareto_backend/internal/metrics"
	"pareto_backend/internal/services/dto"
)

// EmailService sends the four branded emails the platform knows about
type EmailService struct {
	provider   email.Provider
	siteURL    string
	adminEmail string
}

func NewEmailService(provider email.Provider, siteURL, adminEmail string) *EmailService {
	return &EmailService{
		provider:   provider,
		siteURL:    strings.TrimRight(siteURL, "/"),
		adminEmail: adminEmail,
	}
}

// MagicLinkURL builds the callback link the user clicks
func (s *EmailService) MagicLinkURL(token, redirectTo string) string {
	q := url.Values{}
	q.Set("token", token)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return s.siteURL + "/auth/callback?" + q.Encode()
}

func (s *EmailService) SendMagicLink(ctx context.Context, to, link string, ttl time.Duration) error {
	return s.send(ctx, []string{to}, "Your Pareto sign-in link", email.TemplateMagicLink, email.TemplateData{
		"Link":             link,
		"ExpiresInMinutes": int(ttl.Minutes()),
	})
}

// SendAcceptance - temporaryPassword may be empty for users that already had an account
func (s *EmailService) SendAcceptance(ctx context.Context, to, name, temporaryPassword string) error {
	return s.send(ctx, []string{to}, "Welcome to the Pareto Fellowship", email.TemplateAcceptance, email.TemplateData{
		"Name":              name,
		"TemporaryPassword": temporaryPassword,
		"LoginURL":          s.siteURL + "/login",
	})
}

func (s *EmailService) SendConfirmation(ctx context.Context, to, name string) error {
	return s.send(ctx, []string{to}, "We received your Pareto application", email.TemplateConfirmation, email.TemplateData{
		"Name":    name,
		"SiteURL": s.siteURL,
	})
}

// SendApplicationInterest goes to interest.To, or the admin address when unset
func (s *EmailService) SendApplicationInterest(ctx context.Context, interest *dto.ApplicationInterest) error {
	to := interest.To
	if to == "" {
		to = s.adminEmail
	}
	return s.send(ctx, []string{to}, "New interest: "+interest.Position+" at "+interest.Company, email.TemplateApplicationInterest, email.TemplateData{
		"FellowName":  interest.FellowName,
		"FellowEmail": interest.FellowEmail,
		"Position":    interest.Position,
		"Company":     interest.Company,
		"Message":     interest.Message,
	})
}

func (s *EmailService) send(ctx context.Context, to []string, subject, template string, data email.TemplateData) error {
	err := s.provider.SendTemplate(ctx, to, subject, template, data)
	metrics.EmailsSent.WithLabelValues(template, metrics.Result(err)).Inc()
	return err
}

func (s *EmailService) Close() error {
	return s.provider.Close()
}
