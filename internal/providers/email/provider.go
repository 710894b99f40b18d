package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the no-op provider used when SMTP is unset.
var ErrNotConfigured = errors.New("email_not_configured")

type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
	SendTemplate(ctx context.Context, to []string, subject string, templateName string, data any) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return ErrNotConfigured
}

func (p *NoOpProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data any) error {
	return ErrNotConfigured
}
