package notification

import (
	"context"
	"errors"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/providers/email"
)

type emailChannel struct {
	provider email.Provider
}

func NewEmailChannel(provider email.Provider) Channel {
	return &emailChannel{provider: provider}
}

func (c *emailChannel) Name() string { return ChannelEmail }

func (c *emailChannel) Notify(ctx context.Context, cfg config.AlertingConfig, notice Notice) error {
	if len(cfg.EmailRecipients) == 0 {
		return ErrChannelNotConfigured
	}
	err := c.provider.SendTemplate(ctx, cfg.EmailRecipients, cfg.EmailSubject, "recharge_expiring", map[string]any{
		"Message":    notice.Message,
		"LineNumber": notice.LineNumber,
		"Operator":   notice.Operator,
		"EndDate":    notice.EndDate.UTC().Format("02/01/2006 15:04"),
	})
	if errors.Is(err, email.ErrNotConfigured) {
		return ErrChannelNotConfigured
	}
	return err
}
