package notification

import (
	"context"
	"errors"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/providers/slack"
)

type slackChannel struct {
	provider slack.Provider
}

func NewSlackChannel(provider slack.Provider) Channel {
	return &slackChannel{provider: provider}
}

func (c *slackChannel) Name() string { return ChannelSlack }

func (c *slackChannel) Notify(ctx context.Context, cfg config.AlertingConfig, notice Notice) error {
	err := c.provider.PostMessage(ctx, cfg.SlackChannel, ":warning: "+notice.Message)
	if errors.Is(err, slack.ErrNotConfigured) {
		return ErrChannelNotConfigured
	}
	return err
}
