// Package notification fans expiry alerts out to the configured channels.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ChannelEmail = "email"
	ChannelSlack = "slack"
	ChannelNATS  = "nats"
)

// Notice is the channel-neutral view of a due alert.
type Notice struct {
	AlertID    string    `json:"alert_id"`
	RechargeID string    `json:"recharge_id"`
	LineNumber string    `json:"line_number"`
	Operator   string    `json:"operator"`
	Message    string    `json:"message"`
	AlertDate  time.Time `json:"alert_date"`
	EndDate    time.Time `json:"end_date"`
}

var (
	// ErrChannelNotConfigured marks a channel that has nowhere to deliver.
	ErrChannelNotConfigured = errors.New("channel_not_configured")
	// ErrNotDelivered is returned when no channel delivered the notice.
	ErrNotDelivered = errors.New("alert_not_delivered")
)

type Channel interface {
	Name() string
	Notify(ctx context.Context, cfg config.AlertingConfig, notice Notice) error
}

type DispatcherParams struct {
	fx.In

	Log      *zap.Logger
	Alerting *config.AlertingConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
	Channels []Channel        `group:"notification_channels"`
}

type Dispatcher struct {
	log      *zap.Logger
	alerting *config.AlertingConfigHolder
	metrics  *metrics.Metrics
	channels []Channel
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	return &Dispatcher{
		log:      p.Log.Named("notification.dispatcher"),
		alerting: p.Alerting,
		metrics:  p.Metrics,
		channels: p.Channels,
	}
}

// Dispatch sends the notice to every enabled channel and joins the failures.
// Unconfigured channels are skipped; ErrNotDelivered is returned when no
// channel accepted the notice.
func (d *Dispatcher) Dispatch(ctx context.Context, notice Notice) error {
	cfg := d.alerting.Get()

	var (
		errs      []error
		delivered int
	)
	for _, ch := range d.channels {
		name := ch.Name()
		if !cfg.ChannelEnabled(name) {
			continue
		}
		err := ch.Notify(ctx, cfg, notice)
		if errors.Is(err, ErrChannelNotConfigured) {
			d.log.Debug("notification channel not configured", zap.String("channel", name))
			continue
		}
		if err != nil {
			d.metrics.RecordAlertDispatched(ctx, name, "failure")
			d.log.Warn("alert notification failed",
				zap.String("channel", name),
				zap.String("alert_id", notice.AlertID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		d.metrics.RecordAlertDispatched(ctx, name, "success")
		delivered++
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if delivered == 0 {
		return ErrNotDelivered
	}
	return nil
}
