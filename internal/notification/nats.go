package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smallbiznis/gareline/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewNATSConn returns nil when NATS_URL is unset.
func NewNATSConn(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*nats.Conn, error) {
	if cfg.NATS.URL == "" {
		return nil, nil
	}
	log = log.Named("notification.nats")

	conn, err := nats.Connect(cfg.NATS.URL,
		nats.Name(cfg.AppName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return conn.Drain()
		},
	})
	return conn, nil
}

type publisher interface {
	Publish(subject string, data []byte) error
}

type natsChannel struct {
	pub     publisher
	subject string
}

func NewNATSChannel(conn *nats.Conn, cfg config.Config) Channel {
	if conn == nil {
		return &natsChannel{subject: cfg.NATS.AlertSubject}
	}
	return &natsChannel{pub: conn, subject: cfg.NATS.AlertSubject}
}

func (c *natsChannel) Name() string { return ChannelNATS }

func (c *natsChannel) Notify(ctx context.Context, _ config.AlertingConfig, notice Notice) error {
	if c.pub == nil {
		return ErrChannelNotConfigured
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return c.pub.Publish(c.subject, payload)
}
