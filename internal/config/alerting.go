package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AlertingConfig routes expiry alerts to notification channels.
type AlertingConfig struct {
	EmailRecipients []string `mapstructure:"emailRecipients"`
	EmailSubject    string   `mapstructure:"emailSubject"`
	SlackChannel    string   `mapstructure:"slackChannel"`
	Channels        []string `mapstructure:"channels"`
}

// ChannelEnabled reports whether the named channel is listed. An empty list enables all channels.
func (c AlertingConfig) ChannelEnabled(name string) bool {
	if len(c.Channels) == 0 {
		return true
	}
	for _, ch := range c.Channels {
		if strings.EqualFold(strings.TrimSpace(ch), name) {
			return true
		}
	}
	return false
}

func DefaultAlertingConfig() AlertingConfig {
	return AlertingConfig{
		EmailRecipients: []string{},
		EmailSubject:    "Recharge bientôt expirée",
		SlackChannel:    "#recharges",
		Channels:        []string{},
	}
}

type AlertingConfigHolder struct {
	current atomic.Value // holds AlertingConfig
}

// NewStaticAlertingConfigHolder returns a holder that never reloads.
func NewStaticAlertingConfigHolder(cfg AlertingConfig) *AlertingConfigHolder {
	holder := &AlertingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewAlertingConfigHolder(log *zap.Logger) (*AlertingConfigHolder, error) {
	log = log.Named("config.alerting")
	v := viper.New()

	v.SetConfigName("alerting")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/gareline")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GARELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAlertingConfig()
	v.SetDefault("alerting.emailRecipients", defaults.EmailRecipients)
	v.SetDefault("alerting.emailSubject", defaults.EmailSubject)
	v.SetDefault("alerting.slackChannel", defaults.SlackChannel)
	v.SetDefault("alerting.channels", defaults.Channels)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	var cfg AlertingConfig
	if err := v.UnmarshalKey("alerting", &cfg); err != nil {
		return nil, err
	}
	if err := validateAlertingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &AlertingConfigHolder{}
	holder.current.Store(cfg)

	if !fileFound {
		log.Info("alerting config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AlertingConfig
		if err := v.UnmarshalKey("alerting", &updated); err != nil {
			log.Warn("alerting config reload failed", zap.Error(err))
			return
		}
		if err := validateAlertingConfig(updated); err != nil {
			log.Warn("invalid alerting config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("alerting config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *AlertingConfigHolder) Get() AlertingConfig {
	return h.current.Load().(AlertingConfig)
}

func validateAlertingConfig(cfg AlertingConfig) error {
	for _, recipient := range cfg.EmailRecipients {
		if !strings.Contains(recipient, "@") {
			return errors.New("alerting.emailRecipients contains an invalid address")
		}
	}
	for _, ch := range cfg.Channels {
		switch strings.ToLower(strings.TrimSpace(ch)) {
		case "email", "slack", "nats":
		default:
			return errors.New("alerting.channels accepts email, slack or nats")
		}
	}
	return nil
}
