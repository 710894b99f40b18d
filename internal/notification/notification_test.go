package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/providers/email"
	"github.com/smallbiznis/gareline/internal/providers/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingChannel struct {
	name    string
	err     error
	notices []Notice
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Notify(ctx context.Context, cfg config.AlertingConfig, notice Notice) error {
	c.notices = append(c.notices, notice)
	return c.err
}

type fakeEmail struct {
	to       []string
	subject  string
	template string
	data     any
}

func (f *fakeEmail) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (f *fakeEmail) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data any) error {
	f.to, f.subject, f.template, f.data = to, subject, templateName, data
	return nil
}

type fakePublisher struct {
	subject string
	data    []byte
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject, f.data = subject, data
	return nil
}

func newDispatcher(cfg config.AlertingConfig, channels ...Channel) *Dispatcher {
	return NewDispatcher(DispatcherParams{
		Log:      zap.NewNop(),
		Alerting: config.NewStaticAlertingConfigHolder(cfg),
		Channels: channels,
	})
}

func sampleNotice() Notice {
	return Notice{
		AlertID:    "1",
		RechargeID: "2",
		LineNumber: "70000001",
		Operator:   "Orange",
		Message:    "Ligne 70000001 (Orange) expire dans 3 jours",
		EndDate:    time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC),
	}
}

func TestDispatchSendsToEnabledChannels(t *testing.T) {
	emailCh := &recordingChannel{name: ChannelEmail}
	slackCh := &recordingChannel{name: ChannelSlack}

	cfg := config.DefaultAlertingConfig()
	cfg.Channels = []string{"slack"}

	require.NoError(t, newDispatcher(cfg, emailCh, slackCh).Dispatch(context.Background(), sampleNotice()))
	require.Empty(t, emailCh.notices)
	require.Len(t, slackCh.notices, 1)
}

func TestDispatchJoinsChannelFailures(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingChannel{name: ChannelSlack, err: boom}
	ok := &recordingChannel{name: ChannelNATS}

	err := newDispatcher(config.DefaultAlertingConfig(), failing, ok).Dispatch(context.Background(), sampleNotice())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "slack")
	require.Len(t, ok.notices, 1)
}

func TestEmailChannelUsesAlertingRecipients(t *testing.T) {
	provider := &fakeEmail{}
	ch := NewEmailChannel(provider)

	cfg := config.DefaultAlertingConfig()
	require.ErrorIs(t, ch.Notify(context.Background(), cfg, sampleNotice()), ErrChannelNotConfigured)
	require.Nil(t, provider.to)

	cfg.EmailRecipients = []string{"ops@gareline.bf"}
	require.NoError(t, ch.Notify(context.Background(), cfg, sampleNotice()))
	require.Equal(t, []string{"ops@gareline.bf"}, provider.to)
	require.Equal(t, cfg.EmailSubject, provider.subject)
	require.Equal(t, "recharge_expiring", provider.template)
	require.Equal(t, "04/03/2025 08:00", provider.data.(map[string]any)["EndDate"])
}

func TestNATSChannelPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	ch := &natsChannel{pub: pub, subject: "gareline.alerts.expiring"}

	require.NoError(t, ch.Notify(context.Background(), config.AlertingConfig{}, sampleNotice()))
	require.Equal(t, "gareline.alerts.expiring", pub.subject)

	var got Notice
	require.NoError(t, json.Unmarshal(pub.data, &got))
	require.Equal(t, "70000001", got.LineNumber)
}

func TestNATSChannelWithoutConnectionIsNotConfigured(t *testing.T) {
	ch := NewNATSChannel(nil, config.Config{})
	require.ErrorIs(t, ch.Notify(context.Background(), config.AlertingConfig{}, sampleNotice()), ErrChannelNotConfigured)
}

func TestDispatchWithNothingConfiguredIsNotDelivered(t *testing.T) {
	empty := config.Config{}
	d := newDispatcher(config.DefaultAlertingConfig(),
		NewEmailChannel(email.NewFromConfig(empty)),
		NewSlackChannel(slack.NewFromConfig(empty)),
		NewNATSChannel(nil, empty),
	)

	err := d.Dispatch(context.Background(), sampleNotice())
	require.ErrorIs(t, err, ErrNotDelivered)
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	nats := &recordingChannel{name: ChannelNATS}
	d := newDispatcher(config.DefaultAlertingConfig(),
		NewSlackChannel(slack.NewFromConfig(config.Config{})),
		nats,
	)

	require.NoError(t, d.Dispatch(context.Background(), sampleNotice()))
	require.Len(t, nats.notices, 1)
}

func TestEmailChannelWithoutSMTPIsNotConfigured(t *testing.T) {
	ch := NewEmailChannel(email.NewFromConfig(config.Config{}))
	cfg := config.DefaultAlertingConfig()
	cfg.EmailRecipients = []string{"ops@gareline.bf"}

	require.ErrorIs(t, ch.Notify(context.Background(), cfg, sampleNotice()), ErrChannelNotConfigured)
}
