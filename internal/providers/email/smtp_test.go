package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendTemplateBuildsHTMLMessage(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.local", Port: 2525, From: "noreply@gareline.bf"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	p.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		require.Nil(t, a)
		return nil
	}

	err := p.SendTemplate(context.Background(), []string{"ops@gareline.bf"}, "Recharge bientôt expirée", "recharge_expiring", map[string]any{
		"Message":    "Ligne 70000001 (Orange) expire dans 3 jours",
		"LineNumber": "70000001",
		"Operator":   "Orange",
		"EndDate":    "04/03/2025",
	})
	require.NoError(t, err)
	require.Equal(t, "smtp.local:2525", gotAddr)
	require.Equal(t, []string{"ops@gareline.bf"}, gotTo)
	require.True(t, strings.HasPrefix(gotMsg, "From: noreply@gareline.bf\r\n"))
	require.Contains(t, gotMsg, "Subject: Recharge bientôt expirée\r\n")
	require.Contains(t, gotMsg, "Ligne 70000001 (Orange) expire dans 3 jours")
}

func TestSendRequiresRecipients(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.local", Port: 25})
	require.ErrorIs(t, p.Send(context.Background(), nil, "s", "b"), ErrNoRecipients)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	require.Error(t, err)
}
