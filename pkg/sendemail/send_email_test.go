package sendemail

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/require"

	"itams/pkg/config"
)

var testConfig = config.SendgridConfig{SenderEmail: "audits@example.com", SenderName: "Asset Management"}

func TestBuildMessage(t *testing.T) {
	m, err := BuildMessage("Asset Management", "audits@example.com", "Audit #4 closed",
		[]string{"ops@example.com", "it@example.com"}, "plain", "<p>html</p>")

	require.NoError(t, err)
	require.Equal(t, "Audit #4 closed", m.Subject)
	require.Equal(t, "audits@example.com", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 2)
	require.Len(t, m.Content, 2)
	require.Equal(t, "text/plain", m.Content[0].Type)
}

func TestBuildMessage_PlainOnly(t *testing.T) {
	m, err := BuildMessage("", "audits@example.com", "s", []string{"ops@example.com"}, "plain", "")

	require.NoError(t, err)
	require.Len(t, m.Content, 1)
}

func TestBuildMessage_NoRecipients(t *testing.T) {
	_, err := BuildMessage("", "audits@example.com", "s", nil, "plain", "")
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestSendEmail(t *testing.T) {
	var sent *mail.SGMailV3
	svc := newEmailService(testConfig, func(_ context.Context, email *mail.SGMailV3) (int, error) {
		sent = email
		return 202, nil
	})

	err := svc.SendEmail(context.Background(), "subject", []string{"ops@example.com"}, "body", "")

	require.NoError(t, err)
	require.NotNil(t, sent)
	require.Equal(t, "Asset Management", sent.From.Name)
}

func TestSendEmail_ProviderRejects(t *testing.T) {
	svc := newEmailService(testConfig, func(context.Context, *mail.SGMailV3) (int, error) {
		return 401, nil
	})

	err := svc.SendEmail(context.Background(), "subject", []string{"ops@example.com"}, "body", "")
	require.ErrorContains(t, err, "status 401")
}

func TestSendEmail_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	svc := newEmailService(testConfig, func(context.Context, *mail.SGMailV3) (int, error) {
		return 0, boom
	})

	err := svc.SendEmail(context.Background(), "subject", []string{"ops@example.com"}, "body", "")
	require.ErrorIs(t, err, boom)
}
