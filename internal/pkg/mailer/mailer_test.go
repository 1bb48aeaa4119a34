package mailer

import (
	"context"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New(config.Mail{FromName: "Dashboard", FromEmail: "noreply@example.com"}, logger.NewNop())
	require.IsType(t, LogMailer{}, m)
	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "hi", Text: "body"}))

	m = New(config.Mail{APIKey: "SG.key", FromName: "Dashboard", FromEmail: "noreply@example.com"}, logger.NewNop())
	require.IsType(t, SendGrid{}, m)
}
