package notification

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/firstchoicebank/corebank/config"
)

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	webhook := "https://hooks.slack.com/services/T000/B000/XXXX"
	httpmock.RegisterResponder("POST", webhook,
		httpmock.NewStringResponder(http.StatusOK, `{"ok": true}`))

	cnf := &config.Configuration{}
	cnf.Notification.Slack.WebhookUrl = webhook
	config.MockConfig(cnf)

	SlackNotification(errors.New("transfer commit failed"))

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+webhook])
}

func TestSlackNotification_NoWebhookConfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})

	// Posting to an empty URL fails, the notification must not panic.
	assert.NotPanics(t, func() {
		SlackNotification(errors.New("boom"))
	})
}
