package alerts_test

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicwatch/neo-sentinel/pkg/alerts"
)

func TestEmailNotifier_SimulatedWithoutCredentials(t *testing.T) {
	n := alerts.NewEmailNotifier(alerts.EmailConfig{
		Recipient: "admin@cosmic.watch",
	}, testLogger())

	sendCalled := false
	n.SetSend(func(string, smtp.Auth, string, []string, []byte) error {
		sendCalled = true
		return nil
	})

	assert.True(t, n.Simulated())
	err := n.Notify(context.Background(), testEvent())
	require.NoError(t, err)
	assert.False(t, sendCalled, "simulation mode must not touch SMTP")
}

func TestEmailNotifier_SendsWithCredentials(t *testing.T) {
	n := alerts.NewEmailNotifier(alerts.EmailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "sentinel",
		Password:  "secret",
		From:      "sentinel@cosmic.watch",
		Recipient: "admin@cosmic.watch",
	}, testLogger())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.SetSend(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	})

	assert.False(t, n.Simulated())
	err := n.Notify(context.Background(), testEvent())
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "sentinel@cosmic.watch", gotFrom)
	assert.Equal(t, []string{"admin@cosmic.watch"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: NEO SENTINEL ALERT: 2022 AP7")
	assert.Contains(t, string(gotMsg), "Reason: OFFICIAL_HAZARD")
}

func TestFormatEmailBody(t *testing.T) {
	body := alerts.FormatEmailBody(testEvent())

	assert.Contains(t, body, "Target: 2022 AP7 (ID: 2022AP7)")
	assert.Contains(t, body, "Reason: OFFICIAL_HAZARD")
	assert.Contains(t, body, "Miss Distance: 47800000 km")
	assert.Contains(t, body, "Diameter: ~1370 meters")
	assert.Contains(t, body, "Velocity: 79560 km/h")
	assert.Contains(t, body, "Risk Score: 65/100")
}
