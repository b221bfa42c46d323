package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP settings for the email channel. A config without a
// username puts the notifier in simulation mode: the formatted alert is
// logged instead of sent, so dev and test environments work without
// credentials.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
}

// EmailNotifier sends a human-readable alert summary to a configured
// recipient.
type EmailNotifier struct {
	cfg    EmailConfig
	logger *slog.Logger

	// send is swappable so tests can capture outgoing mail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates an email channel.
func NewEmailNotifier(cfg EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger, send: smtp.SendMail}
}

func (e *EmailNotifier) Name() string { return "email" }

// Simulated reports whether the notifier logs instead of sending.
func (e *EmailNotifier) Simulated() bool { return e.cfg.Username == "" }

func (e *EmailNotifier) Notify(_ context.Context, event Event) error {
	subject := fmt.Sprintf("NEO SENTINEL ALERT: %s", event.ObjectName)
	body := FormatEmailBody(event)

	if e.Simulated() {
		e.logger.Info("email simulation",
			"to", e.cfg.Recipient,
			"subject", subject,
			"body", body,
		)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + e.cfg.From,
		"To: " + e.cfg.Recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	if err := e.send(addr, auth, e.cfg.From, []string{e.cfg.Recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	e.logger.Info("alert email sent", "to", e.cfg.Recipient, "object_id", event.ObjectID)
	return nil
}

// FormatEmailBody renders the plain-text alert summary.
func FormatEmailBody(event Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URGENT ALERT SYSTEM\n")
	fmt.Fprintf(&b, "-------------------\n")
	fmt.Fprintf(&b, "Target: %s (ID: %s)\n", event.ObjectName, event.ObjectID)
	fmt.Fprintf(&b, "Reason: %s\n\n", event.Reason)
	fmt.Fprintf(&b, "Details:\n")
	fmt.Fprintf(&b, "- Miss Distance: %.0f km\n", event.MissDistanceKm)
	fmt.Fprintf(&b, "- Diameter: ~%.0f meters\n", event.DiameterMaxM)
	fmt.Fprintf(&b, "- Velocity: %.0f km/h\n", event.VelocityKph)
	fmt.Fprintf(&b, "- Risk Score: %d/100\n\n", event.RiskScore)
	fmt.Fprintf(&b, "Login to the command center for full telemetry.\n")
	return b.String()
}
