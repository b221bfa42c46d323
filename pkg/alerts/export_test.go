package alerts

import "net/smtp"

// SetSend overrides the SMTP send function for tests.
func (e *EmailNotifier) SetSend(send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) {
	e.send = send
}
