// Package email sends fallback hydration reminders over SMTP.
package email

import (
	"gopkg.in/mail.v2"
)

// Client sends reminder messages through an SMTP server.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
}

// NewClient creates an SMTP client with the given credentials.
func NewClient(smtpHost string, smtpPort int, username, password, from string) *Client {
	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers one reminder message to the given address.
func (c *Client) Send(to string, msg string) error {
	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Hydration reminder")

	message.SetBody("text/plain", msg)

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)

	return dialer.DialAndSend(message)
}
