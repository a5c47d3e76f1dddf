package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	APIBase string // optional, e.g. mg.APIBaseEU
}

func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, APIBase: apiBase}
}

// Send sends an email via Mailgun. html is optional; tags are attached for analytics.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string, tags ...string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	if m.APIBase != "" {
		client.SetAPIBase(m.APIBase)
	}
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	for _, t := range tags {
		if err := msg.AddTag(t); err != nil {
			return err
		}
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
