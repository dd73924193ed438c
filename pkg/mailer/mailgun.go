package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun sends rendered emails through the Mailgun API.
type Mailgun struct {
	Sender string
	client *mg.MailgunImpl
}

// NewMailgun builds a client for domain. apiBase selects the region
// (e.g. https://api.eu.mailgun.net/v3); empty keeps the US default.
func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{Sender: sender, client: client}
}

// Send delivers one message. html is optional; the template name, when
// known, is attached as a Mailgun tag.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if tag := TagFrom(ctx); tag != "" {
		_ = msg.AddTag(tag)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

type tagKey struct{}

// WithTag stores the Mailgun tag for the next Send on ctx.
func WithTag(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, tagKey{}, tag)
}

func TagFrom(ctx context.Context) string {
	tag, _ := ctx.Value(tagKey{}).(string)
	return tag
}
