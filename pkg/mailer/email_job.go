package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject+Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// LogQueue stands in for the RabbitMQ publisher when mail delivery is
// disabled. Jobs are only logged, which keeps OTP codes visible in development.
type LogQueue struct {
	Logger logrus.FieldLogger
}

func (q LogQueue) Enqueue(_ context.Context, job EmailJob) error {
	if q.Logger != nil {
		q.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template, "data": job.Data}).
			Info("email delivery disabled; job not queued")
	}
	return nil
}
