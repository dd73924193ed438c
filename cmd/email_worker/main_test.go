package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html, tag string }

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(ctx context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html, mailer.TagFrom(ctx)})
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func body(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleRendersTemplate(t *testing.T) {
	brand := mailtpl.Brand{AppName: "ServiceMart"}
	job := mailer.EmailJob{
		To:       "asha@example.com",
		Template: mailtpl.RegistrationOTP,
		Data:     brand.RegistrationOTP("Asha", "asha@example.com", "user", "042917", 5*time.Minute),
	}
	s := &fakeSender{}
	assert.Equal(t, ack, handle(context.Background(), s, body(t, job), quietLogger()))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "asha@example.com", s.sent[0].to)
	assert.Equal(t, "ServiceMart verification code: 042917", s.sent[0].subject)
	assert.Contains(t, s.sent[0].html, "042917")
	assert.Equal(t, mailtpl.RegistrationOTP, s.sent[0].tag)
}

func TestHandlePlainJob(t *testing.T) {
	s := &fakeSender{}
	job := mailer.EmailJob{To: "a@x.io", Subject: "hi", Text: "hello"}
	assert.Equal(t, ack, handle(context.Background(), s, body(t, job), quietLogger()))
	assert.Equal(t, sent{"a@x.io", "hi", "hello", "", ""}, s.sent[0])
}

func TestHandleOutcomes(t *testing.T) {
	log := quietLogger()
	assert.Equal(t, drop, handle(context.Background(), &fakeSender{}, []byte("{"), log))
	assert.Equal(t, drop, handle(context.Background(), &fakeSender{}, body(t, mailer.EmailJob{Subject: "x"}), log))
	assert.Equal(t, drop, handle(context.Background(), &fakeSender{}, body(t, mailer.EmailJob{To: "a@x.io", Template: "nope"}), log))

	failing := &fakeSender{err: errors.New("mailgun down")}
	assert.Equal(t, retry, handle(context.Background(), failing, body(t, mailer.EmailJob{To: "a@x.io", Subject: "x"}), log))
}
