package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsAndFallbacks(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("EMAIL_USER", "shop@example.com")
	t.Setenv("MAILGUN_SENDER", "")
	t.Setenv("OTP_TTL", "bogus")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	c := Load()
	assert.Equal(t, "production", c.Env)
	assert.True(t, c.IsProduction())
	assert.True(t, c.CookieSecure)
	assert.Equal(t, "shop@example.com", c.MailgunSender)
	assert.Equal(t, 5*time.Minute, c.OTPTTL)
	assert.Equal(t, int64(5<<20), c.UploadMaxBytes)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokerList())
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "mart", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/mart?sslmode=disable", c.PostgresDSN())

	c.DatabaseURL = "postgres://x/y"
	assert.Equal(t, "postgres://x/y", c.PostgresDSN())
}

func TestCORSOriginsIncludesClient(t *testing.T) {
	c := &Config{CORSAllowedOrigins: "https://a.test, https://b.test", ClientURL: "https://b.test"}
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, c.CORSOrigins())

	c.ClientURL = "https://shop.test"
	assert.Equal(t, []string{"https://a.test", "https://b.test", "https://shop.test"}, c.CORSOrigins())
}
