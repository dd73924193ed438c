package templates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brand = Brand{AppName: "ServiceMart", ClientURL: "https://app.example.com"}

func TestRenderRegistrationOTP(t *testing.T) {
	data := brand.RegistrationOTP("Asha", "asha@example.com", "user", "042917", 5*time.Minute)
	subject, text, html, err := Render(RegistrationOTP, data)
	require.NoError(t, err)
	assert.Equal(t, "ServiceMart verification code: 042917", subject)
	assert.Contains(t, text, "expires in 5 minutes")
	assert.Contains(t, html, "042917")
}

func TestRenderInterestEscapesHTML(t *testing.T) {
	data := brand.InterestReceived("Ravi", "ravi@example.com", "Asha", "", "asha@example.com", "Plumbing", "", "<b>hi</b>")
	_, text, html, err := Render(InterestReceived, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Phone: -")
	assert.Contains(t, html, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestRenderOrderPlaced(t *testing.T) {
	data := brand.OrderPlaced("Depot", "depot@example.com", "o-1", 3, decimal.RequireFromString("1080.5"))
	subject, text, _, err := Render(OrderPlaced, data)
	require.NoError(t, err)
	assert.Equal(t, "New order o-1 (3 items)", subject)
	assert.Contains(t, text, "total 1080.50")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
