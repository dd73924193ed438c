package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type address struct {
	City    string `json:"city" binding:"required" validate:"required"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

type signup struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,pwd"`
	Age      int      `json:"age" validate:"min=18"`
	JobTypes []string `json:"jobTypes" validate:"min=1"`
	Status   string   `json:"status" validate:"omitempty,orderstatus"`
	Address  address  `json:"shippingAddress"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	err := newValidator().Struct(signup{
		Email:    "nope",
		Password: "short",
		Age:      12,
		Status:   "lost",
		Address:  address{Pincode: "12"},
	})
	got := ToDetails(err)

	assert.Equal(t, "must be a valid email", got["email"])
	assert.Equal(t, "must be between 8 and 72 characters long", got["password"])
	assert.Equal(t, "must be at least 18", got["age"])
	assert.Equal(t, "must contain at least 1 items", got["jobTypes"])
	assert.Contains(t, got["status"], "must be one of")
	assert.Equal(t, "is required", got["shippingAddress.city"])
	assert.Equal(t, "must be a 6 digit pincode", got["shippingAddress.pincode"])
}

func TestToDetailsPayloadErrors(t *testing.T) {
	var dst struct {
		Quantity int `json:"quantity"`
	}
	err := json.Unmarshal([]byte(`{"quantity":"two"}`), &dst)
	assert.Equal(t, map[string]string{"quantity": "must be a int"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &dst)
	assert.NotEmpty(t, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
