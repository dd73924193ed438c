package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/response"
)

type errStatus struct {
	err    error
	status int
	// message overrides err.Error() when set
	message string
}

// errorTable is checked in order; the first errors.Is match wins.
var errorTable = []errStatus{
	{application.ErrInvalidCredentials, http.StatusUnauthorized, ""},
	{application.ErrAccountBlocked, http.StatusForbidden, ""},
	{application.ErrNotApproved, http.StatusForbidden, ""},
	{application.ErrForbidden, http.StatusForbidden, ""},

	{errInvalidUpload, http.StatusBadRequest, ""},
	{application.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
	{application.ErrResendThrottled, http.StatusTooManyRequests, ""},
	{application.ErrEmailTaken, http.StatusBadRequest, ""},
	{application.ErrRegistrationExpired, http.StatusBadRequest, ""},
	{application.ErrWrongPassword, http.StatusBadRequest, ""},
	{application.ErrInvalidDocuments, http.StatusBadRequest, ""},
	{application.ErrInvalidRating, http.StatusBadRequest, ""},
	{application.ErrInvalidPriceRange, http.StatusBadRequest, ""},
	{application.ErrInvalidProduct, http.StatusBadRequest, ""},
	{application.ErrInvalidImport, http.StatusBadRequest, ""},
	{application.ErrShippingRequired, http.StatusBadRequest, ""},
	{application.ErrNothingToCheckout, http.StatusBadRequest, ""},
	{application.ErrPaymentNotPending, http.StatusBadRequest, ""},
	{application.ErrPaymentIncomplete, http.StatusBadRequest, ""},
	{entity.ErrInsufficientStock, http.StatusBadRequest, ""},
	{entity.ErrInvalidQuantity, http.StatusBadRequest, ""},
	{entity.ErrInvalidBulkPricing, http.StatusBadRequest, ""},
	{entity.ErrInvalidTransition, http.StatusBadRequest, ""},
	{entity.ErrEmptyOrder, http.StatusBadRequest, ""},

	{application.ErrAccountNotFound, http.StatusNotFound, ""},
	{application.ErrContractorNotFound, http.StatusNotFound, ""},
	{application.ErrStoreNotFound, http.StatusNotFound, ""},
	{application.ErrProjectNotFound, http.StatusNotFound, ""},
	{application.ErrInterestNotFound, http.StatusNotFound, ""},
	{application.ErrOrderNotFound, http.StatusNotFound, ""},
	{entity.ErrProductNotFound, http.StatusNotFound, ""},
	{entity.ErrCartItemNotFound, http.StatusNotFound, ""},

	{application.ErrStorageUnavailable, http.StatusServiceUnavailable, ""},
	{gateway.ErrPaymentsDisabled, http.StatusServiceUnavailable, ""},
}

// fail maps a service error onto the envelope. Unknown errors are logged
// and reported as a plain 500.
func fail(c *gin.Context, logger logrus.FieldLogger, err error) {
	for _, e := range errorTable {
		if !errors.Is(err, e.err) {
			continue
		}
		msg := e.message
		if msg == "" {
			msg = err.Error()
		}
		var na *application.NotApprovedError
		if errors.As(err, &na) {
			response.Error[any](c, e.status, msg, gin.H{"approvalStatus": na.Status})
			return
		}
		response.Error[any](c, e.status, msg, nil)
		return
	}
	helpers.LogError(helpers.RequestLogger(logger, c), "request failed", err, nil)
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}
