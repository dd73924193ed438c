package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrNotApproved         = errors.New("account is not approved")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrEmailTaken          = errors.New("email already registered")
	ErrRegistrationExpired = errors.New("registration session expired, please start again")
	ErrResendThrottled     = errors.New("please wait before requesting another code")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrForbidden           = errors.New("forbidden")

	ErrAccountNotFound    = errors.New("account not found")
	ErrContractorNotFound = errors.New("contractor not found")
	ErrStoreNotFound      = errors.New("store not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrInterestNotFound   = errors.New("interest not found")
	ErrOrderNotFound      = errors.New("order not found")

	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidImport      = errors.New("invalid import file")
	ErrInvalidDocuments   = errors.New("between 1 and 5 documents are required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidPriceRange  = errors.New("priceRange must look like min-max")
	ErrShippingRequired   = errors.New("shipping address is required")
	ErrNothingToCheckout  = errors.New("no cart items to checkout")
	ErrPaymentNotPending  = errors.New("order is not awaiting card payment")
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrStorageUnavailable = errors.New("file storage unavailable")
)

// NotApprovedError carries the approval status that blocked a login.
type NotApprovedError struct {
	Status entity.ApprovalStatus
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("account approval is %s", e.Status)
}

func (e *NotApprovedError) Is(target error) bool { return target == ErrNotApproved }
