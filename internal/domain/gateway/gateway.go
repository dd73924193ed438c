// Package gateway declares the outbound ports services talk to besides the
// database: object storage, mail queue, search, order events and payments.
package gateway

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/pkg/mailer"
)

// FileStore uploads a file and returns its public URL.
type FileStore interface {
	Upload(ctx context.Context, folder, owner, filename, contentType string, r io.Reader) (string, error)
}

type MailQueue interface {
	Enqueue(ctx context.Context, job mailer.EmailJob) error
}

// ProductSearch mirrors products into a full text index. Search returns
// matching product ids, best match first.
type ProductSearch interface {
	Index(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderPaid          = "order.paid"
)

// OrderEvents receives order lifecycle events after they are committed.
type OrderEvents interface {
	Publish(ctx context.Context, event string, o *entity.Order)
}

// ErrPaymentsDisabled is returned by a Payments gateway without credentials.
var ErrPaymentsDisabled = errors.New("card payments are not available")

type PaymentLine struct {
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
}

type CheckoutRequest struct {
	Reference  string
	Email      string
	Lines      []PaymentLine
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	// SessionPaid reports whether the provider has captured the payment.
	SessionPaid(ctx context.Context, sessionID string) (bool, error)
}
