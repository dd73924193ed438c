package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

type PaymentService struct {
	Orders    repo.OrderRepository
	Accounts  repo.AccountRepository
	Gateway   gateway.PaymentGateway
	Events    gateway.OrderEvents
	ClientURL string
	Logger    logrus.FieldLogger
}

// CreateCheckoutSession opens one hosted payment page covering the given
// card orders of the user and remembers the session on each order.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID string, orderIDs []string) (gateway.CheckoutSession, error) {
	if len(orderIDs) == 0 {
		return gateway.CheckoutSession{}, ErrOrderNotFound
	}
	var lines []gateway.PaymentLine
	for _, id := range orderIDs {
		o, err := s.Orders.GetByID(ctx, id)
		if err != nil {
			return gateway.CheckoutSession{}, notFound(err, ErrOrderNotFound)
		}
		if o.UserID != userID {
			return gateway.CheckoutSession{}, ErrOrderNotFound
		}
		if o.PaymentMethod != entity.PaymentCard || o.PaymentStatus != entity.PaymentPending || o.Status == entity.OrderCancelled {
			return gateway.CheckoutSession{}, ErrPaymentNotPending
		}
		for _, it := range o.Items {
			lines = append(lines, gateway.PaymentLine{Name: it.Name, Image: it.Image, UnitPrice: it.UnitPrice, Quantity: it.Quantity})
		}
	}

	req := gateway.CheckoutRequest{
		Reference:  userID,
		Lines:      lines,
		SuccessURL: strings.TrimRight(s.ClientURL, "/") + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  strings.TrimRight(s.ClientURL, "/") + "/cart",
		Metadata:   map[string]string{"user_id": userID, "order_ids": strings.Join(orderIDs, ",")},
	}
	if u, err := s.Accounts.GetByID(ctx, entity.RoleUser, userID); err == nil {
		req.Email = u.Email
	}

	sess, err := s.Gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("create checkout session failed")
		return gateway.CheckoutSession{}, err
	}
	if err := s.Orders.SetPaymentSession(ctx, userID, orderIDs, sess.ID); err != nil {
		return gateway.CheckoutSession{}, notFound(err, ErrOrderNotFound)
	}
	return sess, nil
}

// VerifySession marks the session's orders paid once the provider confirms
// the payment. Repeating it after success is a no-op that returns the orders.
func (s *PaymentService) VerifySession(ctx context.Context, userID, sessionID string) ([]*entity.Order, error) {
	orders, err := s.Orders.ListByPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	allPaid := true
	for _, o := range orders {
		if o.UserID != userID {
			return nil, ErrOrderNotFound
		}
		allPaid = allPaid && o.PaymentStatus == entity.PaymentPaid
	}
	if allPaid {
		return orders, nil
	}

	paid, err := s.Gateway.SessionPaid(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrPaymentIncomplete
	}
	updated, err := s.Orders.MarkPaid(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, o := range updated {
		s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "session_id": sessionID}).Info("order paid")
		if s.Events != nil {
			s.Events.Publish(ctx, gateway.OrderPaid, o)
		}
	}
	return updated, nil
}
