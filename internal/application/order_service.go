package application

import (
	"context"
	"errors"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

type OrderService struct {
	Orders   repo.OrderRepository
	Carts    repo.CartRepository
	Accounts repo.AccountRepository
	Events   gateway.OrderEvents
	Mail     gateway.MailQueue
	Brand    mailtpl.Brand
	Logger   logrus.FieldLogger
}

type CreateOrderInput struct {
	StoreID         string
	Items           []entity.DraftItem
	ShippingAddress *entity.Address
	PaymentMethod   entity.PaymentMethod
}

type CheckoutInput struct {
	ShippingAddress *entity.Address
	PaymentMethod   entity.PaymentMethod
	// StoreIDs limits checkout to these carts; empty means all of them.
	StoreIDs []string
}

// shipTo falls back to the user's saved address.
func (s *OrderService) shipTo(ctx context.Context, userID string, addr *entity.Address) (entity.Address, error) {
	if addr != nil && !addr.IsZero() {
		return *addr, nil
	}
	u, err := s.Accounts.GetByID(ctx, entity.RoleUser, userID)
	if err != nil {
		return entity.Address{}, notFound(err, ErrAccountNotFound)
	}
	if u.ShippingAddress == nil || u.ShippingAddress.IsZero() {
		return entity.Address{}, ErrShippingRequired
	}
	return *u.ShippingAddress, nil
}

// CreateOrder places a single-store order. Prices come from the product rows
// and bulk tiers. The ordered products are removed from the user's cart for
// that store; other lines in that cart are kept.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, entity.ErrEmptyOrder
	}
	ship, err := s.shipTo(ctx, userID, in.ShippingAddress)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.Place(ctx, userID, []entity.OrderDraft{{
		StoreID:         in.StoreID,
		Items:           in.Items,
		ShippingAddress: ship,
		PaymentMethod:   in.PaymentMethod,
	}})
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	s.placed(ctx, orders)
	return orders[0], nil
}

// Checkout turns the user's carts into one order per store in a single
// transaction: either every order is created or none is.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) ([]*entity.Order, error) {
	carts, err := s.Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var lines []entity.StoreLine
	for _, c := range carts {
		if len(in.StoreIDs) > 0 && !slices.Contains(in.StoreIDs, c.StoreID) {
			continue
		}
		for _, it := range c.Items {
			lines = append(lines, entity.StoreLine{
				StoreID:   c.StoreID,
				DraftItem: entity.DraftItem{ProductID: it.ProductID, Quantity: it.Quantity},
			})
		}
	}
	if len(lines) == 0 {
		return nil, ErrNothingToCheckout
	}
	ship, err := s.shipTo(ctx, userID, in.ShippingAddress)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.Place(ctx, userID, entity.SplitByStore(lines, ship, in.PaymentMethod))
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	s.placed(ctx, orders)
	return orders, nil
}

// placed runs the post-commit side effects of new orders.
func (s *OrderService) placed(ctx context.Context, orders []*entity.Order) {
	for _, o := range orders {
		s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "store_id": o.StoreID, "total": o.TotalAmount.String()}).Info("order placed")
		if s.Events != nil {
			s.Events.Publish(ctx, gateway.OrderCreated, o)
		}
		st, err := s.Accounts.GetByID(ctx, entity.RoleStore, o.StoreID)
		if err != nil {
			continue
		}
		n := 0
		for _, it := range o.Items {
			n += it.Quantity
		}
		enqueueMail(ctx, s.Mail, s.Logger, mailer.EmailJob{
			To:       st.Email,
			Template: mailtpl.OrderPlaced,
			Data:     s.Brand.OrderPlaced(st.DisplayName(), st.Email, o.ID, n, o.TotalAmount),
		})
	}
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

// GetOrder returns the order only to the user who placed it or the store
// that fulfils it.
func (s *OrderService) GetOrder(ctx context.Context, role entity.Role, accountID, id string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	switch {
	case role == entity.RoleUser && o.UserID == accountID:
	case role == entity.RoleStore && o.StoreID == accountID:
	default:
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListStoreOrders(ctx context.Context, storeID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return s.Orders.ListByStore(ctx, storeID, status)
}

// UpdateStatus moves a store's order along its lifecycle. Cancelling puts
// the stock back.
func (s *OrderService) UpdateStatus(ctx context.Context, storeID, id string, next entity.OrderStatus) (*entity.Order, error) {
	o, err := s.Orders.UpdateStatus(ctx, storeID, id, next)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"order_id": o.ID, "status": o.Status}).Info("order status updated")
	if s.Events != nil {
		s.Events.Publish(ctx, gateway.OrderStatusChanged, o)
	}
	return o, nil
}
