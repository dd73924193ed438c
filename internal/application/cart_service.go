package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

// CartService keeps one cart per (user, store) and prices every line from
// the product's bulk tiers.
type CartService struct {
	Carts    repo.CartRepository
	Products repo.ProductRepository
	Accounts repo.AccountRepository
	Logger   logrus.FieldLogger
}

type AddToCartInput struct {
	ProductID string
	StoreID   string
	Quantity  int
}

// CartStore summarises one of the user's carts.
type CartStore struct {
	StoreID      string          `json:"storeId"`
	StoreName    string          `json:"storeName"`
	ItemCount    int             `json:"itemCount"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
	Payable      decimal.Decimal `json:"payable"`
}

// storeProduct loads productID and checks it is sold by storeID.
func (s *CartService) storeProduct(ctx context.Context, storeID, productID string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	if p.StoreID != storeID {
		return nil, entity.ErrProductNotFound
	}
	return p, nil
}

func (s *CartService) load(ctx context.Context, userID, storeID string) (*entity.Cart, error) {
	c, err := s.Carts.Get(ctx, userID, storeID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, entity.ErrCartItemNotFound
	}
	return c, err
}

// persist upserts c, or deletes it once the last line is gone.
func (s *CartService) persist(ctx context.Context, c *entity.Cart) (*entity.Cart, error) {
	if c.Empty() {
		if err := s.Carts.Delete(ctx, c.UserID, c.StoreID); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := s.Carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddToCart merges the quantity into the (user, store) cart, creating the
// cart on first use. Nothing is saved when the merged quantity exceeds stock.
func (s *CartService) AddToCart(ctx context.Context, userID string, in AddToCartInput) (*entity.Cart, error) {
	if in.Quantity < 1 {
		return nil, entity.ErrInvalidQuantity
	}
	p, err := s.storeProduct(ctx, in.StoreID, in.ProductID)
	if err != nil {
		return nil, err
	}
	c, err := s.Carts.Get(ctx, userID, in.StoreID)
	if errors.Is(err, repo.ErrNotFound) {
		c, err = entity.NewCart(userID, in.StoreID), nil
	}
	if err != nil {
		return nil, err
	}
	if err := c.Add(p, in.Quantity); err != nil {
		return nil, err
	}
	return s.persist(ctx, c)
}

// GetCarts returns every cart of the user, most recently touched first.
func (s *CartService) GetCarts(ctx context.Context, userID string) ([]*entity.Cart, error) {
	return s.Carts.ListByUser(ctx, userID)
}

// UpdateQuantity sets the absolute quantity of a line. Zero removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, storeID, productID string, qty int) (*entity.Cart, error) {
	c, err := s.load(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Item(productID); !ok {
		return nil, entity.ErrCartItemNotFound
	}
	if qty == 0 {
		c.Remove(productID)
		return s.persist(ctx, c)
	}
	p, err := s.storeProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(p, qty); err != nil {
		return nil, err
	}
	return s.persist(ctx, c)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, storeID, productID string) (*entity.Cart, error) {
	c, err := s.load(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(productID) {
		return nil, entity.ErrCartItemNotFound
	}
	return s.persist(ctx, c)
}

// ClearCart empties one store's cart, or all carts when storeID is empty.
func (s *CartService) ClearCart(ctx context.Context, userID, storeID string) error {
	if storeID == "" {
		return s.Carts.DeleteAll(ctx, userID)
	}
	return s.Carts.Delete(ctx, userID, storeID)
}

func (s *CartService) CartStores(ctx context.Context, userID string) ([]CartStore, error) {
	carts, err := s.Carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CartStore, 0, len(carts))
	for _, c := range carts {
		cs := CartStore{
			StoreID:      c.StoreID,
			ItemCount:    c.ItemCount(),
			TotalPrice:   c.TotalPrice,
			TotalSavings: c.TotalSavings,
			Payable:      c.Payable(),
		}
		if st, err := s.Accounts.GetByID(ctx, entity.RoleStore, c.StoreID); err == nil {
			cs.StoreName = st.DisplayName()
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}
