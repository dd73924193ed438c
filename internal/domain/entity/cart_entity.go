package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line with pricing resolved for its quantity.
type CartItem struct {
	ProductID       string          `json:"productId"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	Quantity        int             `json:"quantity"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	AppliedPrice    decimal.Decimal `json:"appliedPrice"`
	DiscountPerUnit decimal.Decimal `json:"discount"`
	Savings         decimal.Decimal `json:"savings"`
}

// Cart belongs to one user and one store.
//
// TotalPrice is the sum of quantity x original price over all items and
// TotalSavings the sum of item savings. Both are rebuilt by Recalculate after
// every mutation rather than maintained incrementally.
type Cart struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	StoreID      string          `json:"storeId"`
	Items        []CartItem      `json:"items"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewCart(userID, storeID string) *Cart {
	return &Cart{UserID: userID, StoreID: storeID, Items: []CartItem{}}
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Item returns the line for productID, if any.
func (c *Cart) Item(productID string) (CartItem, bool) {
	if i := c.find(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// Add merges qty units of p into the cart. An existing line keeps a single
// entry whose pricing is resolved for the summed quantity. The cart is left
// untouched when the merged quantity exceeds stock.
func (c *Cart) Add(p *Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	i := c.find(p.ID)
	total := qty
	if i >= 0 {
		total += c.Items[i].Quantity
	}
	if total > p.Stock {
		return ErrInsufficientStock
	}
	if i < 0 {
		c.Items = append(c.Items, CartItem{ProductID: p.ID})
		i = len(c.Items) - 1
	}
	priceLine(&c.Items[i], p, total)
	c.Recalculate()
	return nil
}

// SetQuantity replaces the quantity of an existing line. Zero removes it.
func (c *Cart) SetQuantity(p *Product, qty int) error {
	i := c.find(p.ID)
	if i < 0 {
		return ErrCartItemNotFound
	}
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		c.Remove(p.ID)
		return nil
	}
	if qty > p.Stock {
		return ErrInsufficientStock
	}
	priceLine(&c.Items[i], p, qty)
	c.Recalculate()
	return nil
}

// Remove drops the line for productID and reports whether it existed.
func (c *Cart) Remove(productID string) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.Recalculate()
	return true
}

// Recalculate rebuilds TotalPrice and TotalSavings from the items.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	savings := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.OriginalPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		savings = savings.Add(it.Savings)
	}
	c.TotalPrice = total
	c.TotalSavings = savings
}

// Payable is what the cart costs after bulk discounts.
func (c *Cart) Payable() decimal.Decimal {
	return c.TotalPrice.Sub(c.TotalSavings)
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func priceLine(it *CartItem, p *Product, qty int) {
	applied := p.UnitPrice(qty)
	discount := p.BasePrice.Sub(applied)
	it.Name = p.Name
	if len(p.Images) > 0 {
		it.Image = p.Images[0]
	}
	it.Quantity = qty
	it.OriginalPrice = p.BasePrice
	it.AppliedPrice = applied
	it.DiscountPerUnit = discount
	it.Savings = discount.Mul(decimal.NewFromInt(int64(qty)))
}
