package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderShipped: true, OrderCancelled: true},
	OrderShipped:    {OrderDelivered: true},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
)

// OrderItem snapshots a product at checkout time.
type OrderItem struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	StoreID          string          `json:"storeId"`
	Items            []OrderItem     `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	ShippingAddress  Address         `json:"shippingAddress"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Status           OrderStatus     `json:"status"`
	PaymentSessionID string          `json:"paymentSessionId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Transition moves the order to next when the lifecycle allows it.
func (o *Order) Transition(next OrderStatus) error {
	if !CanTransition(o.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// DraftItem is a requested product quantity before prices are resolved.
type DraftItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderDraft is one store's share of a checkout.
type OrderDraft struct {
	StoreID         string
	Items           []DraftItem
	ShippingAddress Address
	PaymentMethod   PaymentMethod
}

// StoreLine is a draft item tagged with the store that sells it.
type StoreLine struct {
	StoreID string
	DraftItem
}

// SplitByStore groups lines into one draft per store, keeping the order in
// which stores first appear and merging repeated products.
func SplitByStore(lines []StoreLine, ship Address, method PaymentMethod) []OrderDraft {
	var drafts []OrderDraft
	index := map[string]int{}
	for _, l := range lines {
		i, ok := index[l.StoreID]
		if !ok {
			drafts = append(drafts, OrderDraft{StoreID: l.StoreID, ShippingAddress: ship, PaymentMethod: method})
			i = len(drafts) - 1
			index[l.StoreID] = i
		}
		drafts[i].Items = mergeDraftItem(drafts[i].Items, l.DraftItem)
	}
	return drafts
}

func mergeDraftItem(items []DraftItem, it DraftItem) []DraftItem {
	for i := range items {
		if items[i].ProductID == it.ProductID {
			items[i].Quantity += it.Quantity
			return items
		}
	}
	return append(items, it)
}

// BuildOrder prices a draft against the current product rows. Every product
// must exist, belong to the draft's store and have enough stock. Prices are
// resolved here from bulk tiers; nothing client supplied is trusted.
func BuildOrder(userID string, d OrderDraft, products map[string]*Product) (*Order, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	merged := make([]DraftItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.ProductID)
		}
		merged = mergeDraftItem(merged, it)
	}

	method := d.PaymentMethod
	if method == "" {
		method = PaymentCOD
	}
	o := &Order{
		UserID:          userID,
		StoreID:         d.StoreID,
		Items:           make([]OrderItem, 0, len(merged)),
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   method,
		PaymentStatus:   PaymentPending,
		Status:          OrderPending,
	}
	subtotal := decimal.Zero
	for _, it := range merged {
		p, ok := products[it.ProductID]
		if !ok || p == nil || p.StoreID != d.StoreID {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return nil, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, p.Name, p.Stock, it.Quantity)
		}
		unit := p.UnitPrice(it.Quantity)
		line := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		item := OrderItem{
			ProductID:     p.ID,
			Name:          p.Name,
			Quantity:      it.Quantity,
			UnitPrice:     unit,
			OriginalPrice: p.BasePrice,
			LineTotal:     line,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		o.Items = append(o.Items, item)
		subtotal = subtotal.Add(line)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal
	return o, nil
}
