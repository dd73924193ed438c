package entity

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// BulkTier is a quantity-based price: buying MinQuantity or more units
// charges Price per unit.
type BulkTier struct {
	MinQuantity int             `json:"minQuantity"`
	Price       decimal.Decimal `json:"price"`
}

type Product struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Grade       string          `json:"grade"`
	Brand       string          `json:"brand"`
	Unit        string          `json:"unit"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Stock       int             `json:"stock"`
	BulkPricing []BulkTier      `json:"bulkPricing"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UnitPrice is the per-unit price charged for qty units.
func (p *Product) UnitPrice(qty int) decimal.Decimal {
	return ResolveUnitPrice(p.BasePrice, p.BulkPricing, qty)
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// ResolveUnitPrice picks the tier with the largest MinQuantity not above qty.
// When no tier qualifies the base price applies.
func ResolveUnitPrice(base decimal.Decimal, tiers []BulkTier, qty int) decimal.Decimal {
	if len(tiers) == 0 {
		return base
	}
	sorted := slices.Clone(tiers)
	slices.SortFunc(sorted, func(a, b BulkTier) int { return b.MinQuantity - a.MinQuantity })
	for _, t := range sorted {
		if t.MinQuantity <= qty {
			return t.Price
		}
	}
	return base
}

// ValidateBulkPricing checks tiers are usable discounts: minQuantity of at
// least 2, strictly increasing quantities, and strictly decreasing prices
// that stay positive and below the base price.
func ValidateBulkPricing(base decimal.Decimal, tiers []BulkTier) error {
	sorted := slices.Clone(tiers)
	slices.SortFunc(sorted, func(a, b BulkTier) int { return a.MinQuantity - b.MinQuantity })
	prevPrice := base
	prevQty := 1
	for _, t := range sorted {
		if t.MinQuantity < 2 || t.MinQuantity == prevQty {
			return fmt.Errorf("%w: minQuantity %d", ErrInvalidBulkPricing, t.MinQuantity)
		}
		if !t.Price.IsPositive() || !t.Price.LessThan(prevPrice) {
			return fmt.Errorf("%w: price %s at minQuantity %d", ErrInvalidBulkPricing, t.Price, t.MinQuantity)
		}
		prevQty = t.MinQuantity
		prevPrice = t.Price
	}
	return nil
}
