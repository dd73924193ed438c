package application

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

const (
	defaultCatalogLimit = 12
	maxCatalogLimit     = 50
)

// CatalogService is the public, read-only view of the product catalog.
type CatalogService struct {
	Products repo.ProductRepository
	Search   gateway.ProductSearch
	Logger   logrus.FieldLogger
}

// CatalogQuery mirrors the listing's query string.
type CatalogQuery struct {
	Search       string
	PriceRange   string
	Availability string
	Categories   string
	StoreID      string
	Page         int
	Limit        int
}

type ProductPage struct {
	Products      []*entity.Product `json:"products"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalProducts int               `json:"totalProducts"`
}

// ParsePriceRange reads "min-max" where either bound may be empty.
func ParsePriceRange(s string) (lo, hi *decimal.Decimal, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return nil, nil, ErrInvalidPriceRange
	}
	parse := func(v string) (*decimal.Decimal, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return nil, ErrInvalidPriceRange
		}
		return &d, nil
	}
	if lo, err = parse(a); err != nil {
		return nil, nil, err
	}
	if hi, err = parse(b); err != nil {
		return nil, nil, err
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return nil, nil, ErrInvalidPriceRange
	}
	return lo, hi, nil
}

func (s *CatalogService) List(ctx context.Context, q CatalogQuery) (*ProductPage, error) {
	lo, hi, err := ParsePriceRange(q.PriceRange)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePage(q.Page, q.Limit, defaultCatalogLimit, maxCatalogLimit)
	f := repo.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		MinPrice: lo,
		MaxPrice: hi,
		StoreID:  q.StoreID,
		Page:     page,
		Limit:    limit,
	}
	switch q.Availability {
	case repo.AvailabilityInStock, repo.AvailabilityOutOfStock:
		f.Availability = q.Availability
	}
	if q.Categories != "" {
		f.Categories = cleanList(strings.Split(q.Categories, ","))
	}

	if f.Search != "" && s.Search != nil {
		ids, err := s.Search.Search(ctx, f.Search, 0)
		if err != nil {
			s.Logger.WithError(err).WithField("query", f.Search).Warn("product search failed, falling back to database")
		} else {
			f.IDs = append([]string{}, ids...)
			f.Search = ""
		}
	}

	items, total, err := s.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Product{}
	}
	return &ProductPage{Products: items, CurrentPage: page, TotalPages: totalPages(total, limit), TotalProducts: total}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	return p, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.Products.Categories(ctx)
}
