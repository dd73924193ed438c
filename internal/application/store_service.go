package application

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

const (
	importSheet   = "Sheet1"
	maxImportRows = 1000
)

// StoreService is the store owner's side of the catalog.
type StoreService struct {
	Products repo.ProductRepository
	Search   gateway.ProductSearch
	Files    gateway.FileStore
	Logger   logrus.FieldLogger
}

type ProductInput struct {
	Name        string
	Description string
	Category    string
	Grade       string
	Brand       string
	Unit        string
	BasePrice   decimal.Decimal
	Stock       int
	BulkPricing []entity.BulkTier
	// Keep lists already uploaded image URLs to retain on update.
	Keep []string
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Failed  []ImportRowError `json:"failed"`
}

func validateProduct(in ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case !in.BasePrice.IsPositive():
		return fmt.Errorf("%w: basePrice must be positive", ErrInvalidProduct)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	return entity.ValidateBulkPricing(in.BasePrice, in.BulkPricing)
}

func applyProduct(p *entity.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Category = strings.TrimSpace(in.Category)
	p.Grade = strings.TrimSpace(in.Grade)
	p.Brand = strings.TrimSpace(in.Brand)
	p.Unit = strings.TrimSpace(in.Unit)
	p.BasePrice = in.BasePrice
	p.Stock = in.Stock
	p.BulkPricing = append([]entity.BulkTier{}, in.BulkPricing...)
}

// index mirrors p into the search engine; failures only log.
func (s *StoreService) index(ctx context.Context, p *entity.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
	}
}

func (s *StoreService) ListProducts(ctx context.Context, storeID string, page, limit int) (*ProductPage, error) {
	page, limit = normalizePage(page, limit, defaultCatalogLimit, maxCatalogLimit)
	items, total, err := s.Products.List(ctx, repo.ProductFilter{StoreID: storeID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Product{}
	}
	return &ProductPage{Products: items, CurrentPage: page, TotalPages: totalPages(total, limit), TotalProducts: total}, nil
}

func (s *StoreService) CreateProduct(ctx context.Context, storeID string, in ProductInput, images []Upload) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	urls, err := uploadAll(ctx, s.Files, folderProducts, storeID, images)
	if err != nil {
		return nil, err
	}
	p := &entity.Product{StoreID: storeID, Images: append([]string{}, urls...)}
	applyProduct(p, in)
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

func (s *StoreService) UpdateProduct(ctx context.Context, storeID, id string, in ProductInput, images []Upload) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	if p.StoreID != storeID {
		return nil, entity.ErrProductNotFound
	}
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	urls, err := uploadAll(ctx, s.Files, folderProducts, storeID, images)
	if err != nil {
		return nil, err
	}
	applyProduct(p, in)
	p.Images = append(keepImages(p.Images, in.Keep), urls...)
	if err := s.Products.Update(ctx, p); err != nil {
		return nil, notFound(err, entity.ErrProductNotFound)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *StoreService) DeleteProduct(ctx context.Context, storeID, id string) error {
	if err := s.Products.Delete(ctx, storeID, id); err != nil {
		return notFound(err, entity.ErrProductNotFound)
	}
	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// ImportProducts creates products from the first sheet of an xlsx workbook.
// The header row names the columns (name, category, grade, basePrice, stock,
// description) in any order. Rows that fail validation are reported and
// skipped; the rest are created.
func (s *StoreService) ImportProducts(ctx context.Context, storeID string, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(importSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows in %s", ErrInvalidImport, importSheet)
	}
	if len(rows)-1 > maxImportRows {
		return nil, fmt.Errorf("%w: at most %d rows per import", ErrInvalidImport, maxImportRows)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "baseprice", "stock"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidImport, required)
		}
	}
	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &ImportResult{Failed: []ImportRowError{}}
	for n, row := range rows[1:] {
		rowNum := n + 2
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		price, err := decimal.NewFromString(cell(row, "baseprice"))
		if err != nil {
			res.Failed = append(res.Failed, ImportRowError{Row: rowNum, Message: "basePrice is not a number"})
			continue
		}
		stock, err := strconv.Atoi(cell(row, "stock"))
		if err != nil {
			res.Failed = append(res.Failed, ImportRowError{Row: rowNum, Message: "stock is not a whole number"})
			continue
		}
		in := ProductInput{
			Name:        cell(row, "name"),
			Category:    cell(row, "category"),
			Grade:       cell(row, "grade"),
			Brand:       cell(row, "brand"),
			Unit:        cell(row, "unit"),
			Description: cell(row, "description"),
			BasePrice:   price,
			Stock:       stock,
		}
		if _, err := s.CreateProduct(ctx, storeID, in, nil); err != nil {
			res.Failed = append(res.Failed, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		res.Created++
	}
	s.Logger.WithFields(logrus.Fields{"store_id": storeID, "created": res.Created, "failed": len(res.Failed)}).Info("product import finished")
	return res, nil
}
