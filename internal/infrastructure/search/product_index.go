// Package search mirrors the product catalog into Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

const productMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "store_id":    {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "grade":       {"type": "keyword"},
      "brand":       {"type": "text"},
      "base_price":  {"type": "scaled_float", "scaling_factor": 100},
      "stock":       {"type": "integer"},
      "updated_at":  {"type": "date"}
    }
  }
}`

type ProductIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{ES: es, IndexName: index}
}

// Ensure creates the index with its mapping when missing.
func (x *ProductIndex) Ensure(ctx context.Context) error {
	return helpers.EnsureIndex(ctx, x.ES, x.IndexName, productMapping)
}

func (x *ProductIndex) Index(ctx context.Context, p *entity.Product) error {
	price, _ := p.BasePrice.Float64()
	doc := map[string]any{
		"id":          p.ID,
		"store_id":    p.StoreID,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"grade":       p.Grade,
		"brand":       p.Brand,
		"base_price":  price,
		"stock":       p.Stock,
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.Status())
	}
	return nil
}

func (x *ProductIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := x.ES.Delete(x.IndexName, id, x.ES.Delete.WithContext(c))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over the text fields and returns product ids.
func (x *ProductIndex) Search(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "category.text^2", "brand", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"size":    limit,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}
