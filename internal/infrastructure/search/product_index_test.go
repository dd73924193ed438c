package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

// fakeES answers just enough of the REST API for the index to work.
func fakeES(t *testing.T, seen map[string]string) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen[r.Method+" "+r.URL.Path] = string(body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"p2"},{"_id":"p1"}]}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		default:
			_, _ = w.Write([]byte(`{"result":"created"}`))
		}
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestIndexAndSearch(t *testing.T) {
	seen := map[string]string{}
	x := NewProductIndex(fakeES(t, seen), "products")
	ctx := context.Background()

	p := &entity.Product{ID: "p1", StoreID: "s1", Name: "Cement 50kg", Category: "Cement", BasePrice: decimal.RequireFromString("420.50")}
	require.NoError(t, x.Index(ctx, p))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(bodyFor(seen, "/products/_doc/p1")), &doc))
	assert.Equal(t, "Cement 50kg", doc["name"])
	assert.Equal(t, 420.5, doc["base_price"])

	ids, err := x.Search(ctx, "cement", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, ids)
	assert.Contains(t, bodyFor(seen, "/products/_search"), `"multi_match"`)

	assert.NoError(t, x.Delete(ctx, "gone"))
}

func bodyFor(seen map[string]string, path string) string {
	for k, v := range seen {
		if strings.HasSuffix(k, " "+path) {
			return v
		}
	}
	return ""
}
