// Package catalog serves the product list. The data set is a fixed mock
// catalog; search goes through Elasticsearch when a client is wired and falls
// back to in-memory matching otherwise, so the rest of the engine never cares
// which path answered.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
)

// CategoryAll matches every category.
const CategoryAll = "all"

var products = []entity.Product{
	{
		ID: "1", Name: "Wireless Bluetooth Headphones", Category: "electronics",
		Price: 1999, OriginalPrice: 2999, Rating: 4.5, ReviewCount: 1247,
		Description: "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
		InStock:     true,
		Features:    []string{"Noise Cancellation", "30hr Battery", "Fast Charging"},
	},
	{
		ID: "2", Name: "Smart Fitness Band", Category: "electronics",
		Price: 2499, OriginalPrice: 3999, Rating: 4.2, ReviewCount: 892,
		Description: "Track your fitness with heart rate monitoring, sleep tracking, and smartphone notifications.",
		InStock:     true,
		Features:    []string{"Heart Rate Monitor", "Sleep Tracking", "Water Resistant"},
	},
	{
		ID: "3", Name: "Cotton T-Shirt (Pack of 3)", Category: "fashion",
		Price: 899, OriginalPrice: 1299, Rating: 4.3, ReviewCount: 567,
		Description: "Comfortable cotton t-shirts in assorted colors. Perfect for everyday wear.",
		InStock:     true,
		Features:    []string{"100% Cotton", "Machine Wash", "Pack of 3"},
	},
	{
		ID: "4", Name: "Stainless Steel Water Bottle", Category: "home",
		Price: 599, OriginalPrice: 899, Rating: 4.7, ReviewCount: 345,
		Description: "Keep your drinks hot or cold for hours with this insulated stainless steel bottle.",
		InStock:     true,
		Features:    []string{"Insulated", "BPA Free", "1 Liter Capacity"},
	},
	{
		ID: "5", Name: "Organic Face Cream", Category: "beauty",
		Price: 1299, OriginalPrice: 1999, Rating: 4.4, ReviewCount: 234,
		Description: "Nourish your skin with this organic face cream made with natural ingredients.",
		InStock:     true,
		Features:    []string{"Organic", "Cruelty Free", "For All Skin Types"},
	},
	{
		ID: "6", Name: "Wireless Mouse", Category: "electronics",
		Price: 799, OriginalPrice: 1299, Rating: 4.1, ReviewCount: 678,
		Description: "Ergonomic wireless mouse with precision tracking and long battery life.",
		InStock:     true,
		Features:    []string{"2.4GHz Wireless", "Optical Tracking", "12 Months Battery"},
	},
	{
		ID: "7", Name: "Denim Jeans", Category: "fashion",
		Price: 1599, OriginalPrice: 2299, Rating: 4.0, ReviewCount: 445,
		Description: "Classic denim jeans with comfortable fit and durable fabric.",
		InStock:     true,
		Features:    []string{"100% Cotton", "Regular Fit", "Machine Wash"},
	},
	{
		ID: "8", Name: "Non-Stick Cookware Set", Category: "home",
		Price: 3499, OriginalPrice: 4999, Rating: 4.6, ReviewCount: 289,
		Description: "Complete cookware set with non-stick coating for healthy cooking.",
		InStock:     true,
		Features:    []string{"Non-Stick", "Dishwasher Safe", "3-Piece Set"},
	},
}

// Products returns a copy of the full catalog.
func Products() []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}

// DiscountPercent is the rounded percentage off the original price.
func DiscountPercent(p entity.Product) int {
	if p.OriginalPrice <= 0 || p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}

type Catalog struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

// New builds a catalog. es may be nil; search then runs in memory only.
func New(es *elasticsearch.Client, index string, logger *logrus.Logger) *Catalog {
	return &Catalog{es: es, index: index, logger: logger}
}

// ByID looks a product up by id.
func (c *Catalog) ByID(id string) (entity.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Product{}, apperr.NotFound("Product not found")
}

// Search filters by category (use CategoryAll or "" for no filter) and an
// optional free-text term matched against name and description.
func (c *Catalog) Search(ctx context.Context, category, term string) ([]entity.Product, error) {
	if c.es != nil && term != "" {
		hits, err := c.searchES(ctx, category, term)
		if err == nil {
			return hits, nil
		}
		c.logger.WithError(err).Warn("elasticsearch search failed, falling back to in-memory")
	}
	return c.searchLocal(category, term), nil
}

func (c *Catalog) searchLocal(category, term string) []entity.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) searchES(ctx context.Context, category, term string) ([]entity.Product, error) {
	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":  term,
			"fields": []string{"name^2", "description"},
		},
	}}
	var filter []map[string]any
	if category != "" && category != CategoryAll {
		filter = append(filter, map[string]any{"term": map[string]any{"category": category}})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, err
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// IndexAll writes every product document to the index (seed tool).
func (c *Catalog) IndexAll(ctx context.Context) error {
	if c.es == nil {
		return fmt.Errorf("elasticsearch client not configured")
	}
	for _, p := range products {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		req := esapi.IndexRequest{
			Index:      c.index,
			DocumentID: p.ID,
			Body:       bytes.NewReader(b),
			Refresh:    "true",
		}
		res, err := req.Do(ctx, c.es)
		if err != nil {
			return err
		}
		if res.IsError() {
			_ = res.Body.Close()
			return fmt.Errorf("index product %s: %s", p.ID, res.Status())
		}
		_ = res.Body.Close()
	}
	return nil
}
