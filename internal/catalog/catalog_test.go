package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
)

func testCatalog() *Catalog {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(nil, "catalog", l)
}

func TestProductsIsACopy(t *testing.T) {
	first := Products()
	require.Len(t, first, 8)
	first[0].Name = "mutated"
	assert.Equal(t, "Wireless Bluetooth Headphones", Products()[0].Name)
}

func TestByID(t *testing.T) {
	c := testCatalog()

	p, err := c.ByID("4")
	require.NoError(t, err)
	assert.Equal(t, "Stainless Steel Water Bottle", p.Name)
	assert.Equal(t, "home", p.Category)

	_, err = c.ByID("99")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSearchInMemory(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	t.Run("no filters returns everything", func(t *testing.T) {
		got, err := c.Search(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, got, 8)
	})

	t.Run("all category matches everything", func(t *testing.T) {
		got, err := c.Search(ctx, CategoryAll, "")
		require.NoError(t, err)
		assert.Len(t, got, 8)
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := c.Search(ctx, "electronics", "")
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, p := range got {
			assert.Equal(t, "electronics", p.Category)
		}
	})

	t.Run("term matches name case-insensitively", func(t *testing.T) {
		got, err := c.Search(ctx, "", "WIRELESS")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("term matches description", func(t *testing.T) {
		got, err := c.Search(ctx, "", "noise cancellation")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("category and term combine", func(t *testing.T) {
		got, err := c.Search(ctx, "fashion", "cotton")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "3", got[0].ID)
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := c.Search(ctx, "beauty", "headphones")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDiscountPercent(t *testing.T) {
	p, err := testCatalog().ByID("1")
	require.NoError(t, err)
	assert.Equal(t, 33, DiscountPercent(p)) // 1999 from 2999

	assert.Equal(t, 0, DiscountPercent(entity.Product{Price: 100, OriginalPrice: 100}))
	assert.Equal(t, 0, DiscountPercent(entity.Product{Price: 100}))
}
