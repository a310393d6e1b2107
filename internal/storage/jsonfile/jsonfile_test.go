package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/gadget-catalog/db"
)

func TestRepository_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":1,"title":"A","category":"case","date":"2024-01-01","price":5},
		{"id":2,"title":"B","category":"charger","date":"2024-02-01","price":"15.5"}
	]`), 0o600))

	products, err := New(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "charger", products[1].Category)
	assert.Equal(t, "15.5", products[1].Price.String())
}

func TestRepository_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.json")).List(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRepository_Malformed(t *testing.T) {
	_, err := FromBytes([]byte(`[{"id":1,`)).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<embedded>")
}

func TestRepository_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FromBytes([]byte(`[]`)).List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRepository_EmbeddedSeed(t *testing.T) {
	products, err := FromBytes(db.Products).List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	seen := make(map[int]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Category)
		assert.False(t, p.Date.IsZero())
	}
}
