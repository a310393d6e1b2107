// Package storetest holds behaviour checks shared by every favorites store
// backend.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/gadget-catalog/internal/domain/favorite"
)

// Run exercises s through the favorite.Store contract and the favorites
// service on top of it.
func Run(t *testing.T, s favorite.Store) {
	t.Helper()

	t.Run("MissingKey", func(t *testing.T) {
		_, ok, err := s.Get(context.Background(), "storetest:missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "storetest:k", "first"))
		require.NoError(t, s.Set(ctx, "storetest:k", "second"))

		v, ok, err := s.Get(ctx, "storetest:k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", v)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "storetest:empty", ""))

		v, ok, err := s.Get(ctx, "storetest:empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("FavoritesRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		svc := favorite.NewService(s, nil)

		for _, id := range []int{3, 12, 7} {
			_, _, err := svc.Toggle(ctx, "storetest-client", id)
			require.NoError(t, err)
		}
		_, fav, err := svc.Toggle(ctx, "storetest-client", 12)
		require.NoError(t, err)
		assert.False(t, fav)

		set, err := svc.Load(ctx, "storetest-client")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 7}, set.IDs())

		raw, ok, err := s.Get(ctx, favorite.Key("storetest-client"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `["3","7"]`, raw)
	})
}
