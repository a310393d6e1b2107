package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xenking/gadget-catalog/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	s := New()
	storetest.Run(t, s)
	require.NoError(t, s.Ping(context.Background()))
}
