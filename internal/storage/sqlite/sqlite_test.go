package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/gadget-catalog/internal/storage/storetest"
)

func TestStore_Memory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(context.Background()))
	storetest.Run(t, s)
}

func TestStore_FilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "favorites.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "favorites:a", `["1"]`))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get(ctx, "favorites:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["1"]`, v)
}

func TestStore_GetError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("favorites:a").
		WillReturnError(errors.New("database is locked"))

	_, _, err = New(conn).Get(context.Background(), "favorites:a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("INSERT INTO kv").
		WithArgs("favorites:a", `["2"]`, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	err = New(conn).Set(context.Background(), "favorites:a", `["2"]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `setting "favorites:a"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetRow(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("favorites:b").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`["5"]`))

	v, ok, err := New(conn).Get(context.Background(), "favorites:b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["5"]`, v)
	require.NoError(t, mock.ExpectationsWereMet())
}
