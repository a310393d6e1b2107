package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xenking/gadget-catalog/db"
	"github.com/xenking/gadget-catalog/internal/domain/favorite"
	"github.com/xenking/gadget-catalog/internal/domain/product"
	"github.com/xenking/gadget-catalog/internal/storage/jsonfile"
	"github.com/xenking/gadget-catalog/internal/storage/memory"
	"github.com/xenking/gadget-catalog/internal/storage/postgres"
	"github.com/xenking/gadget-catalog/internal/storage/redis"
	"github.com/xenking/gadget-catalog/internal/storage/sqlite"
	"github.com/xenking/gadget-catalog/pkg/health"
)

// FavoritesStore is a favorites backend that can report its health.
type FavoritesStore interface {
	favorite.Store
	health.Pinger
}

// backends holds the storage opened for one server run.
type backends struct {
	pool      *pgxpool.Pool
	products  product.Repository
	favorites FavoritesStore
	closers   []io.Closer
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i].Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackends connects the catalog source and favorites store selected by
// cfg. The PostgreSQL pool is shared when both use it.
func openBackends(ctx context.Context, lg *zap.Logger, cfg *Config) (_ *backends, rerr error) {
	b := &backends{}
	defer func() {
		if rerr != nil {
			b.Close()
		}
	}()

	if cfg.needsPostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "create db pool")
		}
		b.pool = pool
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, errors.Wrap(err, "run migrations")
		}
	}

	switch cfg.Catalog.Source {
	case SourcePostgres:
		b.products = postgres.NewProductRepository(b.pool)
	case SourceFile:
		if cfg.Catalog.File == "" {
			b.products = jsonfile.FromBytes(db.Products)
		} else {
			b.products = jsonfile.New(cfg.Catalog.File)
		}
	}
	lg.Info("Catalog source", zap.String("source", cfg.Catalog.Source), zap.String("file", cfg.Catalog.File))

	switch cfg.Favorites.Store {
	case StoreMemory:
		b.favorites = memory.New()
	case StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.Favorites.SQLitePath)
		if err != nil {
			return nil, errors.Wrap(err, "open sqlite")
		}
		b.closers = append(b.closers, s)
		b.favorites = s
	case StorePostgres:
		b.favorites = postgres.NewKVStore(b.pool)
	case StoreRedis:
		s, err := redis.Dial(ctx, cfg.Favorites.RedisURL, cfg.Favorites.RedisPrefix, cfg.Favorites.RedisTTL)
		if err != nil {
			return nil, errors.Wrap(err, "connect redis")
		}
		b.closers = append(b.closers, s)
		b.favorites = s
	}
	lg.Info("Favorites store", zap.String("store", cfg.Favorites.Store))

	return b, nil
}
