package main

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/gadget-catalog/db"
	"github.com/xenking/gadget-catalog/internal/domain/product"
	"github.com/xenking/gadget-catalog/internal/storage/jsonfile"
	"github.com/xenking/gadget-catalog/internal/storage/postgres"
)

func newSeedCmd(lg *zap.Logger) *cobra.Command {
	var (
		databaseURL  string
		productsFile string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert a products JSON file into PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("database URL is required: set --database-url or DATABASE_URL")
			}
			ctx := cmd.Context()

			var repo product.Repository = jsonfile.FromBytes(db.Products)
			if productsFile != "" {
				repo = jsonfile.New(productsFile)
			}
			products, err := repo.List(ctx)
			if err != nil {
				return err
			}

			lg.Info("Connecting to database")
			pool, err := postgres.NewPool(ctx, databaseURL)
			if err != nil {
				return errors.Wrap(err, "connect to database")
			}
			defer pool.Close()

			lg.Info("Running migrations")
			if err := postgres.RunMigrations(ctx, pool); err != nil {
				return errors.Wrap(err, "run migrations")
			}

			lg.Info("Upserting products", zap.Int("count", len(products)))
			if err := postgres.NewProductRepository(pool).Upsert(ctx, products); err != nil {
				return errors.Wrap(err, "seed products")
			}
			lg.Info("Seed completed")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	cmd.Flags().StringVar(&productsFile, "products-file", "", "Products JSON file (default: embedded catalog)")
	return cmd
}
