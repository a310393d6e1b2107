package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/gadget-catalog/db"
	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/product"
	"github.com/xenking/gadget-catalog/internal/storage/jsonfile"
)

func newRootCmd(lg *zap.Logger, level zap.AtomicLevel) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Maintain and inspect the gadget catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.SetLevel(zap.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newSeedCmd(lg),
		newImportCmd(lg),
		newQueryCmd(),
	)
	return root
}

// loadCatalog builds the query engine from path, or from the catalog
// embedded in the binary when path is empty.
func loadCatalog(ctx context.Context, path string) (*catalog.Engine, error) {
	var repo product.Repository = jsonfile.FromBytes(db.Products)
	if path != "" {
		repo = jsonfile.New(path)
	}
	products, err := repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return catalog.New(products)
}
