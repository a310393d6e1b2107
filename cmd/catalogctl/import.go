package main

import (
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/product"
	"github.com/xenking/gadget-catalog/internal/feed"
)

func newImportCmd(lg *zap.Logger) *cobra.Command {
	var (
		out      string
		capacity uint
		strict   bool
	)
	cmd := &cobra.Command{
		Use:   "import FEED.gz...",
		Short: "Merge gzip NDJSON product feeds into a catalog JSON file",
		Long: "Merge gzip-compressed product feeds, one JSON object per line. " +
			"The first occurrence of each product ID wins; later ones are reported as duplicates.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := feed.Merge(cmd.Context(), lg, args, feed.Options{Capacity: capacity})
			if err != nil {
				return err
			}
			for _, d := range res.Duplicates {
				lg.Warn("Duplicate product",
					zap.Int("id", d.ID),
					zap.String("file", d.File),
					zap.Int("line", d.Line),
				)
			}
			if strict && len(res.Duplicates) > 0 {
				return errors.Errorf("%d duplicate products", len(res.Duplicates))
			}
			// Reject anything the server would refuse to load.
			if _, err := catalog.New(res.Products); err != nil {
				return err
			}

			if err := writeCatalog(cmd, out, res.Products); err != nil {
				return err
			}
			lg.Info("Import completed",
				zap.Int("products", len(res.Products)),
				zap.Int("duplicates", len(res.Duplicates)),
				zap.Int("candidates", res.Candidates),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().UintVar(&capacity, "capacity", 0, "Expected products per feed, sizes the bloom filters")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when duplicates are found")
	return cmd
}

func writeCatalog(cmd *cobra.Command, path string, products []product.Product) error {
	e := &jx.Encoder{}
	e.SetIdent(2)
	product.EncodeList(e, products)
	data := append(e.Bytes(), '\n')

	if path == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return errors.Wrap(err, "write catalog")
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	return writeAndClose(f, data)
}

// writeAndClose writes data to wc and closes it. A failed Close is reported
// since buffered data may not have reached the disk.
func writeAndClose(wc io.WriteCloser, data []byte) error {
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return errors.Wrap(err, "write catalog")
	}
	if err := wc.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	return nil
}
