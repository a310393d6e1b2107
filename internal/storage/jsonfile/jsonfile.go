// Package jsonfile loads the product catalog from a JSON array, either a
// file on disk or bytes embedded in the binary.
package jsonfile

import (
	"context"
	"os"

	"github.com/go-faster/errors"

	"github.com/xenking/gadget-catalog/internal/domain/product"
)

var _ product.Repository = (*Repository)(nil)

// Repository implements product.Repository over a JSON document. The file is
// read on every List call; callers load once at startup.
type Repository struct {
	path string
	data []byte
}

// New returns a Repository reading from path.
func New(path string) *Repository {
	return &Repository{path: path}
}

// FromBytes returns a Repository serving a fixed document.
func FromBytes(data []byte) *Repository {
	return &Repository{data: data}
}

// List returns every product in file order.
func (r *Repository) List(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := r.data
	if r.path != "" {
		var err error
		if data, err = os.ReadFile(r.path); err != nil {
			return nil, errors.Wrap(err, "read catalog")
		}
	}
	products, err := product.DecodeList(data)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", r.source())
	}
	return products, nil
}

func (r *Repository) source() string {
	if r.path != "" {
		return r.path
	}
	return "<embedded>"
}
