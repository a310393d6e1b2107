package product

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// DateLayout is the calendar-date form used by catalog files.
const DateLayout = "2006-01-02"

// Product represents a catalog item. Products are immutable once loaded.
type Product struct {
	ID       int
	Title    string
	Category string
	Image    string
	Images   []string
	Color    string
	Date     time.Time
	Price    decimal.Decimal
	Details  []string
}

// Key returns the decimal string form of the product ID, as used by the
// favorites store and URL paths.
func (p Product) Key() string {
	return strconv.Itoa(p.ID)
}

// ParseDate accepts either a calendar date (2006-01-02) or an RFC 3339
// timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse date %q", s)
	}
	return t, nil
}

// Repository defines read operations for the product catalog.
type Repository interface {
	// List returns every product in catalog order.
	List(ctx context.Context) ([]Product, error)
}
