package favorite

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// KeyPrefix namespaces favorite sets in the key-value store. The full key is
// KeyPrefix followed by the client identifier.
const KeyPrefix = "favorites:"

var (
	// ErrUnknownProduct is returned when toggling an ID that is not in the
	// catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrNoClient is returned when an operation is attempted without a
	// client identifier.
	ErrNoClient = errors.New("client id required")
)

// Store is the key-value persistence the favorites live in. Get reports a
// missing key through ok=false rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Catalog reports whether a product exists.
type Catalog interface {
	Contains(id int) bool
}

// Service reads and toggles per-client favorite sets.
type Service struct {
	store   Store
	catalog Catalog

	// mu serializes the read-modify-write of Toggle within this process.
	mu sync.Mutex
}

// NewService creates a Service persisting to store. When catalog is non-nil,
// Toggle rejects IDs the catalog does not contain.
func NewService(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Key returns the store key holding the favorites of client.
func Key(client string) string {
	return KeyPrefix + client
}

// Load returns the stored favorites of client, or an empty set if it has
// none yet.
func (s *Service) Load(ctx context.Context, client string) (Set, error) {
	if client == "" {
		return Set{}, ErrNoClient
	}
	raw, ok, err := s.store.Get(ctx, Key(client))
	if err != nil {
		return Set{}, errors.Wrap(err, "get favorites")
	}
	if !ok {
		return Set{}, nil
	}
	return Decode([]byte(raw))
}

// Toggle flips the favorite state of id for client, persists the new set and
// returns it along with whether id is now a favorite.
func (s *Service) Toggle(ctx context.Context, client string, id int) (Set, bool, error) {
	if s.catalog != nil && !s.catalog.Contains(id) {
		return Set{}, false, ErrUnknownProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Load(ctx, client)
	if err != nil {
		return Set{}, false, err
	}
	next := current.Toggle(id)

	if err := s.store.Set(ctx, Key(client), string(Encode(next))); err != nil {
		return Set{}, false, errors.Wrap(err, "set favorites")
	}
	return next, next.Contains(id), nil
}

// IsFavorite reports whether id is among client's favorites.
func (s *Service) IsFavorite(ctx context.Context, client string, id int) (bool, error) {
	set, err := s.Load(ctx, client)
	if err != nil {
		return false, err
	}
	return set.Contains(id), nil
}
