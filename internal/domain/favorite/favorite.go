package favorite

import (
	"slices"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Set is an ordered set of favorite product IDs. Insertion order is kept so
// a client sees favorites in the order it added them. The zero value is an
// empty set. A Set is a value: Toggle returns a new Set and never modifies
// the receiver.
type Set struct {
	ids []int
}

// NewSet builds a Set from ids, dropping duplicates but keeping the first
// occurrence's position.
func NewSet(ids ...int) Set {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

// Toggle returns a copy of s with id removed if present, otherwise appended.
// Toggling the same id twice yields a set equal to s.
func (s Set) Toggle(id int) Set {
	if i := slices.Index(s.ids, id); i >= 0 {
		return Set{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
	}
	out := make([]int, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return Set{ids: append(out, id)}
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int) bool {
	return slices.Contains(s.ids, id)
}

// Len returns the number of favorites.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the favorite IDs in insertion order.
func (s Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Equal reports whether s and other hold the same IDs, regardless of order.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, len(s.ids))
	for i, id := range s.ids {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Encode serializes s as a JSON array of decimal ID strings, e.g. ["3","12"].
func Encode(s Set) []byte {
	e := &jx.Encoder{}
	e.ArrStart()
	for _, id := range s.ids {
		e.Str(strconv.Itoa(id))
	}
	e.ArrEnd()
	return e.Bytes()
}

// Decode parses the output of Encode. Numeric elements are accepted too, and
// JSON null or empty input decodes to an empty set.
func Decode(data []byte) (Set, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Set{}, nil
	}

	d := jx.DecodeBytes(data)
	if d.Next() == jx.Null {
		return Set{}, nil
	}

	var ids []int
	err := d.Arr(func(d *jx.Decoder) error {
		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(s)
			if err != nil {
				return errors.Wrapf(err, "favorite id %q", s)
			}
			ids = append(ids, id)
		case jx.Number:
			id, err := d.Int()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		default:
			return errors.Errorf("unexpected %s in favorites", d.Next())
		}
		return nil
	})
	if err != nil {
		return Set{}, errors.Wrap(err, "decode favorites")
	}
	return NewSet(ids...), nil
}
