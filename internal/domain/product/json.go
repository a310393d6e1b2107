package product

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// FormatDate renders t as a calendar date when it has no time-of-day part,
// otherwise as RFC 3339.
func FormatDate(t time.Time) string {
	if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
		return t.Format(DateLayout)
	}
	return t.Format(time.RFC3339)
}

// Encode writes p as a JSON object.
func (p Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("images")
	encodeStrings(e, p.Images)
	e.FieldStart("color")
	e.Str(p.Color)
	e.FieldStart("date")
	e.Str(FormatDate(p.Date))
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("details")
	encodeStrings(e, p.Details)
	e.ObjEnd()
}

func encodeStrings(e *jx.Encoder, values []string) {
	e.ArrStart()
	for _, v := range values {
		e.Str(v)
	}
	e.ArrEnd()
}

// EncodeList writes products as a JSON array.
func EncodeList(e *jx.Encoder, products []Product) {
	e.ArrStart()
	for _, p := range products {
		p.Encode(e)
	}
	e.ArrEnd()
}

// Decode reads a JSON object into p. Unknown fields are skipped. The id
// field is required and price must not be negative.
func (p *Product) Decode(d *jx.Decoder) error {
	var hasID bool
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int()
			hasID = err == nil
		case "title":
			p.Title, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "images":
			p.Images, err = decodeStrings(d)
		case "color":
			p.Color, err = d.Str()
		case "date":
			var s string
			if s, err = d.Str(); err == nil {
				p.Date, err = ParseDate(s)
			}
		case "price":
			p.Price, err = decodePrice(d)
		case "details":
			p.Details, err = decodeStrings(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !hasID {
		return errors.New("missing id")
	}
	if p.Price.IsNegative() {
		return errors.Errorf("product %d: negative price %s", p.ID, p.Price)
	}
	return nil
}

func decodeStrings(d *jx.Decoder) ([]string, error) {
	out := []string{}
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(s)
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromString(n.String())
	default:
		return decimal.Decimal{}, errors.Errorf("unexpected %s", d.Next())
	}
}

// DecodeList parses a JSON array of products.
func DecodeList(data []byte) ([]Product, error) {
	var products []Product
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var p Product
		if err := p.Decode(d); err != nil {
			return errors.Wrapf(err, "product #%d", len(products))
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}
