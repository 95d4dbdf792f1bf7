package usecase

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldType is the value type a patchable field accepts.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNullableString
	TypeDecimal
	TypeBool
	TypeInt
)

// Schema lists the patchable fields of one resource kind.
type Schema map[string]FieldType

var (
	ProductSchema = Schema{
		"name":         TypeString,
		"description":  TypeString,
		"price":        TypeDecimal,
		"category_id":  TypeNullableString,
		"image_url":    TypeString,
		"is_available": TypeBool,
		"is_featured":  TypeBool,
		"sort_order":   TypeInt,
	}
	CategorySchema = Schema{
		"name":        TypeString,
		"description": TypeString,
		"image_url":   TypeString,
		"is_active":   TypeBool,
		"sort_order":  TypeInt,
	}
	SiteProfileSchema = Schema{
		"name":             TypeString,
		"photo_url":        TypeString,
		"title":            TypeString,
		"story":            TypeString,
		"specialty":        TypeString,
		"experience_years": TypeInt,
		"quote":            TypeString,
		"instagram":        TypeString,
		"whatsapp":         TypeString,
		"email":            TypeString,
		"city":             TypeString,
		"accepts_orders":   TypeBool,
		"delivery_areas":   TypeString,
	}
	AdminSchema = Schema{
		"name":       TypeString,
		"phone":      TypeString,
		"avatar_url": TypeString,
	}
)

// Patch is a partial update keyed by field name. A field that is absent is
// left unchanged by the store.
//
// Value types by FieldType: string, *string (nil clears), decimal.Decimal, bool, int.
type Patch struct {
	fields map[string]any
}

func NewPatch() Patch { return Patch{fields: map[string]any{}} }

func (p *Patch) Set(field string, v any) {
	if p.fields == nil {
		p.fields = map[string]any{}
	}
	p.fields[field] = v
}

func (p Patch) Get(field string) (any, bool) {
	v, ok := p.fields[field]
	return v, ok
}

func (p Patch) Has(field string) bool {
	_, ok := p.fields[field]
	return ok
}

func (p Patch) Len() int { return len(p.fields) }

// Fields returns the present field names in sorted order.
func (p Patch) Fields() []string {
	out := make([]string, 0, len(p.fields))
	for k := range p.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Patch) String(field string) (string, bool) {
	v, ok := p.fields[field].(string)
	return v, ok
}

func (p Patch) Decimal(field string) (decimal.Decimal, bool) {
	v, ok := p.fields[field].(decimal.Decimal)
	return v, ok
}

// PatchFromJSON builds a patch from a decoded JSON object. Keys not in the
// schema are ignored. A JSON null is only honoured for nullable fields; for the
// others it means "absent".
func (s Schema) PatchFromJSON(raw map[string]json.RawMessage) (Patch, error) {
	p := NewPatch()
	for key, msg := range raw {
		typ, ok := s[key]
		if !ok {
			continue
		}
		isNull := strings.TrimSpace(string(msg)) == "null"
		if isNull && typ != TypeNullableString {
			continue
		}

		var (
			v   any
			err error
		)
		switch typ {
		case TypeString:
			var x string
			err = json.Unmarshal(msg, &x)
			v = x
		case TypeNullableString:
			var x *string
			err = json.Unmarshal(msg, &x)
			if x != nil && *x == "" {
				x = nil
			}
			v = x
		case TypeDecimal:
			var x decimal.Decimal
			err = json.Unmarshal(msg, &x)
			v = x
		case TypeBool:
			var x bool
			err = json.Unmarshal(msg, &x)
			v = x
		case TypeInt:
			var x int
			err = json.Unmarshal(msg, &x)
			v = x
		}
		if err != nil {
			return Patch{}, validationf("field %q: %v", key, err)
		}
		p.Set(key, v)
	}
	return p, nil
}
