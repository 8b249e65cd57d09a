package domain

import (
	"encoding/json"
	"time"
)

// ReferenceKind tags which shape a SaleReference holds.
type ReferenceKind int

// Reference kinds.
const (
	ReferenceNone ReferenceKind = iota
	ReferenceStructured
	ReferenceOpaque
)

// String implements fmt.Stringer.
func (k ReferenceKind) String() string {
	switch k {
	case ReferenceStructured:
		return "structured"
	case ReferenceOpaque:
		return "opaque"
	default:
		return "none"
	}
}

// PriceReference is the marketplace's pricing model for an item.
type PriceReference struct {
	BasePrice      Cents     `json:"base_price"`
	FloatFactor    float64   `json:"float_factor"`
	PredictedPrice Cents     `json:"predicted_price"`
	Quantity       int       `json:"quantity"`
	LastUpdated    time.Time `json:"last_updated"`
}

// SaleReference is the reference pricing attached to a listing or sale. The
// API returns either a full PriceReference or an arbitrary object; exactly
// one of Structured and Opaque is set according to Kind.
type SaleReference struct {
	Kind       ReferenceKind
	Structured *PriceReference
	Opaque     map[string]any
}

// StructuredReference wraps a PriceReference.
func StructuredReference(r PriceReference) SaleReference {
	return SaleReference{Kind: ReferenceStructured, Structured: &r}
}

// OpaqueReference wraps an arbitrary mapping.
func OpaqueReference(m map[string]any) SaleReference {
	return SaleReference{Kind: ReferenceOpaque, Opaque: m}
}

// MarshalJSON emits whichever shape the reference holds, or null.
func (r SaleReference) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ReferenceStructured:
		return json.Marshal(r.Structured)
	case ReferenceOpaque:
		return json.Marshal(r.Opaque)
	default:
		return []byte("null"), nil
	}
}
