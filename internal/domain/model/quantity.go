package model

// Unit is a measurement unit that can be embedded in a product name.
type Unit int

const (
	// UnitGram is grams.
	UnitGram Unit = iota
	// UnitKilogram is kilograms (canonicalized to grams).
	UnitKilogram
	// UnitLiter is liters (canonicalized to milliliters).
	UnitLiter
	// UnitMilliliter is milliliters.
	UnitMilliliter
	// UnitCount is a plain unit count ("6 יחידות").
	UnitCount
)

// String returns the wire representation of the unit.
func (u Unit) String() string {
	switch u {
	case UnitGram:
		return "g"
	case UnitKilogram:
		return "kg"
	case UnitLiter:
		return "l"
	case UnitMilliliter:
		return "ml"
	case UnitCount:
		return "unit"
	default:
		return "unknown"
	}
}

// Canonical returns the base unit used for price normalization and the
// multiplier that converts a value into it.
func (u Unit) Canonical() (Unit, float64) {
	switch u {
	case UnitKilogram:
		return UnitGram, 1000
	case UnitLiter:
		return UnitMilliliter, 1000
	default:
		return u, 1
	}
}

// NormalizedQuantity is a quantity extracted from a product name.
type NormalizedQuantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// UnitPrice is a price normalized to a canonical unit so that
// differently sized packages can be compared fairly.
type UnitPrice struct {
	// PricePerUnit is price divided by Value. Not rounded; formatting
	// is left to the presentation layer.
	PricePerUnit float64 `json:"price_per_unit"`
	// Unit is the canonical unit (g, ml or unit).
	Unit string `json:"unit"`
	// Value is the package quantity converted to the canonical unit.
	Value float64 `json:"value"`
}
