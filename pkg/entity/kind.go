// Package entity describes genes, proteins and the per-source records that
// are unified into them.
package entity

import "strings"

// Kind discriminates the Entity variants.
type Kind int

const (
	// KindUnset means a record did not name its kind; it inherits the kind
	// of its source.
	KindUnset Kind = iota
	Gene
	Protein
	// KindInvalid is a kind string that is neither gene nor protein.
	KindInvalid
)

// NewKind converts a string to a Kind.
func NewKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return KindUnset
	case "gene", "genes":
		return Gene
	case "protein", "proteins":
		return Protein
	default:
		return KindInvalid
	}
}

// String returns "gene" or "protein" for valid kinds.
func (k Kind) String() string {
	switch k {
	case Gene:
		return "gene"
	case Protein:
		return "protein"
	case KindUnset:
		return ""
	default:
		return "invalid"
	}
}

// Valid is true for Gene and Protein.
func (k Kind) Valid() bool {
	return k == Gene || k == Protein
}

// Other returns Protein for Gene and Gene for Protein.
func (k Kind) Other() Kind {
	switch k {
	case Gene:
		return Protein
	case Protein:
		return Gene
	default:
		return k
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values
// become KindInvalid and are reported by Record.Validate.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = NewKind(string(text))
	return nil
}
