package verticals

import "fmt"

// Vertical identifies one of the conference domains served by this backend.
// All verticals share the same tables and handlers; rows are discriminated
// by the vertical code.
type Vertical string

const (
	Nursing   Vertical = "nursing"
	Optics    Vertical = "optics"
	Renewable Vertical = "renewable"
	Polymers  Vertical = "polymers"
)

var all = []Vertical{Nursing, Optics, Renewable, Polymers}

// All returns the registered verticals in a stable order.
func All() []Vertical {
	out := make([]Vertical, len(all))
	copy(out, all)
	return out
}

// Parse validates a vertical code from a URL path segment.
func Parse(code string) (Vertical, error) {
	for _, v := range all {
		if string(v) == code {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown vertical %q", code)
}

func (v Vertical) String() string { return string(v) }

// DisplayName is the human-facing conference name for a vertical.
func (v Vertical) DisplayName() string {
	switch v {
	case Nursing:
		return "World Nursing Congress"
	case Optics:
		return "International Optics & Photonics Meeting"
	case Renewable:
		return "Renewable Energy Summit"
	case Polymers:
		return "Polymer Science Conference"
	default:
		return string(v)
	}
}
