package storms

import "fmt"

// Polarity selects which kind of extremum the detector looks for.
type Polarity int

const (
	// Cyclonic systems are local minima (low pressure).
	Cyclonic Polarity = iota + 1
	// Anticyclonic systems are local maxima (high pressure).
	Anticyclonic
)

// ParsePolarity accepts "cyclonic" or "anticyclonic".
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "cyclonic":
		return Cyclonic, nil
	case "anticyclonic":
		return Anticyclonic, nil
	default:
		return 0, fmt.Errorf("%w: unknown polarity %q", ErrInvalidParameter, s)
	}
}

func (p Polarity) String() string {
	switch p {
	case Cyclonic:
		return "cyclonic"
	case Anticyclonic:
		return "anticyclonic"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) {
	if p != Cyclonic && p != Anticyclonic {
		return nil, fmt.Errorf("%w: unknown polarity %d", ErrInvalidParameter, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Polarity) UnmarshalText(text []byte) error {
	v, err := ParsePolarity(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// passes reports whether v lies on the detected side of level.
func (p Polarity) passes(v, level float64) bool {
	if p == Anticyclonic {
		return v > level
	}
	return v < level
}
