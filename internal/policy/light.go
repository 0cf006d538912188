package policy

// Classification is the light quality of a single reading.
type Classification int

const (
	Good Classification = iota
	TooBright
	TooDark
)

// Code returns the single character written to the matrix display and the logs.
func (c Classification) Code() string {
	switch c {
	case TooBright:
		return "H"
	case TooDark:
		return "D"
	default:
		return "G"
	}
}

func (c Classification) String() string {
	switch c {
	case TooBright:
		return "too bright"
	case TooDark:
		return "too dark"
	default:
		return "good"
	}
}

// NeedsLight reports whether supplemental light is wanted.
func (c Classification) NeedsLight() bool {
	return c == TooDark
}

// Classify maps a lux value onto the band optimal±tolerance.
// Values exactly on a band edge are Good.
func Classify(lux, optimal, tolerance float64) Classification {
	if lux > optimal+tolerance {
		return TooBright
	}
	if lux < optimal-tolerance {
		return TooDark
	}
	return Good
}
