package readonly

// Mutability is the two-point lattice Mutable < Readonly.
type Mutability uint8

const (
	Mutable Mutability = iota
	Readonly
)

func (m Mutability) String() string {
	if m == Readonly {
		return "readonly"
	}
	return "mutable"
}

// FromFlag maps a readonly annotation to a Mutability.
func FromFlag(readonly bool) Mutability {
	if readonly {
		return Readonly
	}
	return Mutable
}

// Join is Readonly when either side is Readonly.
func (m Mutability) Join(other Mutability) Mutability {
	if m == Readonly || other == Readonly {
		return Readonly
	}
	return Mutable
}

// Join folds any number of values; the empty join is Mutable.
func Join(ms ...Mutability) Mutability {
	out := Mutable
	for _, m := range ms {
		out = out.Join(m)
	}
	return out
}

// Subtype reports whether a value of mutability sub may flow where sup is
// expected. The only rejected pair is Readonly into Mutable.
func Subtype(sub, sup Mutability) bool {
	return !(sub == Readonly && sup == Mutable)
}
