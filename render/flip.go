package render

// Flip is a set of tile orientation flags. Diagonal flips are applied
// before horizontal and vertical ones.
type Flip uint8

const (
	FlipH Flip = 1 << iota
	FlipV
	FlipD
)

func (f Flip) Has(flag Flip) bool { return f&flag != 0 }
