package wfc

import "github.com/lawnchairsociety/floorforge/internal/geom"

// Rules is the adjacency table: Rules[i][d] holds the variants that may sit
// in direction d of variant i.
type Rules [NumVariants][4]OptionSet

// DefaultRules builds the table where two tiles may touch only if their
// shared edge is the same kind on both sides.
func DefaultRules() *Rules {
	var r Rules
	for i := 0; i < NumVariants; i++ {
		wi := VariantWalls(i)
		for _, dir := range geom.AllDirections() {
			for j := 0; j < NumVariants; j++ {
				if wi[dir] == VariantWalls(j)[dir.Opposite()] {
					r[i][dir] |= 1 << j
				}
			}
		}
	}
	return &r
}

// Compatible returns true if variant b may sit in direction dir of a
func (r *Rules) Compatible(a, b int, dir geom.Direction) bool {
	return r[a][dir].Has(b)
}

// Support returns every variant that some member of opts allows in
// direction dir.
func (r *Rules) Support(opts OptionSet, dir geom.Direction) OptionSet {
	var out OptionSet
	for v := 0; v < NumVariants; v++ {
		if opts.Has(v) {
			out |= r[v][dir]
		}
	}
	return out
}
