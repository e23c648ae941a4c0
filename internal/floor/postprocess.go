package floor

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/lawnchairsociety/floorforge/internal/access"
	"github.com/lawnchairsociety/floorforge/internal/geom"
)

// TeleporterPair links two dead ends with a two-way teleporter
type TeleporterPair struct {
	A geom.Coord `json:"a" yaml:"a"`
	B geom.Coord `json:"b" yaml:"b"`
}

// placeRemainingBossKeys commits boss keys to shuffled potential key tiles
// until the requirement is met.
func (g *Generator) placeRemainingBossKeys() error {
	if g.keysLeft <= 0 {
		return nil
	}
	required := g.keysLeft

	spots := slices.Clone(g.keySpots)
	g.rng.Shuffle(len(spots), func(i, j int) {
		spots[i], spots[j] = spots[j], spots[i]
	})

	for g.keysLeft > 0 && len(spots) > 0 {
		s := spots[0]
		spots = spots[1:]
		g.placeItem(access.BossKey, s.LayoutID, s.Offset, s.Pos)
	}

	if g.keysLeft > 0 {
		return fmt.Errorf("%w: placed %d of %d", ErrInsufficientKeys, required-g.keysLeft, required)
	}
	return nil
}

// selectBoss picks the boss tile from the item-free dead ends and returns
// the remaining ones.
func (g *Generator) selectBoss() ([]geom.Coord, error) {
	var ends []geom.Coord
	for _, c := range g.deadEnds {
		if !g.itemTiles.Has(c) {
			ends = append(ends, c)
		}
	}
	if len(ends) == 0 {
		return nil, ErrNoBossDeadEnd
	}

	i := g.rng.Intn(len(ends))
	g.boss = ends[i]
	g.log.Debug("selected boss tile", "tile", g.boss.String())
	return slices.Delete(ends, i, i+1), nil
}

// PairTeleporters repeatedly takes the first remaining dead end and pairs
// it with the farthest remaining one by Manhattan distance, the earliest
// on ties. Each pair is linked with probability chance; both ends leave
// the pool either way.
func PairTeleporters(ends []geom.Coord, chance float64, rng *rand.Rand) []TeleporterPair {
	remaining := slices.Clone(ends)
	var pairs []TeleporterPair

	for len(remaining) >= 2 {
		a := remaining[0]
		remaining = remaining[1:]

		far, best := 0, -1
		for i, b := range remaining {
			if d := a.Manhattan(b); d > best {
				far, best = i, d
			}
		}
		b := remaining[far]
		remaining = slices.Delete(remaining, far, far+1)

		if rng.Float64() < chance {
			pairs = append(pairs, TeleporterPair{A: a, B: b})
		}
	}
	return pairs
}
