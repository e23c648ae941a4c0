// Package access models which locks a player can pass given the items
// collected so far.
package access

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemID identifies a collectible in the level editor's item table
type ItemID int

// Lock bits. A location lock is satisfied when all bits of one of its
// alternatives are unlocked.
const (
	BombLock uint64 = 1 << iota
	MissileLock
	SuperMissileLock
	SpeedLock
	BallsparkLock
	ScrewLock
	PowerBombLock
	CrumbleBlockLock
	CrumbleTunnelLock
	HiJumpWallLock
	HiJumpPlatformLock
	AirJumpLock
	GravityHazardLock
	VariaHazardLock
	MoveEMPBallLock
	MoveEMPBallWallLock
	MeboidBarrierLock
	MultiplayerLock2P
	MultiplayerLock
)

// Item ids used by the level editor
const (
	Bombs            ItemID = 450
	SpiderBall       ItemID = 452
	SpringBall       ItemID = 453
	HiJump           ItemID = 454
	VariaSuit        ItemID = 455
	SpaceJump        ItemID = 456
	SpeedBooster     ItemID = 457
	ScrewAttack      ItemID = 458
	GravitySuit      ItemID = 459
	IceBeam          ItemID = 461
	MissileTank      ItemID = 925
	SuperMissileTank ItemID = 926
	PowerBombTank    ItemID = 927

	// BossKey is the fungible key collected to open the boss room.
	BossKey ItemID = 1000
)

var itemNames = map[ItemID]string{
	Bombs:            "Bombs",
	SpiderBall:       "Spider Ball",
	SpringBall:       "Spring Ball",
	HiJump:           "Hi Jump",
	VariaSuit:        "Varia Suit",
	SpaceJump:        "Space Jump",
	SpeedBooster:     "Speed Booster",
	ScrewAttack:      "Screw Attack",
	GravitySuit:      "Gravity Suit",
	IceBeam:          "Ice Beam",
	MissileTank:      "Missile Tank",
	SuperMissileTank: "Super Missile Tank",
	PowerBombTank:    "Power Bomb Tank",
	BossKey:          "Master Teleporter Key",
}

// majorOrder is the order majors are offered for placement
var majorOrder = []ItemID{
	Bombs, SpiderBall, SpringBall, HiJump, VariaSuit, SpaceJump, SpeedBooster,
	ScrewAttack, GravitySuit, IceBeam, MissileTank, SuperMissileTank, PowerBombTank,
}

// ItemName returns the display name for an item, or "Unknown Item"
func ItemName(id ItemID) string {
	if name, ok := itemNames[id]; ok {
		return name
	}
	return "Unknown Item"
}

// ParseItem accepts an item id or a display name, ignoring case and
// spaces.
func ParseItem(s string) (ItemID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := itemNames[ItemID(n)]; ok {
			return ItemID(n), nil
		}
		return 0, fmt.Errorf("unknown item id %d", n)
	}

	want := normalizeName(s)
	for id, name := range itemNames {
		if normalizeName(name) == want {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown item %q", s)
}

// ParseItems parses a comma-separated item list. An empty string yields
// no items.
func ParseItems(list string) ([]ItemID, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var out []ItemID
	for _, part := range strings.Split(list, ",") {
		id, err := ParseItem(part)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// MajorItems returns every placeable major item in table order
func MajorItems() []ItemID {
	out := make([]ItemID, len(majorOrder))
	copy(out, majorOrder)
	return out
}

// IsMajor reports whether id is a major item
func IsMajor(id ItemID) bool {
	for _, m := range majorOrder {
		if m == id {
			return true
		}
	}
	return false
}

// UnlockedStates returns the lock bits an item opens. has reports whether
// another item is already in the inventory; Spring Ball only opens
// ballspark locks when Speed Booster is held.
func UnlockedStates(id ItemID, has func(ItemID) bool) uint64 {
	switch id {
	case Bombs:
		return BombLock | MoveEMPBallLock
	case SpiderBall:
		return CrumbleBlockLock | CrumbleTunnelLock | HiJumpWallLock
	case SpringBall:
		if has != nil && has(SpeedBooster) {
			return BallsparkLock
		}
		return 0
	case HiJump:
		return HiJumpWallLock | HiJumpPlatformLock
	case VariaSuit:
		return VariaHazardLock
	case SpaceJump:
		return HiJumpWallLock | HiJumpPlatformLock | AirJumpLock
	case SpeedBooster:
		return SpeedLock
	case ScrewAttack:
		return ScrewLock
	case GravitySuit:
		return GravityHazardLock
	case IceBeam:
		return MeboidBarrierLock
	case MissileTank:
		return MissileLock | MoveEMPBallLock | MoveEMPBallWallLock
	case SuperMissileTank:
		return MissileLock | SuperMissileLock | MoveEMPBallLock | MoveEMPBallWallLock
	case PowerBombTank:
		return BombLock | PowerBombLock
	default:
		return 0
	}
}
