package access

// Lock is a set of alternative bitmask requirements. An empty lock is
// always open.
type Lock []uint64

// OpenFor reports whether the lock is satisfied by mask
func (l Lock) OpenFor(mask uint64) bool {
	if len(l) == 0 {
		return true
	}
	for _, alt := range l {
		if mask&alt == alt {
			return true
		}
	}
	return false
}

// Model tracks the inventory collected during one generation attempt and
// the lock bits it opens. The mask only ever grows.
type Model struct {
	inventory []ItemID
	owned     map[ItemID]bool
	mask      uint64
}

// NewModel creates a model seeded with the items the player starts with
func NewModel(start []ItemID) *Model {
	m := &Model{
		owned: make(map[ItemID]bool),
	}
	for _, id := range start {
		m.add(id)
	}
	m.recompute()
	return m
}

// Mask returns the current unlocked-states bitmask
func (m *Model) Mask() uint64 {
	return m.mask
}

// Has reports whether the item has been collected
func (m *Model) Has(id ItemID) bool {
	return m.owned[id]
}

// Inventory returns the collected items in collection order
func (m *Model) Inventory() []ItemID {
	out := make([]ItemID, len(m.inventory))
	copy(out, m.inventory)
	return out
}

// IsOpen reports whether a room or tile lock can currently be passed
func (m *Model) IsOpen(l Lock) bool {
	return l.OpenFor(m.mask)
}

// Collect adds an item to the inventory and folds its lock bits into the
// mask. The mask is recomputed over the whole inventory so items whose
// contribution depends on another item pick it up once both are held.
func (m *Model) Collect(id ItemID) {
	m.add(id)
	m.recompute()
}

func (m *Model) add(id ItemID) {
	if m.owned[id] {
		return
	}
	m.owned[id] = true
	m.inventory = append(m.inventory, id)
}

func (m *Model) recompute() {
	var mask uint64
	for _, id := range m.inventory {
		mask |= UnlockedStates(id, m.Has)
	}
	// Union with the previous mask keeps the model monotonic.
	m.mask |= mask
}
