package floor

import "errors"

var (
	// ErrUnsatisfiable means an open connection could take neither a room
	// nor a dead end.
	ErrUnsatisfiable = errors.New("floor: no room or dead end fits an open connection")
	// ErrInsufficientKeys means fewer eligible tiles than required boss keys.
	ErrInsufficientKeys = errors.New("floor: not enough tiles for boss keys")
	// ErrNoBossDeadEnd means no item-free dead end was placed for the boss.
	ErrNoBossDeadEnd     = errors.New("floor: no dead end available for the boss")
	ErrInvalidSize       = errors.New("floor: invalid floor size")
	ErrAttemptsExhausted = errors.New("floor: generation attempts exhausted")
	ErrOccupied          = errors.New("floor: cell already occupied")
	ErrOutOfBounds       = errors.New("floor: cell out of bounds")
	// ErrDanglingDoor means a door does not face a door.
	ErrDanglingDoor = errors.New("floor: door does not face a door")
	ErrNotGenerated = errors.New("floor: generation has not completed")
)
