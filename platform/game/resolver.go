package game

import (
	"math/rand"
	"time"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/board"
)

// Resolution is the outcome of one die roll: where the player lands and what
// sits there.
type Resolution struct {
	Roll        int
	NewPosition int
	Cell        models.Cell
}

// ResolveRoll advances a position by a die value around the 40-cell loop.
// The roll must be in [1,6]; the current position is normalized defensively
// rather than rejected. Pure function, no side effects.
func ResolveRoll(currentPosition, roll int) (Resolution, error) {
	if roll < 1 || roll > 6 {
		return Resolution{}, ErrInvalidRoll
	}
	newPos := board.Normalize(board.Normalize(currentPosition) + roll)
	return Resolution{
		Roll:        roll,
		NewPosition: newPos,
		Cell:        board.CellAt(newPos),
	}, nil
}

// ValidRollEvent checks a received event against the board invariant:
// newPosition must equal the sender's previous position advanced by the roll.
func ValidRollEvent(lastPosition int, evt models.RollEvent) bool {
	if evt.Roll < 1 || evt.Roll > 6 {
		return false
	}
	if evt.NewPosition < 1 || evt.NewPosition > board.Size {
		return false
	}
	return board.Normalize(board.Normalize(lastPosition)+evt.Roll) == evt.NewPosition
}

// DiceOracle supplies die values. The production oracle is an on-chain
// randomness contract read by the client; LocalDice covers offline and
// server-hosted demo play.
type DiceOracle interface {
	Roll() (int, error)
}

// LocalDice draws from the process-wide seeded source, which is safe for
// concurrent socket handlers.
type LocalDice struct{}

func NewLocalDice() *LocalDice {
	return &LocalDice{}
}

func (d *LocalDice) Roll() (int, error) {
	return rand.Intn(6) + 1, nil
}

func init() {
	rand.Seed(time.Now().UnixNano())
}

// NarrowDie maps an arbitrarily wide oracle word onto a die face. Callers
// reading raw randomness words must narrow before handing the value to
// ResolveRoll.
func NarrowDie(raw uint64) int {
	return int(raw%6) + 1
}
