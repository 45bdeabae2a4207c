package roster

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/multipoly/multipoly-backend/platform/board"
	"github.com/multipoly/multipoly-backend/platform/game"
)

// StaleEventError flags a duplicate or out-of-order roll event. Expected
// under an unordered at-most-once transport; callers log and move on.
type StaleEventError struct {
	Player   string
	Turn     int
	LastSeen int
}

func (e *StaleEventError) Error() string {
	return fmt.Sprintf("stale roll event for %s: turn %d, last accepted %d", e.Player, e.Turn, e.LastSeen)
}

// InvalidEventError flags a roll event whose precomputed position violates
// the board invariant. Telemetry only, never fatal.
type InvalidEventError struct {
	Player      string
	Roll        int
	NewPosition int
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid roll event for %s: roll %d to position %d", e.Player, e.Roll, e.NewPosition)
}

// Roster is one participant's replica of the room: every known player's last
// synced position and balances, reconciled from broadcast events. Each
// player's canonical state lives with that player; the roster only ever
// mirrors it. Insertion order doubles as the advisory round-robin turn order.
type Roster struct {
	mu       sync.Mutex
	players  map[string]*models.PlayerState
	order    []string
	lastSeen map[string]int
}

func New() *Roster {
	return &Roster{
		players:  make(map[string]*models.PlayerState),
		lastSeen: make(map[string]int),
	}
}

// ensure returns the tracked state for a player, creating a baseline entry at
// the start cell on first sight. Implicit creation heals events that arrive
// before the presence message.
func (r *Roster) ensure(playerId string) *models.PlayerState {
	if p, ok := r.players[playerId]; ok {
		return p
	}
	p := models.NewPlayerState(playerId, nil)
	r.players[playerId] = p
	r.order = append(r.order, playerId)
	return p
}

// OnRollEvent applies an inbound roll to the replica. Events at or below the
// last accepted turn number for the sender are rejected, which makes replays
// and out-of-order delivery harmless. When the event continues directly from
// the last accepted turn the precomputed position is checked against the
// board invariant; after a gap (missed messages on a lossy channel) the
// sender's value is trusted as long as it is on the board, which is what
// lets a stale replica heal.
//
// The returned error is telemetry. Applying the same event twice leaves the
// roster exactly as after the first application.
func (r *Roster) OnRollEvent(evt models.RollEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.ensure(evt.Player)
	last := r.lastSeen[evt.Player]

	if evt.TurnNumber <= last {
		return &StaleEventError{Player: evt.Player, Turn: evt.TurnNumber, LastSeen: last}
	}

	contiguous := evt.TurnNumber == last+1
	if contiguous {
		if !game.ValidRollEvent(p.Position, evt) {
			log.WithFields(log.Fields{
				"player": evt.Player,
				"roll":   evt.Roll,
				"pos":    evt.NewPosition,
			}).Warn("rejecting roll event violating board invariant")
			return &InvalidEventError{Player: evt.Player, Roll: evt.Roll, NewPosition: evt.NewPosition}
		}
	} else if evt.Roll < 1 || evt.Roll > 6 || evt.NewPosition < 1 || evt.NewPosition > board.Size {
		log.WithFields(log.Fields{
			"player": evt.Player,
			"roll":   evt.Roll,
			"pos":    evt.NewPosition,
		}).Warn("rejecting out-of-range roll event")
		return &InvalidEventError{Player: evt.Player, Roll: evt.Roll, NewPosition: evt.NewPosition}
	}

	p.Position = evt.NewPosition
	p.TurnNumber = evt.TurnNumber
	r.lastSeen[evt.Player] = evt.TurnNumber
	return nil
}

// OnPresence adds or removes a player. Joining resets the turn filter so a
// player rejoining after a leave starts a fresh monotone sequence.
func (r *Roster) OnPresence(playerId string, joined bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if joined {
		r.ensure(playerId)
		r.lastSeen[playerId] = 0
		return
	}
	delete(r.players, playerId)
	delete(r.lastSeen, playerId)
	for i, id := range r.order {
		if id == playerId {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Has reports whether the player is currently tracked. Events that host the
// player's engine on this side require membership; only the replication path
// creates entries implicitly.
func (r *Roster) Has(playerId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.players[playerId]
	return ok
}

// Get returns a copy of one player's replica.
func (r *Roster) Get(playerId string) (models.PlayerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerId]
	if !ok {
		return models.PlayerState{}, false
	}
	return p.Clone(), true
}

// Snapshot returns copies of every tracked player in the order they were
// first observed.
func (r *Roster) Snapshot() []models.PlayerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PlayerState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id].Clone())
	}
	return out
}

// NextTurn returns who rolls after the given player in insertion order. This
// is a UI hint only; nothing stops a player from rolling off-turn.
func (r *Roster) NextTurn(playerId string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return ""
	}
	for i, id := range r.order {
		if id == playerId {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}

func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Mutate runs fn against a player's tracked state under the roster lock. The
// socket server uses this when it hosts a player's engine itself (demo mode
// rolls, mint settlement).
func (r *Roster) Mutate(playerId string, fn func(*models.PlayerState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.ensure(playerId))
}

// AcceptOwn records a turn produced by a locally hosted engine so that the
// echoed broadcast of the same event is treated as a duplicate.
func (r *Roster) AcceptOwn(evt models.RollEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if evt.TurnNumber > r.lastSeen[evt.Player] {
		r.lastSeen[evt.Player] = evt.TurnNumber
	}
}
