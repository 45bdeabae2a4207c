package roster

import (
	"testing"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownPlayerIsCreatedAtStart(t *testing.T) {
	r := New()

	err := r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 3, NewPosition: 4, TurnNumber: 1})
	require.NoError(t, err)

	p, ok := r.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 4, p.Position, "baseline is the start cell, so 1+3 lands on 4")
	assert.Equal(t, 1, p.TurnNumber)
}

func TestDuplicateEventIsIdempotent(t *testing.T) {
	r := New()
	evt := models.RollEvent{Player: "p1", Roll: 2, NewPosition: 3, TurnNumber: 1}

	require.NoError(t, r.OnRollEvent(evt))
	first := r.Snapshot()

	err := r.OnRollEvent(evt)
	var stale *StaleEventError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "p1", stale.Player)

	assert.Equal(t, first, r.Snapshot(), "second application changes nothing")
}

func TestMonotonicTurnAcceptance(t *testing.T) {
	r := New()
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 4, NewPosition: 5, TurnNumber: 3}))

	for _, turn := range []int{3, 2, 1, 0, -1} {
		err := r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 1, NewPosition: 6, TurnNumber: turn})
		var stale *StaleEventError
		assert.ErrorAs(t, err, &stale, "turn %d", turn)
	}

	p, _ := r.Get("p1")
	assert.Equal(t, 5, p.Position)
}

// Two relays deliver the same player's events out of order: turn 2 first,
// then turn 1. The replica must keep the turn-2 position.
func TestOutOfOrderDelivery(t *testing.T) {
	r := New()

	// turn 1 would be 1 -> 3, turn 2 continues 3 -> 8
	turn2 := models.RollEvent{Player: "p1", Roll: 5, NewPosition: 8, TurnNumber: 2}
	turn1 := models.RollEvent{Player: "p1", Roll: 2, NewPosition: 3, TurnNumber: 1}

	require.NoError(t, r.OnRollEvent(turn2))
	err := r.OnRollEvent(turn1)
	var stale *StaleEventError
	require.ErrorAs(t, err, &stale)

	p, _ := r.Get("p1")
	assert.Equal(t, 8, p.Position)
	assert.Equal(t, 2, p.TurnNumber)
}

func TestContiguousEventMustSatisfyInvariant(t *testing.T) {
	r := New()

	err := r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 3, NewPosition: 10, TurnNumber: 1})
	var invalid *InvalidEventError
	require.ErrorAs(t, err, &invalid)

	_, ok := r.Get("p1")
	require.True(t, ok, "player entry exists even after a rejected event")
	p, _ := r.Get("p1")
	assert.Equal(t, 1, p.Position, "rejected event leaves the baseline")
}

func TestGapAcceptsSenderPosition(t *testing.T) {
	r := New()
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 2, NewPosition: 3, TurnNumber: 1}))

	// Turn 2 was lost on the wire. Turn 3 cannot be delta-checked against our
	// stale position, so the precomputed value heals the replica.
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 6, NewPosition: 20, TurnNumber: 3}))
	p, _ := r.Get("p1")
	assert.Equal(t, 20, p.Position)

	// Still bounded: off-board values are rejected even across a gap.
	err := r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 6, NewPosition: 44, TurnNumber: 9})
	var invalid *InvalidEventError
	assert.ErrorAs(t, err, &invalid)
}

func TestWrapAroundEventAccepted(t *testing.T) {
	r := New()
	r.OnPresence("p1", true)

	// Walk p1 to position 39, then roll a 5 across the wrap onto cell 4.
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 4, NewPosition: 39, TurnNumber: 2}))
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 5, NewPosition: 4, TurnNumber: 3}))

	p, _ := r.Get("p1")
	assert.Equal(t, 4, p.Position)
}

func TestPresenceAndTurnOrder(t *testing.T) {
	r := New()
	r.OnPresence("a", true)
	r.OnPresence("b", true)
	r.OnPresence("c", true)

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a", snap[0].PlayerId)
	assert.Equal(t, "b", snap[1].PlayerId)
	assert.Equal(t, "c", snap[2].PlayerId)

	assert.Equal(t, "b", r.NextTurn("a"))
	assert.Equal(t, "a", r.NextTurn("c"))
	assert.Equal(t, "a", r.NextTurn("ghost"), "unknown players defer to the head")

	r.OnPresence("b", false)
	assert.Equal(t, "c", r.NextTurn("a"))
	assert.Equal(t, 2, r.Len())
}

func TestHasTracksMembershipOnly(t *testing.T) {
	r := New()
	assert.False(t, r.Has("p1"))

	r.OnPresence("p1", true)
	assert.True(t, r.Has("p1"))

	// Checking membership never creates an entry.
	assert.False(t, r.Has("ghost"))
	assert.Equal(t, 1, r.Len())

	r.OnPresence("p1", false)
	assert.False(t, r.Has("p1"))
}

func TestRejoinResetsTurnFilter(t *testing.T) {
	r := New()
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 2, NewPosition: 3, TurnNumber: 5}))

	r.OnPresence("p1", false)
	r.OnPresence("p1", true)

	// Fresh session starts counting from 1 again.
	require.NoError(t, r.OnRollEvent(models.RollEvent{Player: "p1", Roll: 2, NewPosition: 3, TurnNumber: 1}))
	p, _ := r.Get("p1")
	assert.Equal(t, 3, p.Position)
}

func TestAcceptOwnSuppressesEcho(t *testing.T) {
	r := New()
	evt := models.RollEvent{Player: "me", Roll: 3, NewPosition: 4, TurnNumber: 1}

	r.OnPresence("me", true)
	r.AcceptOwn(evt)

	err := r.OnRollEvent(evt)
	var stale *StaleEventError
	assert.ErrorAs(t, err, &stale, "the locally applied turn echoes back as a duplicate")
}
