package game

import (
	"testing"

	"github.com/multipoly/multipoly-backend/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRollStaysOnBoard(t *testing.T) {
	for pos := 1; pos <= 40; pos++ {
		for roll := 1; roll <= 6; roll++ {
			res, err := ResolveRoll(pos, roll)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.NewPosition, 1)
			assert.LessOrEqual(t, res.NewPosition, 40)
			assert.Equal(t, res.NewPosition, res.Cell.Index)
		}
	}
}

func TestResolveRollWrapsAround(t *testing.T) {
	res, err := ResolveRoll(40, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewPosition)

	res, err = ResolveRoll(38, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, res.NewPosition)

	res, err = ResolveRoll(39, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, res.NewPosition)
}

func TestResolveRollRejectsBadDie(t *testing.T) {
	for _, roll := range []int{-1, 0, 7, 100} {
		_, err := ResolveRoll(10, roll)
		assert.ErrorIs(t, err, ErrInvalidRoll, "roll %d", roll)
	}
}

func TestResolveRollNormalizesPosition(t *testing.T) {
	// Out-of-range current positions wrap instead of failing.
	res, err := ResolveRoll(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewPosition)

	res, err = ResolveRoll(41, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewPosition)
}

func TestValidRollEvent(t *testing.T) {
	assert.True(t, ValidRollEvent(40, models.RollEvent{Roll: 3, NewPosition: 3}))
	assert.True(t, ValidRollEvent(1, models.RollEvent{Roll: 1, NewPosition: 2}))
	assert.False(t, ValidRollEvent(1, models.RollEvent{Roll: 1, NewPosition: 3}))
	assert.False(t, ValidRollEvent(1, models.RollEvent{Roll: 0, NewPosition: 1}))
	assert.False(t, ValidRollEvent(1, models.RollEvent{Roll: 7, NewPosition: 8}))
	assert.False(t, ValidRollEvent(1, models.RollEvent{Roll: 2, NewPosition: 43}))
}

func TestLocalDiceRange(t *testing.T) {
	dice := NewLocalDice()
	for i := 0; i < 1000; i++ {
		v, err := dice.Roll()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}

func TestNarrowDie(t *testing.T) {
	assert.Equal(t, 1, NarrowDie(0))
	assert.Equal(t, 6, NarrowDie(5))
	assert.Equal(t, 1, NarrowDie(6))
	for raw := uint64(0); raw < 1000; raw++ {
		v := NarrowDie(raw)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
	}
}
