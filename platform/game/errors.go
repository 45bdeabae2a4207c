package game

import "errors"

var (
	// ErrInvalidRoll rejects die values outside [1,6]. A roll that fails this
	// way must never be broadcast.
	ErrInvalidRoll = errors.New("invalid roll: die value must be in [1,6]")

	// ErrInsufficientFunds aborts a property mint without touching the
	// player's turn or position.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrAlreadyMinted   = errors.New("property already minted")
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidSwap rejects degenerate swaps (non-positive amount or same
	// symbol on both sides) before they reach any balance bookkeeping.
	ErrInvalidSwap = errors.New("invalid swap")
)
