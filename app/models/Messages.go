package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message kinds carried over the room broadcast channel. The envelope is a
// closed set: anything else is rejected at the transport boundary and never
// reaches the game core.
const (
	MsgRoll     = "roll"
	MsgPresence = "presence"
	MsgMint     = "mint"
	MsgChat     = "chat"
)

var ErrBadEnvelope = errors.New("bad message envelope")

// RollEvent is one resolved die roll. NewPosition is precomputed by the
// roller; receivers validate it against the board invariant instead of
// recomputing it. TurnNumber is the roller's own monotone counter and is the
// only ordering guarantee on the wire.
type RollEvent struct {
	Player      string `json:"player"`
	Roll        int    `json:"roll"`
	NewPosition int    `json:"newPosition"`
	TurnNumber  int    `json:"turnNumber"`
}

type PresenceEvent struct {
	Player string `json:"player"`
	Joined bool   `json:"joined"`
}

type MintEvent struct {
	Player     string `json:"player"`
	PropertyId string `json:"propertyId"`
}

type ChatPayload struct {
	Player string `json:"player"`
	Text   string `json:"text"`
}

// Envelope is the tagged wire record. Exactly the payload named by Kind must
// be present.
type Envelope struct {
	Kind     string         `json:"kind"`
	Roll     *RollEvent     `json:"roll,omitempty"`
	Presence *PresenceEvent `json:"presence,omitempty"`
	Mint     *MintEvent     `json:"mint,omitempty"`
	Chat     *ChatPayload   `json:"chat,omitempty"`
}

// DecodeEnvelope parses and validates a raw broadcast payload. Unknown kinds
// and kind/payload mismatches fail; nothing partial gets through.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	switch env.Kind {
	case MsgRoll:
		if env.Roll == nil {
			return Envelope{}, fmt.Errorf("%w: kind %q without payload", ErrBadEnvelope, env.Kind)
		}
	case MsgPresence:
		if env.Presence == nil {
			return Envelope{}, fmt.Errorf("%w: kind %q without payload", ErrBadEnvelope, env.Kind)
		}
	case MsgMint:
		if env.Mint == nil {
			return Envelope{}, fmt.Errorf("%w: kind %q without payload", ErrBadEnvelope, env.Kind)
		}
	case MsgChat:
		if env.Chat == nil {
			return Envelope{}, fmt.Errorf("%w: kind %q without payload", ErrBadEnvelope, env.Kind)
		}
	default:
		return Envelope{}, fmt.Errorf("%w: unknown kind %q", ErrBadEnvelope, env.Kind)
	}
	return env, nil
}

// EffectNotice is the human-readable record handed to the UI after an effect
// resolves. Amount is the signed balance change in the primary currency.
type EffectNotice struct {
	Kind        CellKind `json:"kind"`
	Cell        string   `json:"cell"`
	Amount      int      `json:"amount"`
	PropertyId  string   `json:"propertyId,omitempty"`
	PendingMint bool     `json:"pendingMint,omitempty"`
	Info        string   `json:"info"`
}
