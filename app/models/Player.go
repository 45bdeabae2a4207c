package models

// The fixed in-game token set. Every balance map carries exactly these four
// symbols. AMTY is the primary currency used by cell effects and mint costs.
var Currencies = []string{"AMTY", "EMRD", "GLDN", "RUBY"}

const PrimaryCurrency = "AMTY"

// PlayerState is one player's local economic state plus board position.
// The canonical copy is mutated only by that player's own effect engine;
// everyone else holds a replica populated from broadcast events.
type PlayerState struct {
	PlayerId        string         `json:"player_id"`
	Position        int            `json:"position"`
	TurnNumber      int            `json:"turn_number"`
	Balances        map[string]int `json:"balances"`
	OwnedProperties []string       `json:"owned_properties"`
}

// NewPlayerState creates a player at the start cell. Initial balances come in
// from the caller (wallet projection or zero for a fresh demo player); missing
// symbols are filled with 0 and unknown symbols are dropped.
func NewPlayerState(playerId string, balances map[string]int) *PlayerState {
	b := make(map[string]int, len(Currencies))
	for _, sym := range Currencies {
		b[sym] = balances[sym]
	}
	return &PlayerState{
		PlayerId: playerId,
		Position: 1,
		Balances: b,
	}
}

// Owns reports whether the player has already minted the given property.
func (p *PlayerState) Owns(propertyId string) bool {
	for _, id := range p.OwnedProperties {
		if id == propertyId {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used when handing replicas out of the roster.
func (p *PlayerState) Clone() PlayerState {
	c := *p
	c.Balances = make(map[string]int, len(p.Balances))
	for k, v := range p.Balances {
		c.Balances[k] = v
	}
	c.OwnedProperties = append([]string(nil), p.OwnedProperties...)
	return c
}
