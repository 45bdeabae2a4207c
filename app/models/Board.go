package models

// CellKind discriminates what happens when a player lands on a cell.
type CellKind string

const (
	KindStart    CellKind = "start"
	KindBurn     CellKind = "burn"
	KindFreeMint CellKind = "freemint"
	KindChance   CellKind = "chance"
	KindDAO      CellKind = "dao"
	KindProperty CellKind = "property"
)

// Cell is one of the 40 fixed positions on the board loop. Index is 1-based
// and wraps back to 1 after 40. Group is only set for property cells.
type Cell struct {
	Index  int      `json:"index"`
	Kind   CellKind `json:"kind"`
	Name   string   `json:"name"`
	Group  string   `json:"group,omitempty"`
	Corner bool     `json:"corner,omitempty"`
}

// PropertyId is the identifier recorded in a player's owned set once the
// property on this cell is minted.
func (c Cell) PropertyId() string {
	return c.Name
}
