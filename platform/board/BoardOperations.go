package board

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/multipoly/multipoly-backend/app/models"
)

// Size is the number of cells on the board loop.
const Size = 40

//go:embed board.json
var boardJSON []byte

var cells []models.Cell

func init() {
	if err := json.Unmarshal(boardJSON, &cells); err != nil {
		panic(err)
	}
	if len(cells) != Size {
		panic(fmt.Sprintf("board: expected %d cells, got %d", Size, len(cells)))
	}
	for i, cell := range cells {
		if cell.Index != i+1 {
			panic(fmt.Sprintf("board: cell %d carries index %d", i+1, cell.Index))
		}
	}
}

// Normalize wraps any integer onto [1,Size]. Position 40 plus 3 is 3, not 43;
// 0 and negatives wrap backwards the same way.
func Normalize(pos int) int {
	n := (pos - 1) % Size
	if n < 0 {
		n += Size
	}
	return n + 1
}

// CellAt is a total lookup: any integer input is normalized onto the loop.
func CellAt(pos int) models.Cell {
	return cells[Normalize(pos)-1]
}

// Cells returns the full board in positional order.
func Cells() []models.Cell {
	out := make([]models.Cell, Size)
	copy(out, cells)
	return out
}

// GetById finds the cell holding the named property.
func GetById(id string) (models.Cell, error) {
	for _, cell := range cells {
		if cell.Kind == models.KindProperty && cell.PropertyId() == id {
			return cell, nil
		}
	}
	return models.Cell{}, errors.New("not found")
}
