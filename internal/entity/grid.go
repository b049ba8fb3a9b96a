package entity

const (
	DefaultGridHeight = 10
	DefaultGridWidth  = 17
	DefaultFruitTypes = 5
)

// Cell is a single board position holding the fruit type placed there.
type Cell struct {
	Value int `json:"value"`
}

// Grid is a height x width board of cells. It is regenerated in full at
// the start of every round; no partial mutation happens in between.
type Grid [][]Cell

func NewGrid(height, width int) Grid {
	grid := make(Grid, height)
	for i := range grid {
		grid[i] = make([]Cell, width)
	}

	return grid
}

func (that Grid) Height() int {
	return len(that)
}

func (that Grid) Width() int {
	if len(that) == 0 {
		return 0
	}

	return len(that[0])
}

// Values flattens the grid into rows of raw fruit values, the shape
// transports put on the wire.
func (that Grid) Values() [][]int {
	rows := make([][]int, len(that))
	for i, row := range that {
		rows[i] = make([]int, len(row))
		for j, cell := range row {
			rows[i][j] = cell.Value
		}
	}

	return rows
}
