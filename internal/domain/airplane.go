package domain

// SeatGrid is the rectangular rows × seats-per-row layout of an airplane.
type SeatGrid struct {
	Rows       int `json:"rows"`
	SeatsInRow int `json:"seats_in_row"`
}

// Contains reports whether (row, seat) addresses a physical seat of the grid.
// Both coordinates are 1-based.
func (g SeatGrid) Contains(row, seat int) bool {
	return g.ContainsRow(row) && g.ContainsSeat(seat)
}

func (g SeatGrid) ContainsRow(row int) bool {
	return row >= 1 && row <= g.Rows
}

func (g SeatGrid) ContainsSeat(seat int) bool {
	return seat >= 1 && seat <= g.SeatsInRow
}

func (g SeatGrid) Capacity() int {
	return g.Rows * g.SeatsInRow
}

type Airplane struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Rows             int    `json:"rows"`
	SeatsInRow       int    `json:"seats_in_row"`
	AirplaneTypeID   int64  `json:"airplane_type_id"`
	AirplaneTypeName string `json:"airplane_type,omitempty"`
}

func (a Airplane) SeatGrid() SeatGrid {
	return SeatGrid{Rows: a.Rows, SeatsInRow: a.SeatsInRow}
}

func (a Airplane) Capacity() int {
	return a.SeatGrid().Capacity()
}

// AirplaneFilter narrows airplane listings. Zero values disable a filter.
type AirplaneFilter struct {
	Name        string
	TypeIDs     []int64
	CapacityGTE int
}
