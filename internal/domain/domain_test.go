package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeatGrid(t *testing.T) {
	g := SeatGrid{Rows: 10, SeatsInRow: 5}

	assert.Equal(t, 50, g.Capacity())
	assert.True(t, g.Contains(1, 1))
	assert.True(t, g.Contains(10, 5))
	assert.False(t, g.Contains(0, 1))
	assert.False(t, g.Contains(11, 1))
	assert.False(t, g.Contains(1, 0))
	assert.False(t, g.Contains(1, 6))
}

func TestAirplane_Capacity(t *testing.T) {
	a := Airplane{Rows: 2, SeatsInRow: 2}
	assert.Equal(t, SeatGrid{Rows: 2, SeatsInRow: 2}, a.SeatGrid())
	assert.Equal(t, 4, a.Capacity())
}

func TestFlight_Duration(t *testing.T) {
	dep := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	f := Flight{DepartureTime: dep, ArrivalTime: dep.Add(90 * time.Minute)}
	assert.Equal(t, 1.5, f.Duration())

	f.ArrivalTime = dep.Add(-2 * time.Hour)
	assert.Equal(t, -2.0, f.Duration())
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		number, size int
		want         Page
		offset       int
	}{
		{0, 0, Page{Number: 1, Size: DefaultPageSize}, 0},
		{3, 20, Page{Number: 3, Size: 20}, 40},
		{2, 1000, Page{Number: 2, Size: MaxPageSize}, 100},
	}

	for _, tt := range tests {
		p := NewPage(tt.number, tt.size)
		assert.Equal(t, tt.want, p)
		assert.Equal(t, tt.offset, p.Offset())
		assert.Equal(t, p.Size, p.Limit())
	}
}

func TestCrew_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Crew{FirstName: "Ada", LastName: "Lovelace"}.FullName())
}
