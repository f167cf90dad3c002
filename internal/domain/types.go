package domain

import (
	"time"

	"github.com/google/uuid"
)

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
}

type Airport struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CityID         int64  `json:"city_id"`
	ClosestBigCity string `json:"closest_big_city"`
}

type AirplaneType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Route struct {
	ID              int64  `json:"id"`
	SourceID        int64  `json:"source_id"`
	DestinationID   int64  `json:"destination_id"`
	Distance        int    `json:"distance"`
	SourceName      string `json:"source,omitempty"`
	DestinationName string `json:"destination,omitempty"`
}

type RouteWithFlights struct {
	Route   Route    `json:"route"`
	Flights []Flight `json:"flights"`
}

type Crew struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Order struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Ticket struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"order_id"`
	FlightID int64     `json:"flight_id"`
	Row      int       `json:"row"`
	Seat     int       `json:"seat"`
}

type OrderWithTickets struct {
	Order   Order    `json:"order"`
	Tickets []Ticket `json:"tickets"`
}

// TicketRequest is one desired (flight, row, seat) triple of a booking.
type TicketRequest struct {
	FlightID int64
	Row      int
	Seat     int
}

// FlightOccupancy is a point-in-time snapshot of a flight's seat usage.
type FlightOccupancy struct {
	FlightID int64
	Capacity int64
	Sold     int64
}

type FlightAvailability struct {
	FlightID       int64 `json:"flight_id"`
	AvailableSeats int64 `json:"available_seats"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps a requested page to valid bounds.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Limit() int { return p.Size }

func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
