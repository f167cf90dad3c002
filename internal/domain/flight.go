package domain

import "time"

type Flight struct {
	ID            int64     `json:"id"`
	RouteID       int64     `json:"route_id"`
	AirplaneID    int64     `json:"airplane_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []int64   `json:"crew_ids"`
}

// Duration returns the scheduled flight time in hours. It is negative when
// the arrival precedes the departure.
func (f Flight) Duration() float64 {
	return f.ArrivalTime.Sub(f.DepartureTime).Hours()
}

// FlightSummary is the list view of a flight.
type FlightSummary struct {
	ID               int64     `json:"id"`
	RouteSource      string    `json:"route_source"`
	RouteDestination string    `json:"route_destination"`
	AirplaneName     string    `json:"airplane_name"`
	AirplaneCapacity int64     `json:"airplane_capacity"`
	CrewIDs          []int64   `json:"crew"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DurationHours    float64   `json:"duration"`
	TicketsSold      int64     `json:"-"`
	TicketsAvailable int64     `json:"tickets_available"`
}

type FlightDetail struct {
	ID            int64     `json:"id"`
	Route         Route     `json:"route"`
	Airplane      Airplane  `json:"airplane"`
	Crew          []string  `json:"crew"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	DurationHours float64   `json:"duration"`
}

// FlightFilter narrows flight listings. Zero values disable a filter.
type FlightFilter struct {
	AirplaneIDs []int64
	RouteIDs    []int64
	// Date matches flights departing on that calendar day (UTC).
	Date *time.Time
}
