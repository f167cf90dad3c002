package httpgin

import (
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/airport-go/internal/domain"
)

type TicketInput struct {
	FlightID int64 `json:"flight_id" binding:"required,gt=0"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

// Row and seat are range-checked by the booking service against the
// airplane, so binding only requires them to be present.
type CreateOrderRequest struct {
	UserID  int64         `json:"user_id" binding:"required,gt=0"`
	Tickets []TicketInput `json:"tickets" binding:"dive"`
}

func (r CreateOrderRequest) ticketRequests() []domain.TicketRequest {
	out := make([]domain.TicketRequest, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		out = append(out, domain.TicketRequest{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}
	return out
}

type TicketResponse struct {
	ID       uuid.UUID `json:"id"`
	Row      int       `json:"row"`
	Seat     int       `json:"seat"`
	FlightID int64     `json:"flight_id"`
}

type OrderResponse struct {
	OrderID   uuid.UUID        `json:"order_id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []TicketResponse `json:"tickets"`
}

func newOrderResponse(o domain.OrderWithTickets) OrderResponse {
	resp := OrderResponse{
		OrderID:   o.Order.ID,
		CreatedAt: o.Order.CreatedAt,
		Tickets:   make([]TicketResponse, 0, len(o.Tickets)),
	}

	for _, t := range o.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			ID:       t.ID,
			Row:      t.Row,
			Seat:     t.Seat,
			FlightID: t.FlightID,
		})
	}

	return resp
}

type CreateNamedRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateCityRequest struct {
	Name      string `json:"name" binding:"required"`
	CountryID int64  `json:"country_id" binding:"required"`
}

type CreateAirportRequest struct {
	Name           string `json:"name" binding:"required"`
	CityID         int64  `json:"city_id" binding:"required"`
	ClosestBigCity string `json:"closest_big_city"`
}

type CreateAirplaneRequest struct {
	Name           string `json:"name" binding:"required"`
	Rows           int    `json:"rows"`
	SeatsInRow     int    `json:"seats_in_row"`
	AirplaneTypeID int64  `json:"airplane_type_id" binding:"required"`
}

type CreateRouteRequest struct {
	SourceID      int64 `json:"source_id" binding:"required"`
	DestinationID int64 `json:"destination_id" binding:"required"`
	Distance      int   `json:"distance"`
}

type CreateCrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type FlightRequest struct {
	RouteID       int64   `json:"route_id" binding:"required"`
	AirplaneID    int64   `json:"airplane_id" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	Crew          []int64 `json:"crew"`
}

func (r FlightRequest) toDomain(id int64) (domain.Flight, error) {
	dep, err := parseRFC3339(r.DepartureTime)
	if err != nil {
		return domain.Flight{}, err
	}

	arr, err := parseRFC3339(r.ArrivalTime)
	if err != nil {
		return domain.Flight{}, err
	}

	return domain.Flight{
		ID:            id,
		RouteID:       r.RouteID,
		AirplaneID:    r.AirplaneID,
		DepartureTime: dep,
		ArrivalTime:   arr,
		CrewIDs:       r.Crew,
	}, nil
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
