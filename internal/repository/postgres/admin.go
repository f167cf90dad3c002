package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/airport-go/internal/domain"
	"github.com/kirinyoku/airport-go/internal/repository"
)

type AdminRepo struct {
	pool *pgxpool.Pool
}

func (r *AdminRepo) CreateCountry(ctx context.Context, name string) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateCountry"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO countries(name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateCity(ctx context.Context, c domain.City) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateCity"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO cities(name, country_id) VALUES ($1, $2) RETURNING id`,
		c.Name, c.CountryID,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateAirport(ctx context.Context, a domain.Airport) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateAirport"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO airports(name, city_id, closest_big_city)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		a.Name, a.CityID, a.ClosestBigCity,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateAirplaneType(ctx context.Context, name string) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateAirplaneType"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO airplane_types(name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateAirplane(ctx context.Context, a domain.Airplane) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateAirplane"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO airplanes(name, rows, seats_in_row, airplane_type_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateRoute(ctx context.Context, rt domain.Route) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateRoute"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO routes(source_id, destination_id, distance)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		rt.SourceID, rt.DestinationID, rt.Distance,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *AdminRepo) CreateCrew(ctx context.Context, c domain.Crew) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateCrew"

	var id int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO crew(first_name, last_name) VALUES ($1, $2) RETURNING id`,
		c.FirstName, c.LastName,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// CreateFlight inserts a flight and links its crew. It should run inside a
// transaction so a bad crew id does not leave a flight without crew behind.
func (r *AdminRepo) CreateFlight(ctx context.Context, f domain.Flight) (int64, error) {
	const op = "postgresrepo.AdminRepo.CreateFlight"

	db := handle(ctx, r.pool)

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO flights(route_id, airplane_id, departure_time, arrival_time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		f.RouteID, f.AirplaneID, f.DepartureTime, f.ArrivalTime,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	if err := linkCrew(ctx, db, id, f.CrewIDs); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// UpdateFlight overwrites the schedule, route, airplane and crew of a flight.
//
// Returns:
//   - error: repository.ErrNotFound if the flight does not exist.
//   - error: repository.ErrReference if a route, airplane or crew id is unknown.
func (r *AdminRepo) UpdateFlight(ctx context.Context, f domain.Flight) error {
	const op = "postgresrepo.AdminRepo.UpdateFlight"

	db := handle(ctx, r.pool)

	tag, err := db.Exec(ctx,
		`UPDATE flights
		 SET route_id = $2, airplane_id = $3, departure_time = $4, arrival_time = $5
		 WHERE id = $1`,
		f.ID, f.RouteID, f.AirplaneID, f.DepartureTime, f.ArrivalTime,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	if _, err := db.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id = $1`, f.ID); err != nil {
		return wrapDBErr(op, err)
	}

	if err := linkCrew(ctx, db, f.ID, f.CrewIDs); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func linkCrew(ctx context.Context, db DB, flightID int64, crewIDs []int64) error {
	if len(crewIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, crewID := range crewIDs {
		batch.Queue(
			`INSERT INTO flight_crew(flight_id, crew_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			flightID, crewID,
		)
	}

	return db.SendBatch(ctx, batch).Close()
}

// CountTicketsOutsideGrid counts tickets of a flight whose seat does not
// exist on the given airplane.
func (r *AdminRepo) CountTicketsOutsideGrid(ctx context.Context, flightID, airplaneID int64) (int64, error) {
	const op = "postgresrepo.AdminRepo.CountTicketsOutsideGrid"

	var n int64
	if err := handle(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*)
		 FROM tickets t
		 JOIN airplanes a ON a.id = $2
		 WHERE t.flight_id = $1
		   AND (t.seat_row > a.rows OR t.seat_number > a.seats_in_row)`,
		flightID, airplaneID,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
