package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/airport-go/internal/domain"
)

// QueryRepo serves the read side: reference data listings, airplanes,
// routes and flights.
type QueryRepo struct {
	pool *pgxpool.Pool
}

func (r *QueryRepo) ListCountries(ctx context.Context, p domain.Page) ([]domain.Country, error) {
	const op = "postgresrepo.QueryRepo.ListCountries"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT id, name FROM countries ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Country, error) {
		var c domain.Country
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) ListCities(ctx context.Context, p domain.Page) ([]domain.City, error) {
	const op = "postgresrepo.QueryRepo.ListCities"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT id, name, country_id FROM cities ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.City, error) {
		var c domain.City
		err := row.Scan(&c.ID, &c.Name, &c.CountryID)
		return c, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) ListAirports(ctx context.Context, p domain.Page) ([]domain.Airport, error) {
	const op = "postgresrepo.QueryRepo.ListAirports"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT id, name, city_id, closest_big_city
		 FROM airports
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Airport, error) {
		var a domain.Airport
		err := row.Scan(&a.ID, &a.Name, &a.CityID, &a.ClosestBigCity)
		return a, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) ListAirplaneTypes(ctx context.Context, p domain.Page) ([]domain.AirplaneType, error) {
	const op = "postgresrepo.QueryRepo.ListAirplaneTypes"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT id, name FROM airplane_types ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AirplaneType, error) {
		var t domain.AirplaneType
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *QueryRepo) ListCrew(ctx context.Context, p domain.Page) ([]domain.Crew, error) {
	const op = "postgresrepo.QueryRepo.ListCrew"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT id, first_name, last_name FROM crew ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Crew, error) {
		var c domain.Crew
		err := row.Scan(&c.ID, &c.FirstName, &c.LastName)
		return c, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// ListAirplanes lists airplanes matching the filter.
//
// Parameters:
//   - f.Name: case-insensitive substring of the airplane name.
//   - f.TypeIDs: airplane type ids, any of which may match.
//   - f.CapacityGTE: minimum rows × seats_in_row.
func (r *QueryRepo) ListAirplanes(
	ctx context.Context,
	f domain.AirplaneFilter,
	p domain.Page,
) ([]domain.Airplane, error) {
	const op = "postgresrepo.QueryRepo.ListAirplanes"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT a.id, a.name, a.rows, a.seats_in_row, a.airplane_type_id, t.name
		 FROM airplanes a
		 JOIN airplane_types t ON t.id = a.airplane_type_id
		 WHERE ($1 = '' OR a.name ILIKE '%' || $1 || '%')
		   AND (COALESCE(cardinality($2::bigint[]), 0) = 0 OR a.airplane_type_id = ANY($2))
		   AND a.rows * a.seats_in_row >= $3
		 ORDER BY a.id
		 LIMIT $4 OFFSET $5`,
		f.Name, f.TypeIDs, f.CapacityGTE, p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, scanAirplane)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetAirplane retrieves an airplane by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the airplane is not found.
func (r *QueryRepo) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "postgresrepo.QueryRepo.GetAirplane"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT a.id, a.name, a.rows, a.seats_in_row, a.airplane_type_id, t.name
		 FROM airplanes a
		 JOIN airplane_types t ON t.id = a.airplane_type_id
		 WHERE a.id = $1`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAirplane)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func scanAirplane(row pgx.CollectableRow) (domain.Airplane, error) {
	var a domain.Airplane
	err := row.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.AirplaneTypeName)
	return a, err
}

func (r *QueryRepo) ListRoutes(ctx context.Context, p domain.Page) ([]domain.Route, error) {
	const op = "postgresrepo.QueryRepo.ListRoutes"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT r.id, r.source_id, r.destination_id, r.distance, s.name, d.name
		 FROM routes r
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 ORDER BY r.id
		 LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, scanRoute)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetRoute retrieves a route together with the flights scheduled on it,
// earliest departure first.
//
// Returns:
//   - error: repository.ErrNotFound if the route is not found.
func (r *QueryRepo) GetRoute(ctx context.Context, id int64) (*domain.RouteWithFlights, error) {
	const op = "postgresrepo.QueryRepo.GetRoute"

	db := handle(ctx, r.pool)

	rows, err := db.Query(ctx,
		`SELECT r.id, r.source_id, r.destination_id, r.distance, s.name, d.name
		 FROM routes r
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 WHERE r.id = $1`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	route, err := pgx.CollectExactlyOneRow(rows, scanRoute)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err = db.Query(ctx,
		`SELECT f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time,
		 	ARRAY(SELECT crew_id FROM flight_crew WHERE flight_id = f.id ORDER BY crew_id)
		 FROM flights f
		 WHERE f.route_id = $1
		 ORDER BY f.departure_time, f.id`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	flights, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Flight, error) {
		var f domain.Flight
		err := row.Scan(&f.ID, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime, &f.CrewIDs)
		return f, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &domain.RouteWithFlights{Route: route, Flights: flights}, nil
}

func scanRoute(row pgx.CollectableRow) (domain.Route, error) {
	var rt domain.Route
	err := row.Scan(&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance, &rt.SourceName, &rt.DestinationName)
	return rt, err
}

// ListFlights lists flights matching the filter with their sold ticket
// counts. TicketsAvailable is left for the caller to derive.
func (r *QueryRepo) ListFlights(
	ctx context.Context,
	f domain.FlightFilter,
	p domain.Page,
) ([]domain.FlightSummary, error) {
	const op = "postgresrepo.QueryRepo.ListFlights"

	rows, err := handle(ctx, r.pool).Query(ctx,
		`SELECT f.id, s.name, d.name, a.name, a.rows::bigint * a.seats_in_row,
		 	ARRAY(SELECT crew_id FROM flight_crew WHERE flight_id = f.id ORDER BY crew_id),
		 	f.departure_time, f.arrival_time,
		 	(SELECT count(*) FROM tickets t WHERE t.flight_id = f.id)
		 FROM flights f
		 JOIN routes r ON r.id = f.route_id
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 JOIN airplanes a ON a.id = f.airplane_id
		 WHERE (COALESCE(cardinality($1::bigint[]), 0) = 0 OR f.airplane_id = ANY($1))
		   AND (COALESCE(cardinality($2::bigint[]), 0) = 0 OR f.route_id = ANY($2))
		   AND ($3::timestamptz IS NULL
		        OR (f.departure_time >= $3 AND f.departure_time < $3 + interval '1 day'))
		 ORDER BY f.departure_time, f.id
		 LIMIT $4 OFFSET $5`,
		f.AirplaneIDs, f.RouteIDs, f.Date, p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FlightSummary, error) {
		var fs domain.FlightSummary
		err := row.Scan(
			&fs.ID,
			&fs.RouteSource,
			&fs.RouteDestination,
			&fs.AirplaneName,
			&fs.AirplaneCapacity,
			&fs.CrewIDs,
			&fs.DepartureTime,
			&fs.ArrivalTime,
			&fs.TicketsSold,
		)
		return fs, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetFlightDetail retrieves a flight with its route, airplane and crew names.
//
// Returns:
//   - error: repository.ErrNotFound if the flight is not found.
func (r *QueryRepo) GetFlightDetail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	const op = "postgresrepo.QueryRepo.GetFlightDetail"

	var fd domain.FlightDetail
	err := handle(ctx, r.pool).QueryRow(ctx,
		`SELECT f.id,
		 	r.id, r.source_id, r.destination_id, r.distance, s.name, d.name,
		 	a.id, a.name, a.rows, a.seats_in_row, a.airplane_type_id, t.name,
		 	ARRAY(SELECT c.first_name || ' ' || c.last_name
		 	      FROM flight_crew fc
		 	      JOIN crew c ON c.id = fc.crew_id
		 	      WHERE fc.flight_id = f.id
		 	      ORDER BY c.id),
		 	f.departure_time, f.arrival_time
		 FROM flights f
		 JOIN routes r ON r.id = f.route_id
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 JOIN airplanes a ON a.id = f.airplane_id
		 JOIN airplane_types t ON t.id = a.airplane_type_id
		 WHERE f.id = $1`,
		id,
	).Scan(
		&fd.ID,
		&fd.Route.ID,
		&fd.Route.SourceID,
		&fd.Route.DestinationID,
		&fd.Route.Distance,
		&fd.Route.SourceName,
		&fd.Route.DestinationName,
		&fd.Airplane.ID,
		&fd.Airplane.Name,
		&fd.Airplane.Rows,
		&fd.Airplane.SeatsInRow,
		&fd.Airplane.AirplaneTypeID,
		&fd.Airplane.AirplaneTypeName,
		&fd.Crew,
		&fd.DepartureTime,
		&fd.ArrivalTime,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	fd.DurationHours = fd.ArrivalTime.Sub(fd.DepartureTime).Hours()

	return &fd, nil
}
