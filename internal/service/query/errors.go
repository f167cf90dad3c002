package query

import (
	"errors"
)

var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrAirplaneNotFound = errors.New("airplane not found")
	ErrRouteNotFound    = errors.New("route not found")
)
