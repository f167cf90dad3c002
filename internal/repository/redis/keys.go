package redisrepo

import "fmt"

const ns = "airport:v1"

func KeyFlightDetail(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:detail", ns, flightID)
}

func KeyAirplane(airplaneID int64) string {
	return fmt.Sprintf("%s:airplane:%d", ns, airplaneID)
}

func KeyRateLimit(scope string, userID int64) string {
	return fmt.Sprintf("%s:rl:%s:%d", ns, scope, userID)
}

func KeyIdemOrder(userID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:orders:%d:%s", ns, userID, idemKey)
}

func ChannelFlightsChanged() string {
	return ns + ":flights:changed"
}
