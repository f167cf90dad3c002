package redisrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFlightChanged(t *testing.T) {
	id, ok := decodeFlightChanged(`{"type":"flight_changed","flight_id":9,"ts_unix":1}`)
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	_, ok = decodeFlightChanged(`{"type":"flight_changed"}`)
	assert.False(t, ok)

	_, ok = decodeFlightChanged(`not json`)
	assert.False(t, ok)
}
