package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		Born *Date `json:"born"`
		Died *Date `json:"died"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"born":"1920-01-02","died":null}`), &payload))
	require.NotNil(t, payload.Born)
	assert.Equal(t, NewDate(1920, time.January, 2), *payload.Born)
	assert.Nil(t, payload.Died)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"born":"1920-01-02","died":null}`, string(out))

	err = json.Unmarshal([]byte(`{"born":"02/01/1920"}`), &payload)
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
	}{
		{"time", time.Date(2001, time.September, 9, 15, 4, 5, 0, time.FixedZone("X", 3600))},
		{"string", "2001-09-09"},
		{"timestamp string", "2001-09-09T00:00:00Z"},
		{"bytes", []byte("2001-09-09")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, "2001-09-09", d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDateValueAndBefore(t *testing.T) {
	d := NewDate(1999, time.December, 31)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "1999-12-31", v)

	assert.True(t, d.Before(NewDate(2000, time.January, 1)))
	assert.False(t, d.Before(d))
}
