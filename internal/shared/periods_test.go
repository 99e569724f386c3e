package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDateRange(t *testing.T) {
	start := NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, CheckDateRange(start, start))
	assert.NoError(t, CheckDateRange(start, NewDate(start.AddDate(0, 1, 0))))
	assert.NoError(t, CheckDateRange(Date{}, start))
	err := CheckDateRange(start, NewDate(start.AddDate(0, 0, -1)))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2024, 5, 2, 3, 30, 0, 0, loc)
	assert.Equal(t, "2024-05-01", Today(now).String())
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		End   Date  `json:"end"`
		Empty *Date `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-02-29","end":"2024-03-10T18:00:00Z","empty":null}`), &payload))
	assert.Equal(t, "2024-02-29", payload.Start.String())
	assert.Equal(t, "2024-03-10", payload.End.String())
	assert.Nil(t, payload.Empty)

	out, err := json.Marshal(payload.Start)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-29"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"29/02/2024"}`), &payload))
}
