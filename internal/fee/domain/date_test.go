package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate(" 2025-06-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", date.String())

	_, err = ParseDate("06/01/2025")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	date := NewDate(2025, time.June, 1)

	raw, err := json.Marshal(date)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01"`, string(raw))

	var decoded Date
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, date, decoded)
}

func TestDateScan(t *testing.T) {
	var date Date

	require.NoError(t, date.Scan(time.Date(2025, time.June, 1, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2025-06-01", date.String())

	require.NoError(t, date.Scan("2025-06-01T00:00:00Z"))
	assert.Equal(t, "2025-06-01", date.String())

	require.NoError(t, date.Scan(nil))
	assert.True(t, date.IsZero())
}

func TestFeeActiveOn(t *testing.T) {
	end := NewDate(2025, time.June, 30)
	fee := Fee{
		StartDate: NewDate(2025, time.January, 1),
		EndDate:   &end,
	}

	assert.False(t, fee.ActiveOn(NewDate(2024, time.December, 31)))
	assert.True(t, fee.ActiveOn(NewDate(2025, time.January, 1)))
	assert.True(t, fee.ActiveOn(NewDate(2025, time.June, 30)))
	assert.False(t, fee.ActiveOn(NewDate(2025, time.July, 1)))

	openEnded := Fee{StartDate: NewDate(2025, time.January, 1)}
	assert.True(t, openEnded.ActiveOn(NewDate(2030, time.January, 1)))
}

func TestFeeTierContains(t *testing.T) {
	tier := FeeTier{LowerBound: 100, UpperBound: 999}

	assert.False(t, tier.Contains(99))
	assert.True(t, tier.Contains(100))
	assert.True(t, tier.Contains(999))
	assert.False(t, tier.Contains(1000))
}
