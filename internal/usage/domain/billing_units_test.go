package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingUnitsAccessors(t *testing.T) {
	count, ok := CountUnits(42).Count()
	require.True(t, ok)
	assert.Equal(t, int64(42), count)

	_, ok = CountUnits(42).FeeApplies()
	assert.False(t, ok)

	applies, ok := FeeAppliesUnits(true).FeeApplies()
	require.True(t, ok)
	assert.True(t, applies)

	base, ok := PercentageOfUnits(decimal.RequireFromString("99.50")).PercentageOf()
	require.True(t, ok)
	assert.True(t, base.Equal(decimal.RequireFromString("99.50")))
}

func TestBillingUnitsJSON(t *testing.T) {
	raw, err := json.Marshal(CountUnits(150))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":150}`, string(raw))

	raw, err = json.Marshal(FeeAppliesUnits(false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"feeApplies":false}`, string(raw))

	var units BillingUnits
	require.NoError(t, json.Unmarshal([]byte(`{"percentageOf":"1000.00"}`), &units))
	base, ok := units.PercentageOf()
	require.True(t, ok)
	assert.True(t, base.Equal(decimal.RequireFromString("1000.00")))
}

func TestBillingUnitsJSONRejectsMultipleMeasurements(t *testing.T) {
	var units BillingUnits
	err := json.Unmarshal([]byte(`{"count":1,"feeApplies":true}`), &units)
	assert.Error(t, err)
}
