package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0", 0, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"500.00", 50000, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{".", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.cents, got.Cents, "input %q", tc.in)
		} else {
			assert.Error(t, err, "input %q", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "0.00", Money{}.String())
	assert.Equal(t, "7.05", Money{Cents: 705}.String())
	assert.Equal(t, "700.00", Money{Cents: 70000}.String())
	assert.Equal(t, "-0.50", Money{Cents: -50}.String())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 123456})
	require.NoError(t, err)
	assert.Equal(t, "1234.56", string(out))

	var fromNumber Money
	require.NoError(t, json.Unmarshal([]byte("500.00"), &fromNumber))
	assert.Equal(t, int64(50000), fromNumber.Cents)

	var fromString Money
	require.NoError(t, json.Unmarshal([]byte(`"12,34"`), &fromString))
	assert.Equal(t, int64(1234), fromString.Cents)

	var invalid Money
	assert.Error(t, json.Unmarshal([]byte(`"-3"`), &invalid))
	assert.Error(t, json.Unmarshal([]byte("null"), &invalid))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("700.00")))
	assert.Equal(t, int64(70000), m.Cents)

	require.NoError(t, m.Scan("-12.50"))
	assert.Equal(t, int64(-1250), m.Cents)

	require.NoError(t, m.Scan(int64(3)))
	assert.Equal(t, int64(300), m.Cents)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, int64(0), m.Cents)

	assert.Error(t, m.Scan(true))
}

// Summing many cent-level entries must stay exact: float accumulation of
// 0.01 would have drifted long before ten thousand rows.
func TestMoneyNoDriftOverManyEntries(t *testing.T) {
	total := Money{}
	cent := Money{Cents: 1}
	for i := 0; i < 10000; i++ {
		total = total.Add(cent)
	}
	assert.Equal(t, int64(10000), total.Cents)
	assert.Equal(t, "100.00", total.String())

	for i := 0; i < 10000; i++ {
		total = total.Sub(cent)
	}
	assert.Equal(t, "0.00", total.String())
}
