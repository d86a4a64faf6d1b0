package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"", PriorityMedium, true},
		{"Media", PriorityMedium, true},
		{"media", PriorityMedium, true},
		{"Alta", PriorityHigh, true},
		{"High", PriorityHigh, true},
		{"Baja", PriorityLow, true},
		{"low", PriorityLow, true},
		{" alta ", PriorityHigh, true},
		{"urgente", "", false},
		{"1", "", false},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidPriority, "input %q", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"01/02/2024"`), &back))
}

func TestExpenseJSONShape(t *testing.T) {
	expense := Expense{
		ID:       7,
		UserID:   1,
		Name:     "Rent",
		Amount:   Money{Cents: 50000},
		Priority: PriorityHigh,
		Date:     NewDate(2024, 1, 1),
	}

	out, err := json.Marshal(expense)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Rent", decoded["nombre"])
	assert.Equal(t, 500.0, decoded["valor"])
	assert.Equal(t, "Alta", decoded["prioridad"])
	assert.Equal(t, "2024-01-01", decoded["fecha"])
	assert.NotContains(t, decoded, "usuario_id")
}
