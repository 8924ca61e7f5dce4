package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "groceries", Key("  Groceries "))
	assert.Equal(t, "eur", Key("EUR"))
	assert.Equal(t, "", Key("   "))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"groceries", "Groceries"},
		{"FAST FOOD", "Fast Food"},
		{"  mixed   Case words ", "Mixed Case Words"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.in))
	}
}

func TestDate(t *testing.T) {
	t.Run("passes through native times", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		got, ok := Date(now)
		require.True(t, ok)
		assert.Equal(t, now, got)
	})

	t.Run("parses common string layouts", func(t *testing.T) {
		for _, in := range []string{
			"2024-01-05",
			"2024.01.05",
			"2024/01/05",
			"05.01.2024",
			"2024-01-05T00:00:00Z",
		} {
			got, ok := Date(in)
			require.True(t, ok, "expected %q to parse", in)
			assert.Equal(t, 2024, got.Year())
			assert.Equal(t, time.January, got.Month())
			assert.Equal(t, 5, got.Day())
		}
	})

	t.Run("rejects garbage without panicking", func(t *testing.T) {
		for _, in := range []any{"", "not-a-date", "32/13/2024", nil, 12.5} {
			_, ok := Date(in)
			assert.False(t, ok, "expected %v to fail", in)
		}
	})
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"45.00", "45", true},
		{"1,234.56", "1234.56", true},
		{"12,000", "12000", true},
		{"-99.90", "-99.9", true},
		{"$ 19.99", "19.99", true},
		{"€1.234", "1.234", true},
		{1234.5, "1234.5", true},
		{42, "42", true},
		{"", "", false},
		{"abc", "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := Amount(tt.in)
		assert.Equal(t, tt.ok, ok, "input %v", tt.in)
		if tt.ok {
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"input %v: got %s want %s", tt.in, got, tt.want)
		}
	}
}

func TestBool(t *testing.T) {
	truthy := []any{"true", "Yes", "1", true, 1}
	for _, in := range truthy {
		v, ok := Bool(in)
		assert.True(t, ok, "input %v", in)
		assert.True(t, v, "input %v", in)
	}

	falsy := []any{"false", "NO", "0", false, 0}
	for _, in := range falsy {
		v, ok := Bool(in)
		assert.True(t, ok, "input %v", in)
		assert.False(t, v, "input %v", in)
	}

	// Unrecognized tokens mean "flag absent", not false.
	for _, in := range []any{"maybe", "", "y", nil, 2} {
		_, ok := Bool(in)
		assert.False(t, ok, "input %v", in)
	}
}
