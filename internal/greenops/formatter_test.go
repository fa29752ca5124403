package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "18,248", FormatNumber(18248))
	assert.Equal(t, "1,000,000", FormatNumber(1000000))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in        float64
		precision int
		want      string
	}{
		{1234.567, 2, "1,234.57"},
		{55.082, 1, "55.1"},
		{16.5246, 1, "16.5"},
		{0, 1, "0.0"},
		{-0.04, 1, "-0.0"},
		{1234.4, 0, "1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in, tt.precision))
	}
}

func TestFormatKg(t *testing.T) {
	assert.Equal(t, "0.082 kg CO₂", FormatKg(0.082))
	assert.Equal(t, "55 kg CO₂", FormatKg(55))
	assert.Equal(t, "2.1 kg CO₂", FormatKg(2.1))
	assert.Equal(t, "55.1 kg", FormatTotalKg(55.082))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "999,999", FormatLarge(999_999))
	assert.Equal(t, "~1.5 million", FormatLarge(1_500_000))
	assert.Equal(t, "~1.5 billion", FormatLarge(1_500_000_000))
}
