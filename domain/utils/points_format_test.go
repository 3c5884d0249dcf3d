package utils

import (
	"math"
	"testing"

	"superfan/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected string
	}{
		{
			name:     "zero",
			value:    0,
			expected: "0",
		},
		{
			name:     "small positive",
			value:    999,
			expected: "999",
		},
		{
			name:     "exactly 1k",
			value:    1000,
			expected: "1,000",
		},
		{
			name:     "tier threshold",
			value:    41250,
			expected: "41,250",
		},
		{
			name:     "the points ceiling",
			value:    1000000,
			expected: "1,000,000",
		},
		{
			name:     "negative",
			value:    -5000,
			expected: "-5,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPoints(tt.value))
		})
	}
}

func TestFormatPointsCompact(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		expected string
	}{
		{
			name:     "below 1k stays plain",
			value:    999,
			expected: "999",
		},
		{
			name:     "exactly 1k",
			value:    1000,
			expected: "1.0K",
		},
		{
			name:     "one and a half k",
			value:    1500,
			expected: "1.5K",
		},
		{
			name:     "millions",
			value:    2500000,
			expected: "2.5M",
		},
		{
			name:     "negative compact",
			value:    -15000,
			expected: "-15.0K",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPointsCompact(tt.value))
		})
	}
}

func TestValidatePointsAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{
			name:    "zero is valid",
			value:   0,
			wantErr: false,
		},
		{
			name:    "typical tap-in award",
			value:   20,
			wantErr: false,
		},
		{
			name:    "just under ceiling",
			value:   999999,
			wantErr: false,
		},
		{
			name:    "exactly at ceiling",
			value:   1000000,
			wantErr: false,
		},
		{
			name:    "negative",
			value:   -1,
			wantErr: true,
		},
		{
			name:    "fractional",
			value:   1.5,
			wantErr: true,
		},
		{
			name:    "NaN",
			value:   math.NaN(),
			wantErr: true,
		},
		{
			name:    "positive infinity",
			value:   math.Inf(1),
			wantErr: true,
		},
		{
			name:    "over ceiling",
			value:   2000000,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePointsAmount(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, entities.ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePointsAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{
			name:     "plain integer",
			input:    "500",
			expected: 500,
		},
		{
			name:     "comma separated",
			input:    "41,250",
			expected: 41250,
		},
		{
			name:     "underscore separated",
			input:    "1_000_000",
			expected: 1000000,
		},
		{
			name:     "surrounding whitespace",
			input:    "  250  ",
			expected: 250,
		},
		{
			name:     "fraction floors",
			input:    "99.9",
			expected: 99,
		},
		{
			name:     "garbage degrades to zero",
			input:    "lots of points",
			expected: 0,
		},
		{
			name:     "negative degrades to zero",
			input:    "-100",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePointsAmount(tt.input))
		})
	}
}
