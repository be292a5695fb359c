package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"0", "R$ 0,00"},
		{"1234.5", "R$ 1.234,50"},
		{"1061.208", "R$ 1.061,21"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"999.99", "R$ 999,99"},
		{"0.005", "R$ 0,01"},
		{"-1234.5", "R$ -1.234,50"},
		{"-0.001", "R$ 0,00"},
		{"12345678901.235", "R$ 12.345.678.901,24"},
		{"9999999999999.99", "R$ 9.999.999.999.999,99"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.expected, BRL(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		rate     string
		expected string
	}{
		{"2.5", "2,50%"},
		{"0", "0,00%"},
		{"1.005", "1,01%"},
		{"1234.5", "1.234,50%"},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(decimal.RequireFromString(tt.rate)))
		})
	}
}
