package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{10000000, "Rp 10.000.000"},
		{2345678.4, "Rp 2.345.678"},
		{2345678.5, "Rp 2.345.679"},
		{-1500, "-Rp 1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, IDR(tt.in))
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{14.2, "14,2"},
		{14.25, "14,25"},
		{14.257, "14,26"},
		{12.5, "12,5"},
		{3.001, "3"},
		{1234.5, "1.234,5"},
		{999, "999"},
		{-4.75, "-4,75"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestPercentAndMultiple(t *testing.T) {
	assert.Equal(t, "18,4%", Percent(18.4))
	assert.Equal(t, "4,1x", Multiple(4.1))
}

func TestCapital(t *testing.T) {
	assert.Equal(t, "0", Capital(0))
	assert.Equal(t, "1.500.000", Capital(1500000))
	assert.Equal(t, "10.000.000", Capital(10000000))
	assert.Equal(t, "9.223.372.036.854.775.807", Capital(math.MaxInt64))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "0.8123", Fixed(0.81234, 4))
	assert.Equal(t, "0.500", Fixed(0.5, 3))
	assert.Equal(t, "1.0000", Fixed(1, 4))
}

func TestMillions(t *testing.T) {
	assert.Equal(t, "12.3 Juta", Millions(12345678))
	assert.Equal(t, "0.5 Juta", Millions(500000))
	assert.Equal(t, "0.0 Juta", Millions(0))
}

func TestThousandsTick(t *testing.T) {
	assert.Equal(t, "9k", ThousandsTick(9275))
	assert.Equal(t, "72k", ThousandsTick(72300))
	assert.Equal(t, "0k", ThousandsTick(0))
}

func TestNonFinite(t *testing.T) {
	assert.Equal(t, "NaN", Number(math.NaN()))
	assert.Equal(t, "∞", IDR(math.Inf(1)))
	assert.Equal(t, "-∞", Fixed(math.Inf(-1), 4))
}
