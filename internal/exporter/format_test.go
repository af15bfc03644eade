package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0.0, "0"},
		{"whole minutes", 60.0, "60"},
		{"thirds of a minute", 45.5, "45.5"},
		{"repeating fraction", 10.0 / 60.0, "0.16666666666666666"},
		{"negative", -2.25, "-2.25"},
		{"large value", 1500000.0, "1500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatOptionalFloat(t *testing.T) {
	score := 87.5
	assert.Equal(t, "", formatOptionalFloat(nil))
	assert.Equal(t, "87.5", formatOptionalFloat(&score))
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "1", formatBool(true))
	assert.Equal(t, "0", formatBool(false))
}

func TestFormatIntAndDate(t *testing.T) {
	assert.Equal(t, "20240805", formatInt(20240805))
	assert.Equal(t, "2024-08-05", formatDate(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)))
}
