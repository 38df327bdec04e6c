package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCountryISO3(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"exact match", "France", "FRA", true},
		{"uppercase", "GERMANY", "DEU", true},
		{"mixed case with padding", "  united Kingdom ", "GBR", true},
		{"unknown country", "Atlantis", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := LookupCountryISO3(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestLookupStateCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"exact match", "Texas", "TX", true},
		{"lowercase", "new york", "NY", true},
		{"two-word state", "North Carolina", "NC", true},
		{"unknown state", "Narnia", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := LookupStateCode(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestGeoTableSizes(t *testing.T) {
	// The reference tables are fixed: 26 countries, 29 US states.
	assert.Len(t, countryISO3, 26)
	assert.Len(t, stateCode, 29)
}
