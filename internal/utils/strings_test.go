package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "USD:EUR", []string{"USD:EUR"}},
		{"multiple", "USD:EUR,GBP:EUR,JPY:EUR", []string{"USD:EUR", "GBP:EUR", "JPY:EUR"}},
		{"whitespace trimmed", " USD:EUR , GBP:EUR ", []string{"USD:EUR", "GBP:EUR"}},
		{"empty entries dropped", "USD:EUR,,GBP:EUR,", []string{"USD:EUR", "GBP:EUR"}},
		{"only separators", ", ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSV(tt.input))
		})
	}
}
