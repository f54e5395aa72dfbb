package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"short title untouched", "Evening check-in", "Evening check-in"},
		{"exactly fifty chars untouched", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"fifty-one chars truncated", strings.Repeat("a", 51), strings.Repeat("a", 47) + "..."},
		{"long title truncated", strings.Repeat("b", 120), strings.Repeat("b", 47) + "..."},
		{"multibyte runes counted as runes", strings.Repeat("å", 60), strings.Repeat("å", 47) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateTitle(tt.title)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 50)
		})
	}
}
