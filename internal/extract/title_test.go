package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      string
		wantFound bool
	}{
		{"first line", "SUPER MART\nTotal Rs. 2,450.50\nThank you for shopping", "SUPER MART", true},
		{"skips short and numeric", "#1\n12.50\nKEELLS SUPER\nTotal 100", "KEELLS SUPER", true},
		{"skips dates", "12/03/2025 10:15\nODEL COLOMBO", "ODEL COLOMBO", true},
		{"skips keyword lines", "Total 500.00\nAmount due\nCITY CAFE", "CITY CAFE", true},
		{"skips blank lines", "\n\n   \nCARGILLS FOOD CITY\n", "CARGILLS FOOD CITY", true},
		{"truncates", "THE VERY LONG NAMED RESTAURANT AND BAKERY", "THE VERY LONG NAMED RESTAURANT", true},
		{"too long", "THIS LINE IS FAR TOO LONG TO BE A MERCHANT NAME AT ALL, REALLY", FallbackTitle, false},
		{"empty", "", FallbackTitle, false},
		{"digits only", "1234\n5678", FallbackTitle, false},
	}
	e := New(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := e.Title(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestTitle_OnlyFirstLinesScanned(t *testing.T) {
	text := "1\n2\n3\n4\n5\nLATE MERCHANT"
	got, found := New(DefaultOptions()).Title(text)
	assert.False(t, found)
	assert.Equal(t, FallbackTitle, got)

	opts := DefaultOptions()
	opts.TitleScanLines = 6
	got, found = New(opts).Title(text)
	assert.True(t, found)
	assert.Equal(t, "LATE MERCHANT", got)
}
