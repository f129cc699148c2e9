package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractInstallments(t *testing.T) {
	tests := []struct {
		cmd  string
		want int
	}{
		{"tele en 3 cuotas", 3},
		{"1 cuota", 1},
		{"24 meses del auto", 24},
		{"en 6 pagos", 6},
		{"en 12 veces", 12},
		{"2 dividendos atrasados", 2},
		{"lavadora 12x", 12},
		{"sushi de anoche", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractInstallments(tt.cmd))
		})
	}
}
