package main

import (
	"testing"

	"pixeltrader/internal/calc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTool(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args []string
		want string
		err  error
	}{
		{"kelly", "kelly", []string{"50", "2"}, "25.0000", nil},
		{"drawdown", "drawdown", []string{"50"}, "100.0000", nil},
		{"drawdown total loss", "drawdown", []string{"100"}, "", calc.ErrImpossible},
		{"position size", "position-size", []string{"100", "50", "45"}, "20.0000", nil},
		{"ruin", "ruin", []string{"40", "2", "5"}, "ev=0.2000 steps_to_death=20 danger=LOW", nil},
		{"wrong arity", "kelly", []string{"50"}, "", calc.ErrInvalidInput},
		{"not a number", "kelly", []string{"x", "2"}, "", calc.ErrInvalidInput},
		{"unknown", "moon", nil, "", errUnknownTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runTool(tt.tool, tt.args)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportStatus(t *testing.T) {
	assert.Equal(t, "completed", importStatus(3, 0))
	assert.Equal(t, "partial", importStatus(3, 1))
	assert.Equal(t, "failed", importStatus(0, 2))
}
