package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"scheduled", StatusScheduled, false},
		{"cancelled", StatusCancelled, false},
		{"finalized", StatusFinalized, false},
		// legacy frontend literals
		{"Em andamento", StatusScheduled, false},
		{"Cancelada", StatusCancelled, false},
		{"Finalizada", StatusFinalized, false},
		{"", "", true},
		{"Scheduled", "", true},
		{"done", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusLegacyLabel(t *testing.T) {
	assert.Equal(t, "Em andamento", StatusScheduled.LegacyLabel())
	assert.Equal(t, "Cancelada", StatusCancelled.LegacyLabel())
	assert.Equal(t, "Finalizada", StatusFinalized.LegacyLabel())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusFinalized.Terminal())
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2026, time.March, 12, 23, 45, 0, 0, loc)

	day := DayOf(at)
	assert.Equal(t, time.Date(2026, time.March, 12, 0, 0, 0, 0, loc), day)
	assert.Equal(t, loc, day.Location())
}
