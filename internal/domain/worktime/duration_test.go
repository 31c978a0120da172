package worktime_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurent7850/The-event/internal/domain/worktime"
)

var anyDay = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

func TestComputeHours_SameDay(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"full workday", "09:00", "17:00", "8"},
		{"half hour", "09:00", "09:30", "0.5"},
		{"one minute", "09:00", "09:01", "0.02"},
		{"uneven minutes round to 2 places", "08:00", "15:50", "7.83"},
		{"rounding is standard, not truncation", "00:00", "00:55", "0.92"},
		{"seconds in input are truncated", "09:00:45", "11:30:10", "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := worktime.ComputeHours(anyDay, tt.start, tt.end)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeHours_Overnight(t *testing.T) {
	got, err := worktime.ComputeHours(anyDay, "22:00", "02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("4")), "got %s", got)

	// One minute short of a full day.
	got, err = worktime.ComputeHours(anyDay, "12:01", "12:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("23.98")), "got %s", got)
}

func TestComputeHours_ZeroLength(t *testing.T) {
	_, err := worktime.ComputeHours(anyDay, "09:00", "09:00")
	assert.ErrorIs(t, err, worktime.ErrNonPositiveDuration)
}

func TestComputeHours_InvalidFormat(t *testing.T) {
	bad := []string{"", "9:00", "09h00", "24:00", "09:60", "09", "ab:cd", "09:0", "09:00:xx"}
	for _, s := range bad {
		_, err := worktime.ComputeHours(anyDay, s, "17:00")
		assert.ErrorIs(t, err, worktime.ErrInvalidTimeFormat, "start=%q", s)

		_, err = worktime.ComputeHours(anyDay, "09:00", s)
		assert.ErrorIs(t, err, worktime.ErrInvalidTimeFormat, "end=%q", s)
	}
}
