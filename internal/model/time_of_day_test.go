package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "9:05", want: 545},
		{in: "23:59", want: 1439},
		{in: "12:30:00", want: 750},
		{in: " 00:00 ", want: 0},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
		{in: "12:30:99", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_Arithmetic(t *testing.T) {
	start, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)

	assert.Equal(t, "11:00", start.Add(90*time.Minute).String())
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 30, start.Minute())

	day := time.Date(2026, 10, 19, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), start.On(day))
	assert.Equal(t, TimeOfDay(18*60+45), TimeOfDayOf(day))
}

func TestSlot_JSON(t *testing.T) {
	b, err := json.Marshal(Slot{Time: 600, Available: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"10:00","available":true}`, string(b))

	var s Slot
	require.NoError(t, json.Unmarshal([]byte(`{"time":"14:30","available":false}`), &s))
	assert.Equal(t, TimeOfDay(870), s.Time)
}
