package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "evening", input: "19:30", want: 19*60 + 30},
		{name: "single digit hour", input: "9:00", wantErr: true},
		{name: "out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "noon!", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := ParseClock(testCase.input)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.input, FormatClock(got))
		})
	}
}

func TestDayHours_Slots(t *testing.T) {
	tests := []struct {
		name  string
		hours DayHours
		want  []string
	}{
		{
			name:  "regular evening",
			hours: DayHours{Open: "18:00", Close: "20:00"},
			want:  []string{"18:00", "18:30", "19:00", "19:30"},
		},
		{
			name:  "close not on the grid",
			hours: DayHours{Open: "11:00", Close: "12:15"},
			want:  []string{"11:00", "11:30", "12:00"},
		},
		{
			name:  "open equals close",
			hours: DayHours{Open: "10:00", Close: "10:00"},
			want:  []string{},
		},
		{
			name:  "close before open",
			hours: DayHours{Open: "22:00", Close: "02:00"},
			want:  []string{},
		},
		{
			name:  "unparsable",
			hours: DayHours{Open: "ten", Close: "22:00"},
			want:  []string{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.hours.Slots(SlotInterval))
		})
	}
}

func TestDayHours_Accepts(t *testing.T) {
	hours := DayHours{Open: "12:00", Close: "22:00"}

	assert.True(t, hours.Accepts("12:00", SlotInterval))
	assert.True(t, hours.Accepts("21:30", SlotInterval))
	assert.False(t, hours.Accepts("22:00", SlotInterval), "closing time is not bookable")
	assert.False(t, hours.Accepts("11:30", SlotInterval))
	assert.False(t, hours.Accepts("19:15", SlotInterval), "off grid")
	assert.False(t, hours.Accepts("7pm", SlotInterval))
	assert.False(t, DayHours{}.Accepts("12:00", SlotInterval))
}

func TestOpeningHours_For(t *testing.T) {
	hours := OpeningHours{"friday": {Open: "17:00", Close: "23:00"}}

	got, ok := hours.For(time.Friday)
	require.True(t, ok)
	assert.Equal(t, "17:00", got.Open)

	_, ok = hours.For(time.Monday)
	assert.False(t, ok)
}

func TestOpeningHours_Validate(t *testing.T) {
	tests := []struct {
		name    string
		hours   OpeningHours
		wantErr bool
	}{
		{name: "valid", hours: OpeningHours{"monday": {Open: "09:00", Close: "17:00"}}},
		{name: "closed day", hours: OpeningHours{"sunday": {Open: "00:00", Close: "00:00"}}},
		{name: "unknown day", hours: OpeningHours{"funday": {Open: "09:00", Close: "17:00"}}, wantErr: true},
		{name: "bad clock", hours: OpeningHours{"monday": {Open: "9am", Close: "17:00"}}, wantErr: true},
		{name: "reversed", hours: OpeningHours{"monday": {Open: "17:00", Close: "09:00"}}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.hours.Validate()
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpeningHours_ScanValue(t *testing.T) {
	var hours OpeningHours
	require.NoError(t, hours.Scan([]byte(`{"saturday":{"open":"10:00","close":"14:00"}}`)))
	assert.Equal(t, DayHours{Open: "10:00", Close: "14:00"}, hours["saturday"])

	require.NoError(t, hours.Scan(nil))
	assert.Empty(t, hours)

	assert.Error(t, hours.Scan(42))

	value, err := OpeningHours(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), value)
}
