package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// SlotInterval is the spacing between bookable times.
	SlotInterval = 30 * time.Minute
)

var ErrInvalidClock = errors.New("time must be in HH:MM format")

var weekdayKeys = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(raw string) (int, error) {
	if len(raw) != len(ClockLayout) {
		return 0, ErrInvalidClock
	}
	t, err := time.Parse(ClockLayout, raw)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a YYYY-MM-DD date in the given location.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, raw, loc)
}

type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Window returns the opening window in minutes. ok is false when the day
// counts as closed, which includes unparsable clocks and empty windows.
func (h DayHours) Window() (open, closing int, ok bool) {
	open, err := ParseClock(h.Open)
	if err != nil {
		return 0, 0, false
	}
	closing, err = ParseClock(h.Close)
	if err != nil {
		return 0, 0, false
	}
	if closing <= open {
		return 0, 0, false
	}
	return open, closing, true
}

// Slots lists bookable times from open up to, but excluding, close.
func (h DayHours) Slots(interval time.Duration) []string {
	open, closing, ok := h.Window()
	step := int(interval / time.Minute)
	if !ok || step <= 0 {
		return []string{}
	}
	slots := make([]string, 0, (closing-open)/step+1)
	for m := open; m < closing; m += step {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// Accepts reports whether clock is one of the bookable slot times.
func (h DayHours) Accepts(clock string, interval time.Duration) bool {
	open, closing, ok := h.Window()
	if !ok {
		return false
	}
	m, err := ParseClock(clock)
	if err != nil {
		return false
	}
	step := int(interval / time.Minute)
	if step <= 0 {
		step = 1
	}
	return m >= open && m < closing && (m-open)%step == 0
}
