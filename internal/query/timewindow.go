package query

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeWindow restricts departures or arrivals to an hour-of-day range.
// Both bounds are inclusive hours in 0..24.
type TimeWindow struct {
	Earliest int `json:"earliest"`
	Latest   int `json:"latest"`
}

// NewTimeWindow builds a validated window.
func NewTimeWindow(earliest, latest int) (*TimeWindow, error) {
	w := &TimeWindow{Earliest: earliest, Latest: latest}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseTimeWindow parses the compact "HH:MM-HH:MM" range form used on the
// command line. Minutes are accepted but the external schema only carries
// hours, so they must be zero.
func ParseTimeWindow(s string) (*TimeWindow, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("time window must be HH:MM-HH:MM, got %q", s)
	}

	earliest, err := parseHour(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid time window %q: %w", s, err)
	}
	latest, err := parseHour(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid time window %q: %w", s, err)
	}

	return NewTimeWindow(earliest, latest)
}

func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	if minute != 0 {
		return 0, fmt.Errorf("sub-hour precision is not supported: %q", s)
	}
	return hour, nil
}

// String renders the window back into its range form.
func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.Earliest, w.Latest)
}

func (w TimeWindow) validate() error {
	if w.Earliest < 0 || w.Earliest > 24 {
		return fmt.Errorf("earliest hour %d out of range 0..24", w.Earliest)
	}
	if w.Latest < 0 || w.Latest > 24 {
		return fmt.Errorf("latest hour %d out of range 0..24", w.Latest)
	}
	if w.Earliest > w.Latest {
		return fmt.Errorf("earliest hour %d after latest hour %d", w.Earliest, w.Latest)
	}
	return nil
}
