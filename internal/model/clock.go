package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedTime reports a clock string not in "HH:MM" form.
var ErrMalformedTime = errors.New("malformed time string")

// ParseClock converts an "HH:MM" clock string to minutes since midnight.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return float64(h*60 + m), nil
}

// FormatClock renders minutes since midnight as "HH:MM". A fractional
// minute is appended as "+SSs" so simulated timings round-trip losslessly.
func FormatClock(min float64) string {
	h := int(min) / 60
	m := int(min) % 60
	sec := int(math.Round((min - math.Floor(min)) * 60))
	if sec == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d+%02ds", h, m, sec)
}
