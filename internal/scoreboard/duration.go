package scoreboard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedDuration is returned when a duration is not three colon-separated integers.
var ErrMalformedDuration = errors.New("malformed duration")

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Duration is an elapsed time in whole seconds.
type Duration int64

// ParseDuration parses the scoreboard's HH:MM:SS form. Fields are not range checked, so
// "00:75:00" is 1h15m, but negative fields and totals that overflow int64 are rejected.
func ParseDuration(raw string) (Duration, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
	}
	var fields [3]int64
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, raw)
		}
		fields[i] = n
	}
	var total int64
	for i, unit := range [3]int64{secondsPerHour, secondsPerMinute, 1} {
		if fields[i] > (math.MaxInt64-total)/unit {
			return 0, fmt.Errorf("%w: %q out of range", ErrMalformedDuration, raw)
		}
		total += fields[i] * unit
	}
	return Duration(total), nil
}

// String renders the duration as H:MM:SS with unpadded hours. Values of a day or more get a
// "N day, " or "N days, " prefix.
func (d Duration) String() string {
	total := int64(d)
	days := total / secondsPerDay
	total %= secondsPerDay
	clock := fmt.Sprintf("%d:%02d:%02d",
		total/secondsPerHour,
		(total%secondsPerHour)/secondsPerMinute,
		total%secondsPerMinute,
	)
	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	default:
		return clock
	}
}
