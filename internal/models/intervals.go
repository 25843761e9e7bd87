package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/julianstephens/retcal/internal/errors"
)

var (
	// ErrIntervalBound is returned when an adjustment would break strict increase
	// or push a value to zero.
	ErrIntervalBound = errors.New("interval adjustment out of bounds")
	// ErrIntervalIndex is returned for an index outside the list.
	ErrIntervalIndex = errors.New("interval index out of range")
	// ErrLastInterval is returned when removing the only remaining interval.
	ErrLastInterval = errors.New("at least one interval is required")
)

// MaxIntervalDays caps each interval and the running total of a list, so
// scheduled dates never leave the four-digit years storage can round-trip.
const MaxIntervalDays = 36500

// MaxDate is the last day a goal instance can be scheduled on.
var MaxDate = NewDate(9999, time.December, 31)

// Intervals is an ordered list of day offsets between successive reviews.
// Every mutating method returns a new list and leaves the receiver untouched.
type Intervals []int

// DefaultIntervals returns the single-interval list a fresh form starts with.
func DefaultIntervals() Intervals {
	return Intervals{1}
}

func (iv Intervals) clone() Intervals {
	out := make(Intervals, len(iv))
	copy(out, iv)
	return out
}

func (iv Intervals) checkIndex(i int) error {
	if i < 0 || i >= len(iv) {
		return fmt.Errorf("%w: %d (len %d)", ErrIntervalIndex, i, len(iv))
	}
	return nil
}

// Increment raises the value at i by one. It is rejected when the result
// would reach the next value.
func (iv Intervals) Increment(i int) (Intervals, error) {
	if err := iv.checkIndex(i); err != nil {
		return iv, err
	}
	next := iv[i] + 1
	if next > MaxIntervalDays {
		return iv, fmt.Errorf("%w: repeat %d must stay within %d days", ErrIntervalBound, i+1, MaxIntervalDays)
	}
	if i < len(iv)-1 && next >= iv[i+1] {
		return iv, fmt.Errorf("%w: repeat %d must stay below %d", ErrIntervalBound, i+1, iv[i+1])
	}
	out := iv.clone()
	out[i] = next
	return out, nil
}

// Decrement lowers the value at i by one. It is rejected when the result
// would reach the previous value, or zero for the first element.
func (iv Intervals) Decrement(i int) (Intervals, error) {
	if err := iv.checkIndex(i); err != nil {
		return iv, err
	}
	next := iv[i] - 1
	floor := 0
	if i > 0 {
		floor = iv[i-1]
	}
	if next <= floor {
		return iv, fmt.Errorf("%w: repeat %d must stay above %d", ErrIntervalBound, i+1, floor)
	}
	out := iv.clone()
	out[i] = next
	return out, nil
}

// Append adds last+1, or 1 to an empty list.
func (iv Intervals) Append() Intervals {
	out := iv.clone()
	if len(out) == 0 {
		return append(out, 1)
	}
	return append(out, out[len(out)-1]+1)
}

// Remove deletes the element at i. Removing from a strictly increasing list
// keeps it strictly increasing, so no re-validation happens here.
func (iv Intervals) Remove(i int) (Intervals, error) {
	if err := iv.checkIndex(i); err != nil {
		return iv, err
	}
	if len(iv) == 1 {
		return iv, ErrLastInterval
	}
	out := make(Intervals, 0, len(iv)-1)
	out = append(out, iv[:i]...)
	return append(out, iv[i+1:]...), nil
}

// Validate checks the list is non-empty, positive, strictly increasing and
// that neither a value nor the running total exceeds MaxIntervalDays.
func (iv Intervals) Validate() error {
	if len(iv) == 0 {
		return apperrors.NewValidationError("repeatInterval", "at least one interval is required")
	}
	total := 0
	for i, v := range iv {
		if v <= 0 {
			return apperrors.NewValidationError("repeatInterval", "repeat %d must be a positive number of days", i+1)
		}
		if i > 0 && v <= iv[i-1] {
			return apperrors.NewValidationError("repeatInterval", "must be strictly increasing (repeat %d is %d, repeat %d is %d)", i, iv[i-1], i+1, v)
		}
		// both operands are at most MaxIntervalDays here, so the sum cannot overflow
		if v > MaxIntervalDays || total+v > MaxIntervalDays {
			return apperrors.NewValidationError("repeatInterval", "repeats must fall within %d days of the selected date", MaxIntervalDays)
		}
		total += v
	}
	return nil
}

// ValidateFrom validates the list and checks that the last repeat counted
// from selected does not fall after MaxDate.
func (iv Intervals) ValidateFrom(selected Date) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	offsets := iv.Offsets()
	if last := selected.AddDays(offsets[len(offsets)-1]); last.After(MaxDate) {
		return apperrors.NewValidationError("repeatInterval", "last repeat on %s is after %s", last, MaxDate)
	}
	return nil
}

// Offsets returns the cumulative day offsets from the selected date,
// one per interval.
func (iv Intervals) Offsets() []int {
	offsets := make([]int, len(iv))
	total := 0
	for i, v := range iv {
		total += v
		offsets[i] = total
	}
	return offsets
}

func (iv Intervals) String() string {
	parts := make([]string, len(iv))
	for i, v := range iv {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ParseIntervals parses a comma-separated list such as "1,3,7".
func ParseIntervals(s string) (Intervals, error) {
	var out Intervals
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, apperrors.NewValidationError("repeatInterval", "invalid interval %q", part)
		}
		out = append(out, v)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
