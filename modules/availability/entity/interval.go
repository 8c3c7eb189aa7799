package entity

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End) at minute granularity.
// Value type, never mutated after construction.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval truncates both bounds to the minute and validates Start < End.
func NewInterval(start, end time.Time) (Interval, error) {
	start = start.Truncate(time.Minute)
	end = end.Truncate(time.Minute)
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval start %s must be before end %s", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether inner lies fully within i.
func (i Interval) Contains(inner Interval) bool {
	return !inner.Start.Before(i.Start) && !inner.End.After(i.End)
}

// Split removes consumed from i and returns the 0, 1 or 2 leftover
// sub-intervals. consumed must be contained in i; a side whose boundary
// coincides produces no remainder.
func (i Interval) Split(consumed Interval) (before, after *Interval) {
	if consumed.Start.After(i.Start) {
		before = &Interval{Start: i.Start, End: consumed.Start}
	}
	if consumed.End.Before(i.End) {
		after = &Interval{Start: consumed.End, End: i.End}
	}
	return before, after
}

// DurationHours returns the interval length in hours.
func (i Interval) DurationHours() float64 {
	return i.End.Sub(i.Start).Hours()
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// CoversDate reports whether the given calendar day (in the interval's
// location) falls within the interval's day span.
func (i Interval) CoversDate(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, i.Start.Location())
	firstDay := time.Date(i.Start.Year(), i.Start.Month(), i.Start.Day(), 0, 0, 0, 0, i.Start.Location())
	// End is exclusive, so an interval ending exactly at midnight does not
	// touch that day.
	lastInstant := i.End.Add(-time.Minute)
	lastDay := time.Date(lastInstant.Year(), lastInstant.Month(), lastInstant.Day(), 0, 0, 0, 0, i.Start.Location())
	return !day.Before(firstDay) && !day.After(lastDay)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format("2006-01-02 15:04"), i.End.Format("2006-01-02 15:04"))
}
