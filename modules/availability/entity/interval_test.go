package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	i, err := NewInterval(start, end)
	require.NoError(t, err)
	return i
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestNewInterval(t *testing.T) {
	t.Run("truncates to the minute", func(t *testing.T) {
		start := at(9, 0).Add(25 * time.Second)
		end := at(12, 0).Add(59 * time.Second)

		i, err := NewInterval(start, end)
		require.NoError(t, err)
		assert.Equal(t, at(9, 0), i.Start)
		assert.Equal(t, at(12, 0), i.End)
	})

	t.Run("rejects start after end", func(t *testing.T) {
		_, err := NewInterval(at(12, 0), at(9, 0))
		assert.Error(t, err)
	})

	t.Run("rejects empty interval", func(t *testing.T) {
		_, err := NewInterval(at(9, 0), at(9, 0))
		assert.Error(t, err)
	})

	t.Run("rejects interval that collapses after truncation", func(t *testing.T) {
		_, err := NewInterval(at(9, 0), at(9, 0).Add(30*time.Second))
		assert.Error(t, err)
	})
}

func TestIntervalOverlaps(t *testing.T) {
	base := mustInterval(t, at(9, 0), at(12, 0))

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", mustInterval(t, at(9, 0), at(12, 0)), true},
		{"contained", mustInterval(t, at(10, 0), at(11, 0)), true},
		{"overlaps left edge", mustInterval(t, at(8, 0), at(9, 30)), true},
		{"overlaps right edge", mustInterval(t, at(11, 30), at(13, 0)), true},
		{"touching before", mustInterval(t, at(8, 0), at(9, 0)), false},
		{"touching after", mustInterval(t, at(12, 0), at(13, 0)), false},
		{"disjoint", mustInterval(t, at(14, 0), at(15, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestIntervalContains(t *testing.T) {
	base := mustInterval(t, at(9, 0), at(18, 0))

	assert.True(t, base.Contains(base))
	assert.True(t, base.Contains(mustInterval(t, at(9, 0), at(12, 0))))
	assert.True(t, base.Contains(mustInterval(t, at(15, 0), at(18, 0))))
	assert.False(t, base.Contains(mustInterval(t, at(8, 0), at(12, 0))))
	assert.False(t, base.Contains(mustInterval(t, at(17, 0), at(19, 0))))
}

func TestIntervalSplit(t *testing.T) {
	base := mustInterval(t, at(9, 0), at(18, 0))

	t.Run("middle leaves both sides", func(t *testing.T) {
		before, after := base.Split(mustInterval(t, at(11, 0), at(14, 0)))
		require.NotNil(t, before)
		require.NotNil(t, after)
		assert.Equal(t, Interval{Start: at(9, 0), End: at(11, 0)}, *before)
		assert.Equal(t, Interval{Start: at(14, 0), End: at(18, 0)}, *after)
	})

	t.Run("prefix leaves only the tail", func(t *testing.T) {
		before, after := base.Split(mustInterval(t, at(9, 0), at(12, 0)))
		assert.Nil(t, before)
		require.NotNil(t, after)
		assert.Equal(t, Interval{Start: at(12, 0), End: at(18, 0)}, *after)
	})

	t.Run("suffix leaves only the head", func(t *testing.T) {
		before, after := base.Split(mustInterval(t, at(15, 0), at(18, 0)))
		require.NotNil(t, before)
		assert.Nil(t, after)
		assert.Equal(t, Interval{Start: at(9, 0), End: at(15, 0)}, *before)
	})

	t.Run("exact match leaves nothing", func(t *testing.T) {
		before, after := base.Split(base)
		assert.Nil(t, before)
		assert.Nil(t, after)
	})
}

func TestIntervalCoversDate(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		i := mustInterval(t, at(9, 0), at(18, 0))
		assert.True(t, i.CoversDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
		assert.False(t, i.CoversDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, i.CoversDate(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("time of day on the probe is ignored", func(t *testing.T) {
		i := mustInterval(t, at(9, 0), at(18, 0))
		assert.True(t, i.CoversDate(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)))
	})

	t.Run("interval ending at midnight does not touch the next day", func(t *testing.T) {
		i := mustInterval(t,
			time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
		assert.True(t, i.CoversDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
		assert.False(t, i.CoversDate(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)))
	})
}

func TestIntervalDuration(t *testing.T) {
	i := mustInterval(t, at(9, 0), at(11, 30))
	assert.Equal(t, 2.5, i.DurationHours())
	assert.Equal(t, 150*time.Minute, i.Duration())
}
