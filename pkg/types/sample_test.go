package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductivitySampleDerive(t *testing.T) {
	t.Run("computes duration and productivity", func(t *testing.T) {
		s := ProductivitySample{
			ExcavatorID:    "EX0001",
			Timestamp:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			Trips:          20,
			HMStart:        10.0,
			HMEnd:          12.0,
			BucketCapacity: 12.5,
		}
		require.NoError(t, s.Derive())
		assert.Equal(t, 2.0, s.Duration)
		assert.Equal(t, 125.0, s.Productivity)
	})

	t.Run("rejects end hour meter at or below start", func(t *testing.T) {
		tests := []struct {
			name           string
			hmStart, hmEnd float64
		}{
			{"equal", 10.0, 10.0},
			{"reversed", 12.0, 10.0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := ProductivitySample{Trips: 5, BucketCapacity: 10, HMStart: tt.hmStart, HMEnd: tt.hmEnd}
				assert.ErrorIs(t, s.Derive(), ErrInvalidHourMeter)
			})
		}
	})

	t.Run("rejects non-positive trips", func(t *testing.T) {
		s := ProductivitySample{Trips: 0, BucketCapacity: 10, HMStart: 1, HMEnd: 2}
		assert.ErrorIs(t, s.Derive(), ErrInvalidTripCount)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		s := ProductivitySample{Trips: 5, BucketCapacity: 0, HMStart: 1, HMEnd: 2}
		assert.ErrorIs(t, s.Derive(), ErrInvalidCapacity)
	})
}

func TestMatchFactorSampleDerive(t *testing.T) {
	t.Run("computes match factor", func(t *testing.T) {
		m := MatchFactorSample{HaulerCount: 4, LoaderCycle: 3.0, HaulerCycle: 12.0}
		require.NoError(t, m.Derive())
		assert.Equal(t, 1.0, m.MatchFactor)
	})

	t.Run("rejects non-positive hauler count", func(t *testing.T) {
		m := MatchFactorSample{HaulerCount: 0, LoaderCycle: 3, HaulerCycle: 12}
		assert.ErrorIs(t, m.Derive(), ErrInvalidHaulerCount)
	})

	t.Run("rejects non-positive cycle times", func(t *testing.T) {
		m := MatchFactorSample{HaulerCount: 4, LoaderCycle: 0, HaulerCycle: 12}
		assert.ErrorIs(t, m.Derive(), ErrInvalidCycleTime)

		m = MatchFactorSample{HaulerCount: 4, LoaderCycle: 3, HaulerCycle: 0}
		assert.ErrorIs(t, m.Derive(), ErrInvalidCycleTime)
	})
}
