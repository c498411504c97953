package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDrillOutcome_FailThenSucceed(t *testing.T) {
	now := testNow

	rec := ApplyDrillOutcome(nil, false, now)
	assert.InDelta(t, 2.3, rec.EaseFactor, 1e-9)
	assert.Equal(t, 0.0, rec.IntervalDays)
	assert.Equal(t, now.Add(time.Hour), rec.DueDate)
	assert.Equal(t, 0, rec.Streak)
	assert.Equal(t, ResultFailure, rec.LastResult)
	assert.Equal(t, 1, rec.TotalAttempts)
	assert.Equal(t, 0, rec.TotalSuccesses)

	rec = ApplyDrillOutcome(&rec, true, now)
	assert.Equal(t, 1.0, rec.IntervalDays)
	assert.Equal(t, 1, rec.Streak)
	assert.InDelta(t, 2.4, rec.EaseFactor, 1e-9)
	assert.Equal(t, now.Add(24*time.Hour), rec.DueDate)

	rec = ApplyDrillOutcome(&rec, true, now)
	assert.Equal(t, 3.0, rec.IntervalDays)
	assert.Equal(t, 2, rec.Streak)
	assert.InDelta(t, 2.5, rec.EaseFactor, 1e-9)
	assert.Equal(t, 3, rec.TotalAttempts)
	assert.Equal(t, 2, rec.TotalSuccesses)
	assert.Equal(t, ResultSuccess, rec.LastResult)
}

func TestApplyDrillOutcome_Intervals(t *testing.T) {
	var rec *DrillRecord
	next := ApplyDrillOutcome(rec, true, testNow)
	assert.Equal(t, 1.0, next.IntervalDays)

	next = ApplyDrillOutcome(&next, true, testNow)
	assert.Equal(t, 3.0, next.IntervalDays)

	next = ApplyDrillOutcome(&next, true, testNow)
	assert.InDelta(t, 2.8, next.EaseFactor, 1e-9)
	assert.InDelta(t, 3*next.EaseFactor, next.IntervalDays, 1e-9)
}

func TestApplyDrillOutcome_EaseFloor(t *testing.T) {
	rec := NewDrillRecord(testNow)
	for i := 0; i < 50; i++ {
		rec = ApplyDrillOutcome(&rec, i%7 == 3, testNow)
		require.GreaterOrEqual(t, rec.EaseFactor, MinEaseFactor)
		require.LessOrEqual(t, rec.TotalSuccesses, rec.TotalAttempts)
	}
	for i := 0; i < 20; i++ {
		rec = ApplyDrillOutcome(&rec, false, testNow)
	}
	assert.Equal(t, MinEaseFactor, rec.EaseFactor)
}

func TestDrillStatus(t *testing.T) {
	tests := []struct {
		name string
		rec  *DrillRecord
		want Status
	}{
		{name: "no record", rec: nil, want: StatusLearning},
		{name: "no attempts", rec: &DrillRecord{DueDate: testNow.Add(-time.Hour)}, want: StatusLearning},
		{name: "due now", rec: &DrillRecord{TotalAttempts: 1, DueDate: testNow}, want: StatusDue},
		{name: "overdue", rec: &DrillRecord{TotalAttempts: 3, DueDate: testNow.Add(-time.Minute)}, want: StatusDue},
		{name: "scheduled", rec: &DrillRecord{TotalAttempts: 3, DueDate: testNow.Add(time.Minute)}, want: StatusMastered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before DrillRecord
			if tt.rec != nil {
				before = *tt.rec
			}
			assert.Equal(t, tt.want, DrillStatus(tt.rec, testNow))
			assert.Equal(t, tt.want, DrillStatus(tt.rec, testNow))
			if tt.rec != nil {
				assert.Equal(t, before, *tt.rec)
			}
		})
	}
}

func TestDrillRecord_Weight(t *testing.T) {
	a := DrillRecord{IntervalDays: 0.5, TotalAttempts: 1, TotalSuccesses: 0}
	b := DrillRecord{IntervalDays: 9.5, TotalAttempts: 1, TotalSuccesses: 1}
	assert.InDelta(t, 2.0, a.Weight(), 1e-9)
	assert.InDelta(t, 0.1, b.Weight(), 1e-9)
	assert.Greater(t, a.Weight(), b.Weight())
	assert.Equal(t, 1.0, DrillRecord{}.FailureRate())
}
