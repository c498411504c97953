package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestApplyRecallOutcome(t *testing.T) {
	tests := []struct {
		name     string
		rec      *RecallRecord
		hintUsed bool
		want     RecallRecord
	}{
		{
			name: "first exposure",
			rec:  nil,
			want: RecallRecord{EaseFactor: 2.5, Interval: 1, Streak: 1, NextReviewDate: testNow.Add(24 * time.Hour)},
		},
		{
			name:     "first exposure ignores hint",
			rec:      nil,
			hintUsed: true,
			want:     RecallRecord{EaseFactor: 2.5, Interval: 1, Streak: 1, NextReviewDate: testNow.Add(24 * time.Hour)},
		},
		{
			name: "success multiplies interval by ease factor",
			rec:  &RecallRecord{EaseFactor: 2.5, Interval: 2.5, Streak: 2},
			want: RecallRecord{EaseFactor: 2.5, Interval: 6.25, Streak: 3, NextReviewDate: testNow.Add(150 * time.Hour)},
		},
		{
			name:     "hint resets streak and interval but keeps ease",
			rec:      &RecallRecord{EaseFactor: 1.9, Interval: 40, Streak: 7},
			hintUsed: true,
			want:     RecallRecord{EaseFactor: 1.9, Interval: 1, Streak: 0, NextReviewDate: testNow.Add(24 * time.Hour)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRecallOutcome(tt.rec, tt.hintUsed, testNow)
			assert.Equal(t, tt.want.EaseFactor, got.EaseFactor)
			assert.InDelta(t, tt.want.Interval, got.Interval, 1e-9)
			assert.Equal(t, tt.want.Streak, got.Streak)
			assert.WithinDuration(t, tt.want.NextReviewDate, got.NextReviewDate, time.Millisecond)
		})
	}
}

func TestApplyRecallOutcome_DoesNotMutateInput(t *testing.T) {
	rec := &RecallRecord{EaseFactor: 2.5, Interval: 1, Streak: 1}
	_ = ApplyRecallOutcome(rec, false, testNow)
	assert.Equal(t, RecallRecord{EaseFactor: 2.5, Interval: 1, Streak: 1}, *rec)
}

func TestApplyRecallOutcome_HintAlwaysResets(t *testing.T) {
	for streak := 0; streak < 20; streak++ {
		rec := &RecallRecord{EaseFactor: 2.5, Interval: float64(streak) * 3.7, Streak: streak}
		got := ApplyRecallOutcome(rec, true, testNow)
		require.Equal(t, 0, got.Streak)
		require.Equal(t, 1.0, got.Interval)
	}
}

func TestApplyRecallOutcome_ThreeSuccesses(t *testing.T) {
	now := testNow
	var rec *RecallRecord
	wantIntervals := []float64{1, 2.5, 6.25}
	for i, want := range wantIntervals {
		next := ApplyRecallOutcome(rec, false, now)
		assert.InDelta(t, want, next.Interval, 1e-9)
		assert.Equal(t, i+1, next.Streak)
		assert.Equal(t, 2.5, next.EaseFactor)
		assert.WithinDuration(t, now.Add(time.Duration(want*24*float64(time.Hour))), next.NextReviewDate, time.Millisecond)
		rec = &next
		now = now.Add(time.Hour)
	}
}

func TestApplyRecallBlunder(t *testing.T) {
	got := ApplyRecallBlunder(RecallRecord{EaseFactor: 2.5, Interval: 15.6, Streak: 4}, testNow)
	assert.Equal(t, RecallRecord{EaseFactor: 2.5, Interval: 1, Streak: 0, NextReviewDate: testNow}, got)
	assert.True(t, got.IsDue(testNow))
}
