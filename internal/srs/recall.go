package srs

import "time"

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	initialRecallInterval = 1.0
)

// RecallRecord is the recall scheduling state of one user and item.
// The ease factor is fixed at creation; recall outcomes never adjust it.
type RecallRecord struct {
	EaseFactor     float64   `db:"ease_factor" json:"ease_factor"`
	Interval       float64   `db:"interval_days" json:"interval"`
	Streak         int       `db:"streak" json:"streak"`
	NextReviewDate time.Time `db:"next_review_date" json:"next_review_date"`
}

// ApplyRecallOutcome returns the record after a completed review.
// A nil record is a first exposure: interval 1, streak 1, default ease factor, regardless of hintUsed.
// hintUsed resets the streak and the interval. Otherwise the interval grows by the ease factor.
func ApplyRecallOutcome(rec *RecallRecord, hintUsed bool, now time.Time) RecallRecord {
	var next RecallRecord
	switch {
	case rec == nil:
		next = RecallRecord{
			EaseFactor: DefaultEaseFactor,
			Interval:   initialRecallInterval,
			Streak:     1,
		}
	case hintUsed:
		next = *rec
		next.Streak = 0
		next.Interval = initialRecallInterval
	default:
		next = *rec
		next.Streak++
		next.Interval = rec.Interval * rec.EaseFactor
	}
	next.NextReviewDate = now.Add(days(next.Interval))
	return next
}

// ApplyRecallBlunder returns the record after a reported mistake: it becomes due immediately.
func ApplyRecallBlunder(rec RecallRecord, now time.Time) RecallRecord {
	rec.Streak = 0
	rec.Interval = initialRecallInterval
	rec.NextReviewDate = now
	return rec
}

// IsDue reports whether the record should be reviewed at now.
func (r RecallRecord) IsDue(now time.Time) bool {
	return !r.NextReviewDate.After(now)
}

func days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}
