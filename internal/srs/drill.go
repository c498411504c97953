package srs

import (
	"math"
	"time"
)

const (
	drillEaseBonus   = 0.1
	drillEasePenalty = 0.2
	// drillRelearnDelay is the short re-exposure window after a failed drill.
	drillRelearnDelay = time.Hour
)

// Result is the outcome of the most recent drill attempt.
type Result string

const (
	ResultNone    Result = ""
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Status classifies a drill record for display and selection.
type Status string

const (
	StatusLearning Status = "learning"
	StatusDue      Status = "due"
	StatusMastered Status = "mastered"
)

// DrillRecord is the opening drill scheduling state of one user and item.
type DrillRecord struct {
	EaseFactor     float64   `db:"ease_factor" json:"ease_factor"`
	IntervalDays   float64   `db:"interval_days" json:"interval_days"`
	DueDate        time.Time `db:"due_date" json:"due_date"`
	Streak         int       `db:"streak" json:"streak"`
	TotalAttempts  int       `db:"total_attempts" json:"total_attempts"`
	TotalSuccesses int       `db:"total_successes" json:"total_successes"`
	LastResult     Result    `db:"last_result" json:"last_result"`
}

// NewDrillRecord returns the state of an item that has never been drilled.
func NewDrillRecord(now time.Time) DrillRecord {
	return DrillRecord{
		EaseFactor: DefaultEaseFactor,
		DueDate:    now,
	}
}

// ApplyDrillOutcome returns the record after one drill attempt. A nil record starts from NewDrillRecord.
//
// Success raises the ease factor by 0.1 without a ceiling and grows the interval 1, 3, then
// interval * ease factor. Failure lowers the ease factor by 0.2 down to MinEaseFactor and makes
// the item due again after an hour.
func ApplyDrillOutcome(rec *DrillRecord, success bool, now time.Time) DrillRecord {
	next := NewDrillRecord(now)
	if rec != nil {
		next = *rec
	}

	next.TotalAttempts++
	if !success {
		next.LastResult = ResultFailure
		next.EaseFactor = math.Max(MinEaseFactor, next.EaseFactor-drillEasePenalty)
		next.IntervalDays = 0
		next.Streak = 0
		next.DueDate = now.Add(drillRelearnDelay)
		return next
	}

	next.TotalSuccesses++
	next.LastResult = ResultSuccess
	next.EaseFactor += drillEaseBonus
	switch next.Streak {
	case 0:
		next.IntervalDays = 1
	case 1:
		next.IntervalDays = 3
	default:
		next.IntervalDays *= next.EaseFactor
	}
	next.Streak++
	next.DueDate = now.Add(days(next.IntervalDays))
	return next
}

// DrillStatus classifies rec at now. A nil record or one without attempts is still being learned.
func DrillStatus(rec *DrillRecord, now time.Time) Status {
	if rec == nil || rec.TotalAttempts == 0 {
		return StatusLearning
	}
	if !rec.DueDate.After(now) {
		return StatusDue
	}
	return StatusMastered
}

// FailureRate is the share of failed attempts. It is 1 without attempts.
func (r DrillRecord) FailureRate() float64 {
	if r.TotalAttempts == 0 {
		return 1
	}
	return 1 - float64(r.TotalSuccesses)/float64(r.TotalAttempts)
}

// Weight is the lottery weight of a due record: short intervals and frequent failures are drawn more often.
func (r DrillRecord) Weight() float64 {
	return 1.0/(r.IntervalDays+0.5) + r.FailureRate()
}
