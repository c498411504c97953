package trainer

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/mistake"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/srs"
)

// OutcomeRequest reports the result of a training round.
type OutcomeRequest struct {
	UserID int64
	Mode   srs.Mode
	ItemID string
	// MistakeID is set when the round replayed a mistake. The mistake is resolved and no record is scheduled.
	MistakeID int64
	Success   bool
	HintUsed  bool
}

// Outcome is the state after an outcome was applied.
type Outcome struct {
	Message string            `json:"message"`
	Recall  *srs.RecallRecord `json:"recall,omitempty"`
	Drill   *srs.DrillRecord  `json:"drill,omitempty"`
	Status  srs.Status        `json:"status,omitempty"`
	Streak  *OneMoveStreak    `json:"one_move,omitempty"`
}

// OneMoveStreak is the one-move streak after an outcome.
type OneMoveStreak struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// SubmitOutcome applies the result of a round to the scheduling record of its mode.
// Guests train without persisted state.
func (s *Service) SubmitOutcome(ctx context.Context, req OutcomeRequest) (*Outcome, error) {
	if req.UserID == progress.GuestUserID {
		return &Outcome{Message: "Practice complete (Guest)"}, nil
	}
	if req.MistakeID != 0 {
		if err := s.queue.Resolve(ctx, req.UserID, req.MistakeID); err != nil {
			return nil, err
		}
		if req.HintUsed {
			return &Outcome{Message: "Mistake resolved (with hint). Keep practicing!"}, nil
		}
		return &Outcome{Message: "Mistake resolved!"}, nil
	}

	switch req.Mode {
	case srs.ModeOneMove:
		return s.submitOneMove(ctx, req)
	case srs.ModeDrill:
		return s.submitDrill(ctx, req)
	case srs.ModeRecall:
		return s.submitRecall(ctx, req)
	}
	return nil, apperr.InvalidArgument("unknown mode %q", req.Mode)
}

func (s *Service) submitRecall(ctx context.Context, req OutcomeRequest) (*Outcome, error) {
	item, err := s.findItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	failed := !req.Success || req.HintUsed
	var rec *srs.RecallRecord
	err = s.write(ctx, "submit recall outcome", func(ctx context.Context, repos progress.Repositories) error {
		if err := s.policy.WithProfiles(repos.Profiles).ConsumeStamina(ctx, req.UserID); err != nil {
			return err
		}
		if !failed {
			if err := repos.Completions.Increment(ctx, req.UserID, item.ID, now); err != nil {
				return apperr.Storage(err, "record completion")
			}
		}
		var err error
		rec, err = repos.Recall.Update(ctx, req.UserID, item.ID, func(current *srs.RecallRecord) (*srs.RecallRecord, error) {
			next := srs.ApplyRecallOutcome(current, failed, now)
			return &next, nil
		})
		if err != nil {
			return apperr.Storage(err, "update recall record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := "Completed!"
	if failed {
		msg = "Completed (with hint). Keep practicing!"
	}
	return &Outcome{Message: msg, Recall: rec}, nil
}

func (s *Service) submitDrill(ctx context.Context, req OutcomeRequest) (*Outcome, error) {
	if err := s.policy.RequirePremium(ctx, req.UserID); err != nil {
		return nil, err
	}
	item, err := s.findItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	success := req.Success && !req.HintUsed
	var rec *srs.DrillRecord
	err = s.write(ctx, "submit drill outcome", func(ctx context.Context, repos progress.Repositories) error {
		if err := s.policy.WithProfiles(repos.Profiles).ConsumeStamina(ctx, req.UserID); err != nil {
			return err
		}
		var err error
		rec, err = s.applyDrill(ctx, repos, req.UserID, *item, success)
		return err
	})
	if err != nil {
		return nil, err
	}
	msg := "Line mastered for now!"
	if !success {
		msg = "Keep practicing this line."
	}
	return &Outcome{Message: msg, Drill: rec, Status: srs.DrillStatus(rec, s.clock.Now())}, nil
}

// applyDrill updates the drill record and logs the attempt within the unit of work of repos.
func (s *Service) applyDrill(ctx context.Context, repos progress.Repositories, userID int64, item catalog.Item, success bool) (*srs.DrillRecord, error) {
	now := s.clock.Now()
	rec, err := repos.Drill.Update(ctx, userID, item.ID, func(current *srs.DrillRecord) (*srs.DrillRecord, error) {
		next := srs.ApplyDrillOutcome(current, success, now)
		return &next, nil
	})
	if err != nil {
		return nil, apperr.Storage(err, "update drill record")
	}
	attempt := &progress.DrillAttempt{
		UserID:    userID,
		ItemID:    item.ID,
		GroupID:   item.GroupID,
		Success:   success,
		Mode:      srs.ModeDrill,
		CreatedAt: now,
	}
	if err := repos.Attempts.Create(ctx, attempt); err != nil {
		return nil, apperr.Storage(err, "log drill attempt")
	}
	return rec, nil
}

func (s *Service) submitOneMove(ctx context.Context, req OutcomeRequest) (*Outcome, error) {
	p, err := s.profiles.Update(ctx, req.UserID, func(p *progress.Profile) error {
		p.RecordOneMove(req.Success)
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(err, "update one-move streak")
	}
	msg := "Streak reset"
	if req.Success {
		msg = fmt.Sprintf("Streak: %d", p.OneMoveCurrentStreak)
	}
	return &Outcome{
		Message: msg,
		Streak:  &OneMoveStreak{Current: p.OneMoveCurrentStreak, Best: p.OneMoveBestStreak},
	}, nil
}

// MistakeReport is a failed move reported during a round.
type MistakeReport struct {
	UserID int64
	Mode   srs.Mode
	// ItemID may be empty in recall mode when the position cannot be attributed to an item.
	ItemID      string
	PositionKey string
	WrongMove   string
	CorrectMove string
}

// ReportMistake queues the position and penalizes the record of the mode.
//
// One-move mode keeps no mistake and only resets the streak. Drill mode counts a failed attempt.
// Recall mode makes an existing record due immediately.
func (s *Service) ReportMistake(ctx context.Context, r MistakeReport) error {
	if r.UserID == progress.GuestUserID {
		return nil
	}
	if r.PositionKey == "" {
		return apperr.InvalidArgument("fen is required")
	}

	if r.Mode == srs.ModeOneMove {
		_, err := s.profiles.Update(ctx, r.UserID, func(p *progress.Profile) error {
			p.RecordOneMove(false)
			return nil
		})
		if err != nil {
			return apperr.Storage(err, "reset one-move streak")
		}
		return nil
	}

	var item *catalog.Item
	if r.ItemID != "" {
		var err error
		if item, err = s.findItem(ctx, r.ItemID); err != nil {
			return err
		}
	} else if r.Mode == srs.ModeDrill {
		return apperr.InvalidArgument("id is required")
	}

	failure := mistake.Failure{
		UserID:      r.UserID,
		PositionKey: r.PositionKey,
		WrongMove:   r.WrongMove,
		CorrectMove: r.CorrectMove,
	}
	if item == nil {
		_, err := s.queue.RecordFailure(ctx, failure)
		return err
	}
	failure.ItemID = item.ID

	now := s.clock.Now()
	return s.write(ctx, "report mistake", func(ctx context.Context, repos progress.Repositories) error {
		if _, err := s.queue.WithRepository(repos.Mistakes).RecordFailure(ctx, failure); err != nil {
			return err
		}
		if r.Mode == srs.ModeDrill {
			_, err := s.applyDrill(ctx, repos, r.UserID, *item, false)
			return err
		}
		_, err := repos.Recall.Update(ctx, r.UserID, item.ID, func(current *srs.RecallRecord) (*srs.RecallRecord, error) {
			if current == nil {
				return nil, nil
			}
			next := srs.ApplyRecallBlunder(*current, now)
			return &next, nil
		})
		if err != nil {
			return apperr.Storage(err, "penalize recall record")
		}
		return nil
	})
}
