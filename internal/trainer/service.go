// Package trainer exposes the operations of the opening trainer independent of any transport.
package trainer

import (
	"context"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/entitlement"
	"github.com/at-ishikawa/openings/internal/mistake"
	"github.com/at-ishikawa/openings/internal/progress"
	"github.com/at-ishikawa/openings/internal/selector"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Catalog     catalog.Catalog
	Recall      progress.RecallRepository
	Drill       progress.DrillRepository
	Mistakes    progress.MistakeRepository
	Repertoire  progress.RepertoireRepository
	Completions progress.CompletionRepository
	Attempts    progress.AttemptRepository
	Profiles    progress.ProfileRepository
	// UnitOfWork stores the writes of one outcome or mistake report together.
	UnitOfWork progress.UnitOfWork
	Queue      *mistake.Queue
	Policy     *entitlement.Policy
	Selector   *selector.Selector
	Clock      clock.Clock
}

// Service implements the trainer operations.
type Service struct {
	catalog     catalog.Catalog
	recall      progress.RecallRepository
	drill       progress.DrillRepository
	mistakes    progress.MistakeRepository
	repertoire  progress.RepertoireRepository
	completions progress.CompletionRepository
	attempts    progress.AttemptRepository
	profiles    progress.ProfileRepository
	uow         progress.UnitOfWork
	queue       *mistake.Queue
	policy      *entitlement.Policy
	selector    *selector.Selector
	clock       clock.Clock
}

func NewService(deps Deps) *Service {
	return &Service{
		catalog:     deps.Catalog,
		recall:      deps.Recall,
		drill:       deps.Drill,
		mistakes:    deps.Mistakes,
		repertoire:  deps.Repertoire,
		completions: deps.Completions,
		attempts:    deps.Attempts,
		profiles:    deps.Profiles,
		uow:         deps.UnitOfWork,
		queue:       deps.Queue,
		policy:      deps.Policy,
		selector:    deps.Selector,
		clock:       deps.Clock,
	}
}

// GetNextItem selects what the user should train next.
func (s *Service) GetNextItem(ctx context.Context, req selector.Request) (*selector.Result, error) {
	if err := s.policy.CheckStamina(ctx, req.UserID); err != nil {
		return nil, err
	}
	return s.selector.Next(ctx, req)
}

// write runs fn in one unit of work. Unclassified failures, such as a failed commit, are storage errors.
func (s *Service) write(ctx context.Context, what string, fn func(ctx context.Context, repos progress.Repositories) error) error {
	err := s.uow.Do(ctx, fn)
	if err != nil && apperr.KindOf(err) == apperr.KindUnknown {
		return apperr.Storage(err, what)
	}
	return err
}

func requireUser(userID int64) error {
	if userID == progress.GuestUserID {
		return apperr.Forbidden("login required")
	}
	return nil
}

func (s *Service) findItem(ctx context.Context, itemID string) (*catalog.Item, error) {
	item, err := s.catalog.FindItem(ctx, itemID)
	if err != nil {
		return nil, apperr.Storage(err, "find item")
	}
	if item == nil {
		return nil, apperr.NotFound("variation %s not found", itemID)
	}
	return item, nil
}

func (s *Service) findGroup(ctx context.Context, groupID string) (*catalog.Group, error) {
	if groupID == "" {
		return nil, apperr.InvalidArgument("opening_id is required")
	}
	g, err := s.catalog.FindGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Storage(err, "find group")
	}
	if g == nil {
		return nil, apperr.NotFound("opening %s not found", groupID)
	}
	return g, nil
}

// ProfileView is the entitlement and streak state shown to a user.
type ProfileView struct {
	IsPremium            bool `json:"is_premium"`
	IsStaff              bool `json:"is_staff"`
	DailyMovesRemaining  int  `json:"daily_moves_remaining"`
	DailyMovesMax        int  `json:"daily_moves_max"`
	OneMoveCurrentStreak int  `json:"one_move_current_streak"`
	OneMoveBestStreak    int  `json:"one_move_best_streak"`
}

// Profile returns the profile of a signed-in user.
func (s *Service) Profile(ctx context.Context, userID int64) (*ProfileView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := s.profiles.Find(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err, "find profile")
	}
	remaining, daily, err := s.policy.Stamina(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		IsPremium:            p.IsPremium || p.IsStaff,
		IsStaff:              p.IsStaff,
		DailyMovesRemaining:  remaining,
		DailyMovesMax:        daily,
		OneMoveCurrentStreak: p.OneMoveCurrentStreak,
		OneMoveBestStreak:    p.OneMoveBestStreak,
	}, nil
}
