// Package entitlement decides what a user may train under the configured monetization strategy.
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
	"github.com/at-ishikawa/openings/internal/clock"
	"github.com/at-ishikawa/openings/internal/config"
	"github.com/at-ishikawa/openings/internal/progress"
)

//go:generate mockgen -source=entitlement.go -destination=../mocks/entitlement/mock_entitlement.go -package=mock_entitlement

// Oracle reports which items a user may access.
type Oracle interface {
	IsUnlocked(ctx context.Context, userID int64, itemID string) (bool, error)
	UnlockedItemIDs(ctx context.Context, userID int64) (Unlocked, error)
}

// Unlocked is the set of accessible items. All means there is no restriction.
type Unlocked struct {
	All bool
	IDs map[string]struct{}
}

// Contains reports whether itemID is accessible.
func (u Unlocked) Contains(itemID string) bool {
	if u.All {
		return true
	}
	_, ok := u.IDs[itemID]
	return ok
}

// staminaPeriod is how long a daily move budget lasts.
const staminaPeriod = 24 * time.Hour

// Policy implements Oracle with the hard-lock and stamina strategies.
type Policy struct {
	cfg         config.MonetizationConfig
	catalog     catalog.Catalog
	profiles    progress.ProfileRepository
	completions progress.CompletionRepository
	clock       clock.Clock
}

func NewPolicy(
	cfg config.MonetizationConfig,
	cat catalog.Catalog,
	profiles progress.ProfileRepository,
	completions progress.CompletionRepository,
	c clock.Clock,
) *Policy {
	return &Policy{cfg: cfg, catalog: cat, profiles: profiles, completions: completions, clock: c}
}

// WithProfiles returns a copy of the policy that reads and writes profiles through profiles.
func (p *Policy) WithProfiles(profiles progress.ProfileRepository) *Policy {
	copied := *p
	copied.profiles = profiles
	return &copied
}

// IsPremium reports whether the user bypasses every restriction. Staff members always do; guests never do.
func (p *Policy) IsPremium(ctx context.Context, userID int64) (bool, error) {
	if userID == progress.GuestUserID {
		return false, nil
	}
	profile, err := p.profiles.Find(ctx, userID)
	if err != nil {
		return false, apperr.Storage(err, "find profile")
	}
	return profile.IsStaff || profile.IsPremium, nil
}

// RequirePremium fails with Forbidden for users without premium access.
func (p *Policy) RequirePremium(ctx context.Context, userID int64) error {
	premium, err := p.IsPremium(ctx, userID)
	if err != nil {
		return err
	}
	if !premium {
		return apperr.Forbidden("premium required")
	}
	return nil
}

func (p *Policy) UnlockedItemIDs(ctx context.Context, userID int64) (Unlocked, error) {
	if p.cfg.Strategy != config.StrategyHardLock {
		return Unlocked{All: true}, nil
	}
	premium, err := p.IsPremium(ctx, userID)
	if err != nil {
		return Unlocked{}, err
	}
	if premium {
		return Unlocked{All: true}, nil
	}
	items, err := p.catalog.FindItems(ctx, catalog.Query{})
	if err != nil {
		return Unlocked{}, apperr.Storage(err, "list items")
	}
	limit := min(p.cfg.FreeItemLimit, len(items))
	ids := make(map[string]struct{}, limit)
	for _, item := range items[:limit] {
		ids[item.ID] = struct{}{}
	}
	return Unlocked{IDs: ids}, nil
}

func (p *Policy) IsUnlocked(ctx context.Context, userID int64, itemID string) (bool, error) {
	unlocked, err := p.UnlockedItemIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return unlocked.Contains(itemID), nil
}

// UnlockedGroupIDs returns the groups with at least one accessible item, in catalog order.
func (p *Policy) UnlockedGroupIDs(ctx context.Context, userID int64) (map[string]struct{}, error) {
	unlocked, err := p.UnlockedItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := p.catalog.FindItems(ctx, catalog.Query{})
	if err != nil {
		return nil, apperr.Storage(err, "list items")
	}
	groups := make(map[string]struct{})
	for _, item := range items {
		if unlocked.Contains(item.ID) {
			groups[item.GroupID] = struct{}{}
		}
	}
	return groups, nil
}

// CheckStamina fails with Forbidden when a free user has no move left under the stamina strategy.
func (p *Policy) CheckStamina(ctx context.Context, userID int64) error {
	if p.cfg.Strategy != config.StrategyStamina {
		return nil
	}
	if userID == progress.GuestUserID {
		return apperr.Forbidden("login required")
	}
	profile, err := p.profiles.Find(ctx, userID)
	if err != nil {
		return apperr.Storage(err, "find profile")
	}
	if profile.IsStaff || profile.IsPremium {
		return nil
	}
	if p.remaining(profile) <= 0 {
		return apperr.Forbidden("out of stamina")
	}
	return nil
}

// ConsumeStamina spends one move of a free user under the stamina strategy.
// The budget is refilled first when the last refill is at least a day old.
func (p *Policy) ConsumeStamina(ctx context.Context, userID int64) error {
	if p.cfg.Strategy != config.StrategyStamina || userID == progress.GuestUserID {
		return nil
	}
	now := p.clock.Now()
	_, err := p.profiles.Update(ctx, userID, func(profile *progress.Profile) error {
		if profile.IsStaff || profile.IsPremium {
			return nil
		}
		if now.Sub(profile.LastStaminaReset) >= staminaPeriod {
			profile.DailyMovesRemaining = p.cfg.DailyMoves
			profile.LastStaminaReset = now
		}
		if profile.DailyMovesRemaining > 0 {
			profile.DailyMovesRemaining--
		}
		return nil
	})
	if err != nil {
		return apperr.Storage(err, "consume stamina")
	}
	return nil
}

// Stamina returns the moves left today and the daily budget.
func (p *Policy) Stamina(ctx context.Context, userID int64) (remaining, daily int, err error) {
	if userID == progress.GuestUserID {
		return 0, p.cfg.DailyMoves, nil
	}
	profile, err := p.profiles.Find(ctx, userID)
	if err != nil {
		return 0, 0, apperr.Storage(err, "find profile")
	}
	return p.remaining(profile), p.cfg.DailyMoves, nil
}

func (p *Policy) remaining(profile progress.Profile) int {
	if p.clock.Now().Sub(profile.LastStaminaReset) >= staminaPeriod {
		return p.cfg.DailyMoves
	}
	return profile.DailyMovesRemaining
}

// DrillUnlocked reports whether every item of the group has been completed without hints at least once.
func (p *Policy) DrillUnlocked(ctx context.Context, userID int64, groupID string) (bool, error) {
	items, err := p.catalog.ItemsByGroup(ctx, groupID)
	if err != nil {
		return false, apperr.Storage(err, fmt.Sprintf("list items of %s", groupID))
	}
	if len(items) == 0 || userID == progress.GuestUserID {
		return false, nil
	}
	completed, err := p.completions.CompletedItemIDs(ctx, userID, groupID)
	if err != nil {
		return false, apperr.Storage(err, "list completions")
	}
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := done[item.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// RequireDrillUnlocked fails with Forbidden until the group is unlocked for drilling.
func (p *Policy) RequireDrillUnlocked(ctx context.Context, userID int64, groupID string) error {
	ok, err := p.DrillUnlocked(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("complete every line of %s to unlock drill mode", groupID)
	}
	return nil
}

var _ Oracle = (*Policy)(nil)
