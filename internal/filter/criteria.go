// Package filter narrows the catalog by declarative criteria.
//
// Filtering is two-phase: Query carries the indexable fields a store can evaluate, and
// Refine applies the theme membership test in memory over what the store returned.
package filter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/openings/internal/apperr"
	"github.com/at-ishikawa/openings/internal/catalog"
)

// Criteria is an AND of ORs: each non-empty field restricts, values within a field are alternatives.
type Criteria struct {
	Difficulties []catalog.Difficulty `json:"difficulties" validate:"dive,oneof=beginner intermediate advanced elite"`
	Goals        []catalog.Goal       `json:"training_goals" validate:"dive,oneof=tactics strategy attack defense endgame"`
	Themes       []string             `json:"themes" validate:"dive,required,max=64"`
	GroupID      string               `json:"opening_id" validate:"max=100"`
	// RepertoireOnly asks to train only the groups of the user's active repertoire.
	RepertoireOnly bool `json:"use_repertoire_only"`
	// RepertoireGroupIDs is resolved by the selector when RepertoireOnly is set.
	RepertoireGroupIDs []string      `json:"-"`
	Side               *catalog.Side `json:"side" validate:"omitempty,oneof=white black"`
}

// HasFilters reports whether any content criterion is active. Side alone is not a content filter.
func (c Criteria) HasFilters() bool {
	return len(c.Difficulties) > 0 || len(c.Goals) > 0 || len(c.Themes) > 0 || c.GroupID != "" || c.RepertoireOnly
}

// Query returns the store-level part of the criteria.
func (c Criteria) Query() catalog.Query {
	return catalog.Query{
		Difficulties: c.Difficulties,
		Goals:        c.Goals,
		GroupID:      c.GroupID,
		GroupIDs:     c.RepertoireGroupIDs,
		Side:         c.Side,
	}
}

// MatchThemes reports whether item carries any requested theme. No requested theme matches everything.
func (c Criteria) MatchThemes(item catalog.Item) bool {
	if len(c.Themes) == 0 {
		return true
	}
	return item.HasAnyTheme(c.Themes)
}

// Match applies both phases to a single item.
func (c Criteria) Match(item catalog.Item) bool {
	return c.Query().Match(item) && c.MatchThemes(item)
}

// Refine keeps the items that pass the in-memory theme test, preserving order.
func (c Criteria) Refine(items []catalog.Item) []catalog.Item {
	if len(c.Themes) == 0 {
		return items
	}
	var result []catalog.Item
	for _, item := range items {
		if c.MatchThemes(item) {
			result = append(result, item)
		}
	}
	return result
}

// Validate reports malformed values as an invalid argument error.
func (c Criteria) Validate() error {
	if err := criteriaValidator.validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !asValidationErrors(err, &validationErrors) {
			return apperr.InvalidArgument("invalid filter: %v", err)
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, e.Translate(criteriaValidator.translator))
		}
		return apperr.InvalidArgument("invalid filter: %s", strings.Join(msgs, ", "))
	}
	return nil
}

// Parse builds criteria from comma-separated request values. Empty entries are ignored.
func Parse(difficulties, goals, themes, groupID, side string, repertoireOnly bool) (Criteria, error) {
	c := Criteria{
		GroupID:        strings.TrimSpace(groupID),
		RepertoireOnly: repertoireOnly,
	}
	for _, d := range splitList(difficulties) {
		c.Difficulties = append(c.Difficulties, catalog.Difficulty(d))
	}
	for _, g := range splitList(goals) {
		c.Goals = append(c.Goals, catalog.Goal(g))
	}
	c.Themes = splitList(themes)
	if side = strings.TrimSpace(side); side != "" {
		s := catalog.Side(side)
		c.Side = &s
	}
	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

type validatorWithTranslator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var criteriaValidator = mustNewValidator()

func mustNewValidator() validatorWithTranslator {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Errorf("failed to register default translations: %w", err))
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validatorWithTranslator{validate: validate, translator: trans}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok {
		*target = v
	}
	return ok
}
