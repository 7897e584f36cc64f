package ballot

import (
	"context"

	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/team"
)

// Capacity is the number of ranking slots on a ballot.
const Capacity = 25

// Variant names a kind of ballot a user owns: one draft that is saved while
// editing, and one final submission per voting period.
type Variant string

const (
	VariantDraft Variant = "draft"
	VariantFinal Variant = "final"
)

func (v Variant) Valid() bool {
	return v == VariantDraft || v == VariantFinal
}

// Entry is the persisted form of one occupied slot. Rank is 1-based.
type Entry struct {
	TeamID int64 `json:"teamId"`
	Rank   int   `json:"rank"`
}

// RankedTeam is an Entry joined with the team it points at.
type RankedTeam struct {
	TeamID int64     `json:"teamId"`
	Rank   int       `json:"rank"`
	Team   team.Team `json:"team"`
}

type Repository interface {
	// Latest returns the rankings of the most recently updated ballot of the
	// given variant, ordered by rank. No ballot yields an empty result.
	Latest(ctx context.Context, userID int64, variant Variant) ([]RankedTeam, error)
	// Replace creates the ballot if needed and swaps all of its rankings for
	// entries in one transaction. periodID is nil for drafts.
	Replace(ctx context.Context, userID int64, variant Variant, periodID *int64, entries []Entry) (int64, error)
}

type PeriodResolver interface {
	Current(ctx context.Context) (*period.Period, error)
}

type CatalogLister interface {
	List(ctx context.Context) ([]team.Team, error)
}
