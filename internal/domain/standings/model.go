package standings

import (
	"context"

	"cfb-poll/internal/domain/period"
)

// Limit is how many teams a published poll lists.
const Limit = 25

// Standing is one team's aggregate over the final ballots of a period.
type Standing struct {
	Rank        int     `json:"rank"`
	TeamID      int64   `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Badge       string  `json:"badge,omitempty"`
	AverageRank float64 `json:"average_rank"`
	TotalVotes  int64   `json:"total_votes"`
}

type Poll struct {
	Period   *period.Period `json:"period"`
	Rankings []Standing     `json:"rankings"`
	Ballots  int64          `json:"ballots"`
	Message  string         `json:"message,omitempty"`
}

type Repository interface {
	// ByPeriod returns up to limit teams ordered by average rank over the final
	// ballots of the period, and the number of final ballots counted.
	ByPeriod(ctx context.Context, periodID int64, limit int) ([]Standing, int64, error)
}

type PeriodSource interface {
	Current(ctx context.Context) (*period.Period, error)
	Get(ctx context.Context, id int64) (*period.Period, error)
}
