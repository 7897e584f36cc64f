package period

import (
	"context"
	"time"
)

// Period is one ranking week of a season. Ballots can be submitted while
// PollOpensAt <= now <= PollClosesAt.
type Period struct {
	ID             int64     `json:"id"`
	Season         string    `json:"season"`
	Number         int       `json:"period"`
	Name           string    `json:"period_name"`
	PeriodBeginsAt time.Time `json:"period_beg_dt"`
	PeriodEndsAt   time.Time `json:"period_end_dt"`
	PollOpensAt    time.Time `json:"poll_open_dt"`
	PollClosesAt   time.Time `json:"poll_close_dt"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsOpen reports whether ballots may be submitted at t.
func (p Period) IsOpen(t time.Time) bool {
	return !t.Before(p.PollOpensAt) && !t.After(p.PollClosesAt)
}

type Repository interface {
	Create(ctx context.Context, p *Period) error
	GetByID(ctx context.Context, id int64) (*Period, error)
	ListBySeason(ctx context.Context, season string) ([]Period, error)
	// OpenAt returns the highest-numbered period whose poll window contains t.
	OpenAt(ctx context.Context, t time.Time) (*Period, error)
}
