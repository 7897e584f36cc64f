package team

import (
	"context"
	"time"
)

// Team is a catalog entry. Ballots only ever reference teams by ID.
type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Badge     string    `json:"badge,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, t *Team) error
	List(ctx context.Context) ([]Team, error)
}
