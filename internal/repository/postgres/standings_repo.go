package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cfb-poll/internal/domain/standings"
)

type StandingsRepo struct {
	db *sql.DB
}

func NewStandingsRepo(db *sql.DB) *StandingsRepo {
	return &StandingsRepo{db: db}
}

func (r *StandingsRepo) ByPeriod(ctx context.Context, periodID int64, limit int) ([]standings.Standing, int64, error) {
	var ballots int64
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM ballots WHERE period_id = $1 AND variant = 'final'
    `, periodID).Scan(&ballots)
	if err != nil {
		return nil, 0, fmt.Errorf("count final ballots: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT t.id, t.name, t.badge,
               CAST(AVG(br.rank) AS DOUBLE PRECISION) AS average_rank,
               COUNT(DISTINCT br.ballot_id) AS total_votes
        FROM ballot_rankings br
        JOIN ballots b ON b.id = br.ballot_id
        JOIN teams t ON t.id = br.team_id
        WHERE b.period_id = $1 AND b.variant = 'final'
        GROUP BY t.id, t.name, t.badge
        ORDER BY average_rank ASC, total_votes DESC, t.name
        LIMIT $2
    `, periodID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate standings: %w", err)
	}
	defer rows.Close()

	res := []standings.Standing{}
	for rows.Next() {
		var s standings.Standing
		if err := rows.Scan(&s.TeamID, &s.TeamName, &s.Badge, &s.AverageRank, &s.TotalVotes); err != nil {
			return nil, 0, err
		}
		res = append(res, s)
	}
	return res, ballots, rows.Err()
}
