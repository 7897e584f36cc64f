package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cfb-poll/internal/domain/ballot"
)

type BallotRepo struct {
	db *sql.DB
}

func NewBallotRepo(db *sql.DB) *BallotRepo {
	return &BallotRepo{db: db}
}

func (r *BallotRepo) Latest(ctx context.Context, userID int64, variant ballot.Variant) ([]ballot.RankedTeam, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT br.team_id, br.rank, t.name, t.badge, t.created_at
        FROM ballot_rankings br
        JOIN teams t ON t.id = br.team_id
        WHERE br.ballot_id = (
            SELECT id FROM ballots
            WHERE user_id = $1 AND variant = $2
            ORDER BY updated_at DESC, id DESC
            LIMIT 1
        )
        ORDER BY br.rank
    `, userID, string(variant))
	if err != nil {
		return nil, fmt.Errorf("load ballot: %w", err)
	}
	defer rows.Close()

	ranked := []ballot.RankedTeam{}
	for rows.Next() {
		var rt ballot.RankedTeam
		if err := rows.Scan(&rt.TeamID, &rt.Rank, &rt.Team.Name, &rt.Team.Badge, &rt.Team.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ballot ranking: %w", err)
		}
		rt.Team.ID = rt.TeamID
		ranked = append(ranked, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ballot: %w", err)
	}
	return ranked, nil
}

// Replace swaps every ranking of the user's ballot in one transaction. The
// upsert takes the ballot's row lock first, so concurrent saves of the same
// ballot, first saves included, run one after the other and the last one to
// commit wins.
func (r *BallotRepo) Replace(ctx context.Context, userID int64, variant ballot.Variant, periodID *int64, entries []ballot.Entry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ballot tx: %w", err)
	}
	defer tx.Rollback()

	var ballotID int64
	err = tx.QueryRowContext(ctx, `
        INSERT INTO ballots (user_id, variant, period_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, variant, (COALESCE(period_id, 0)))
        DO UPDATE SET updated_at = CURRENT_TIMESTAMP
        RETURNING id
    `, userID, string(variant), periodID).Scan(&ballotID)
	if err != nil {
		return 0, fmt.Errorf("upsert ballot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ballot_rankings WHERE ballot_id = $1`, ballotID); err != nil {
		return 0, fmt.Errorf("clear ballot rankings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ballot_rankings (ballot_id, team_id, rank) VALUES ($1, $2, $3)`)
	if err != nil {
		return 0, fmt.Errorf("prepare ballot rankings: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, ballotID, e.TeamID, e.Rank); err != nil {
			if isForeignKeyViolation(err) {
				return 0, fmt.Errorf("%w: %d", ballot.ErrUnknownTeam, e.TeamID)
			}
			return 0, fmt.Errorf("insert ballot ranking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ballot: %w", err)
	}
	return ballotID, nil
}
