package postgres

import (
	"context"
	"database/sql"

	"cfb-poll/internal/domain/team"
)

type TeamRepo struct {
	db *sql.DB
}

func NewTeamRepo(db *sql.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

func (r *TeamRepo) Create(ctx context.Context, t *team.Team) error {
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO teams (name, badge)
        VALUES ($1, $2)
        RETURNING id, created_at
    `, t.Name, t.Badge).Scan(&t.ID, &t.CreatedAt)
	if isUniqueViolation(err) {
		return team.ErrTeamExists
	}
	return err
}

func (r *TeamRepo) List(ctx context.Context) ([]team.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, badge, created_at FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []team.Team{}
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Badge, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
