package postgres

import (
	"context"
	"database/sql"
	"time"

	"cfb-poll/internal/domain/period"
)

const periodColumns = `id, season, period, name, period_begins_at, period_ends_at,
        poll_opens_at, poll_closes_at, created_at`

type PeriodRepo struct {
	db *sql.DB
}

func NewPeriodRepo(db *sql.DB) *PeriodRepo {
	return &PeriodRepo{db: db}
}

func scanPeriod(row rowScanner) (*period.Period, error) {
	var p period.Period
	err := row.Scan(&p.ID, &p.Season, &p.Number, &p.Name, &p.PeriodBeginsAt, &p.PeriodEndsAt,
		&p.PollOpensAt, &p.PollClosesAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PeriodRepo) Create(ctx context.Context, p *period.Period) error {
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO ballot_periods
            (season, period, name, period_begins_at, period_ends_at, poll_opens_at, poll_closes_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `, p.Season, p.Number, p.Name, p.PeriodBeginsAt, p.PeriodEndsAt, p.PollOpensAt, p.PollClosesAt).
		Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return period.ErrPeriodExists
	}
	return err
}

func (r *PeriodRepo) GetByID(ctx context.Context, id int64) (*period.Period, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+periodColumns+` FROM ballot_periods WHERE id = $1`, id)
	return scanPeriod(row)
}

func (r *PeriodRepo) ListBySeason(ctx context.Context, season string) ([]period.Period, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+periodColumns+`
        FROM ballot_periods
        WHERE season = $1
        ORDER BY period
    `, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := []period.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *p)
	}
	return periods, rows.Err()
}

func (r *PeriodRepo) OpenAt(ctx context.Context, t time.Time) (*period.Period, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+periodColumns+`
        FROM ballot_periods
        WHERE poll_opens_at <= $1 AND poll_closes_at >= $1
        ORDER BY period DESC
        LIMIT 1
    `, t.UTC())
	return scanPeriod(row)
}
