package period

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var (
	ErrNoOpenPeriod   = errors.New("no ballot period is open")
	ErrPeriodNotFound = errors.New("ballot period not found")
	ErrInvalidDates   = errors.New("invalid ballot period dates")
	ErrInvalidPeriod  = errors.New("season, period number and name are required")
	ErrPeriodExists   = errors.New("ballot period already exists")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Current returns the period whose poll is open right now.
func (s *Service) Current(ctx context.Context) (*Period, error) {
	p, err := s.repo.OpenAt(ctx, s.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenPeriod
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Period, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPeriodNotFound
	}
	return p, err
}

func (s *Service) ListBySeason(ctx context.Context, season string) ([]Period, error) {
	if season == "" {
		season = s.now().Format("2006")
	}
	return s.repo.ListBySeason(ctx, season)
}

func (s *Service) Create(ctx context.Context, p *Period) error {
	p.Season = strings.TrimSpace(p.Season)
	p.Name = strings.TrimSpace(p.Name)
	if p.Season == "" || p.Name == "" || p.Number <= 0 {
		return ErrInvalidPeriod
	}
	if !p.PollOpensAt.Before(p.PollClosesAt) || p.PeriodEndsAt.Before(p.PeriodBeginsAt) {
		return ErrInvalidDates
	}
	p.PeriodBeginsAt = p.PeriodBeginsAt.UTC()
	p.PeriodEndsAt = p.PeriodEndsAt.UTC()
	p.PollOpensAt = p.PollOpensAt.UTC()
	p.PollClosesAt = p.PollClosesAt.UTC()
	return s.repo.Create(ctx, p)
}
