package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cfb-poll/internal/domain/period"
)

var (
	ErrEmptyBallot    = errors.New("rankings array is required")
	ErrTooManyEntries = fmt.Errorf("maximum %d teams can be ranked", Capacity)
	ErrInvalidRank    = fmt.Errorf("rank must be between 1 and %d", Capacity)
	ErrInvalidTeam    = errors.New("team id must be positive")
	ErrUnknownTeam    = errors.New("team not found")
	ErrDuplicateTeam  = errors.New("team ranked more than once")
	ErrDuplicateRank  = errors.New("rank used more than once")
	ErrInvalidVariant = errors.New("unknown ballot variant")
)

type Service struct {
	repo    Repository
	periods PeriodResolver
	catalog CatalogLister
	logger  *slog.Logger
}

func NewService(repo Repository, periods PeriodResolver, catalog CatalogLister) *Service {
	return &Service{
		repo:    repo,
		periods: periods,
		catalog: catalog,
		logger:  slog.Default(),
	}
}

func (s *Service) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Validate checks a ranking before it is stored.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return ErrEmptyBallot
	}
	if len(entries) > Capacity {
		return ErrTooManyEntries
	}
	teams := make(map[int64]struct{}, len(entries))
	ranks := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if e.TeamID <= 0 {
			return ErrInvalidTeam
		}
		if e.Rank < 1 || e.Rank > Capacity {
			return ErrInvalidRank
		}
		if _, dup := teams[e.TeamID]; dup {
			return ErrDuplicateTeam
		}
		if _, dup := ranks[e.Rank]; dup {
			return ErrDuplicateRank
		}
		teams[e.TeamID] = struct{}{}
		ranks[e.Rank] = struct{}{}
	}
	return nil
}

// Load returns the user's stored ranking for variant, ordered by rank.
func (s *Service) Load(ctx context.Context, userID int64, variant Variant) ([]RankedTeam, error) {
	if !variant.Valid() {
		return nil, ErrInvalidVariant
	}
	ranked, err := s.repo.Latest(ctx, userID, variant)
	if err != nil {
		return nil, err
	}
	if ranked == nil {
		ranked = []RankedTeam{}
	}
	return ranked, nil
}

// Save replaces the user's draft ballot with entries.
func (s *Service) Save(ctx context.Context, userID int64, variant Variant, entries []Entry) (int64, error) {
	if !variant.Valid() {
		return 0, ErrInvalidVariant
	}
	if err := Validate(entries); err != nil {
		return 0, err
	}
	return s.repo.Replace(ctx, userID, variant, nil, entries)
}

// SubmitFinal stores entries as the user's final ballot for the open period.
func (s *Service) SubmitFinal(ctx context.Context, userID int64, entries []Entry) (int64, *period.Period, error) {
	if err := Validate(entries); err != nil {
		return 0, nil, err
	}
	p, err := s.periods.Current(ctx)
	if err != nil {
		return 0, nil, err
	}
	id, err := s.repo.Replace(ctx, userID, VariantFinal, &p.ID, entries)
	if err != nil {
		return 0, nil, err
	}
	return id, p, nil
}

// Board loads the stored ranking onto a fresh board built from the catalog.
func (s *Service) Board(ctx context.Context, userID int64, variant Variant) (*Board, error) {
	teams, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked, err := s.Load(ctx, userID, variant)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = Entry{TeamID: r.TeamID, Rank: r.Rank}
	}

	b := NewBoard(teams, WithLogger(s.logger))
	if skipped := b.Reconcile(entries); len(skipped) > 0 {
		s.logger.WarnContext(ctx, "stored ballot had unusable entries",
			"user_id", userID,
			"variant", string(variant),
			"skipped", len(skipped),
		)
	}
	return b, nil
}
