package standings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cfb-poll/internal/domain/period"
)

const (
	defaultCacheTTL = 30 * time.Second
	cachedPeriods   = 64
)

type Service struct {
	repo    Repository
	periods PeriodSource

	// cache is nil when caching is disabled. gen counts invalidations per
	// period; a result is only cached if no invalidation happened while it
	// was being computed.
	cache *expirable.LRU[int64, Poll]
	mu    sync.Mutex
	gen   map[int64]uint64
}

// NewService caches aggregates for ttl. A zero ttl disables the cache and a
// negative one selects the default.
func NewService(repo Repository, periods PeriodSource, ttl time.Duration) *Service {
	if ttl < 0 {
		ttl = defaultCacheTTL
	}
	s := &Service{
		repo:    repo,
		periods: periods,
		gen:     make(map[int64]uint64),
	}
	if ttl > 0 {
		s.cache = expirable.NewLRU[int64, Poll](cachedPeriods, nil, ttl)
	}
	return s
}

// Current aggregates the period whose poll is open. With no open period the
// result is empty rather than an error.
func (s *Service) Current(ctx context.Context) (Poll, error) {
	p, err := s.periods.Current(ctx)
	if errors.Is(err, period.ErrNoOpenPeriod) {
		return Poll{Rankings: []Standing{}, Message: "no active ballot period"}, nil
	}
	if err != nil {
		return Poll{}, err
	}
	return s.aggregate(ctx, p)
}

func (s *Service) ForPeriod(ctx context.Context, periodID int64) (Poll, error) {
	p, err := s.periods.Get(ctx, periodID)
	if err != nil {
		return Poll{}, err
	}
	return s.aggregate(ctx, p)
}

// Invalidate drops the cached poll of a period, typically after a final
// ballot was submitted for it.
func (s *Service) Invalidate(periodID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[periodID]++
	if s.cache != nil {
		s.cache.Remove(periodID)
	}
}

func (s *Service) aggregate(ctx context.Context, p *period.Period) (Poll, error) {
	if s.cache != nil {
		if poll, ok := s.cache.Get(p.ID); ok {
			return poll, nil
		}
	}
	gen := s.generation(p.ID)

	rows, ballots, err := s.repo.ByPeriod(ctx, p.ID, Limit)
	if err != nil {
		return Poll{}, err
	}
	if rows == nil {
		rows = []Standing{}
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}

	poll := Poll{Period: p, Rankings: rows, Ballots: ballots}
	s.store(p.ID, gen, poll)
	return poll, nil
}

func (s *Service) generation(periodID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[periodID]
}

func (s *Service) store(periodID int64, gen uint64, poll Poll) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[periodID] != gen {
		return
	}
	s.cache.Add(periodID, poll)
}
