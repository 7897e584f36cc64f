package ballot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/team"
)

type ballotKey struct {
	userID  int64
	variant Variant
}

type memoryBallotRepo struct {
	mu       sync.Mutex
	nextID   int64
	ids      map[ballotKey]int64
	rankings map[ballotKey][]Entry
	periods  map[ballotKey]*int64
	teams    map[int64]team.Team
	replaces int
}

func newMemoryBallotRepo(teams []team.Team) *memoryBallotRepo {
	r := &memoryBallotRepo{
		ids:      make(map[ballotKey]int64),
		rankings: make(map[ballotKey][]Entry),
		periods:  make(map[ballotKey]*int64),
		teams:    make(map[int64]team.Team),
	}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *memoryBallotRepo) Latest(ctx context.Context, userID int64, variant Variant) ([]RankedTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, ok := r.rankings[ballotKey{userID, variant}]
	if !ok {
		return nil, nil
	}
	out := make([]RankedTeam, 0, len(entries))
	for _, e := range entries {
		out = append(out, RankedTeam{TeamID: e.TeamID, Rank: e.Rank, Team: r.teams[e.TeamID]})
	}
	return out, nil
}

func (r *memoryBallotRepo) Replace(ctx context.Context, userID int64, variant Variant, periodID *int64, entries []Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	key := ballotKey{userID, variant}
	id, ok := r.ids[key]
	if !ok {
		r.nextID++
		id = r.nextID
		r.ids[key] = id
	}
	r.rankings[key] = append([]Entry(nil), entries...)
	r.periods[key] = periodID
	return id, nil
}

func (r *memoryBallotRepo) ballots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

type stubPeriods struct {
	p   *period.Period
	err error
}

func (s stubPeriods) Current(ctx context.Context) (*period.Period, error) {
	return s.p, s.err
}

type stubCatalog []team.Team

func (c stubCatalog) List(ctx context.Context) ([]team.Team, error) {
	return c, nil
}

func newTestService(teams []team.Team, periods PeriodResolver) (*Service, *memoryBallotRepo) {
	repo := newMemoryBallotRepo(teams)
	svc := NewService(repo, periods, stubCatalog(teams))
	svc.SetLogger(discardLogger)
	return svc, repo
}

func TestSaveRejectsEmptyBallot(t *testing.T) {
	svc, repo := newTestService(numbered(3), stubPeriods{})

	_, err := svc.Save(context.Background(), 1, VariantDraft, []Entry{})
	if !errors.Is(err, ErrEmptyBallot) {
		t.Fatalf("expected ErrEmptyBallot, got %v", err)
	}
	if repo.ballots() != 0 {
		t.Fatalf("no ballot should be created for an empty submission")
	}
}

func TestSaveRejectsTooManyEntries(t *testing.T) {
	svc, repo := newTestService(numbered(30), stubPeriods{})
	entries := make([]Entry, 26)
	for i := range entries {
		entries[i] = Entry{TeamID: int64(i + 1), Rank: i + 1}
	}

	_, err := svc.Save(context.Background(), 1, VariantDraft, entries)
	if !errors.Is(err, ErrTooManyEntries) {
		t.Fatalf("expected ErrTooManyEntries, got %v", err)
	}
	if repo.ballots() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		want    error
	}{
		{"ok", []Entry{{TeamID: 1, Rank: 1}, {TeamID: 2, Rank: 25}}, nil},
		{"nil", nil, ErrEmptyBallot},
		{"rank zero", []Entry{{TeamID: 1, Rank: 0}}, ErrInvalidRank},
		{"rank too high", []Entry{{TeamID: 1, Rank: 26}}, ErrInvalidRank},
		{"bad team", []Entry{{TeamID: 0, Rank: 1}}, ErrInvalidTeam},
		{"duplicate team", []Entry{{TeamID: 1, Rank: 1}, {TeamID: 1, Rank: 2}}, ErrDuplicateTeam},
		{"duplicate rank", []Entry{{TeamID: 1, Rank: 3}, {TeamID: 2, Rank: 3}}, ErrDuplicateRank},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.entries); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSaveReplacesPreviousRankings(t *testing.T) {
	svc, repo := newTestService(numbered(5), stubPeriods{})
	ctx := context.Background()

	first, err := svc.Save(ctx, 7, VariantDraft, []Entry{
		{TeamID: 1, Rank: 1},
		{TeamID: 2, Rank: 2},
		{TeamID: 3, Rank: 3},
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := svc.Save(ctx, 7, VariantDraft, []Entry{{TeamID: 4, Rank: 1}})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same ballot to be reused, got %d and %d", first, second)
	}

	got, err := svc.Load(ctx, 7, VariantDraft)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].TeamID != 4 || got[0].Rank != 1 {
		t.Fatalf("expected only the second ranking, got %+v", got)
	}
	if got[0].Team.Name != "Team 04" {
		t.Fatalf("expected team details to be joined, got %+v", got[0].Team)
	}
	if repo.ballots() != 1 {
		t.Fatalf("expected one ballot, got %d", repo.ballots())
	}
}

func TestLoadWithoutBallotIsEmpty(t *testing.T) {
	svc, _ := newTestService(numbered(3), stubPeriods{})

	got, err := svc.Load(context.Background(), 99, VariantDraft)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestVariantsAreIndependent(t *testing.T) {
	open := &period.Period{ID: 3, Season: "2026", Number: 4, Name: "Week 4"}
	svc, _ := newTestService(numbered(5), stubPeriods{p: open})
	ctx := context.Background()

	if _, err := svc.Save(ctx, 1, VariantDraft, []Entry{{TeamID: 1, Rank: 1}}); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if _, _, err := svc.SubmitFinal(ctx, 1, []Entry{{TeamID: 2, Rank: 1}}); err != nil {
		t.Fatalf("submit final: %v", err)
	}

	draft, _ := svc.Load(ctx, 1, VariantDraft)
	final, _ := svc.Load(ctx, 1, VariantFinal)
	if len(draft) != 1 || draft[0].TeamID != 1 {
		t.Fatalf("draft overwritten: %+v", draft)
	}
	if len(final) != 1 || final[0].TeamID != 2 {
		t.Fatalf("unexpected final ballot: %+v", final)
	}
}

func TestSubmitFinalStampsOpenPeriod(t *testing.T) {
	open := &period.Period{ID: 12, Season: "2026", Number: 6, Name: "Week 6"}
	svc, repo := newTestService(numbered(5), stubPeriods{p: open})

	_, p, err := svc.SubmitFinal(context.Background(), 2, []Entry{{TeamID: 5, Rank: 1}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.ID != 12 {
		t.Fatalf("expected period 12, got %d", p.ID)
	}
	stored := repo.periods[ballotKey{2, VariantFinal}]
	if stored == nil || *stored != 12 {
		t.Fatalf("final ballot should reference the open period")
	}
}

func TestSubmitFinalWithoutOpenPeriod(t *testing.T) {
	svc, repo := newTestService(numbered(5), stubPeriods{err: period.ErrNoOpenPeriod})

	_, _, err := svc.SubmitFinal(context.Background(), 2, []Entry{{TeamID: 5, Rank: 1}})
	if !errors.Is(err, period.ErrNoOpenPeriod) {
		t.Fatalf("expected ErrNoOpenPeriod, got %v", err)
	}
	if repo.ballots() != 0 {
		t.Fatalf("nothing should be stored while voting is closed")
	}
}

func TestSubmitFinalValidatesBeforeLookingUpPeriod(t *testing.T) {
	svc, _ := newTestService(numbered(5), stubPeriods{err: period.ErrNoOpenPeriod})

	_, _, err := svc.SubmitFinal(context.Background(), 2, nil)
	if !errors.Is(err, ErrEmptyBallot) {
		t.Fatalf("expected ErrEmptyBallot, got %v", err)
	}
}

func TestInvalidVariant(t *testing.T) {
	svc, _ := newTestService(numbered(2), stubPeriods{})
	ctx := context.Background()

	if _, err := svc.Load(ctx, 1, Variant("other")); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("load: expected ErrInvalidVariant, got %v", err)
	}
	if _, err := svc.Save(ctx, 1, Variant("other"), []Entry{{TeamID: 1, Rank: 1}}); !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("save: expected ErrInvalidVariant, got %v", err)
	}
}

func TestBoardHydratesStoredRanking(t *testing.T) {
	teams := numbered(6)
	svc, repo := newTestService(teams, stubPeriods{})
	ctx := context.Background()

	if _, err := svc.Save(ctx, 1, VariantDraft, []Entry{{TeamID: 3, Rank: 1}, {TeamID: 1, Rank: 4}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A team dropped from the catalog after the ballot was saved.
	repo.rankings[ballotKey{1, VariantDraft}] = append(repo.rankings[ballotKey{1, VariantDraft}], Entry{TeamID: 77, Rank: 2})

	b, err := svc.Board(ctx, 1, VariantDraft)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if b.Position(3) != 1 || b.Position(1) != 4 {
		t.Fatalf("unexpected board %v", b.Entries())
	}
	if _, ok := b.At(2); ok {
		t.Fatalf("unknown team should not be placed")
	}
	if len(b.Available()) != 4 {
		t.Fatalf("expected 4 pooled teams, got %d", len(b.Available()))
	}

	b.MoveToSlot(2, 2)
	if _, err := svc.Save(ctx, 1, VariantDraft, b.Entries()); err != nil {
		t.Fatalf("save board entries: %v", err)
	}
	got, _ := svc.Load(ctx, 1, VariantDraft)
	if len(got) != 3 || got[1].TeamID != 2 || got[1].Rank != 2 {
		t.Fatalf("unexpected stored ranking %+v", got)
	}
}

func TestConcurrentSavesKeepOneBallot(t *testing.T) {
	svc, repo := newTestService(numbered(25), stubPeriods{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := svc.Save(ctx, 1, VariantDraft, []Entry{{TeamID: int64(n), Rank: n}}); err != nil {
				t.Errorf("save %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	if repo.ballots() != 1 || repo.replaces != 10 {
		t.Fatalf("expected 1 ballot after 10 saves, got %d ballots, %d replaces", repo.ballots(), repo.replaces)
	}
	got, _ := svc.Load(ctx, 1, VariantDraft)
	if len(got) != 1 {
		t.Fatalf("expected one complete ranking, got %+v", got)
	}
}
