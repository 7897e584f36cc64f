package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cfb-poll/internal/domain/account"
	"cfb-poll/internal/domain/ballot"
	"cfb-poll/internal/domain/period"
	"cfb-poll/internal/domain/team"
	"cfb-poll/internal/domain/user"
	"cfb-poll/internal/platform/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo *UserRepo, email string) *user.User {
	t.Helper()
	u := &user.User{Name: "Voter", Email: email, PasswordHash: "hash", Role: user.RoleUser}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedTeams(t *testing.T, repo *TeamRepo, n int) []team.Team {
	t.Helper()
	out := make([]team.Team, 0, n)
	for i := 1; i <= n; i++ {
		tm := &team.Team{Name: fmt.Sprintf("Team %02d", i)}
		if err := repo.Create(context.Background(), tm); err != nil {
			t.Fatalf("create team: %v", err)
		}
		out = append(out, *tm)
	}
	return out
}

func seedPeriod(t *testing.T, repo *PeriodRepo, number int, opens time.Time) *period.Period {
	t.Helper()
	p := &period.Period{
		Season:         "2026",
		Number:         number,
		Name:           fmt.Sprintf("Week %d", number),
		PeriodBeginsAt: opens.Add(-72 * time.Hour),
		PeriodEndsAt:   opens.Add(72 * time.Hour),
		PollOpensAt:    opens,
		PollClosesAt:   opens.Add(48 * time.Hour),
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create period: %v", err)
	}
	return p
}

func TestUserRepoLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	u := &user.User{Name: "Sam", Email: "sam@example.com", PasswordHash: "hash", Role: user.RoleUser, VerificationToken: "v-1"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", u)
	}
	if err := repo.Create(ctx, &user.User{Name: "Dup", Email: "sam@example.com", PasswordHash: "x", Role: user.RoleUser}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.GetByVerificationToken(ctx, "v-1")
	if err != nil || got.ID != u.ID || got.EmailVerified {
		t.Fatalf("lookup by verification token: %+v, %v", got, err)
	}
	if err := repo.MarkVerified(ctx, u.ID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	got, err = repo.GetByEmail(ctx, "sam@example.com")
	if err != nil || !got.EmailVerified || got.VerificationToken != "" {
		t.Fatalf("expected verified user without token, got %+v, %v", got, err)
	}

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)
	if err := repo.SetResetToken(ctx, u.ID, "r-1", &expires); err != nil {
		t.Fatalf("set reset token: %v", err)
	}
	if _, err := repo.GetByResetToken(ctx, "r-1", now); err != nil {
		t.Fatalf("valid reset token not found: %v", err)
	}
	if _, err := repo.GetByResetToken(ctx, "r-1", now.Add(2*time.Hour)); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expired reset token should not match, got %v", err)
	}

	if err := repo.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if got.PasswordHash != "new-hash" || got.ResetToken != "" || got.ResetExpiresAt != nil {
		t.Fatalf("password update should clear the reset token, got %+v", got)
	}

	if err := repo.UpdateRole(ctx, u.ID, user.RoleAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if err := repo.UpdateRole(ctx, 999, user.RoleAdmin); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for unknown user, got %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 || list[0].Role != user.RoleAdmin {
		t.Fatalf("unexpected list %+v, %v", list, err)
	}
}

func TestTeamRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewTeamRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Texas", "Alabama", "Oregon"} {
		if err := repo.Create(ctx, &team.Team{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := repo.Create(ctx, &team.Team{Name: "Texas"}); !errors.Is(err, team.ErrTeamExists) {
		t.Fatalf("expected ErrTeamExists, got %v", err)
	}

	teams, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teams) != 3 || teams[0].Name != "Alabama" || teams[2].Name != "Texas" {
		t.Fatalf("unexpected catalog %+v", teams)
	}
}

func TestPeriodRepoOpenAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewPeriodRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	seedPeriod(t, repo, 1, base)
	// Week 2 opens while week 1 is still open; the later week wins.
	second := seedPeriod(t, repo, 2, base.Add(24*time.Hour))

	got, err := repo.OpenAt(ctx, base.Add(30*time.Hour))
	if err != nil {
		t.Fatalf("open at: %v", err)
	}
	if got.ID != second.ID || got.Number != 2 {
		t.Fatalf("expected week 2, got %+v", got)
	}
	if !got.PollOpensAt.Equal(second.PollOpensAt) {
		t.Fatalf("times should survive the round trip: %s vs %s", got.PollOpensAt, second.PollOpensAt)
	}

	if _, err := repo.OpenAt(ctx, base.Add(-time.Hour)); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected no open period, got %v", err)
	}
	if _, err := repo.OpenAt(ctx, base.Add(24*time.Hour+48*time.Hour)); err != nil {
		t.Fatalf("close boundary is inclusive: %v", err)
	}

	dup := *second
	dup.ID = 0
	if err := repo.Create(ctx, &dup); !errors.Is(err, period.ErrPeriodExists) {
		t.Fatalf("expected ErrPeriodExists, got %v", err)
	}

	list, err := repo.ListBySeason(ctx, "2026")
	if err != nil || len(list) != 2 || list[0].Number != 1 {
		t.Fatalf("unexpected season list %+v, %v", list, err)
	}
}

func TestBallotReplaceKeepsOnlyLatestEntries(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	teams := seedTeams(t, NewTeamRepo(db), 5)
	repo := NewBallotRepo(db)
	ctx := context.Background()
	u := seedUser(t, users, "a@example.com")

	empty, err := repo.Latest(ctx, u.ID, ballot.VariantDraft)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no rankings, got %+v, %v", empty, err)
	}

	first, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{
		{TeamID: teams[0].ID, Rank: 1},
		{TeamID: teams[1].ID, Rank: 2},
		{TeamID: teams[2].ID, Rank: 3},
	})
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	second, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{
		{TeamID: teams[3].ID, Rank: 1},
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if first != second {
		t.Fatalf("draft ballot should be reused: %d vs %d", first, second)
	}

	got, err := repo.Latest(ctx, u.ID, ballot.VariantDraft)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 1 || got[0].TeamID != teams[3].ID || got[0].Team.Name != teams[3].Name {
		t.Fatalf("expected only the second ranking, got %+v", got)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot_rankings`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("stale rankings left behind: %d rows", count)
	}
}

func TestBallotReplaceAfterCompetingFirstSave(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, NewTeamRepo(db), 3)
	repo := NewBallotRepo(db)
	ctx := context.Background()
	u := seedUser(t, NewUserRepo(db), "a@example.com")

	// Another request created the draft row between our read and our write.
	var existing int64
	if err := db.QueryRowContext(ctx,
		`INSERT INTO ballots (user_id, variant) VALUES ($1, $2) RETURNING id`,
		u.ID, string(ballot.VariantDraft)).Scan(&existing); err != nil {
		t.Fatalf("seed ballot: %v", err)
	}

	id, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{{TeamID: teams[0].ID, Rank: 1}})
	if err != nil {
		t.Fatalf("replace should reuse the existing ballot: %v", err)
	}
	if id != existing {
		t.Fatalf("expected ballot %d, got %d", existing, id)
	}
}

func TestBallotConcurrentFirstSaves(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, NewTeamRepo(db), 8)
	repo := NewBallotRepo(db)
	ctx := context.Background()
	u := seedUser(t, NewUserRepo(db), "a@example.com")

	const writers = 8
	ids := make(chan int64, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{{TeamID: teams[i].ID, Rank: 1}})
			if err != nil {
				errs <- err
				return
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent save failed: %v", err)
	}
	var first int64
	for id := range ids {
		if first == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("saves created separate ballots: %d and %d", first, id)
		}
	}

	var rows int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballots`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one ballot row, got %d", rows)
	}
}

func TestBallotReplaceRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, NewTeamRepo(db), 3)
	repo := NewBallotRepo(db)
	ctx := context.Background()
	u := seedUser(t, NewUserRepo(db), "b@example.com")

	saved := []ballot.Entry{{TeamID: teams[0].ID, Rank: 1}, {TeamID: teams[1].ID, Rank: 2}}
	if _, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, saved); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Rank 30 violates the table's check after the old rows were deleted.
	_, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{
		{TeamID: teams[2].ID, Rank: 1},
		{TeamID: teams[0].ID, Rank: 30},
	})
	if err == nil {
		t.Fatalf("expected constraint error")
	}

	_, err = repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{{TeamID: 9999, Rank: 1}})
	if !errors.Is(err, ballot.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}

	got, err := repo.Latest(ctx, u.ID, ballot.VariantDraft)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 || got[0].TeamID != teams[0].ID || got[1].TeamID != teams[1].ID {
		t.Fatalf("previous ranking should be intact, got %+v", got)
	}
}

func TestBallotFinalIsScopedToPeriod(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, NewTeamRepo(db), 3)
	periods := NewPeriodRepo(db)
	repo := NewBallotRepo(db)
	ctx := context.Background()
	u := seedUser(t, NewUserRepo(db), "c@example.com")
	base := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	w1 := seedPeriod(t, periods, 1, base)
	w2 := seedPeriod(t, periods, 2, base.Add(7*24*time.Hour))

	id1, err := repo.Replace(ctx, u.ID, ballot.VariantFinal, &w1.ID, []ballot.Entry{{TeamID: teams[0].ID, Rank: 1}})
	if err != nil {
		t.Fatalf("final week 1: %v", err)
	}
	again, err := repo.Replace(ctx, u.ID, ballot.VariantFinal, &w1.ID, []ballot.Entry{{TeamID: teams[1].ID, Rank: 1}})
	if err != nil {
		t.Fatalf("resubmit week 1: %v", err)
	}
	if again != id1 {
		t.Fatalf("resubmission should replace the same ballot")
	}
	id2, err := repo.Replace(ctx, u.ID, ballot.VariantFinal, &w2.ID, []ballot.Entry{{TeamID: teams[2].ID, Rank: 1}})
	if err != nil {
		t.Fatalf("final week 2: %v", err)
	}
	if id2 == id1 {
		t.Fatalf("each period gets its own final ballot")
	}
	if _, err := repo.Replace(ctx, u.ID, ballot.VariantDraft, nil, []ballot.Entry{{TeamID: teams[0].ID, Rank: 5}}); err != nil {
		t.Fatalf("draft: %v", err)
	}

	var finals int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballots WHERE variant = 'final'`).Scan(&finals); err != nil {
		t.Fatalf("count: %v", err)
	}
	if finals != 2 {
		t.Fatalf("expected 2 final ballots, got %d", finals)
	}
}

func TestStandingsByPeriod(t *testing.T) {
	db := newTestDB(t)
	teams := seedTeams(t, NewTeamRepo(db), 3)
	users := NewUserRepo(db)
	w1 := seedPeriod(t, NewPeriodRepo(db), 1, time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC))
	ballots := NewBallotRepo(db)
	repo := NewStandingsRepo(db)
	ctx := context.Background()

	voters := []*user.User{seedUser(t, users, "v1@example.com"), seedUser(t, users, "v2@example.com")}
	submit := func(u *user.User, entries ...ballot.Entry) {
		t.Helper()
		if _, err := ballots.Replace(ctx, u.ID, ballot.VariantFinal, &w1.ID, entries); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	submit(voters[0], ballot.Entry{TeamID: teams[0].ID, Rank: 1}, ballot.Entry{TeamID: teams[1].ID, Rank: 2})
	submit(voters[1], ballot.Entry{TeamID: teams[1].ID, Rank: 1}, ballot.Entry{TeamID: teams[0].ID, Rank: 3})
	// Drafts never count.
	if _, err := ballots.Replace(ctx, voters[0].ID, ballot.VariantDraft, nil, []ballot.Entry{{TeamID: teams[2].ID, Rank: 1}}); err != nil {
		t.Fatalf("draft: %v", err)
	}

	rows, total, err := repo.ByPeriod(ctx, w1.ID, 25)
	if err != nil {
		t.Fatalf("by period: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 final ballots, got %d", total)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 ranked teams, got %+v", rows)
	}
	if rows[0].TeamID != teams[1].ID || rows[0].AverageRank != 1.5 || rows[0].TotalVotes != 2 {
		t.Fatalf("unexpected leader %+v", rows[0])
	}
	if rows[1].TeamID != teams[0].ID || rows[1].AverageRank != 2 {
		t.Fatalf("unexpected second place %+v", rows[1])
	}
}

func TestUserRepoUpdateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	sam := seedUser(t, repo, "sam@example.com")
	seedUser(t, repo, "alex@example.com")
	if err := repo.MarkVerified(ctx, sam.ID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}

	if err := repo.UpdateEmail(ctx, sam.ID, "alex@example.com", "v-2"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := repo.UpdateEmail(ctx, sam.ID, "sam.new@example.com", "v-2"); err != nil {
		t.Fatalf("update email: %v", err)
	}
	got, err := repo.GetByVerificationToken(ctx, "v-2")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got.ID != sam.ID || got.Email != "sam.new@example.com" || got.EmailVerified {
		t.Fatalf("unexpected user %+v", got)
	}
	if err := repo.UpdateEmail(ctx, 999, "ghost@example.com", "v-3"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestAccountRepoProfile(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewAccountRepo(db)
	ctx := context.Background()
	u := seedUser(t, users, "sam@example.com")
	teams := seedTeams(t, NewTeamRepo(db), 2)

	if _, err := repo.GetProfile(ctx, u.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows before the first save, got %v", err)
	}

	types, err := repo.ListUserTypes(ctx)
	if err != nil || len(types) == 0 {
		t.Fatalf("user types should be seeded: %v, %v", types, err)
	}

	followers := int64(1500)
	p := &account.Profile{
		UserID:           u.ID,
		FavoriteTeamID:   &teams[1].ID,
		UserTypeID:       &types[0].ID,
		Podcast:          account.Outlet{Active: true, URL: "https://pod.example.com", Verified: true},
		PodcastFollowers: &followers,
	}
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got.FavoriteTeamID != teams[1].ID || got.FavoriteTeamName != teams[1].Name {
		t.Fatalf("unexpected favorite team %+v", got)
	}
	if *got.UserTypeID != types[0].ID || got.UserType != types[0].Name {
		t.Fatalf("unexpected user type %+v", got)
	}
	if got.Podcast != p.Podcast || *got.PodcastFollowers != 1500 || got.SportsMedia != (account.Outlet{}) {
		t.Fatalf("unexpected outlets %+v", got)
	}

	got.FavoriteTeamID = nil
	got.PodcastFollowers = nil
	got.SportsBroadcast = account.Outlet{Active: true, URL: "https://tv.example.com"}
	if err := repo.SaveProfile(ctx, got); err != nil {
		t.Fatalf("second save: %v", err)
	}
	again, err := repo.GetProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.FavoriteTeamID != nil || again.FavoriteTeamName != "" || again.PodcastFollowers != nil {
		t.Fatalf("cleared fields should read back empty, got %+v", again)
	}
	if again.SportsBroadcast.URL != "https://tv.example.com" || !again.Podcast.Active {
		t.Fatalf("unexpected outlets after update %+v", again)
	}

	missing := int64(9999)
	got.FavoriteTeamID = &missing
	if err := repo.SaveProfile(ctx, got); !errors.Is(err, account.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}

func TestAccountRepoHandles(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewAccountRepo(db)
	ctx := context.Background()
	sam := seedUser(t, users, "sam@example.com")
	alex := seedUser(t, users, "alex@example.com")

	socials, err := repo.ListSocialTypes(ctx)
	if err != nil || len(socials) < 2 {
		t.Fatalf("social media types should be seeded: %v, %v", socials, err)
	}
	first, second := socials[0], socials[1]

	h := &account.Handle{UserID: sam.ID, TypeID: first.ID, Handle: "@SamPoll"}
	if err := repo.AddHandle(ctx, h); err != nil {
		t.Fatalf("add: %v", err)
	}
	if h.ID == 0 || h.TypeName != first.Name {
		t.Fatalf("unexpected handle %+v", h)
	}

	dup := &account.Handle{UserID: sam.ID, TypeID: first.ID, Handle: "@sampoll"}
	if err := repo.AddHandle(ctx, dup); !errors.Is(err, account.ErrDuplicateHandle) {
		t.Fatalf("expected ErrDuplicateHandle, got %v", err)
	}
	for _, other := range []*account.Handle{
		{UserID: sam.ID, TypeID: second.ID, Handle: "@sampoll"},
		{UserID: alex.ID, TypeID: first.ID, Handle: "@sampoll"},
	} {
		if err := repo.AddHandle(ctx, other); err != nil {
			t.Fatalf("add %+v: %v", other, err)
		}
	}
	if err := repo.AddHandle(ctx, &account.Handle{UserID: sam.ID, TypeID: 9999, Handle: "@x"}); !errors.Is(err, account.ErrUnknownSocialType) {
		t.Fatalf("expected ErrUnknownSocialType, got %v", err)
	}

	list, err := repo.ListHandles(ctx, sam.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 handles, got %v, %v", list, err)
	}
	if list[0].TypeName != first.Name || list[1].TypeName != second.Name {
		t.Fatalf("handles should be ordered by type, got %+v", list)
	}

	if err := repo.DeleteHandle(ctx, alex.ID, h.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("delete is owner scoped, got %v", err)
	}
	if err := repo.DeleteHandle(ctx, sam.ID, h.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = repo.ListHandles(ctx, sam.ID)
	if len(list) != 1 {
		t.Fatalf("expected 1 handle left, got %+v", list)
	}
}
