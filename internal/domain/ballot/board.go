package ballot

import (
	"cmp"
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cfb-poll/internal/domain/team"
)

const empty int64 = 0

// Slot is one ranking cell as seen from outside the board.
type Slot struct {
	Position int        `json:"position"`
	Team     *team.Team `json:"team"`
}

// Board holds a ballot being edited: Capacity ordered slots and the pool of
// catalog teams not placed in any slot. Every team of the catalog is in
// exactly one of the two after each call.
//
// A Board is not safe for concurrent use; callers serialize gestures.
type Board struct {
	slots   [Capacity]int64
	pool    map[int64]struct{}
	catalog map[int64]team.Team
	order   []int64
	logger  *slog.Logger
}

type BoardOption func(*Board)

func WithLogger(l *slog.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBoard returns a board with every slot empty and the whole catalog in the
// pool. Teams without a positive ID are ignored; repeated IDs keep the first.
func NewBoard(catalog []team.Team, opts ...BoardOption) *Board {
	b := &Board{
		pool:    make(map[int64]struct{}, len(catalog)),
		catalog: make(map[int64]team.Team, len(catalog)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, t := range catalog {
		if t.ID <= 0 {
			b.logger.Warn("board: catalog team without id ignored", "name", t.Name)
			continue
		}
		if _, dup := b.catalog[t.ID]; dup {
			continue
		}
		b.catalog[t.ID] = t
		b.order = append(b.order, t.ID)
	}

	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(b.order, func(i, j int) bool {
		a, c := b.catalog[b.order[i]], b.catalog[b.order[j]]
		if r := col.CompareString(a.Name, c.Name); r != 0 {
			return r < 0
		}
		return a.ID < c.ID
	})

	b.reset()
	return b
}

func (b *Board) reset() {
	b.slots = [Capacity]int64{}
	clear(b.pool)
	for id := range b.catalog {
		b.pool[id] = struct{}{}
	}
}

// MoveToSlot places a team at position (1-based). The team may come from the
// pool or from another slot. A different occupant of the target slot goes back
// to the pool. When a team arrives from the pool while every slot is full, the
// occupant of the last slot is evicted instead and the teams from position on
// move down one slot. Unknown teams and positions outside [1, Capacity] are
// ignored.
func (b *Board) MoveToSlot(teamID int64, position int) {
	idx, ok := slotIndex(position)
	if !ok {
		b.logger.Debug("board: move to invalid position ignored", "team_id", teamID, "position", position)
		return
	}
	if _, known := b.catalog[teamID]; !known {
		b.logger.Debug("board: move of unknown team ignored", "team_id", teamID)
		return
	}

	cur := b.indexOf(teamID)
	if cur == idx {
		return
	}
	prevLast := b.slots[Capacity-1]

	if cur >= 0 {
		b.slots[cur] = empty
	} else if b.Filled() == Capacity && idx != Capacity-1 {
		// Full board: the last slot makes room and the slots from the target
		// down slide one place, so the arrival is inserted, not overwriting.
		b.displace(Capacity - 1)
		copy(b.slots[idx+1:], b.slots[idx:Capacity-1])
		b.slots[idx] = empty
	}

	b.displace(idx)
	b.slots[idx] = teamID
	delete(b.pool, teamID)

	b.settle(prevLast)
}

// ReorderWithinSlots moves an already ranked team to another position. It
// follows the same rules as MoveToSlot.
func (b *Board) ReorderWithinSlots(teamID int64, position int) {
	b.MoveToSlot(teamID, position)
}

// MoveToPool takes a team out of its slot, if it has one, and returns it to
// the pool.
func (b *Board) MoveToPool(teamID int64) {
	if _, known := b.catalog[teamID]; !known {
		return
	}
	prevLast := b.slots[Capacity-1]
	if i := b.indexOf(teamID); i >= 0 {
		b.displace(i)
	} else {
		b.pool[teamID] = struct{}{}
	}
	b.settle(prevLast)
}

// Remove is the explicit "remove from ranking" action.
func (b *Board) Remove(teamID int64) {
	b.MoveToPool(teamID)
}

// Reconcile rebuilds the board from persisted entries. Entries are replayed in
// rank order on a fresh board; a team listed twice keeps its last position and
// a slot listed twice keeps its last team, the loser going back to the pool.
// Entries with an out-of-range rank or a team missing from the catalog are
// skipped and returned.
func (b *Board) Reconcile(entries []Entry) (skipped []Entry) {
	b.reset()

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(x, y Entry) int {
		return cmp.Compare(x.Rank, y.Rank)
	})

	for _, e := range sorted {
		idx, ok := slotIndex(e.Rank)
		if !ok {
			b.logger.Warn("board: saved entry with invalid rank skipped", "team_id", e.TeamID, "rank", e.Rank)
			skipped = append(skipped, e)
			continue
		}
		if _, known := b.catalog[e.TeamID]; !known {
			b.logger.Warn("board: saved entry for unknown team skipped", "team_id", e.TeamID, "rank", e.Rank)
			skipped = append(skipped, e)
			continue
		}

		if cur := b.indexOf(e.TeamID); cur >= 0 && cur != idx {
			b.slots[cur] = empty
		}
		if b.slots[idx] != e.TeamID {
			b.displace(idx)
		}
		b.slots[idx] = e.TeamID
		delete(b.pool, e.TeamID)
	}
	return skipped
}

// displace empties slot i and returns its occupant, if any, to the pool. Every
// path that takes a team out of a slot without placing it elsewhere goes
// through here.
func (b *Board) displace(i int) {
	id := b.slots[i]
	if id == empty {
		return
	}
	b.slots[i] = empty
	b.pool[id] = struct{}{}
}

// settle makes sure the team that held the last slot before a command is still
// accounted for: if it is no longer ranked it must be in the pool.
func (b *Board) settle(prevLast int64) {
	if prevLast == empty || b.indexOf(prevLast) >= 0 {
		return
	}
	b.pool[prevLast] = struct{}{}
}

func (b *Board) indexOf(teamID int64) int {
	for i, id := range b.slots {
		if id == teamID {
			return i
		}
	}
	return -1
}

func slotIndex(position int) (int, bool) {
	if position < 1 || position > Capacity {
		return 0, false
	}
	return position - 1, true
}

// Entries serializes the occupied slots, ascending by rank.
func (b *Board) Entries() []Entry {
	out := make([]Entry, 0, Capacity)
	for i, id := range b.slots {
		if id != empty {
			out = append(out, Entry{TeamID: id, Rank: i + 1})
		}
	}
	return out
}

func (b *Board) Slots() []Slot {
	out := make([]Slot, Capacity)
	for i, id := range b.slots {
		out[i].Position = i + 1
		if id != empty {
			t := b.catalog[id]
			out[i].Team = &t
		}
	}
	return out
}

// At returns the team at position, if any.
func (b *Board) At(position int) (team.Team, bool) {
	idx, ok := slotIndex(position)
	if !ok || b.slots[idx] == empty {
		return team.Team{}, false
	}
	return b.catalog[b.slots[idx]], true
}

// Position returns the 1-based rank of a team, or 0 if it is not ranked.
func (b *Board) Position(teamID int64) int {
	return b.indexOf(teamID) + 1
}

func (b *Board) InPool(teamID int64) bool {
	_, ok := b.pool[teamID]
	return ok
}

// Available lists the pool alphabetically.
func (b *Board) Available() []team.Team {
	out := make([]team.Team, 0, len(b.pool))
	for _, id := range b.order {
		if _, ok := b.pool[id]; ok {
			out = append(out, b.catalog[id])
		}
	}
	return out
}

func (b *Board) Filled() int {
	n := 0
	for _, id := range b.slots {
		if id != empty {
			n++
		}
	}
	return n
}

func (b *Board) CatalogSize() int {
	return len(b.catalog)
}
