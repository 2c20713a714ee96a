package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wtstats/wtstats/internal/domain/model"
)

// ManagerTotals is one owner's all-time line across every season.
type ManagerTotals struct {
	Rank               int      `json:"rank"`
	OwnerID            int      `json:"owner_id"`
	OwnerName          string   `json:"owner_name"`
	Seasons            int      `json:"seasons"`
	Wins               int      `json:"wins"`
	Losses             int      `json:"losses"`
	Ties               int      `json:"ties"`
	Games              int      `json:"games"`
	WinPct             *float64 `json:"win_pct"`
	PointsFor          float64  `json:"points_for"`
	PointsAgainst      float64  `json:"points_against"`
	AvgPointsFor       *float64 `json:"avg_points_for"`
	AvgFinalRank       *float64 `json:"avg_final_rank"`
	Championships      int      `json:"championships"`
	PlayoffAppearances int      `json:"playoff_appearances"`
}

// AllTime aggregates every season's standings per owner. Rows come back
// sorted by win percentage, highest first, and ranked.
func AllTime(h model.LeagueHistory) []ManagerTotals {
	byID := make(map[int]*ManagerTotals)
	ranks := make(map[int][]*float64)
	order := make([]int, 0)

	for _, season := range h.Seasons {
		for _, st := range season.Standings {
			t, ok := byID[st.OwnerID]
			if !ok {
				t = &ManagerTotals{OwnerID: st.OwnerID}
				byID[st.OwnerID] = t
				order = append(order, st.OwnerID)
			}
			// latest season's spelling wins
			t.OwnerName = st.OwnerName
			t.Seasons++
			t.Wins += st.Wins
			t.Losses += st.Losses
			t.Ties += st.Ties
			t.PointsFor += st.PointsFor
			t.PointsAgainst += st.PointsAgainst
			if st.MadePlayoffs {
				t.PlayoffAppearances++
			}
			if st.FinalRank > 0 {
				ranks[st.OwnerID] = append(ranks[st.OwnerID], model.Float(float64(st.FinalRank)))
			}
		}
		if season.ChampionOwnerID != nil {
			if t, ok := byID[*season.ChampionOwnerID]; ok {
				t.Championships++
			}
		}
	}

	rows := make([]ManagerTotals, 0, len(order))
	for _, id := range order {
		t := byID[id]
		t.Games = t.Wins + t.Losses + t.Ties
		if t.Games > 0 {
			t.WinPct = model.Float((float64(t.Wins) + 0.5*float64(t.Ties)) / float64(t.Games))
			t.AvgPointsFor = model.Float(t.PointsFor / float64(t.Games))
		}
		t.AvgFinalRank = Average(ranks[id])
		rows = append(rows, *t)
	}

	// column is known; error is impossible
	_ = SortStandings(rows, "win_pct", true)
	return rows
}

var columns = map[string]func(ManagerTotals) *float64{
	"seasons":             func(t ManagerTotals) *float64 { return model.Float(float64(t.Seasons)) },
	"wins":                func(t ManagerTotals) *float64 { return model.Float(float64(t.Wins)) },
	"losses":              func(t ManagerTotals) *float64 { return model.Float(float64(t.Losses)) },
	"ties":                func(t ManagerTotals) *float64 { return model.Float(float64(t.Ties)) },
	"games":               func(t ManagerTotals) *float64 { return model.Float(float64(t.Games)) },
	"win_pct":             func(t ManagerTotals) *float64 { return t.WinPct },
	"points_for":          func(t ManagerTotals) *float64 { return model.Float(t.PointsFor) },
	"points_against":      func(t ManagerTotals) *float64 { return model.Float(t.PointsAgainst) },
	"avg_points_for":      func(t ManagerTotals) *float64 { return t.AvgPointsFor },
	"avg_final_rank":      func(t ManagerTotals) *float64 { return t.AvgFinalRank },
	"championships":       func(t ManagerTotals) *float64 { return model.Float(float64(t.Championships)) },
	"playoff_appearances": func(t ManagerTotals) *float64 { return model.Float(float64(t.PlayoffAppearances)) },
}

// Columns lists the sortable column keys.
func Columns() []string {
	out := make([]string, 0, len(columns)+1)
	out = append(out, "owner_name")
	for k := range columns {
		out = append(out, k)
	}
	slices.Sort(out[1:])
	return out
}

// SortStandings sorts rows by column and reassigns ranks. Ties break by
// owner name ascending, then owner id.
func SortStandings(rows []ManagerTotals, column string, desc bool) error {
	column = strings.ToLower(strings.TrimSpace(column))
	if column == "owner_name" {
		slices.SortStableFunc(rows, func(a, b ManagerTotals) int {
			if desc {
				return byName(b, a)
			}
			return byName(a, b)
		})
		assignRanks(rows, func(ManagerTotals) *float64 { return nil })
		return nil
	}
	key, ok := columns[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	SortBy(rows, key, desc, byName)
	assignRanks(rows, key)
	return nil
}

func byName(a, b ManagerTotals) int {
	if c := strings.Compare(strings.ToLower(a.OwnerName), strings.ToLower(b.OwnerName)); c != 0 {
		return c
	}
	return a.OwnerID - b.OwnerID
}

// assignRanks gives equal keys the same rank; the next distinct key takes
// the next consecutive rank. Without a key every row ranks by position.
func assignRanks(rows []ManagerTotals, key func(ManagerTotals) *float64) {
	rank := 0
	var prev *float64
	for i := range rows {
		k := key(rows[i])
		if i == 0 || k == nil || prev == nil || *k != *prev {
			rank++
		}
		rows[i].Rank = rank
		prev = k
	}
}
