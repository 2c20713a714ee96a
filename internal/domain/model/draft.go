package model

// DraftPick is one selection. Points, ExpectedPoints and POE are absent
// for picks whose season has not been scored.
type DraftPick struct {
	Round          int      `json:"round"`
	Pick           int      `json:"pick"`
	Overall        int      `json:"overall"`
	OwnerID        int      `json:"owner_id"`
	OwnerName      string   `json:"owner_name"`
	PlayerName     string   `json:"player_name"`
	Position       string   `json:"position"`
	Points         *float64 `json:"points"`
	ExpectedPoints *float64 `json:"expected_points"`
	POE            *float64 `json:"poe"`
}

// PointsOverExpected returns POE, deriving it from points and expected
// points when the fixture omitted it.
func (p DraftPick) PointsOverExpected() *float64 {
	if p.POE != nil {
		return p.POE
	}
	if p.Points != nil && p.ExpectedPoints != nil {
		return Float(*p.Points - *p.ExpectedPoints)
	}
	return nil
}

// Draft is one season's draft board.
type Draft struct {
	SeasonID int         `json:"season_id"`
	Picks    []DraftPick `json:"picks"`
}

// DraftHistory is data/draft_history.json.
type DraftHistory struct {
	Drafts []Draft `json:"drafts"`
}

// RequiredKeys implements Fixture.
func (DraftHistory) RequiredKeys() []string { return []string{"drafts"} }

// Validate implements Fixture.
func (h DraftHistory) Validate() error {
	for i, d := range h.Drafts {
		for j, p := range d.Picks {
			if p.Round <= 0 {
				return invalid("drafts[%d].picks[%d]: round must be positive", i, j)
			}
			if p.OwnerID <= 0 {
				return invalid("drafts[%d].picks[%d]: owner_id must be positive", i, j)
			}
		}
	}
	return nil
}

// MaxRound returns the deepest round present across all drafts.
func (h DraftHistory) MaxRound() int {
	maxRound := 0
	for _, d := range h.Drafts {
		for _, p := range d.Picks {
			if p.Round > maxRound {
				maxRound = p.Round
			}
		}
	}
	return maxRound
}
