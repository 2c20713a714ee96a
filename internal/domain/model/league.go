package model

// Standing is one owner's final line in a season.
type Standing struct {
	OwnerID       int     `json:"owner_id"`
	OwnerName     string  `json:"owner_name"`
	TeamName      string  `json:"team_name"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	FinalRank     int     `json:"final_rank"`
	MadePlayoffs  bool    `json:"made_playoffs"`
}

// Games returns the number of regular-season games played.
func (s Standing) Games() int { return s.Wins + s.Losses + s.Ties }

// WinPct counts ties as half a win. Nil when no games were played.
func (s Standing) WinPct() *float64 {
	g := s.Games()
	if g == 0 {
		return nil
	}
	return Float((float64(s.Wins) + 0.5*float64(s.Ties)) / float64(g))
}

// Season is one completed league season.
type Season struct {
	SeasonID        int        `json:"season_id"`
	ChampionOwnerID *int       `json:"champion_owner_id,omitempty"`
	Standings       []Standing `json:"standings"`
}

// LeagueHistory is data/league_history.json.
type LeagueHistory struct {
	Seasons []Season `json:"seasons"`
}

// RequiredKeys implements Fixture.
func (LeagueHistory) RequiredKeys() []string { return []string{"seasons"} }

// Validate implements Fixture.
func (h LeagueHistory) Validate() error {
	seen := make(map[int]struct{}, len(h.Seasons))
	for i, s := range h.Seasons {
		if _, dup := seen[s.SeasonID]; dup {
			return invalid("seasons[%d]: duplicate season_id %d", i, s.SeasonID)
		}
		seen[s.SeasonID] = struct{}{}
		for j, st := range s.Standings {
			if st.OwnerID <= 0 {
				return invalid("seasons[%d].standings[%d]: owner_id must be positive", i, j)
			}
			if st.Wins < 0 || st.Losses < 0 || st.Ties < 0 {
				return invalid("seasons[%d].standings[%d]: negative record", i, j)
			}
		}
	}
	return nil
}
