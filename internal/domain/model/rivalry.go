package model

// OwnerInfo identifies one side of a head-to-head record.
type OwnerInfo struct {
	OwnerID   int    `json:"owner_id"`
	OwnerName string `json:"owner_name"`
}

// RivalrySummary aggregates every meeting between the two owners. Fields
// prefixed Owner1/Owner2 come in pairs and belong to the matching side.
type RivalrySummary struct {
	TotalGames             int     `json:"total_games"`
	Ties                   int     `json:"ties"`
	Owner1Wins             int     `json:"owner1_wins"`
	Owner2Wins             int     `json:"owner2_wins"`
	Owner1TotalPoints      float64 `json:"owner1_total_points"`
	Owner2TotalPoints      float64 `json:"owner2_total_points"`
	Owner1AvgPoints        float64 `json:"owner1_avg_points"`
	Owner2AvgPoints        float64 `json:"owner2_avg_points"`
	Owner1LargestWinMargin float64 `json:"owner1_largest_win_margin"`
	Owner2LargestWinMargin float64 `json:"owner2_largest_win_margin"`
	Owner1HighScore        float64 `json:"owner1_high_score"`
	Owner2HighScore        float64 `json:"owner2_high_score"`
}

// MatchupEntry is one game between the two owners. WinnerOwnerID is nil
// for a tie.
type MatchupEntry struct {
	SeasonID       int     `json:"season_id"`
	Week           int     `json:"week"`
	Owner1Score    float64 `json:"owner1_score"`
	Owner2Score    float64 `json:"owner2_score"`
	Owner1TeamName string  `json:"owner1_team_name"`
	Owner2TeamName string  `json:"owner2_team_name"`
	WinnerOwnerID  *int    `json:"winner_owner_id"`
	IsPlayoff      bool    `json:"is_playoff"`
	IsChampionship bool    `json:"is_championship"`
}

// PlayoffMeeting is a postseason game between the two owners.
type PlayoffMeeting struct {
	SeasonID      int     `json:"season_id"`
	Week          int     `json:"week"`
	Round         string  `json:"round"`
	Owner1Score   float64 `json:"owner1_score"`
	Owner2Score   float64 `json:"owner2_score"`
	WinnerOwnerID *int    `json:"winner_owner_id"`
}

// PlayoffSummary aggregates the postseason meetings.
type PlayoffSummary struct {
	Owner1Wins int              `json:"owner1_wins"`
	Owner2Wins int              `json:"owner2_wins"`
	Meetings   []PlayoffMeeting `json:"meetings"`
}

// RivalryRecord is data/h2h/comparison_<a>_vs_<b>.json.
type RivalryRecord struct {
	Owner1Info      OwnerInfo      `json:"owner1_info"`
	Owner2Info      OwnerInfo      `json:"owner2_info"`
	Summary         RivalrySummary `json:"summary"`
	Matchups        []MatchupEntry `json:"matchups"`
	PlayoffMeetings PlayoffSummary `json:"playoff_meetings"`
}

// RequiredKeys implements Fixture.
func (RivalryRecord) RequiredKeys() []string {
	return []string{"owner1_info", "owner2_info", "summary", "matchups"}
}

// Validate implements Fixture: the two owners differ and every recorded
// winner is one of them.
func (r RivalryRecord) Validate() error {
	a, b := r.Owner1Info.OwnerID, r.Owner2Info.OwnerID
	if a <= 0 || b <= 0 {
		return invalid("owner ids must be positive (got %d, %d)", a, b)
	}
	if a == b {
		return invalid("owner1 and owner2 are both %d", a)
	}
	for i, m := range r.Matchups {
		if !r.isOwner(m.WinnerOwnerID) {
			return invalid("matchups[%d]: winner %d is neither owner", i, *m.WinnerOwnerID)
		}
	}
	for i, m := range r.PlayoffMeetings.Meetings {
		if !r.isOwner(m.WinnerOwnerID) {
			return invalid("playoff_meetings.meetings[%d]: winner %d is neither owner", i, *m.WinnerOwnerID)
		}
	}
	return nil
}

func (r RivalryRecord) isOwner(id *int) bool {
	return id == nil || *id == r.Owner1Info.OwnerID || *id == r.Owner2Info.OwnerID
}

// HasOwner reports whether ownerID is one of the two sides.
func (r RivalryRecord) HasOwner(ownerID int) bool {
	return r.Owner1Info.OwnerID == ownerID || r.Owner2Info.OwnerID == ownerID
}
