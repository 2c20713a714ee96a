// Package rivalry canonicalizes head-to-head records so that the manager a
// user picked first is always labeled owner 1.
package rivalry

import (
	"fmt"

	"github.com/wtstats/wtstats/internal/domain/model"
)

// ComparisonFilename returns the fixture file name for a pair of owners.
// The ids are ordered ascending, so the result is independent of which
// manager was selected first.
func ComparisonFilename(a, b int) string {
	lo, hi := order(a, b)
	return fmt.Sprintf("comparison_%d_vs_%d.json", lo, hi)
}

// ComparisonPath returns the fixture subpath (under data/, without the
// .json extension) for a pair of owners.
func ComparisonPath(a, b int) string {
	lo, hi := order(a, b)
	return fmt.Sprintf("h2h/comparison_%d_vs_%d", lo, hi)
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// Reconcile returns record with owner 1 set to firstOwnerID.
//
// When owner 1 already matches the record is returned unchanged. When owner 2
// matches, every paired field is swapped. WinnerOwnerID values keep
// pointing at the original owner ids. When neither side matches the record
// is returned as-is with a *DataIntegrityError.
//
// The input is never modified.
func Reconcile(record model.RivalryRecord, firstOwnerID int) (model.RivalryRecord, error) {
	switch firstOwnerID {
	case record.Owner1Info.OwnerID:
		return record, nil
	case record.Owner2Info.OwnerID:
		return swap(record), nil
	default:
		return record, &DataIntegrityError{
			Requested: []int{firstOwnerID},
			Found:     [2]int{record.Owner1Info.OwnerID, record.Owner2Info.OwnerID},
		}
	}
}

// CheckPair verifies that record holds exactly the owners a and b.
func CheckPair(record model.RivalryRecord, a, b int) error {
	if a != b && record.HasOwner(a) && record.HasOwner(b) {
		return nil
	}
	return &DataIntegrityError{
		Requested: []int{a, b},
		Found:     [2]int{record.Owner1Info.OwnerID, record.Owner2Info.OwnerID},
	}
}

// Swapped reports whether reconciling record for firstOwnerID flips sides.
func Swapped(record model.RivalryRecord, firstOwnerID int) bool {
	return record.Owner1Info.OwnerID != firstOwnerID && record.Owner2Info.OwnerID == firstOwnerID
}

func swap(r model.RivalryRecord) model.RivalryRecord {
	out := model.RivalryRecord{
		Owner1Info: r.Owner2Info,
		Owner2Info: r.Owner1Info,
		Summary:    swapSummary(r.Summary),
	}
	if r.Matchups != nil {
		out.Matchups = make([]model.MatchupEntry, len(r.Matchups))
		for i, m := range r.Matchups {
			m.Owner1Score, m.Owner2Score = m.Owner2Score, m.Owner1Score
			m.Owner1TeamName, m.Owner2TeamName = m.Owner2TeamName, m.Owner1TeamName
			m.WinnerOwnerID = cloneInt(m.WinnerOwnerID)
			out.Matchups[i] = m
		}
	}
	out.PlayoffMeetings = model.PlayoffSummary{
		Owner1Wins: r.PlayoffMeetings.Owner2Wins,
		Owner2Wins: r.PlayoffMeetings.Owner1Wins,
	}
	if r.PlayoffMeetings.Meetings != nil {
		out.PlayoffMeetings.Meetings = make([]model.PlayoffMeeting, len(r.PlayoffMeetings.Meetings))
		for i, m := range r.PlayoffMeetings.Meetings {
			m.Owner1Score, m.Owner2Score = m.Owner2Score, m.Owner1Score
			m.WinnerOwnerID = cloneInt(m.WinnerOwnerID)
			out.PlayoffMeetings.Meetings[i] = m
		}
	}
	return out
}

func swapSummary(s model.RivalrySummary) model.RivalrySummary {
	s.Owner1Wins, s.Owner2Wins = s.Owner2Wins, s.Owner1Wins
	s.Owner1TotalPoints, s.Owner2TotalPoints = s.Owner2TotalPoints, s.Owner1TotalPoints
	s.Owner1AvgPoints, s.Owner2AvgPoints = s.Owner2AvgPoints, s.Owner1AvgPoints
	s.Owner1LargestWinMargin, s.Owner2LargestWinMargin = s.Owner2LargestWinMargin, s.Owner1LargestWinMargin
	s.Owner1HighScore, s.Owner2HighScore = s.Owner2HighScore, s.Owner1HighScore
	return s
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
