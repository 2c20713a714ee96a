package rivalry_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
)

func sample() model.RivalryRecord {
	return model.RivalryRecord{
		Owner1Info: model.OwnerInfo{OwnerID: 3, OwnerName: "Alex"},
		Owner2Info: model.OwnerInfo{OwnerID: 7, OwnerName: "Blake"},
		Summary: model.RivalrySummary{
			TotalGames: 3, Ties: 1,
			Owner1Wins: 1, Owner2Wins: 1,
			Owner1TotalPoints: 320.5, Owner2TotalPoints: 301.25,
			Owner1AvgPoints: 106.83, Owner2AvgPoints: 100.42,
			Owner1LargestWinMargin: 22.5, Owner2LargestWinMargin: 3.25,
			Owner1HighScore: 131.5, Owner2HighScore: 112,
		},
		Matchups: []model.MatchupEntry{
			{SeasonID: 2021, Week: 2, Owner1Score: 131.5, Owner2Score: 109, Owner1TeamName: "Gridiron Ghosts", Owner2TeamName: "Blitz", WinnerOwnerID: model.Int(3)},
			{SeasonID: 2022, Week: 7, Owner1Score: 80, Owner2Score: 80, Owner1TeamName: "Gridiron Ghosts", Owner2TeamName: "Blitz II"},
			{SeasonID: 2023, Week: 15, Owner1Score: 109, Owner2Score: 112.25, Owner1TeamName: "Ghosts", Owner2TeamName: "Blitz III", WinnerOwnerID: model.Int(7), IsPlayoff: true, IsChampionship: true},
		},
		PlayoffMeetings: model.PlayoffSummary{
			Owner1Wins: 0, Owner2Wins: 1,
			Meetings: []model.PlayoffMeeting{{SeasonID: 2023, Week: 15, Round: "Championship", Owner1Score: 109, Owner2Score: 112.25, WinnerOwnerID: model.Int(7)}},
		},
	}
}

func TestComparisonFilename(t *testing.T) {
	Convey("Given two owner ids in either order", t, func() {
		Convey("Then the filename sorts them ascending", func() {
			So(rivalry.ComparisonFilename(7, 3), ShouldEqual, "comparison_3_vs_7.json")
			So(rivalry.ComparisonFilename(3, 7), ShouldEqual, "comparison_3_vs_7.json")
			So(rivalry.ComparisonFilename(12, 2), ShouldEqual, "comparison_2_vs_12.json")
			So(rivalry.ComparisonPath(2, 1), ShouldEqual, "h2h/comparison_1_vs_2")
		})
	})
}

func TestReconcile(t *testing.T) {
	Convey("Given a record stored with owner 3 first", t, func() {
		rec := sample()
		original := sample()

		Convey("When owner 3 is selected first", func() {
			got, err := rivalry.Reconcile(rec, 3)

			Convey("Then the record is unchanged", func() {
				So(err, ShouldBeNil)
				So(cmp.Diff(original, got), ShouldBeEmpty)
				So(rivalry.Swapped(rec, 3), ShouldBeFalse)
			})
		})

		Convey("When owner 7 is selected first", func() {
			got, err := rivalry.Reconcile(rec, 7)

			Convey("Then owner info is swapped", func() {
				So(err, ShouldBeNil)
				So(got.Owner1Info, ShouldResemble, rec.Owner2Info)
				So(got.Owner2Info, ShouldResemble, rec.Owner1Info)
				So(rivalry.Swapped(rec, 7), ShouldBeTrue)
			})

			Convey("And every summary pair is swapped", func() {
				s := got.Summary
				So(s.Owner1Wins, ShouldEqual, rec.Summary.Owner2Wins)
				So(s.Owner1TotalPoints, ShouldEqual, 301.25)
				So(s.Owner2TotalPoints, ShouldEqual, 320.5)
				So(s.Owner1AvgPoints, ShouldEqual, 100.42)
				So(s.Owner1LargestWinMargin, ShouldEqual, 3.25)
				So(s.Owner2LargestWinMargin, ShouldEqual, 22.5)
				So(s.Owner1HighScore, ShouldEqual, 112.0)
				So(s.Ties, ShouldEqual, rec.Summary.Ties)
				So(s.TotalGames, ShouldEqual, rec.Summary.TotalGames)
			})

			Convey("And every matchup score and team name pair is swapped", func() {
				for i, m := range got.Matchups {
					So(m.Owner1Score, ShouldEqual, rec.Matchups[i].Owner2Score)
					So(m.Owner2Score, ShouldEqual, rec.Matchups[i].Owner1Score)
					So(m.Owner1TeamName, ShouldEqual, rec.Matchups[i].Owner2TeamName)
					So(m.Owner2TeamName, ShouldEqual, rec.Matchups[i].Owner1TeamName)
					So(m.IsPlayoff, ShouldEqual, rec.Matchups[i].IsPlayoff)
				}
			})

			Convey("And winner ids still name the original owners", func() {
				So(*got.Matchups[0].WinnerOwnerID, ShouldEqual, 3)
				So(got.Matchups[1].WinnerOwnerID, ShouldBeNil)
				So(*got.Matchups[2].WinnerOwnerID, ShouldEqual, 7)
				So(*got.PlayoffMeetings.Meetings[0].WinnerOwnerID, ShouldEqual, 7)
			})

			Convey("And the playoff aggregate is swapped", func() {
				So(got.PlayoffMeetings.Owner1Wins, ShouldEqual, 1)
				So(got.PlayoffMeetings.Owner2Wins, ShouldEqual, 0)
				So(got.PlayoffMeetings.Meetings[0].Owner1Score, ShouldEqual, 112.25)
				So(got.PlayoffMeetings.Meetings[0].Round, ShouldEqual, "Championship")
			})

			Convey("And the input record is not modified", func() {
				So(cmp.Diff(original, rec), ShouldBeEmpty)
			})

			Convey("And swapping twice restores the original", func() {
				back, err := rivalry.Reconcile(got, 3)
				So(err, ShouldBeNil)
				So(cmp.Diff(original, back), ShouldBeEmpty)
			})
		})

		Convey("When reconciling twice with the same owner", func() {
			for _, id := range []int{3, 7} {
				once, err := rivalry.Reconcile(rec, id)
				So(err, ShouldBeNil)
				twice, err := rivalry.Reconcile(once, id)
				So(err, ShouldBeNil)
				So(cmp.Diff(once, twice), ShouldBeEmpty)
			}
		})

		Convey("When neither owner matches", func() {
			got, err := rivalry.Reconcile(rec, 9)

			Convey("Then the record is returned as-is with an integrity error", func() {
				So(cmp.Diff(original, got), ShouldBeEmpty)
				So(errors.Is(err, rivalry.ErrDataIntegrity), ShouldBeTrue)
				var die *rivalry.DataIntegrityError
				So(errors.As(err, &die), ShouldBeTrue)
				So(die.Found, ShouldResemble, [2]int{3, 7})
				So(die.Requested, ShouldResemble, []int{9})
			})
		})

		Convey("When a record has no matchups or playoff meetings", func() {
			bare := model.RivalryRecord{
				Owner1Info: model.OwnerInfo{OwnerID: 1},
				Owner2Info: model.OwnerInfo{OwnerID: 2},
			}
			got, err := rivalry.Reconcile(bare, 2)
			So(err, ShouldBeNil)
			So(got.Matchups, ShouldBeNil)
			So(got.PlayoffMeetings.Meetings, ShouldBeNil)
			So(got.Owner1Info.OwnerID, ShouldEqual, 2)
		})
	})
}

func TestCheckPair(t *testing.T) {
	Convey("Given a record for owners 3 and 7", t, func() {
		rec := sample()
		So(rivalry.CheckPair(rec, 3, 7), ShouldBeNil)
		So(rivalry.CheckPair(rec, 7, 3), ShouldBeNil)

		err := rivalry.CheckPair(rec, 3, 8)
		So(errors.Is(err, rivalry.ErrDataIntegrity), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "requested [3 8]")

		So(errors.Is(rivalry.CheckPair(rec, 3, 3), rivalry.ErrDataIntegrity), ShouldBeTrue)
	})
}
