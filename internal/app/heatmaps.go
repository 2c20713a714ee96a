package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/wtstats/wtstats/internal/domain/heatmap"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/table"
	"github.com/wtstats/wtstats/pkg/metrics"
)

// Heatmap metrics.
const (
	MetricPOE       = "poe"
	MetricPoints    = "points"
	MetricPointsFor = "points_for"
	MetricWinPct    = "win_pct"
)

// DraftHeatmap builds the managers x rounds grid of average pick value.
// poe is classified around zero; points is scaled over the visible range.
// season 0 covers every draft.
func (s *Service) DraftHeatmap(ctx context.Context, metric string, season int) (heatmap.Grid, error) {
	var (
		mode  heatmap.Mode
		value func(model.DraftPick) *float64
	)
	switch metric {
	case MetricPOE:
		mode, value = heatmap.CenteredThreshold, model.DraftPick.PointsOverExpected
	case MetricPoints:
		mode, value = heatmap.ScaledRange, func(p model.DraftPick) *float64 { return p.Points }
	default:
		return heatmap.Grid{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	history, err := s.client.DraftHistory(ctx)
	if err != nil {
		return heatmap.Grid{}, err
	}

	drafts := history.Drafts
	if season != 0 {
		drafts = nil
		for _, d := range history.Drafts {
			if d.SeasonID == season {
				drafts = append(drafts, d)
			}
		}
		if len(drafts) == 0 {
			return heatmap.Grid{}, fmt.Errorf("%w: %d", ErrUnknownSeason, season)
		}
	}

	maxRound := model.DraftHistory{Drafts: drafts}.MaxRound()
	names := make(map[int]string)
	samples := make(map[int]map[int][]*float64)
	for _, d := range drafts {
		for _, p := range d.Picks {
			if _, ok := names[p.OwnerID]; !ok {
				names[p.OwnerID] = p.OwnerName
				samples[p.OwnerID] = make(map[int][]*float64)
			}
			samples[p.OwnerID][p.Round] = append(samples[p.OwnerID][p.Round], value(p))
		}
	}

	rows := s.ownerAxis(names)
	cols := make([]heatmap.Axis, maxRound)
	for r := range cols {
		cols[r] = heatmap.Axis{ID: r + 1, Label: "R" + strconv.Itoa(r+1)}
	}
	values := make([][]*float64, len(rows))
	for i, row := range rows {
		values[i] = make([]*float64, maxRound)
		for r := 1; r <= maxRound; r++ {
			values[i][r-1] = table.Average(samples[row.ID][r])
		}
	}

	bk := heatmap.NewBucketer(heatmap.WithBand(s.draftBand))
	return record(bk.Build(metric, mode, rows, cols, values)), nil
}

// SeasonHeatmap builds the managers x seasons grid of points_for or
// win_pct. A nil band uses the configured season band.
func (s *Service) SeasonHeatmap(ctx context.Context, metric string, band *heatmap.Band) (heatmap.Grid, error) {
	var value func(model.Standing) *float64
	switch metric {
	case MetricPointsFor:
		value = func(st model.Standing) *float64 { return model.Float(st.PointsFor) }
	case MetricWinPct:
		value = model.Standing.WinPct
	default:
		return heatmap.Grid{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	history, err := s.client.LeagueHistory(ctx)
	if err != nil {
		return heatmap.Grid{}, err
	}

	seasons := slices.Clone(history.Seasons)
	slices.SortFunc(seasons, func(a, b model.Season) int { return a.SeasonID - b.SeasonID })

	names := make(map[int]string)
	cells := make(map[int]map[int]*float64)
	for _, season := range seasons {
		for _, st := range season.Standings {
			if _, ok := cells[st.OwnerID]; !ok {
				cells[st.OwnerID] = make(map[int]*float64)
			}
			names[st.OwnerID] = st.OwnerName
			cells[st.OwnerID][season.SeasonID] = value(st)
		}
	}

	rows := s.ownerAxis(names)
	cols := make([]heatmap.Axis, len(seasons))
	for i, season := range seasons {
		cols[i] = heatmap.Axis{ID: season.SeasonID, Label: strconv.Itoa(season.SeasonID)}
	}
	values := make([][]*float64, len(rows))
	for i, row := range rows {
		values[i] = make([]*float64, len(cols))
		for j, col := range cols {
			values[i][j] = cells[row.ID][col.ID]
		}
	}

	b := s.seasonBand
	if band != nil {
		if err := band.Validate(); err != nil {
			return heatmap.Grid{}, err
		}
		b = *band
	}
	bk := heatmap.NewBucketer(heatmap.WithBand(b))
	return record(bk.Build(metric, heatmap.ScaledRange, rows, cols, values)), nil
}

// ownerAxis orders owners by id. Labels come from the manager snapshot when
// it is loaded, otherwise from the fixture rows themselves.
func (s *Service) ownerAxis(names map[int]string) []heatmap.Axis {
	idx, _ := s.managers.Load()
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	axis := make([]heatmap.Axis, len(ids))
	for i, id := range ids {
		label := names[id]
		if m, ok := idx.ByID(id); ok && m.OwnerName != "" {
			label = m.OwnerName
		}
		axis[i] = heatmap.Axis{ID: id, Label: label}
	}
	return axis
}

func record(g heatmap.Grid) heatmap.Grid {
	for b, n := range g.Counts() {
		metrics.RecordHeatmapCells(b.String(), n)
	}
	return g
}
