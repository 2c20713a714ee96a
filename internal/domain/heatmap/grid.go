package heatmap

// Axis labels one heatmap row or column.
type Axis struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Cell is one classified heatmap value.
type Cell struct {
	Value      *float64 `json:"value"`
	Normalized *float64 `json:"normalized,omitempty"`
	Bucket     Bucket   `json:"bucket"`
}

// Grid is a fully classified heatmap ready for rendering.
type Grid struct {
	Metric  string   `json:"metric"`
	Mode    string   `json:"mode"`
	Band    *Band    `json:"band,omitempty"`
	Domain  *Domain  `json:"domain,omitempty"`
	Rows    []Axis   `json:"rows"`
	Columns []Axis   `json:"columns"`
	Cells   [][]Cell `json:"cells"`
}

// Build classifies a rows x columns matrix of values. The domain is
// computed once over every non-nil value in the matrix.
func (bk *Bucketer) Build(metric string, mode Mode, rows, cols []Axis, values [][]*float64) Grid {
	flat := make([]*float64, 0, len(rows)*len(cols))
	for _, row := range values {
		flat = append(flat, row...)
	}
	g := Grid{
		Metric:  metric,
		Mode:    mode.String(),
		Rows:    rows,
		Columns: cols,
		Cells:   make([][]Cell, len(values)),
	}
	d, ok := DomainOf(flat)
	if ok {
		g.Domain = &d
	}
	if mode == ScaledRange {
		band := bk.band
		g.Band = &band
	}
	for i, row := range values {
		g.Cells[i] = make([]Cell, len(row))
		for j, v := range row {
			c := Cell{Value: v, Bucket: bk.Bucket(v, d, mode)}
			if v != nil && mode == ScaledRange {
				n := d.Normalize(*v)
				c.Normalized = &n
			}
			g.Cells[i][j] = c
		}
	}
	return g
}

// Counts tallies the cells per bucket.
func (g Grid) Counts() map[Bucket]int {
	counts := make(map[Bucket]int)
	for _, row := range g.Cells {
		for _, c := range row {
			counts[c.Bucket]++
		}
	}
	return counts
}
