// Package shrink compresses long empty stretches of a chromosome into
// fixed-width placeholders ("introns off").
//
// All displayed intervals of a chromosome are merged. Every gap between the
// merged blocks that is longer than the threshold becomes a placeholder
// exactly threshold wide. A [Map] converts between original and display
// coordinates and remaps axis ticks so they keep their original labels.
//
// A nil *Map is valid and behaves as the identity transform.
package shrink

import (
	"slices"
	"sort"

	"github.com/matzehuels/rangeplot/pkg/theme"
)

// Span is a half-open interval in original coordinates.
type Span struct {
	Start int
	End   int
}

// Region is one shrunk gap.
type Region struct {
	Start    int `json:"start"`     // original gap start (end of previous block)
	End      int `json:"end"`       // original gap end (start of next block)
	AdjStart int `json:"adj_start"` // display start
	AdjEnd   int `json:"adj_end"`   // display end, AdjStart + threshold
	Delta    int `json:"delta"`     // gap length minus threshold
	CumDelta int `json:"cum_delta"` // sum of Delta up to and including this region
}

// Map is the shrink transform of one chromosome.
type Map struct {
	Threshold int      `json:"threshold"`
	Regions   []Region `json:"regions"`
}

// Threshold resolves the shrink_threshold option against a chromosome's
// plotted range: bp amounts are used as is, fractions scale the range.
func Threshold(a theme.Amount, lo, hi int) int {
	if a.BP {
		return int(a.Value)
	}
	return int(a.Value * float64(hi-lo))
}

// Compute merges spans and shrinks every gap longer than threshold.
// A negative threshold is treated as zero.
func Compute(spans []Span, threshold int) *Map {
	threshold = max(threshold, 0)
	m := &Map{Threshold: threshold}
	merged := Merge(spans)

	cum := 0
	for i := 1; i < len(merged); i++ {
		gapStart, gapEnd := merged[i-1].End, merged[i].Start
		gap := gapEnd - gapStart
		if gap <= threshold {
			continue
		}
		delta := gap - threshold
		adj := gapStart - cum
		cum += delta
		m.Regions = append(m.Regions, Region{
			Start:    gapStart,
			End:      gapEnd,
			AdjStart: adj,
			AdjEnd:   adj + threshold,
			Delta:    delta,
			CumDelta: cum,
		})
	}
	return m
}

// Merge sorts spans and joins overlapping or touching ones.
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	s := slices.Clone(spans)
	sort.Slice(s, func(i, j int) bool {
		if s[i].Start != s[j].Start {
			return s[i].Start < s[j].Start
		}
		return s[i].End < s[j].End
	})
	out := []Span{s[0]}
	for _, sp := range s[1:] {
		last := &out[len(out)-1]
		if sp.Start <= last.End {
			last.End = max(last.End, sp.End)
			continue
		}
		out = append(out, sp)
	}
	return out
}

// TotalDelta is the number of positions removed from the chromosome.
func (m *Map) TotalDelta() int {
	if m == nil || len(m.Regions) == 0 {
		return 0
	}
	return m.Regions[len(m.Regions)-1].CumDelta
}

// Forward maps an original coordinate to display space. Positions inside a
// shrunk gap are compressed linearly into its placeholder.
func (m *Map) Forward(x int) int {
	if m == nil {
		return x
	}
	prev := 0
	for _, r := range m.Regions {
		if x <= r.Start {
			return x - prev
		}
		if x < r.End {
			return r.AdjStart + (x-r.Start)*m.Threshold/(r.End-r.Start)
		}
		prev = r.CumDelta
	}
	return x - prev
}

// Inverse maps a display coordinate back to original space. It is exact
// outside placeholders and expands linearly inside them.
func (m *Map) Inverse(x int) int {
	if m == nil {
		return x
	}
	prev := 0
	for _, r := range m.Regions {
		if x <= r.AdjStart {
			return x + prev
		}
		if x < r.AdjEnd {
			return r.Start + (x-r.AdjStart)*(r.End-r.Start)/m.Threshold
		}
		prev = r.CumDelta
	}
	return x + prev
}

// All returns the shrunk regions. Callers must not modify the slice.
func (m *Map) All() []Region {
	if m == nil {
		return nil
	}
	return m.Regions
}

// Boundaries flattens the original region bounds as [s0, e0, s1, e1, ...].
func (m *Map) Boundaries() []int {
	if m == nil {
		return nil
	}
	out := make([]int, 0, 2*len(m.Regions))
	for _, r := range m.Regions {
		out = append(out, r.Start, r.End)
	}
	return out
}

// Within returns the regions whose display start lies in [adjStart, adjEnd).
// Intron segments overlapping them are drawn dashed.
func (m *Map) Within(adjStart, adjEnd int) []Region {
	if m == nil {
		return nil
	}
	var out []Region
	for _, r := range m.Regions {
		if r.AdjStart >= adjStart && r.AdjStart < adjEnd {
			out = append(out, r)
		}
	}
	return out
}

// RemapTicks drops ticks that fall inside shrunk gaps, maps the rest to
// display space and discards those beyond displayMax. It returns the display
// positions and the original values to use as labels.
func (m *Map) RemapTicks(ticks []int, displayMax int) (pos []int, labels []int) {
	for _, t := range ticks {
		if !m.visible(t) {
			continue
		}
		p := m.Forward(t)
		if p > displayMax {
			continue
		}
		pos = append(pos, p)
		labels = append(labels, t)
	}
	return pos, labels
}

// visible reports whether t lies at or before the first region, after the
// last one, or in an unshrunk window (e_i, s_i+1].
func (m *Map) visible(t int) bool {
	if m == nil || len(m.Regions) == 0 {
		return true
	}
	if t <= m.Regions[0].Start {
		return true
	}
	for i, r := range m.Regions {
		if t <= r.End {
			return false
		}
		if i+1 == len(m.Regions) || t <= m.Regions[i+1].Start {
			return true
		}
	}
	return true
}
