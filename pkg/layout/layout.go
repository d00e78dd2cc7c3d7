// Package layout assigns genes to rows.
//
// Within one (chromosome, dataset) group, [Packed] places genes greedily in
// the lowest row where they do not overlap anything, and [Unpacked] gives
// every gene its own row. [Stack] then combines the groups of a chromosome
// into one panel, separating datasets with an empty row.
//
// Row 0 is the bottom of a panel.
package layout

import (
	"github.com/biogo/store/interval"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// Span is a gene extent, half-open.
type Span struct {
	Start int
	End   int
}

type rowItem struct {
	id    uintptr
	start int
	end   int
}

func (r rowItem) Overlap(b interval.IntRange) bool { return r.start < b.End && b.Start < r.end }
func (r rowItem) ID() uintptr                       { return r.id }
func (r rowItem) Range() interval.IntRange {
	return interval.IntRange{Start: r.start, End: r.end}
}

// Packed assigns each gene, in order, to the first row with no overlapping
// gene, opening a new row when none fits. It returns the row of every gene
// and the number of rows used. A gene ending before it starts is rejected.
func Packed(genes []Span) ([]int, int, error) {
	rows := make([]int, len(genes))
	var trees []*interval.IntTree

	for i, g := range genes {
		if g.End < g.Start {
			return nil, 0, errors.New(errors.ErrCodeInvalidInput, "gene %d ends at %d before its start %d", i, g.End, g.Start)
		}
		item := rowItem{id: uintptr(i), start: g.Start, end: max(g.End, g.Start+1)}
		placed := -1
		for r, t := range trees {
			if len(t.Get(item)) == 0 {
				placed = r
				break
			}
		}
		if placed < 0 {
			trees = append(trees, &interval.IntTree{})
			placed = len(trees) - 1
		}
		if err := trees[placed].Insert(item, false); err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "row %d: gene %d [%d, %d)", placed, i, item.start, item.end)
		}
		rows[i] = placed
	}
	return rows, len(trees), nil
}

// Unpacked gives gene i row i.
func Unpacked(genes []Span) ([]int, int) {
	rows := make([]int, len(genes))
	for i := range genes {
		rows[i] = i
	}
	return rows, len(genes)
}

// Assign dispatches to Packed or Unpacked.
func Assign(genes []Span, packed bool) ([]int, int, error) {
	if packed {
		return Packed(genes)
	}
	rows, n := Unpacked(genes)
	return rows, n, nil
}

// Band is the vertical slot of one dataset inside a chromosome panel.
type Band struct {
	Offset int // row of the band's lowest gene row
	Rows   int // rows used by the band
}

// Center is the y coordinate in the middle of the band.
func (b Band) Center() float64 { return float64(b.Offset) + float64(b.Rows)/2 }

// Stacked is the combined layout of one chromosome panel.
type Stacked struct {
	Bands      []Band // one per input group, same order
	Separators []int  // empty rows between adjacent bands, top to bottom
	Total      int    // total rows including separators
}

// Stack places the groups of one chromosome on top of each other. Groups are
// given in dataset order and the last one ends up at the bottom. Each band is
// offset by the rows of every band below it plus one separator row per band
// below.
func Stack(rows []int) Stacked {
	n := len(rows)
	out := Stacked{Bands: make([]Band, n)}
	if n == 0 {
		return out
	}

	offset := 0
	for i := n - 1; i >= 0; i-- {
		out.Bands[i] = Band{Offset: offset, Rows: rows[i]}
		offset += rows[i] + 1
	}
	for i := 0; i < n-1; i++ {
		out.Separators = append(out.Separators, out.Bands[i].Offset-1)
	}
	out.Total = offset - 1
	return out
}
