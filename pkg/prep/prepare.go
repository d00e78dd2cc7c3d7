package prep

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/layout"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/shrink"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

const utrFactor = 0.3

// Prepare runs every preparation step over datasets. A nil o means the light
// theme defaults.
func Prepare(datasets []*ranges.Dataset, p Params, o *theme.Options) (*Frame, error) {
	if o == nil {
		o = theme.Default()
	}
	if len(p.YLabels) > 0 && len(p.YLabels) != len(datasets) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d y_labels for %d datasets", len(p.YLabels), len(datasets))
	}

	f := &Frame{}
	if err := f.subset(datasets, p); err != nil {
		return nil, err
	}
	if p.ThickCDS {
		f.Rows = splitThickCDS(f.Rows)
	}
	if err := f.thickness(p, o); err != nil {
		return nil, err
	}
	if err := f.colors(p, o); err != nil {
		return nil, err
	}
	f.genes()
	if err := f.chromosomes(p, o); err != nil {
		return nil, err
	}
	if p.Shrink {
		f.shrink(o)
	}
	f.order(p)
	if err := f.annotate(p, o); err != nil {
		return nil, err
	}

	if p.Tracks > 0 && len(f.Chroms) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"aligned plots need exactly one chromosome in the data, got %d", len(f.Chroms))
	}
	return f, nil
}

// =============================================================================
// Subset
// =============================================================================

func (f *Frame) subset(datasets []*ranges.Dataset, p Params) error {
	subsetHit := false
	for i, ds := range datasets {
		count := DatasetCount{Name: datasetName(ds, i)}
		if ds.Empty() {
			f.Counts = append(f.Counts, count)
			continue
		}
		if err := validateColumns(ds, p); err != nil {
			return errors.New(errors.GetCode(err), "%s: %s", count.Name, errors.UserMessage(err))
		}

		index := make(map[string]int)
		for j, iv := range ds.Intervals {
			if len(p.Chromosomes) > 0 && !slices.Contains(p.Chromosomes, iv.Chromosome) {
				continue
			}
			id := geneID(iv, j, p.IDCols)
			ix, ok := index[id]
			if !ok {
				ix = len(index)
				index[id] = ix
			}
			if p.MaxShown > 0 && ix >= p.MaxShown {
				continue
			}
			if p.ThickCDS && iv.Feature != "exon" && iv.Feature != "CDS" {
				continue
			}
			f.Rows = append(f.Rows, Row{
				Source:   iv,
				ID:       id,
				Dataset:  i,
				Start:    iv.Start,
				End:      iv.End,
				OriStart: iv.Start,
				OriEnd:   iv.End,
			})
		}
		count.Total = len(index)
		count.Shown = len(index)
		if p.MaxShown > 0 && count.Total > p.MaxShown {
			count.Shown = p.MaxShown
			subsetHit = true
		}
		f.Counts = append(f.Counts, count)
	}

	if len(f.Rows) == 0 {
		if p.ThickCDS {
			return errors.New(errors.ErrCodeEmptyData, "no interval has 'exon' or 'CDS' in the Feature column, nothing to plot with thick_cds")
		}
		return errors.New(errors.ErrCodeEmptyData, "the provided datasets are empty")
	}
	if subsetHit {
		f.warn(WarnSubset, "The provided data contains more genes than the ones plotted.")
	}
	return nil
}

func validateColumns(ds *ranges.Dataset, p Params) error {
	want := slices.Clone(p.IDCols)
	want = append(want, p.ColorCols...)
	if p.ThickCDS {
		want = append(want, ranges.ColFeature)
	} else {
		want = append(want, p.ThicknessCol)
	}
	want = append(want, p.DepthCol)
	return errors.ValidateColumns(ds.HasColumn, want...)
}

func datasetName(ds *ranges.Dataset, i int) string {
	if ds != nil && ds.Name != "" {
		return ds.Name
	}
	return fmt.Sprintf("dataset %d", i)
}

// geneID joins the id column values of a row. Without id columns every
// interval is its own gene, keyed by its position in the dataset.
func geneID(iv ranges.Interval, j int, cols []string) string {
	if len(cols) == 0 {
		return strconv.Itoa(j)
	}
	return joinColumns(iv, cols)
}

func joinColumns(iv ranges.Interval, cols []string) string {
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i], _ = iv.Get(c)
	}
	return strings.Join(vals, ", ")
}

// =============================================================================
// Thick CDS
// =============================================================================

type geneKey struct {
	dataset int
	chrom   string
	id      string
}

func rowKey(r Row) geneKey { return geneKey{r.Dataset, r.Source.Chromosome, r.ID} }

// splitThickCDS removes the CDS part from the exons of genes that have both,
// so the remaining exon pieces can be drawn thin as UTRs.
func splitThickCDS(rows []Row) []Row {
	cds := make(map[geneKey][]shrink.Span)
	for _, r := range rows {
		if r.Source.Feature == "CDS" {
			k := rowKey(r)
			cds[k] = append(cds[k], shrink.Span{Start: r.OriStart, End: r.OriEnd})
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		cuts, ok := cds[rowKey(r)]
		if r.Source.Feature != "exon" || !ok {
			out = append(out, r)
			continue
		}
		for _, piece := range subtract(shrink.Span{Start: r.OriStart, End: r.OriEnd}, shrink.Merge(cuts)) {
			pr := r
			pr.Source.Start, pr.Source.End = piece.Start, piece.End
			pr.Start, pr.End = piece.Start, piece.End
			pr.OriStart, pr.OriEnd = piece.Start, piece.End
			out = append(out, pr)
		}
	}
	return out
}

// subtract returns the parts of s not covered by the sorted, merged cuts.
func subtract(s shrink.Span, cuts []shrink.Span) []shrink.Span {
	var out []shrink.Span
	pos := s.Start
	for _, c := range cuts {
		if c.End <= pos || c.Start >= s.End {
			continue
		}
		if c.Start > pos {
			out = append(out, shrink.Span{Start: pos, End: c.Start})
		}
		pos = max(pos, c.End)
	}
	if pos < s.End {
		out = append(out, shrink.Span{Start: pos, End: s.End})
	}
	return out
}

// =============================================================================
// Thickness and colors
// =============================================================================

func (f *Frame) thickness(p Params, o *theme.Options) error {
	col := p.ThicknessCol
	if p.ThickCDS {
		col = ranges.ColFeature
	}
	heights := map[string]float64{}
	if col != "" {
		var values []string
		for _, r := range f.Rows {
			if v, ok := r.Source.Get(col); ok && !slices.Contains(values, v) {
				values = append(values, v)
			}
		}
		if len(values) > 2 {
			return errors.New(errors.ErrCodeInvalidThickness,
				"thickness column %s must have at most 2 different values, got %d", col, len(values))
		}
		sort.Sort(sort.Reverse(sort.StringSlice(values)))
		for i, v := range values {
			if i == 0 && len(values) == 2 {
				heights[v] = utrFactor * o.ExonHeight
			} else {
				heights[v] = o.ExonHeight
			}
		}
	}
	for i := range f.Rows {
		h := o.ExonHeight
		if col != "" {
			if v, ok := f.Rows[i].Source.Get(col); ok {
				h = heights[v]
			}
		}
		f.Rows[i].Height = h
	}
	return nil
}

func (f *Frame) colors(p Params, o *theme.Options) error {
	cols := p.ColorCols
	if len(cols) == 0 {
		cols = p.IDCols
	}

	var tags []string
	seen := make(map[string]bool)
	for i := range f.Rows {
		tag := f.Rows[i].ID
		if len(cols) > 0 {
			tag = joinColumns(f.Rows[i].Source, cols)
		}
		f.Rows[i].Tag = tag
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
			f.Rows[i].Legend = true
		}
	}

	asg, err := o.Colormap.Assign(tags)
	if err != nil {
		return err
	}
	if asg.Iterated {
		f.warn(WarnIterated, "The genes are colored by iterating over the given color list.")
	}
	if asg.Missing {
		f.warn(WarnBlack, "Some genes do not have a color assigned so they are colored in black.")
	}

	for i := range f.Rows {
		c := asg.Colors[f.Rows[i].Tag]
		f.Rows[i].Color = c
		f.Rows[i].Border = c
		if o.ExonBorder != "" {
			f.Rows[i].Border = o.ExonBorder
		}
	}
	for _, t := range tags {
		f.Legend = append(f.Legend, LegendEntry{Tag: t, Color: asg.Colors[t]})
	}
	return nil
}

// =============================================================================
// Genes and chromosomes
// =============================================================================

func (f *Frame) genes() {
	index := make(map[geneKey]int)
	for i := range f.Rows {
		r := &f.Rows[i]
		k := rowKey(*r)
		gi, ok := index[k]
		if !ok {
			gi = len(f.Genes)
			index[k] = gi
			f.Genes = append(f.Genes, Gene{
				ID:         r.ID,
				Dataset:    r.Dataset,
				Chromosome: r.Source.Chromosome,
				OriStart:   r.OriStart,
				OriEnd:     r.OriEnd,
				Color:      r.Color,
				Tag:        r.Tag,
			})
		}
		g := &f.Genes[gi]
		g.OriStart = min(g.OriStart, r.OriStart)
		g.OriEnd = max(g.OriEnd, r.OriEnd)
		if g.Strand == "" {
			g.Strand = r.Source.Strand
		}
		r.Gene = gi
	}
	for i := range f.Genes {
		f.Genes[i].Start, f.Genes[i].End = f.Genes[i].OriStart, f.Genes[i].OriEnd
	}
}

func (f *Frame) chromosomes(p Params, o *theme.Options) error {
	var names []string
	byChrom := make(map[string][]int)
	for gi, g := range f.Genes {
		if _, ok := byChrom[g.Chromosome]; !ok {
			names = append(names, g.Chromosome)
		}
		byChrom[g.Chromosome] = append(byChrom[g.Chromosome], gi)
	}
	sort.Slice(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })

	for _, name := range names {
		genes := byChrom[name]
		c := Chrom{Name: name, Min: f.Genes[genes[0]].OriStart, Max: f.Genes[genes[0]].OriEnd}

		perDataset := make(map[int][]int)
		for _, gi := range genes {
			g := f.Genes[gi]
			if _, ok := perDataset[g.Dataset]; !ok {
				c.Datasets = append(c.Datasets, g.Dataset)
			}
			perDataset[g.Dataset] = append(perDataset[g.Dataset], gi)
			c.Min = min(c.Min, g.OriStart)
			c.Max = max(c.Max, g.OriEnd)
		}
		sort.Ints(c.Datasets)

		local := make([][]int, len(c.Datasets))
		counts := make([]int, len(c.Datasets))
		for i, ds := range c.Datasets {
			ids := perDataset[ds]
			sort.SliceStable(ids, func(a, b int) bool {
				return NaturalLess(f.Genes[ids[a]].ID, f.Genes[ids[b]].ID)
			})
			spans := make([]layout.Span, len(perDataset[ds]))
			for j, gi := range perDataset[ds] {
				spans[j] = layout.Span{Start: f.Genes[gi].OriStart, End: f.Genes[gi].OriEnd}
			}
			var err error
			local[i], counts[i], err = layout.Assign(spans, p.Packed)
			if err != nil {
				return err
			}
		}
		st := layout.Stack(counts)
		for i, ds := range c.Datasets {
			for j, gi := range perDataset[ds] {
				f.Genes[gi].Row = st.Bands[i].Offset + local[i][j]
			}
			c.Genes = append(c.Genes, perDataset[ds]...)
		}
		c.Bands = st.Bands
		c.Separators = st.Separators
		c.Rows = st.Total
		c.YHeight = float64(st.Total) * o.VSpacer

		b := p.Limits.resolve(name)
		c.Lo, c.Hi = c.Min, c.Max
		if b.HasLo {
			c.Lo = b.Lo
		}
		if b.HasHi {
			c.Hi = b.Hi
		}
		if c.Lo >= c.Hi {
			if b.HasLo || b.HasHi {
				return errors.New(errors.ErrCodeInvalidLimits,
					"chromosome %s: limits %d:%d leave nothing to plot", name, c.Lo, c.Hi)
			}
			c.Hi = c.Lo + 1
		}
		f.Chroms = append(f.Chroms, c)
	}
	return nil
}

// =============================================================================
// Shrink
// =============================================================================

func (f *Frame) shrink(o *theme.Options) {
	idx := f.chromIndex()
	spans := make([][]shrink.Span, len(f.Chroms))
	for _, r := range f.Rows {
		ci := idx[r.Source.Chromosome]
		spans[ci] = append(spans[ci], shrink.Span{Start: r.OriStart, End: r.OriEnd})
	}
	for ci := range f.Chroms {
		c := &f.Chroms[ci]
		m := shrink.Compute(spans[ci], shrink.Threshold(o.ShrinkThreshold, c.Min, c.Max))
		c.Shrink = m
		c.Min, c.Max = m.Forward(c.Min), m.Forward(c.Max)
		c.Lo, c.Hi = m.Forward(c.Lo), m.Forward(c.Hi)
		if c.Lo >= c.Hi {
			c.Hi = c.Lo + 1
		}
	}
	for i := range f.Rows {
		m := f.Chroms[idx[f.Rows[i].Source.Chromosome]].Shrink
		f.Rows[i].Start = m.Forward(f.Rows[i].OriStart)
		f.Rows[i].End = m.Forward(f.Rows[i].OriEnd)
	}
	for i := range f.Genes {
		m := f.Chroms[idx[f.Genes[i].Chromosome]].Shrink
		f.Genes[i].Start = m.Forward(f.Genes[i].OriStart)
		f.Genes[i].End = m.Forward(f.Genes[i].OriEnd)
	}
}

func (f *Frame) chromIndex() map[string]int {
	idx := make(map[string]int, len(f.Chroms))
	for i, c := range f.Chroms {
		idx[c.Name] = i
	}
	return idx
}

// =============================================================================
// Ordering and annotation
// =============================================================================

func (f *Frame) order(p Params) {
	idx := f.chromIndex()
	sort.SliceStable(f.Rows, func(i, j int) bool {
		a, b := f.Rows[i], f.Rows[j]
		if ca, cb := idx[a.Source.Chromosome], idx[b.Source.Chromosome]; ca != cb {
			return ca < cb
		}
		if a.Dataset != b.Dataset {
			return a.Dataset < b.Dataset
		}
		if a.ID != b.ID {
			return NaturalLess(a.ID, b.ID)
		}
		return a.Start < b.Start
	})

	for i := range f.Genes {
		f.Genes[i].Rows = f.Genes[i].Rows[:0]
	}
	for i := range f.Rows {
		r := &f.Rows[i]
		g := &f.Genes[r.Gene]
		r.ExonIx = len(g.Rows)
		g.Rows = append(g.Rows, i)
		if p.DepthCol != "" {
			if v, ok := r.Source.Get(p.DepthCol); ok {
				r.Depth, _ = strconv.ParseFloat(v, 64)
			}
		}
	}

	for ci := range f.Chroms {
		c := &f.Chroms[ci]
		sort.SliceStable(c.Genes, func(i, j int) bool {
			a, b := f.Genes[c.Genes[i]], f.Genes[c.Genes[j]]
			if a.Dataset != b.Dataset {
				return a.Dataset < b.Dataset
			}
			return a.Start < b.Start
		})
	}
}

func (f *Frame) annotate(p Params, o *theme.Options) error {
	for ci := range f.Chroms {
		c := &f.Chroms[ci]
		c.TextPad = o.TextPad.Of(float64(c.Hi - c.Lo))
	}

	tooltip := strings.ReplaceAll(p.Tooltip, "\n", "<br>")
	for i := range f.Rows {
		r := &f.Rows[i]
		if tooltip != "" {
			s, err := Format(tooltip, r.Source)
			if err != nil {
				return err
			}
			r.Tooltip = s
			continue
		}
		r.Tooltip = defaultTooltip(r.Source, r.OriStart, r.OriEnd, r.ID)
	}

	for i := range f.Genes {
		g := &f.Genes[i]
		g.Tooltip = geneTooltip(g.Strand, g.OriStart, g.OriEnd, g.ID)
		if !p.Text {
			continue
		}
		g.Label = g.ID
		if p.TextTemplate != "" && len(g.Rows) > 0 {
			s, err := Format(p.TextTemplate, f.Rows[g.Rows[0]].Source)
			if err != nil {
				return err
			}
			g.Label = s
		}
	}
	return nil
}

func geneTooltip(strand string, start, end int, id string) string {
	if strand != "" {
		return fmt.Sprintf("[%s] (%d, %d)<br>ID: %s", strand, start, end, id)
	}
	return fmt.Sprintf("(%d, %d)<br>ID: %s", start, end, id)
}

func defaultTooltip(iv ranges.Interval, start, end int, id string) string {
	if ref, ok := iv.Get("REF"); ok && ref != "" && ref != "nan" && ref != "None" {
		alt, _ := iv.Get("ALT")
		return fmt.Sprintf("(%d, %d)<br>ID: %s<br>%s>%s", start, end, id, ref, alt)
	}
	return geneTooltip(iv.Strand, start, end, id)
}
