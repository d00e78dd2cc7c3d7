// Package prep turns input datasets into a plot-ready [Frame].
//
// [Prepare] runs the whole data preparation in a fixed order: subset to
// max_shown genes per dataset, optional thick-CDS split, thickness and color
// assignment, gene and chromosome metadata with row layout, the optional
// shrink transform, ordering, text padding and tooltips. It never logs;
// anything the user should hear about is returned as a [Warning].
package prep

import (
	"github.com/matzehuels/rangeplot/pkg/layout"
	"github.com/matzehuels/rangeplot/pkg/ranges"
	"github.com/matzehuels/rangeplot/pkg/shrink"
)

// WarningKind classifies a preparation warning.
type WarningKind string

const (
	WarnSubset   WarningKind = "subset"
	WarnIterated WarningKind = "iterated"
	WarnBlack    WarningKind = "black"
)

// Warning is a non-fatal condition the figure should mention.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Row is one drawn interval.
type Row struct {
	Source   ranges.Interval `json:"source"` // input row, original coordinates
	ID       string          `json:"id"`
	Dataset  int             `json:"dataset"`
	Gene     int             `json:"gene"` // index into Frame.Genes
	Start    int             `json:"start"`
	End      int             `json:"end"`
	OriStart int             `json:"ori_start"`
	OriEnd   int             `json:"ori_end"`
	Color    string          `json:"color"`
	Border   string          `json:"border"`
	Height   float64         `json:"height"`
	Tag      string          `json:"tag"`
	Legend   bool            `json:"legend,omitempty"` // first row carrying its tag
	ExonIx   int             `json:"exon_ix"`
	Depth    float64         `json:"depth,omitempty"`
	Tooltip  string          `json:"tooltip"`
}

// Gene groups the rows sharing an id within one dataset and chromosome.
type Gene struct {
	ID         string `json:"id"`
	Dataset    int    `json:"dataset"`
	Chromosome string `json:"chromosome"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	OriStart   int    `json:"ori_start"`
	OriEnd     int    `json:"ori_end"`
	Strand     string `json:"strand,omitempty"`
	Color      string `json:"color"`
	Tag        string `json:"tag"`
	Row        int    `json:"row"` // panel row, 0 at the bottom
	Tooltip    string `json:"tooltip"`
	Label      string `json:"label,omitempty"`
	Rows       []int  `json:"rows"` // indices into Frame.Rows in draw order
}

// Chrom is the metadata of one chromosome panel.
type Chrom struct {
	Name       string        `json:"name"`
	Min        int           `json:"min"` // data extent, display coordinates
	Max        int           `json:"max"`
	Lo         int           `json:"lo"` // plotted limits, display coordinates
	Hi         int           `json:"hi"`
	Datasets   []int         `json:"datasets"`
	Bands      []layout.Band `json:"bands"` // aligned with Datasets
	Separators []int         `json:"separators,omitempty"`
	Rows       int           `json:"rows"`
	YHeight    float64       `json:"y_height"`
	TextPad    float64       `json:"text_pad"`
	Shrink     *shrink.Map   `json:"shrink,omitempty"`
	Genes      []int         `json:"genes"`
}

// Band returns the band of dataset ds, if present on this chromosome.
func (c *Chrom) Band(ds int) (layout.Band, bool) {
	for i, d := range c.Datasets {
		if d == ds {
			return c.Bands[i], true
		}
	}
	return layout.Band{}, false
}

// LegendEntry is one color tag.
type LegendEntry struct {
	Tag   string `json:"tag"`
	Color string `json:"color"`
}

// DatasetCount records how many genes a dataset had and how many are shown.
type DatasetCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Shown int    `json:"shown"`
}

// Frame is the prepared, plot-ready data.
type Frame struct {
	Rows     []Row          `json:"rows"`
	Genes    []Gene         `json:"genes"`
	Chroms   []Chrom        `json:"chroms"`
	Legend   []LegendEntry  `json:"legend"`
	Counts   []DatasetCount `json:"counts"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

// Chrom looks up a chromosome by name.
func (f *Frame) Chrom(name string) (*Chrom, bool) {
	for i := range f.Chroms {
		if f.Chroms[i].Name == name {
			return &f.Chroms[i], true
		}
	}
	return nil, false
}

func (f *Frame) warn(kind WarningKind, msg string) {
	for _, w := range f.Warnings {
		if w.Kind == kind {
			return
		}
	}
	f.Warnings = append(f.Warnings, Warning{Kind: kind, Message: msg})
}
