// Package ranges holds the genomic interval tables that rangeplot draws.
//
// A [Dataset] is a flat list of [Interval] rows plus the names of its
// attribute columns. Built-in columns (Chromosome, Start, End, Strand,
// Feature) are struct fields; everything else (transcript_id, gene_name,
// VCF INFO fields, ...) lives in Attrs and is addressed by name through
// [Interval.Get].
//
// Coordinates are 0-based and half-open, as in BED.
package ranges

import (
	"slices"
	"strconv"
)

// Built-in column names.
const (
	ColChromosome = "Chromosome"
	ColStart      = "Start"
	ColEnd        = "End"
	ColStrand     = "Strand"
	ColFeature    = "Feature"
)

// BuiltinColumns lists the columns that map onto Interval fields.
var BuiltinColumns = []string{ColChromosome, ColStart, ColEnd, ColStrand, ColFeature}

// Interval is one row of a dataset.
type Interval struct {
	Chromosome string            `json:"chromosome"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Strand     string            `json:"strand,omitempty"`
	Feature    string            `json:"feature,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

// Len returns End - Start.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Get resolves a column by name. Attribute columns that are absent from this
// row report ok == false.
func (iv Interval) Get(col string) (string, bool) {
	switch col {
	case ColChromosome:
		return iv.Chromosome, true
	case ColStart:
		return strconv.Itoa(iv.Start), true
	case ColEnd:
		return strconv.Itoa(iv.End), true
	case ColStrand:
		return iv.Strand, iv.Strand != ""
	case ColFeature:
		return iv.Feature, iv.Feature != ""
	}
	v, ok := iv.Attrs[col]
	return v, ok
}

// Set assigns a column value. Start and End are parsed as integers.
func (iv *Interval) Set(col, value string) error {
	switch col {
	case ColChromosome:
		iv.Chromosome = value
	case ColStart, ColEnd:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if col == ColStart {
			iv.Start = n
		} else {
			iv.End = n
		}
	case ColStrand:
		iv.Strand = value
	case ColFeature:
		iv.Feature = value
	default:
		if iv.Attrs == nil {
			iv.Attrs = make(map[string]string)
		}
		iv.Attrs[col] = value
	}
	return nil
}

// Dataset is a named interval table.
type Dataset struct {
	Name      string     `json:"name,omitempty"`
	Intervals []Interval `json:"intervals"`
	Columns   []string   `json:"columns,omitempty"` // attribute columns, first-seen order
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Intervals)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// HasColumn reports whether col can be read from this dataset.
// Chromosome, Start and End always exist; Strand and Feature exist when any
// row sets them.
func (d *Dataset) HasColumn(col string) bool {
	switch col {
	case ColChromosome, ColStart, ColEnd:
		return true
	case ColStrand:
		return slices.ContainsFunc(d.Intervals, func(iv Interval) bool { return iv.Strand != "" })
	case ColFeature:
		return slices.ContainsFunc(d.Intervals, func(iv Interval) bool { return iv.Feature != "" })
	}
	return slices.Contains(d.Columns, col)
}

// Add appends a row and records any new attribute columns.
func (d *Dataset) Add(iv Interval) {
	for k := range iv.Attrs {
		d.addColumn(k)
	}
	d.Intervals = append(d.Intervals, iv)
}

// AddColumn registers an attribute column without touching rows.
func (d *Dataset) AddColumn(col string) { d.addColumn(col) }

// DropColumn removes an attribute column from the dataset and every row.
func (d *Dataset) DropColumn(col string) {
	d.Columns = slices.DeleteFunc(d.Columns, func(c string) bool { return c == col })
	for i := range d.Intervals {
		delete(d.Intervals[i].Attrs, col)
	}
}

func (d *Dataset) addColumn(col string) {
	if !slices.Contains(d.Columns, col) && !slices.Contains(BuiltinColumns, col) {
		d.Columns = append(d.Columns, col)
	}
}

// Chromosomes returns the distinct chromosome names in first-seen order.
func (d *Dataset) Chromosomes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, iv := range d.Intervals {
		if !seen[iv.Chromosome] {
			seen[iv.Chromosome] = true
			out = append(out, iv.Chromosome)
		}
	}
	return out
}

// Filter returns a copy holding only the rows for which keep returns true.
func (d *Dataset) Filter(keep func(Interval) bool) *Dataset {
	out := &Dataset{Name: d.Name, Columns: slices.Clone(d.Columns)}
	for _, iv := range d.Intervals {
		if keep(iv) {
			out.Intervals = append(out.Intervals, iv)
		}
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Name: d.Name, Columns: slices.Clone(d.Columns)}
	out.Intervals = make([]Interval, len(d.Intervals))
	for i, iv := range d.Intervals {
		if iv.Attrs != nil {
			attrs := make(map[string]string, len(iv.Attrs))
			for k, v := range iv.Attrs {
				attrs[k] = v
			}
			iv.Attrs = attrs
		}
		out.Intervals[i] = iv
	}
	return out
}
