package ranges

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteTSV writes ds as a tab-separated table readable by [ReadTSV].
// Strand and Feature are written only when some row sets them. Missing
// attribute values are written as empty fields.
func WriteTSV(w io.Writer, ds *Dataset) error {
	cols := []string{ColChromosome, ColStart, ColEnd}
	for _, c := range []string{ColStrand, ColFeature} {
		if ds.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	cols = append(cols, ds.Columns...)

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(cols); err != nil {
		return err
	}
	rec := make([]string, len(cols))
	for _, iv := range ds.Intervals {
		for i, c := range cols {
			switch c {
			case ColStart:
				rec[i] = strconv.Itoa(iv.Start)
			case ColEnd:
				rec[i] = strconv.Itoa(iv.End)
			default:
				rec[i], _ = iv.Get(c)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
