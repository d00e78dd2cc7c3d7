package vcf

import (
	"fmt"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
)

// SplitOptions configures [SplitFields].
type SplitOptions struct {
	FieldSep string   // separator between fields, ";" for INFO
	NameSep  string   // optional key/value separator inside a field, "=" for INFO
	ColNames []string // optional names for the produced columns, in order
	KeepCol  bool     // keep the split column
}

// SplitFields splits each target column into new columns and returns a copy
// of ds. With a NameSep, a "key=value" field becomes column key; fields
// without the separator, and every field when NameSep is empty, become
// <col>_<index>. ColNames, when given, must match the number of produced
// columns and renames them in first-seen order.
func SplitFields(ds *ranges.Dataset, targets []string, o SplitOptions) (*ranges.Dataset, error) {
	if o.FieldSep == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "field separator cannot be empty")
	}
	out := ds.Clone()
	for _, target := range targets {
		if !out.HasColumn(target) {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "target column %q is not present in the data", target)
		}

		var order []string
		seen := make(map[string]bool)
		values := make([]map[string]string, len(out.Intervals))
		for i, iv := range out.Intervals {
			v, ok := iv.Get(target)
			if !ok || v == "" {
				continue
			}
			values[i] = make(map[string]string)
			for idx, field := range strings.Split(v, o.FieldSep) {
				name, val := fmt.Sprintf("%s_%d", target, idx), field
				if o.NameSep != "" {
					if k, kv, ok := strings.Cut(field, o.NameSep); ok {
						name, val = k, kv
					}
				}
				if !seen[name] {
					seen[name] = true
					order = append(order, name)
				}
				values[i][name] = val
			}
		}

		rename := make(map[string]string, len(order))
		for i, name := range order {
			rename[name] = name
			if len(o.ColNames) > 0 {
				if len(o.ColNames) != len(order) {
					return nil, errors.New(errors.ErrCodeInvalidInput,
						"got %d column names for %d columns produced from %s", len(o.ColNames), len(order), target)
				}
				rename[name] = o.ColNames[i]
			}
		}

		if !o.KeepCol {
			out.DropColumn(target)
		}
		for _, name := range order {
			col := rename[name]
			out.AddColumn(col)
			for i := range out.Intervals {
				v, ok := values[i][name]
				if !ok {
					continue
				}
				if err := out.Intervals[i].Set(col, v); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "column %s row %d", col, i)
				}
			}
		}
	}
	return out, nil
}
