// Package vcf reads variant call files into interval datasets and provides
// the helpers used to plot them: INFO field splitting and aligned scatter
// tracks.
//
// Importing the package registers the ".vcf" extension with
// [ranges.ReadFile].
package vcf

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/ranges"
)

func init() {
	ranges.RegisterReader(".vcf", Read)
}

const maxLine = 16 << 20

// Read parses a VCF stream. Meta lines (##) are skipped and column names come
// from the #CHROM header. Each record becomes a one base interval starting at
// POS; every other column is kept as an attribute, except a "." QUAL, which is
// left unset.
func Read(r io.Reader) (*ranges.Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var header []string
	ds := &ranges.Dataset{}
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		switch {
		case text == "", strings.HasPrefix(text, "##"):
			continue
		case strings.HasPrefix(text, "#CHROM"):
			header = strings.Split(strings.TrimPrefix(text, "#"), "\t")
			if err := errors.ValidateColumns(func(c string) bool { return slices.Contains(header, c) }, "CHROM", "POS"); err != nil {
				return nil, err
			}
			for _, h := range header {
				if h != "CHROM" && h != "POS" {
					ds.AddColumn(h)
				}
			}
			continue
		case strings.HasPrefix(text, "#"):
			continue
		}
		if header == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "vcf line %d: record before the #CHROM header", line)
		}

		iv := ranges.Interval{Attrs: make(map[string]string, len(header))}
		for i, v := range strings.Split(text, "\t") {
			if i >= len(header) {
				break
			}
			switch h := header[i]; h {
			case "CHROM":
				iv.Chromosome = v
			case "POS":
				pos, err := strconv.Atoi(v)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "vcf line %d: POS %q", line, v)
				}
				iv.Start, iv.End = pos, pos+1
			case "QUAL":
				if v != "." {
					iv.Attrs[h] = v
				}
			default:
				iv.Attrs[h] = v
			}
		}
		ds.Add(iv)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read vcf")
	}
	return ds, nil
}
