package ranges

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/bed"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

// ReaderFunc parses one input stream into a dataset.
type ReaderFunc func(io.Reader) (*Dataset, error)

var (
	readersMu sync.RWMutex
	readers   = map[string]ReaderFunc{
		".gff":  ReadGFF,
		".gff3": ReadGFF,
		".gtf":  ReadGFF,
		".bed":  ReadBED,
		".tsv":  ReadTSV,
		".txt":  ReadTSV,
	}
)

// RegisterReader adds a reader for a file extension (with leading dot).
// Packages providing other formats call it from init.
func RegisterReader(ext string, fn ReaderFunc) {
	readersMu.Lock()
	defer readersMu.Unlock()
	readers[strings.ToLower(ext)] = fn
}

// Extensions returns the registered file extensions.
func Extensions() []string {
	readersMu.RLock()
	defer readersMu.RUnlock()
	out := make([]string, 0, len(readers))
	for ext := range readers {
		out = append(out, ext)
	}
	return out
}

// ReadFile opens path and parses it with the reader registered for its
// extension. The dataset is named after the file.
func ReadFile(path string) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	readersMu.RLock()
	fn, ok := readers[ext]
	readersMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input extension %q", ext)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := fn(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ds, nil
}

// =============================================================================
// GFF
// =============================================================================

// ReadGFF parses GFF2/GFF3 (and GTF) features. Attributes become columns;
// both "tag value" and "tag=value" forms are accepted. ## directives are
// skipped.
func ReadGFF(r io.Reader) (*Dataset, error) {
	body, err := stripDirectives(r)
	if err != nil {
		return nil, err
	}

	sc := featio.NewScanner(gff.NewReader(body))
	ds := &Dataset{}
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}
		iv := Interval{
			Chromosome: f.SeqName,
			Start:      f.FeatStart,
			End:        f.FeatEnd,
			Strand:     strandString(f.FeatStrand),
			Feature:    f.Feature,
		}
		for _, a := range f.FeatAttributes {
			tag, value := splitAttribute(a.Tag, a.Value)
			if tag == "" {
				continue
			}
			_ = iv.Set(tag, value)
		}
		ds.Add(iv)
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse gff")
	}
	return ds, nil
}

// splitAttribute turns a GFF3 "key=value" pair that the GFF2 tokenizer read
// as a tag into a proper key and value.
func splitAttribute(tag, value string) (string, string) {
	if k, v, ok := strings.Cut(tag, "="); ok {
		if value != "" {
			v += " " + value
		}
		return strings.TrimSpace(k), strings.TrimSpace(v)
	}
	return tag, strings.Trim(value, `"`)
}

func stripDirectives(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(line, []byte("##")) || len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return &buf, sc.Err()
}

func strandString(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	}
	return ""
}

// =============================================================================
// BED
// =============================================================================

// ReadBED parses BED3 to BED6. Columns past the sixth are ignored. The name
// and score columns become the Name and Score attributes.
func ReadBED(r io.Reader) (*Dataset, error) {
	var buf bytes.Buffer
	typ := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if typ == 0 {
			typ = min(len(fields), 6)
			if typ < 3 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "bed: need at least 3 columns, got %d", len(fields))
			}
		}
		if len(fields) > typ {
			fields = fields[:typ]
		}
		buf.WriteString(strings.Join(fields, "\t"))
		buf.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	ds := &Dataset{}
	if typ == 0 {
		return ds, nil
	}

	br, err := bed.NewReader(&buf, typ)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bed")
	}
	fs := featio.NewScanner(br)
	for fs.Next() {
		var iv Interval
		switch f := fs.Feat().(type) {
		case *bed.Bed3:
			iv = Interval{Chromosome: f.Chrom, Start: f.ChromStart, End: f.ChromEnd}
		case *bed.Bed4:
			iv = Interval{Chromosome: f.Chrom, Start: f.ChromStart, End: f.ChromEnd}
			_ = iv.Set("Name", f.FeatName)
		case *bed.Bed5:
			iv = Interval{Chromosome: f.Chrom, Start: f.ChromStart, End: f.ChromEnd}
			_ = iv.Set("Name", f.FeatName)
			_ = iv.Set("Score", fmt.Sprint(f.FeatScore))
		case *bed.Bed6:
			iv = Interval{Chromosome: f.Chrom, Start: f.ChromStart, End: f.ChromEnd, Strand: strandString(f.FeatStrand)}
			_ = iv.Set("Name", f.FeatName)
			_ = iv.Set("Score", fmt.Sprint(f.FeatScore))
		default:
			continue
		}
		ds.Add(iv)
	}
	if err := fs.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse bed")
	}
	return ds, nil
}

// =============================================================================
// TSV
// =============================================================================

// ReadTSV parses a tab-separated table with a header row. Chromosome, Start
// and End are required; every other header becomes a column. Empty cells are
// left unset.
func ReadTSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tsv header")
	}
	header = append([]string(nil), header...)

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	if err := errors.ValidateColumns(func(c string) bool { return present[c] }, ColChromosome, ColStart, ColEnd); err != nil {
		return nil, err
	}

	ds := &Dataset{}
	for _, h := range header {
		ds.addColumn(h)
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tsv line %d", line)
		}
		var iv Interval
		for i, h := range header {
			if rec[i] == "" {
				continue
			}
			if err := iv.Set(h, rec[i]); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tsv line %d: column %s", line, h)
			}
		}
		ds.Intervals = append(ds.Intervals, iv)
	}
	return ds, nil
}
