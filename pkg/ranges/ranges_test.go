package ranges

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

func TestIntervalGet(t *testing.T) {
	iv := Interval{
		Chromosome: "chr1", Start: 10, End: 25, Strand: "-",
		Attrs: map[string]string{"transcript_id": "t2"},
	}

	tests := []struct {
		col    string
		want   string
		wantOK bool
	}{
		{ColChromosome, "chr1", true},
		{ColStart, "10", true},
		{ColEnd, "25", true},
		{ColStrand, "-", true},
		{ColFeature, "", false},
		{"transcript_id", "t2", true},
		{"gene_id", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			got, ok := iv.Get(tt.col)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q) = (%q, %v), want (%q, %v)", tt.col, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if iv.Len() != 15 {
		t.Errorf("Len() = %d, want 15", iv.Len())
	}
}

func TestIntervalSet(t *testing.T) {
	var iv Interval
	if err := iv.Set(ColStart, "abc"); err == nil {
		t.Error("non-numeric Start should fail")
	}
	for col, v := range map[string]string{ColStart: "5", ColEnd: "9", ColStrand: "+", "gene": "g"} {
		if err := iv.Set(col, v); err != nil {
			t.Fatalf("Set(%s): %v", col, err)
		}
	}
	want := Interval{Start: 5, End: 9, Strand: "+", Attrs: map[string]string{"gene": "g"}}
	if diff := cmp.Diff(want, iv); diff != "" {
		t.Errorf("Set mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetColumns(t *testing.T) {
	p1 := Example1()
	if !p1.HasColumn("transcript_id") || !p1.HasColumn(ColStrand) {
		t.Error("p1 should have transcript_id and Strand")
	}
	if p1.HasColumn(ColFeature) {
		t.Error("p1 has no Feature values")
	}
	if !Example2().HasColumn(ColFeature) {
		t.Error("p2 should have Feature")
	}
	if diff := cmp.Diff([]string{"transcript_id", "feature1", "feature2"}, p1.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}

	p1.DropColumn("feature1")
	if p1.HasColumn("feature1") {
		t.Error("DropColumn should remove the column")
	}
	if _, ok := p1.Intervals[0].Get("feature1"); ok {
		t.Error("DropColumn should clear row values")
	}
}

func TestDatasetChromosomesAndFilter(t *testing.T) {
	p2 := Example2()
	if diff := cmp.Diff([]string{"1", "2", "3", "4"}, p2.Chromosomes()); diff != "" {
		t.Errorf("Chromosomes mismatch (-want +got):\n%s", diff)
	}

	chr4 := p2.Filter(func(iv Interval) bool { return iv.Chromosome == "4" })
	if chr4.Len() != 6 {
		t.Errorf("chr4 rows = %d, want 6", chr4.Len())
	}
	if p2.Len() != 14 {
		t.Errorf("Filter should not modify the source, len = %d", p2.Len())
	}
}

func TestDatasetClone(t *testing.T) {
	p1 := Example1()
	c := p1.Clone()
	c.Intervals[0].Attrs["transcript_id"] = "changed"
	if p1.Intervals[0].Attrs["transcript_id"] != "t1" {
		t.Error("Clone should deep-copy attributes")
	}
}

func TestReadTSV(t *testing.T) {
	in := "Chromosome\tStart\tEnd\tStrand\ttranscript_id\n" +
		"# comment\n" +
		"1\t1\t11\t+\tt1\n" +
		"1\t40\t60\t+\t\n"

	ds, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	want := []Interval{
		{Chromosome: "1", Start: 1, End: 11, Strand: "+", Attrs: map[string]string{"transcript_id": "t1"}},
		{Chromosome: "1", Start: 40, End: 60, Strand: "+"},
	}
	if diff := cmp.Diff(want, ds.Intervals); diff != "" {
		t.Errorf("intervals mismatch (-want +got):\n%s", diff)
	}
	if !ds.HasColumn("transcript_id") {
		t.Error("header columns should be registered")
	}
}

func TestReadTSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"missing End", "Chromosome\tStart\n1\t2\n", errors.ErrCodeInvalidColumn},
		{"bad Start", "Chromosome\tStart\tEnd\n1\tx\t5\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTSV(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadTSV error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadGFF(t *testing.T) {
	in := "##gff-version 2\n" +
		"chr1\ttest\texon\t11\t20\t.\t+\t.\tgene_id \"g1\"; transcript_id \"t1\"\n" +
		"chr1\ttest\texon\t51\t90\t.\t-\t.\tgene_id \"g2\"; transcript_id \"t2\"\n"

	ds, err := ReadGFF(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadGFF: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("got %d features, want 2", ds.Len())
	}
	first := ds.Intervals[0]
	if first.Chromosome != "chr1" || first.Start != 10 || first.End != 20 {
		t.Errorf("first = %+v, want chr1:10-20", first)
	}
	if first.Strand != "+" || ds.Intervals[1].Strand != "-" {
		t.Errorf("strands = %q, %q", first.Strand, ds.Intervals[1].Strand)
	}
	if first.Feature != "exon" {
		t.Errorf("Feature = %q, want exon", first.Feature)
	}
	if v, _ := first.Get("transcript_id"); v != "t1" {
		t.Errorf("transcript_id = %q, want t1", v)
	}
}

func TestSplitAttribute(t *testing.T) {
	tests := []struct {
		tag, value string
		wantK      string
		wantV      string
	}{
		{"gene_id", `"g1"`, "gene_id", "g1"},
		{"ID=gene1", "", "ID", "gene1"},
		{"Note=two", "words", "Note", "two words"},
	}
	for _, tt := range tests {
		k, v := splitAttribute(tt.tag, tt.value)
		if k != tt.wantK || v != tt.wantV {
			t.Errorf("splitAttribute(%q, %q) = (%q, %q), want (%q, %q)", tt.tag, tt.value, k, v, tt.wantK, tt.wantV)
		}
	}
}

func TestReadBED(t *testing.T) {
	in := "track name=test\n" +
		"chr2\t100\t200\tgeneA\t5\t+\textra\n" +
		"chr2\t300\t350\tgeneB\t0\t-\textra\n"

	ds, err := ReadBED(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadBED: %v", err)
	}
	want := []Interval{
		{Chromosome: "chr2", Start: 100, End: 200, Strand: "+", Attrs: map[string]string{"Name": "geneA", "Score": "5"}},
		{Chromosome: "chr2", Start: 300, End: 350, Strand: "-", Attrs: map[string]string{"Name": "geneB", "Score": "0"}},
	}
	if diff := cmp.Diff(want, ds.Intervals); diff != "" {
		t.Errorf("intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestReadBEDTooFewColumns(t *testing.T) {
	if _, err := ReadBED(strings.NewReader("chr1\t5\n")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genes.tsv")
	if err := os.WriteFile(path, []byte("Chromosome\tStart\tEnd\n1\t0\t10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if ds.Name != "genes" || ds.Len() != 1 {
		t.Errorf("ReadFile = %q with %d rows", ds.Name, ds.Len())
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.bed")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := ReadFile(filepath.Join(dir, "x.xlsx")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension: got %v", err)
	}
}

func TestRegisterReader(t *testing.T) {
	called := false
	RegisterReader(".FAKE", func(io.Reader) (*Dataset, error) {
		called = true
		return &Dataset{}, nil
	})
	path := filepath.Join(t.TempDir(), "in.fake")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !called {
		t.Error("registered reader was not used")
	}
}

func TestWriteTSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteTSV(&sb, Example2()); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	header, _, _ := strings.Cut(sb.String(), "\n")
	if header != "Chromosome\tStart\tEnd\tStrand\tFeature\ttranscript_id\tfeature1\tfeature2" {
		t.Errorf("header = %q", header)
	}

	back, err := ReadTSV(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	if diff := cmp.Diff(Example2().Intervals, back.Intervals); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	sb.Reset()
	if err := WriteTSV(&sb, Example3()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sb.String(), "Feature") {
		t.Error("Feature column written although no row sets it")
	}
}
