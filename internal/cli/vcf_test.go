package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	100	rs1	A	G	50	PASS	DP=10;AF=0.5
1	250	rs2	C	T	.	PASS	DP=3;AF=0.1
`

func TestVCFSplitCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "calls.vcf")
	if err := os.WriteFile(in, []byte(sampleVCF), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "vcf", "split", in)
	if err != nil {
		t.Fatalf("vcf split: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and 2 rows:\n%s", len(lines), out)
	}
	header := strings.Split(lines[0], "\t")
	for _, want := range []string{"Chromosome", "Start", "End", "DP", "AF"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("header %v missing %q", header, want)
		}
	}
	if strings.Contains(lines[0], "INFO") {
		t.Errorf("header %v should not keep INFO", header)
	}
}

func TestVCFSplitCommandToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "calls.vcf")
	if err := os.WriteFile(in, []byte(sampleVCF), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "calls.tsv")
	if _, err := runCLI(t, "vcf", "split", in, "--keep", "-o", outPath); err != nil {
		t.Fatalf("vcf split: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "INFO") || !strings.Contains(string(data), "DP") {
		t.Errorf("output missing INFO or DP:\n%s", data)
	}
}

func TestCacheCommands(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}
