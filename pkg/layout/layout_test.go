package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangeplot/pkg/errors"
)

func TestPacked(t *testing.T) {
	tests := []struct {
		name     string
		genes    []Span
		wantRows []int
		wantN    int
	}{
		{"empty", nil, []int{}, 0},
		{"disjoint share a row", []Span{{0, 10}, {20, 30}, {40, 50}}, []int{0, 0, 0}, 1},
		{"touching share a row", []Span{{0, 10}, {10, 20}}, []int{0, 0}, 1},
		{
			"overlaps stack",
			[]Span{{0, 100}, {10, 20}, {15, 40}, {50, 60}, {120, 130}},
			[]int{0, 1, 2, 1, 0},
			3,
		},
		{"zero length", []Span{{5, 5}, {5, 5}}, []int{0, 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, n, err := Packed(tt.genes)
			if err != nil {
				t.Fatalf("Packed() error: %v", err)
			}
			if diff := cmp.Diff(tt.wantRows, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if n != tt.wantN {
				t.Errorf("n = %d, want %d", n, tt.wantN)
			}
		})
	}
}

func TestPackedRejectsBadSpans(t *testing.T) {
	tests := []struct {
		name  string
		genes []Span
		code  errors.Code
	}{
		{"end before start", []Span{{0, 10}, {30, 20}}, errors.ErrCodeInvalidInput},
		{"inverted after a valid row", []Span{{0, 10}, {20, 30}, {12, 11}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, _, err := Packed(tt.genes)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if rows != nil {
				t.Errorf("rows = %v, want nil", rows)
			}
		})
	}
	if _, _, err := Assign([]Span{{30, 20}}, true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Assign error = %v, want INVALID_INPUT", err)
	}
}

func TestUnpacked(t *testing.T) {
	rows, n := Unpacked([]Span{{0, 10}, {20, 30}, {0, 5}})
	if diff := cmp.Diff([]int{0, 1, 2}, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}

func TestAssign(t *testing.T) {
	genes := []Span{{0, 10}, {20, 30}}
	if _, n, err := Assign(genes, true); err != nil || n != 1 {
		t.Errorf("packed rows = %d (err %v), want 1", n, err)
	}
	if _, n, err := Assign(genes, false); err != nil || n != 2 {
		t.Errorf("unpacked rows = %d, want 2", n)
	}
}

func TestStack(t *testing.T) {
	tests := []struct {
		name string
		rows []int
		want Stacked
	}{
		{"none", nil, Stacked{Bands: []Band{}}},
		{"single", []int{3}, Stacked{Bands: []Band{{0, 3}}, Total: 3}},
		{
			"two datasets",
			[]int{2, 3},
			Stacked{Bands: []Band{{4, 2}, {0, 3}}, Separators: []int{3}, Total: 6},
		},
		{
			"three datasets",
			[]int{1, 2, 1},
			Stacked{Bands: []Band{{5, 1}, {2, 2}, {0, 1}}, Separators: []int{4, 1}, Total: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Stack(tt.rows)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Stack mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBandCenter(t *testing.T) {
	if got := (Band{Offset: 4, Rows: 2}).Center(); got != 5 {
		t.Errorf("Center = %g, want 5", got)
	}
}
