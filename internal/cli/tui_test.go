package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rangeplot/pkg/ranges"
)

func chromDatasets() []*ranges.Dataset {
	a := &ranges.Dataset{Name: "a"}
	a.Add(ranges.Interval{Chromosome: "chr10", Start: 5, End: 50})
	a.Add(ranges.Interval{Chromosome: "chr2", Start: 100, End: 200})
	a.Add(ranges.Interval{Chromosome: "chr2", Start: 10, End: 20})
	b := &ranges.Dataset{Name: "b"}
	b.Add(ranges.Interval{Chromosome: "chr2", Start: 300, End: 400})
	return []*ranges.Dataset{a, b}
}

func TestSummarizeChromosomes(t *testing.T) {
	got := summarizeChromosomes(chromDatasets())
	want := []ChromSummary{
		{Name: "chr2", Intervals: 3, Start: 10, End: 400, Datasets: 2},
		{Name: "chr10", Intervals: 1, Start: 5, End: 50, Datasets: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summarizeChromosomes mismatch (-want +got):\n%s", diff)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ChromListModel, keys ...string) ChromListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ChromListModel)
	}
	return m
}

func TestChromListModelSelection(t *testing.T) {
	chroms := []ChromSummary{{Name: "1"}, {Name: "2"}, {Name: "3"}}

	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"enter picks cursor", []string{"down", "enter"}, []string{"2"}},
		{"toggle two", []string{"x", "down", "down", "x", "enter"}, []string{"1", "3"}},
		{"toggle twice clears", []string{"x", "x", "down", "enter"}, []string{"2"}},
		{"select all", []string{"a", "enter"}, []string{"1", "2", "3"}},
		{"all then none", []string{"a", "a", "enter"}, []string{"1"}},
		{"quit selects nothing", []string{"x", "esc"}, nil},
		{"cursor stays in range", []string{"up", "down", "down", "down", "down", "enter"}, []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewChromListModel(chroms), tt.keys...)
			if diff := cmp.Diff(tt.want, m.Selected()); diff != "" {
				t.Errorf("Selected() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChromListModelScrolls(t *testing.T) {
	chroms := make([]ChromSummary, 20)
	for i := range chroms {
		chroms[i] = ChromSummary{Name: string(rune('a' + i))}
	}
	m := NewChromListModel(chroms)
	next, _ := m.Update(tea.WindowSizeMsg{Height: 10})
	m = next.(ChromListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	for range 7 {
		m = press(m, "down")
	}
	if m.Offset != 3 {
		t.Errorf("Offset = %d, want 3", m.Offset)
	}
}

func TestChromListModelView(t *testing.T) {
	m := press(NewChromListModel(summarizeChromosomes(chromDatasets())), "x")
	view := m.View()
	for _, want := range []string{"Select Chromosomes", "chr2", "chr10", "[x]", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
