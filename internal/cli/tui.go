package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/rangeplot/pkg/prep"
	"github.com/matzehuels/rangeplot/pkg/ranges"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ChromListModel - Interactive chromosome selection
// =============================================================================

// ChromSummary describes one chromosome across all input datasets.
type ChromSummary struct {
	Name      string
	Intervals int
	Start     int
	End       int
	Datasets  int
}

// summarizeChromosomes counts intervals and extents per chromosome, in
// natural chromosome order.
func summarizeChromosomes(datasets []*ranges.Dataset) []ChromSummary {
	byName := make(map[string]*ChromSummary)
	for _, ds := range datasets {
		seen := make(map[string]bool)
		for _, iv := range ds.Intervals {
			s, ok := byName[iv.Chromosome]
			if !ok {
				s = &ChromSummary{Name: iv.Chromosome, Start: iv.Start, End: iv.End}
				byName[iv.Chromosome] = s
			}
			s.Intervals++
			s.Start = min(s.Start, iv.Start)
			s.End = max(s.End, iv.End)
			if !seen[iv.Chromosome] {
				seen[iv.Chromosome] = true
				s.Datasets++
			}
		}
	}
	out := make([]ChromSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return prep.NaturalLess(out[i].Name, out[j].Name) })
	return out
}

// ChromListModel is the bubbletea model for picking chromosomes to plot.
type ChromListModel struct {
	Chroms  []ChromSummary
	Cursor  int
	Checked map[int]bool
	Done    bool
	Height  int
	Offset  int
}

// NewChromListModel creates a new chromosome list model.
func NewChromListModel(chroms []ChromSummary) ChromListModel {
	return ChromListModel{
		Chroms:  chroms,
		Checked: make(map[int]bool),
		Height:  15,
	}
}

// Selected returns the checked chromosome names in list order. With nothing
// checked after confirming, the chromosome under the cursor is selected.
func (m ChromListModel) Selected() []string {
	if !m.Done {
		return nil
	}
	var out []string
	for i, c := range m.Chroms {
		if m.Checked[i] {
			out = append(out, c.Name)
		}
	}
	if len(out) == 0 && len(m.Chroms) > 0 {
		out = []string{m.Chroms[m.Cursor].Name}
	}
	return out
}

func (m ChromListModel) Init() tea.Cmd {
	return nil
}

func (m ChromListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Chroms)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.Checked) > 0
			for i := range m.Chroms {
				all = all && m.Checked[i]
			}
			for i := range m.Chroms {
				m.Checked[i] = !all
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ChromListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Chromosomes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ plot  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Chroms))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Chroms[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}
		rows = append(rows, []string{
			cursor + check,
			c.Name,
			fmt.Sprintf("%d", c.Intervals),
			fmt.Sprintf("%d-%d", c.Start, c.End),
			fmt.Sprintf("%d", c.Datasets),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Chromosome", "Intervals", "Extent", "Datasets").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Checked[idx]:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col >= 2:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Chroms), m.checkedCount())))

	return b.String()
}

func (m ChromListModel) checkedCount() int {
	n := 0
	for _, v := range m.Checked {
		if v {
			n++
		}
	}
	return n
}

// pickChromosomes runs the picker and returns the chosen chromosomes, or nil
// when the user quits.
func pickChromosomes(datasets []*ranges.Dataset) ([]string, error) {
	chroms := summarizeChromosomes(datasets)
	if len(chroms) == 0 {
		return nil, nil
	}
	final, err := tea.NewProgram(NewChromListModel(chroms)).Run()
	if err != nil {
		return nil, err
	}
	return final.(ChromListModel).Selected(), nil
}
