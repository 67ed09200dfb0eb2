package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lockparse/pkg/lockfile"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PackageListModel - Interactive package browser
// =============================================================================

// PackageListModel is the bubbletea model for browsing a parsed document.
// Enter opens the detail view of the package under the cursor; esc returns
// to the list.
type PackageListModel struct {
	Doc    *lockfile.Document
	Keys   []string
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewPackageListModel creates a package list model over doc's sorted keys.
func NewPackageListModel(doc *lockfile.Document) PackageListModel {
	return PackageListModel{
		Doc:    doc,
		Keys:   doc.Keys(),
		Height: 15,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "backspace", "enter":
				m.Detail = false
			}
			return m, nil
		}

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
			if m.Cursor < len(m.Keys)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Keys); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter":
			if len(m.Keys) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PackageListModel) View() string {
	if m.Detail && m.Cursor < len(m.Keys) {
		return m.detailView(m.Keys[m.Cursor])
	}

	var b strings.Builder

	title := fmt.Sprintf("%s lock file %s", m.Doc.Ecosystem, m.Doc.EcosystemVersion)
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Keys))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		key := m.Keys[i]
		p := m.Doc.Packages[key]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, displayKey(key), orDash(p.Version), fmt.Sprint(p.DependencySets.Len())})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Keys)), len(m.Keys))))

	return b.String()
}

func (m PackageListModel) detailView(key string) string {
	p := m.Doc.Packages[key]
	var b strings.Builder

	b.WriteString(StyleTitle.Render(displayKey(key)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	field := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	for _, kv := range [][2]string{
		{"version", p.Version},
		{"resolved", p.Resolved},
		{"integrity", p.Integrity},
	} {
		b.WriteString(field.Render(kv[0]) + " " + StyleValue.Render(orDash(kv[1])) + "\n")
	}

	for _, k := range lockfile.Kinds() {
		set := p.Set(k)
		if len(set) == 0 {
			continue
		}
		b.WriteString("\n" + StyleHighlight.Render(fmt.Sprintf("%s (%d)", k, len(set))) + "\n")
		for _, name := range sortedKeys(set) {
			b.WriteString("  " + listNormalStyle.Render(name) + " " + listDimStyle.Render(set[name]) + "\n")
		}
	}

	if len(p.Flags) > 0 {
		b.WriteString("\n" + StyleHighlight.Render("flags") + "\n")
		for _, name := range sortedKeys(p.Flags) {
			b.WriteString("  " + listNormalStyle.Render(name) + " " + listDimStyle.Render(fmt.Sprint(p.Flags[name])) + "\n")
		}
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// displayKey names the npm root entry, whose key is empty.
func displayKey(key string) string {
	if key == "" {
		return "(root)"
	}
	return key
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
