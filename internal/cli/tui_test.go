package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lockparse/pkg/locate"
	"github.com/matzehuels/lockparse/pkg/lockfile"
)

func loadFixture(t *testing.T, dir string) *lockfile.Document {
	t.Helper()
	doc, _, err := locate.Parse(fixtures + "/" + dir)
	if err != nil {
		t.Fatalf("locate.Parse(%s): %v", dir, err)
	}
	return doc
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPackageListNavigation(t *testing.T) {
	doc := loadFixture(t, "npm")
	m := NewPackageListModel(doc)

	if len(m.Keys) != doc.Len() || m.Keys[0] != "" {
		t.Fatalf("Keys = %q", m.Keys)
	}

	got := press(m, "down", "down", "j", "up").(PackageListModel)
	if got.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", got.Cursor)
	}

	got = press(m, "up").(PackageListModel)
	if got.Cursor != 0 {
		t.Errorf("Cursor moved above the first row: %d", got.Cursor)
	}

	got = press(m, "G").(PackageListModel)
	if got.Cursor != len(m.Keys)-1 {
		t.Errorf("G: Cursor = %d, want %d", got.Cursor, len(m.Keys)-1)
	}
	got = press(got, "down").(PackageListModel)
	if got.Cursor != len(m.Keys)-1 {
		t.Errorf("Cursor moved past the last row: %d", got.Cursor)
	}
}

func TestPackageListScrolls(t *testing.T) {
	doc := loadFixture(t, "yarn-v1")
	m := NewPackageListModel(doc)
	m.Height = 3

	got := press(m, "down", "down", "down", "down").(PackageListModel)
	if got.Cursor != 4 || got.Offset != 2 {
		t.Errorf("Cursor, Offset = %d, %d, want 4, 2", got.Cursor, got.Offset)
	}
	got = press(got, "g").(PackageListModel)
	if got.Cursor != 0 || got.Offset != 0 {
		t.Errorf("after g: Cursor, Offset = %d, %d", got.Cursor, got.Offset)
	}

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if h := sized.(PackageListModel).Height; h != 5 {
		t.Errorf("Height = %d, want minimum 5", h)
	}
}

func TestPackageListDetail(t *testing.T) {
	doc := loadFixture(t, "npm")
	m := NewPackageListModel(doc)

	list := m.View()
	if !strings.Contains(list, "(root)") || !strings.Contains(list, "node_modules/lodash") {
		t.Errorf("list view:\n%s", list)
	}

	// Row 1 is node_modules/body-parser.
	got := press(m, "down", "enter").(PackageListModel)
	if !got.Detail {
		t.Fatal("enter should open the detail view")
	}
	view := got.View()
	for _, want := range []string{"node_modules/body-parser", "1.20.2", "dependencies (2)", "bytes", "engines"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	back := press(got, "esc").(PackageListModel)
	if back.Detail || back.Cursor != 1 {
		t.Errorf("esc should return to the list at the same row: %+v", back.Detail)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}
