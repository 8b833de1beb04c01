package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/doctester/internal/page"
	"github.com/artpar/doctester/internal/testserver"
	"github.com/artpar/doctester/internal/tester"
)

type fakeNav struct {
	expanded, visible string
}

func (f *fakeNav) Expanded() string { return f.expanded }
func (f *fakeNav) Visible() string  { return f.visible }

func loadPage(t *testing.T) *page.Page {
	t.Helper()
	p, err := page.Load(strings.NewReader(testserver.DocsPage), "http://localhost/docs/")
	require.NoError(t, err)
	return p
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGroupTree_Rows(t *testing.T) {
	p := loadPage(t)
	state := &fakeNav{}
	tree := NewGroupTree(p.Groups(), state)

	assert.Len(t, tree.rows(), 3)

	state.expanded = "users"
	rows := tree.rows()
	require.Len(t, rows, 6)
	assert.Equal(t, "users", rows[0].group)
	assert.Nil(t, rows[0].method)
	assert.Equal(t, "users_methods_get", rows[1].method.PanelID)
	assert.Equal(t, "feed", rows[4].group)
}

func TestGroupTree_Select(t *testing.T) {
	p := loadPage(t)
	state := &fakeNav{}
	tree := NewGroupTree(p.Groups(), state)
	tree.Focus()

	t.Run("enter on group expands it", func(t *testing.T) {
		_, cmd := tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Equal(t, ExpandGroupMsg{Key: "users"}, cmd())
	})

	t.Run("enter on method shows its panel", func(t *testing.T) {
		state.expanded = "users"
		tree.Update(keyRunes("j"))
		tree.Update(keyRunes("j"))
		_, cmd := tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Equal(t, ShowPanelMsg{PanelID: "users_methods_post"}, cmd())
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			tree.Update(keyRunes("k"))
		}
		assert.Equal(t, 0, tree.Cursor())
		for i := 0; i < 20; i++ {
			tree.Update(keyRunes("j"))
		}
		assert.Equal(t, len(tree.rows())-1, tree.Cursor())
	})

	t.Run("ignores keys when blurred", func(t *testing.T) {
		tree.Blur()
		_, cmd := tree.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})
}

func TestGroupTree_SyncAndView(t *testing.T) {
	p := loadPage(t)
	state := &fakeNav{expanded: "users", visible: "users_methods_put"}
	tree := NewGroupTree(p.Groups(), state)
	tree.SetSize(50, 20)

	tree.Sync()
	assert.Equal(t, 3, tree.Cursor())

	view := tree.View()
	assert.Contains(t, view, "▾ users")
	assert.Contains(t, view, "▸ feed")
	assert.Contains(t, view, "● PUT")
}

func TestMethodPanel(t *testing.T) {
	p := loadPage(t)
	panel := NewMethodPanel(p.Doc)
	panel.SetSize(80, 30)

	assert.Contains(t, panel.render(), "Select a method")

	m, ok := p.MethodByPanel("users_methods_get")
	require.True(t, ok)
	panel.SetMethod(m)

	out := panel.render()
	assert.Contains(t, out, "GET /api/users")
	assert.Contains(t, out, "limit = 10")
	assert.NotContains(t, out, "Result:")
	assert.Empty(t, panel.ResponseBody())

	tester.Render(p.Doc, tester.Result{Handler: "users", Method: "GET", Body: `{"ok":true}`})
	panel.Refresh()

	out = panel.render()
	assert.Contains(t, out, "[Hide X]")
	assert.Contains(t, out, "Result:")
	assert.Contains(t, out, "JSON")
	assert.Equal(t, `{"ok":true}`, panel.ResponseBody())

	require.True(t, p.Doc.Click(tester.ControlID("users", "GET")))
	assert.Empty(t, panel.ResponseBody())
}

func TestMethodPanel_Running(t *testing.T) {
	p := loadPage(t)
	panel := NewMethodPanel(p.Doc)
	m, _ := p.MethodByPanel("feed_methods_get")
	panel.SetMethod(m)

	panel.SetRunning(true)
	assert.Contains(t, panel.render(), "Running test...")
	panel.SetRunning(false)
	assert.NotContains(t, panel.render(), "Running test...")

	panel.Clear()
	_, selected := panel.Method()
	assert.False(t, selected)
}

func TestDetectBodyFormat(t *testing.T) {
	tests := []struct {
		body string
		want BodyFormat
	}{
		{`{"ok":true}`, FormatJSON},
		{"  [1,2]", FormatJSON},
		{"&lt;feed&gt;&lt;/feed&gt;", FormatMarkup},
		{"<html></html>", FormatMarkup},
		{"plain", FormatText},
		{"", FormatText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectBodyFormat(tt.body), tt.body)
	}
}
