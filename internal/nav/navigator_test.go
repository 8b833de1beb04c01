package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/doctester/internal/dom"
)

const page = `<html><body>
<div id="orders_methods" style="display:none">
  <div id="orders_methods_get" class="handlerdiv" style="display:none"></div>
</div>
<div id="users_methods" style="display:none">
  <div id="users_methods_get" class="handlerdiv" style="display:none"></div>
  <div id="users_methods_post" class="handlerdiv" style="display:none"></div>
  <div id="users_methods_users_methods_post" class="handlerdiv" style="display:none"></div>
</div>
<div id="empty_methods" style="display:none"></div>
</body></html>`

func newNavigator(t *testing.T, hash string) (*Navigator, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	return New(doc, NewLocation(hash)), doc
}

func visiblePanels(doc *dom.Document) []string {
	var ids []string
	for _, el := range doc.ByClass(PanelClass) {
		if doc.Visible(el.ID()) {
			ids = append(ids, el.ID())
		}
	}
	return ids
}

func expandedGroups(doc *dom.Document) []string {
	var ids []string
	for _, id := range []string{"orders_methods", "users_methods", "empty_methods"} {
		if doc.Visible(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestNavigator_ExpandGroup(t *testing.T) {
	t.Run("expands group and shows first panel", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ExpandGroup("users")

		assert.Equal(t, "users", n.Expanded())
		assert.Equal(t, "users_methods_get", n.Visible())
		assert.Equal(t, []string{"users_methods"}, expandedGroups(doc))
		assert.Equal(t, []string{"users_methods_get"}, visiblePanels(doc))
		assert.Equal(t, dom.AnimationSlideDown, doc.AnimationOf("users_methods").Kind)
		assert.Equal(t, SlideDuration, doc.AnimationOf("users_methods").Duration)
		assert.Equal(t, "users", n.Location().Hash())
	})

	t.Run("accepts hash-prefixed keys", func(t *testing.T) {
		n, _ := newNavigator(t, "")

		n.ExpandGroup("#users")

		assert.Equal(t, "users", n.Expanded())
	})

	t.Run("is idempotent", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ExpandGroup("users")
		n.ShowPanel("users_methods_post")
		n.ExpandGroup("users")

		assert.Equal(t, "users_methods_post", n.Visible())
		assert.Equal(t, []string{"users_methods"}, expandedGroups(doc))
		assert.Equal(t, []string{"users_methods_post"}, visiblePanels(doc))
	})

	t.Run("switching groups collapses the previous one", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ExpandGroup("orders")
		n.ExpandGroup("users")

		assert.Equal(t, "users", n.Expanded())
		assert.False(t, doc.Visible("orders_methods"))
		assert.Equal(t, dom.AnimationSlideUp, doc.AnimationOf("orders_methods").Kind)
		assert.Equal(t, []string{"users_methods"}, expandedGroups(doc))
		assert.Equal(t, []string{"users_methods_get"}, visiblePanels(doc))
		assert.Equal(t, "users", n.Location().Hash())
	})

	t.Run("group without panels shows nothing new", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ExpandGroup("empty")

		assert.Equal(t, "empty", n.Expanded())
		assert.Equal(t, "", n.Visible())
		assert.Empty(t, visiblePanels(doc))
		assert.True(t, doc.Visible("empty_methods"))
	})
}

func TestNavigator_ShowPanel(t *testing.T) {
	t.Run("only one panel is visible", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ShowPanel("users_methods_get")
		n.ShowPanel("users_methods_post")

		assert.Equal(t, "users_methods_post", n.Visible())
		assert.False(t, doc.Visible("users_methods_get"))
		assert.Equal(t, []string{"users_methods_post"}, visiblePanels(doc))
	})

	t.Run("unknown panel is recorded but shows nothing", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.ShowPanel("users_methods_get")
		n.ShowPanel("ghost")

		assert.Equal(t, "ghost", n.Visible())
		assert.Empty(t, visiblePanels(doc))
	})

	t.Run("does not touch the fragment", func(t *testing.T) {
		n, _ := newNavigator(t, "orders")

		n.ShowPanel("users_methods_post")

		assert.Equal(t, "orders", n.Location().Hash())
	})
}

func TestNavigator_Restore(t *testing.T) {
	t.Run("group token with non-panel suffix shows first match", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.Restore("#users_methods")

		assert.Equal(t, "users", n.Expanded())
		assert.Equal(t, "users_methods_get", n.Visible())
		assert.Equal(t, []string{"users_methods_get"}, visiblePanels(doc))
	})

	t.Run("explicit panel is shown directly", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.Restore("#users_methods_users_methods_post")

		assert.Equal(t, "users", n.Expanded())
		assert.Equal(t, "users_methods_users_methods_post", n.Visible())
		assert.Equal(t, []string{"users_methods_users_methods_post"}, visiblePanels(doc))
	})

	t.Run("bare group token", func(t *testing.T) {
		n, _ := newNavigator(t, "")

		n.Restore("orders")

		assert.Equal(t, "orders", n.Expanded())
		assert.Equal(t, "orders_methods_get", n.Visible())
		assert.Equal(t, "orders", n.Location().Hash())
	})

	t.Run("empty hash does nothing", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.Restore("")
		n.Restore("#")

		assert.Equal(t, "", n.Expanded())
		assert.Equal(t, "", n.Visible())
		assert.Empty(t, expandedGroups(doc))
	})

	t.Run("unknown group is non-fatal", func(t *testing.T) {
		n, doc := newNavigator(t, "")

		n.Restore("nothing")

		assert.Equal(t, "nothing", n.Expanded())
		assert.Equal(t, "", n.Visible())
		assert.Empty(t, visiblePanels(doc))
	})
}

func TestNavigator_Panels(t *testing.T) {
	n, _ := newNavigator(t, "")

	assert.Equal(t, []string{"users_methods_get", "users_methods_post", "users_methods_users_methods_post"}, n.Panels("users"))
	assert.Empty(t, n.Panels("empty"))
}

func TestLocation(t *testing.T) {
	l := NewLocation("#users")
	assert.Equal(t, "users", l.Hash())
	assert.Equal(t, "#users", l.String())

	l.SetHash("")
	assert.Equal(t, "", l.String())

	fromURL, err := LocationFromURL("http://example.com/services/docs#orders_methods")
	require.NoError(t, err)
	assert.Equal(t, "orders_methods", fromURL.Hash())
}
