package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/doctester/internal/dom"
	"github.com/artpar/doctester/internal/nav"
)

type recorder struct {
	hashes []string
}

func (r *recorder) Restore(hash string) {
	r.hashes = append(r.hashes, hash)
}

func TestRun(t *testing.T) {
	t.Run("restores non-empty fragment", func(t *testing.T) {
		r := &recorder{}

		ok := Run(r, nav.NewLocation("#users_methods"))

		assert.True(t, ok)
		assert.Equal(t, []string{"users_methods"}, r.hashes)
	})

	t.Run("empty fragment does nothing", func(t *testing.T) {
		r := &recorder{}

		assert.False(t, Run(r, nav.NewLocation("")))
		assert.False(t, Run(r, nil))
		assert.Empty(t, r.hashes)
	})

	t.Run("drives the navigator", func(t *testing.T) {
		doc, err := dom.ParseString(`<div id="users_methods" style="display:none">
			<div id="users_methods_get" class="handlerdiv" style="display:none"></div>
			<div id="users_methods_post" class="handlerdiv" style="display:none"></div>
		</div>`)
		require.NoError(t, err)
		loc := nav.NewLocation("users_methods")
		n := nav.New(doc, loc)

		Run(n, loc)

		assert.Equal(t, "users", n.Expanded())
		assert.Equal(t, "users_methods_get", n.Visible())
		assert.True(t, doc.Visible("users_methods"))
		assert.True(t, doc.Visible("users_methods_get"))
		assert.Equal(t, "users", loc.Hash())
	})
}
