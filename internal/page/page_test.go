package page

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/doctester/internal/testserver"
)

func TestFetch(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	p, err := Fetch(context.Background(), http.DefaultClient, srv.DocsURL()+"#users_methods_post")

	require.NoError(t, err)
	assert.Equal(t, srv.DocsURL(), p.URL.String())
	assert.Equal(t, "users_methods_post", p.Location.Hash())
	assert.NotNil(t, p.Doc.ByID("usersGET_form"))
	assert.Equal(t, "doctester", srv.LastRequest().Headers.Get("User-Agent"))
}

func TestFetch_Errors(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	_, err := Fetch(context.Background(), http.DefaultClient, srv.URL+"/missing")
	assert.Error(t, err)

	_, err = Fetch(context.Background(), http.DefaultClient, "/docs/")
	assert.Error(t, err)
}

func TestGroups(t *testing.T) {
	p, err := Load(strings.NewReader(testserver.DocsPage), "http://localhost/docs/")
	require.NoError(t, err)

	groups := p.Groups()

	require.Len(t, groups, 3)
	assert.Equal(t, "users", groups[0].Key)
	assert.Equal(t, "feed", groups[1].Key)
	assert.Equal(t, "session", groups[2].Key)

	users := groups[0].Methods
	require.Len(t, users, 3)
	assert.Equal(t, Method{PanelID: "users_methods_get", Handler: "users", Method: "GET", URL: "/api/users"}, users[0])
	assert.Equal(t, "POST", users[1].Method)
	assert.Equal(t, "/api/users/1", users[2].URL)
}

func TestMethodByPanel(t *testing.T) {
	p, err := Load(strings.NewReader(testserver.DocsPage), "http://localhost/docs/")
	require.NoError(t, err)

	m, ok := p.MethodByPanel("feed_methods_get")
	require.True(t, ok)
	assert.Equal(t, "feed", m.Handler)
	assert.Equal(t, "GET", m.Method)

	_, ok = p.MethodByPanel("nope")
	assert.False(t, ok)
}
