package testserver

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Docs(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.Get(srv.DocsURL())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "usersGET_form")
	assert.Equal(t, 1, srv.RequestCount())
}

func TestServer_Echo(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/users?x=1", "application/x-www-form-urlencoded", strings.NewReader("name=a"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var reply EchoReply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, "POST", reply.Method)
	assert.Equal(t, "x=1", reply.Query)
	assert.Equal(t, "name=a", reply.Body)

	last := srv.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "/api/users", last.Path)
	assert.Equal(t, "name=a", string(last.Body))
}

func TestServer_LoginAndSession(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/api/login", url.Values{"username": {"demo"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "s-demo", session.Value)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/session", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.AddCookie(session)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_LoginRequiresUsername(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/api/login", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
