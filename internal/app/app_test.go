package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/doctester/internal/config"
	"github.com/artpar/doctester/internal/testserver"
)

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a := newApp(t, nil)

		assert.Equal(t, config.DefaultConfig().Timeout, a.Client().Config().Timeout)
		assert.True(t, a.Client().Config().FollowRedirect)
		assert.Same(t, a.Jar(), a.Client().Jar())
		assert.Contains(t, a.Resolver().Names(), "random_email")
	})

	t.Run("script placeholders are registered", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Placeholders = map[string]string{"company": `function() { return "acme" }`}
		a := newApp(t, cfg)

		v, err := a.Resolver().Value("company", "%company%")
		require.NoError(t, err)
		assert.Equal(t, "acme", v)
	})

	t.Run("bad script is an error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Placeholders = map[string]string{"broken": `function( {`}
		_, err := New(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.Level = "loud"
		_, err := New(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("redirects disabled", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.FollowRedirects = false
		a := newApp(t, cfg)
		assert.False(t, a.Client().Config().FollowRedirect)
	})
}

func TestOpen(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	t.Run("restores fragment from url", func(t *testing.T) {
		a := newApp(t, nil)

		s, err := a.Open(context.Background(), srv.DocsURL()+"#users_methods_post", "")

		require.NoError(t, err)
		assert.True(t, s.Restored)
		assert.Equal(t, "users", s.Navigator.Expanded())
		assert.Equal(t, "users_methods_post", s.Navigator.Visible())
	})

	t.Run("explicit fragment wins", func(t *testing.T) {
		a := newApp(t, nil)

		s, err := a.Open(context.Background(), srv.DocsURL()+"#users", "feed")

		require.NoError(t, err)
		assert.Equal(t, "feed", s.Navigator.Expanded())
		assert.Equal(t, "feed_methods_get", s.Navigator.Visible())
	})

	t.Run("no fragment", func(t *testing.T) {
		a := newApp(t, nil)

		s, err := a.Open(context.Background(), srv.DocsURL(), "")

		require.NoError(t, err)
		assert.False(t, s.Restored)
		assert.Empty(t, s.Navigator.Expanded())
	})

	t.Run("fetch failure", func(t *testing.T) {
		a := newApp(t, nil)
		_, err := a.Open(context.Background(), srv.URL+"/nope", "")
		assert.Error(t, err)
	})
}

func TestSession_LoginThenRun(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	a := newApp(t, nil)
	s, err := a.Open(context.Background(), srv.DocsURL(), "")
	require.NoError(t, err)

	before := s.Runner.Run(context.Background(), "session", "GET")
	require.NoError(t, before.Err)
	assert.Equal(t, 401, before.StatusCode)
	assert.False(t, s.Probe.IsLoggedIn())

	require.NoError(t, s.Login.Login(context.Background(), nil))
	assert.True(t, s.Probe.IsLoggedIn())

	after := s.Runner.Run(context.Background(), "session", "GET")
	require.NoError(t, after.Err)
	assert.Equal(t, 200, after.StatusCode)
	assert.Contains(t, after.Body, "s-demo")
}

func TestSession_CredentialsOverride(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.TestUser = config.TestUser{Username: "qa", Password: "secret"}
	a := newApp(t, cfg)
	s, err := a.Open(context.Background(), srv.DocsURL(), "")
	require.NoError(t, err)

	require.NoError(t, s.Login.Login(context.Background(), nil))

	last := srv.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "/api/login", last.Path)
	assert.Contains(t, string(last.Body), "username=qa")
	assert.Contains(t, string(last.Body), "password=secret")
}

func TestSession_PersistentCookies(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.CookieDB = filepath.Join(t.TempDir(), "cookies.db")

	first, err := New(context.Background(), cfg)
	require.NoError(t, err)
	s, err := first.Open(context.Background(), srv.DocsURL(), "")
	require.NoError(t, err)
	require.NoError(t, s.Login.Login(context.Background(), nil))
	require.NoError(t, first.Close())

	second := newApp(t, cfg)
	s, err = second.Open(context.Background(), srv.DocsURL(), "")
	require.NoError(t, err)
	assert.True(t, s.Probe.IsLoggedIn())
}
