package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("creates client with defaults", func(t *testing.T) {
		client := NewClient()
		require.NotNil(t, client)
		assert.Equal(t, 30*time.Second, client.Config().Timeout)
		assert.True(t, client.Config().FollowRedirect)
	})

	t.Run("creates client with custom timeout", func(t *testing.T) {
		client := NewClient(WithTimeout(5 * time.Second))
		assert.Equal(t, 5*time.Second, client.HTTPClient().Timeout)
	})

	t.Run("creates client with custom transport", func(t *testing.T) {
		transport := &http.Transport{MaxIdleConns: 100}
		client := NewClient(WithTransport(transport))
		assert.Same(t, transport, client.HTTPClient().Transport)
	})
}

func TestClient_Send(t *testing.T) {
	t.Run("sends method, headers and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/users", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"x":1}`, string(body))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":7}`))
		}))
		defer server.Close()

		req := NewRequest("POST", server.URL+"/users")
		req.Header.Set("Content-Type", "application/json")
		req.Body = []byte(`{"x":1}`)

		resp, err := NewClient().Send(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "application/json", resp.ContentType())
		assert.Equal(t, `{"id":7}`, string(resp.Body))
	})

	t.Run("error statuses are responses, not errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		resp, err := NewClient().Send(context.Background(), NewRequest("GET", server.URL))

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "boom", string(resp.Body))
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		_, err := NewClient(WithTimeout(time.Second)).Send(context.Background(), NewRequest("GET", addr))

		assert.Error(t, err)
	})

	t.Run("does not follow redirects when disabled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/start" {
				http.Redirect(w, r, "/end", http.StatusFound)
				return
			}
			w.Write([]byte("end"))
		}))
		defer server.Close()

		resp, err := NewClient(WithNoRedirects()).Send(context.Background(), NewRequest("GET", server.URL+"/start"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("shares cookies through the jar", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/login" {
				http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
				return
			}
			c, err := r.Cookie("sessionid")
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(c.Value))
		}))
		defer server.Close()

		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		client := NewClient(WithCookieJar(jar))

		_, err = client.Send(context.Background(), NewRequest("POST", server.URL+"/login"))
		require.NoError(t, err)
		resp, err := client.Send(context.Background(), NewRequest("GET", server.URL+"/me"))

		require.NoError(t, err)
		assert.Equal(t, "abc", string(resp.Body))
		u, _ := url.Parse(server.URL)
		assert.Len(t, client.Jar().Cookies(u), 1)
	})
}
