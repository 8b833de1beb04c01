// Package testserver serves a generated documentation page and the API it
// documents, for tests that drive doctester end to end.
package testserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DocsPath is where the documentation page is served.
const DocsPath = "/docs/"

// Server wraps httptest.Server and records API calls.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*RecordedRequest
}

// RecordedRequest is one call received by the server.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// New starts a server with the documentation page and fixture API mounted.
func New() *Server {
	s := &Server{}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Get(DocsPath, DocsHandler(DocsPage))
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", Echo)
		r.Post("/users", Echo)
		r.Put("/users/{id}", Echo)
		r.Get("/feed", Feed)
		r.Get("/login", Login)
		r.Post("/login", Login)
		r.Get("/session", Session)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// DocsURL returns the absolute URL of the documentation page.
func (s *Server) DocsURL() string {
	return s.URL + DocsPath
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Headers: r.Header.Clone(),
			Body:    body,
			Time:    time.Now(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// LastRequest returns the most recent call, or nil.
func (s *Server) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// Requests returns a copy of every recorded call.
func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns the number of recorded calls.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
