//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const mockBasePath = "/api/imdb"

// MockIMDbServer simulates the RapidAPI IMDb catalog.
type MockIMDbServer struct {
	server       *httptest.Server
	mu           sync.Mutex
	requests     []RecordedRequest
	titles       map[string]string
	failNext     bool
	failWithCode int
	failMessage  string
}

// RecordedRequest stores information about a received request.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
}

const mockTopRated = `[
	{"id":"tt0111161","primaryTitle":"The Shawshank Redemption","type":"movie","startYear":1994,
	 "genres":["Drama"],"averageRating":9.3,"numVotes":2900000,
	 "directors":[{"name":"Frank Darabont"}],"actors":[{"name":"Tim Robbins"},{"name":"Morgan Freeman"}]},
	{"id":"tt0068646","primaryTitle":"The Godfather","type":"movie","startYear":1972,
	 "genres":["Crime","Drama"],"averageRating":9.2},
	{"id":"tt0468569","primaryTitle":"The Dark Knight","type":"movie","startYear":2008,
	 "genres":["Action","Crime","Drama"],"averageRating":9.0}
]`

const mockSearch = `{"numFound":2,"results":[
	{"id":"tt0133093","primaryTitle":"The Matrix","type":"movie","startYear":1999,"averageRating":8.7},
	{"id":"tt0234215","primaryTitle":"The Matrix Reloaded","type":"movie","startYear":2003,"averageRating":7.2}
]}`

const mockCastTitles = `[{"id":"tt0111161","primaryTitle":"The Shawshank Redemption"}]`

// NewMockIMDbServer creates a new mock catalog server.
func NewMockIMDbServer() *MockIMDbServer {
	m := &MockIMDbServer{
		titles: map[string]string{
			"tt0133093": `{"id":"tt0133093","primaryTitle":"The Matrix","type":"movie","startYear":1999,"averageRating":8.7}`,
		},
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Headers: r.Header.Clone(),
		})

		if m.failNext {
			m.failNext = false
			code := m.failWithCode
			msg := m.failMessage
			m.mu.Unlock()
			w.WriteHeader(code)
			_, _ = fmt.Fprintf(w, `{"message": "%s"}`, msg)
			return
		}
		m.mu.Unlock()

		if r.Header.Get("x-rapidapi-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, mockBasePath)
		switch {
		case path == "/top250-movies":
			_, _ = w.Write([]byte(mockTopRated))
		case path == "/search":
			_, _ = w.Write([]byte(mockSearch))
		case strings.HasPrefix(path, "/movie/"):
			m.mu.Lock()
			body, ok := m.titles[strings.TrimPrefix(path, "/movie/")]
			m.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"not found"}`))
				return
			}
			_, _ = w.Write([]byte(body))
		case strings.HasPrefix(path, "/cast/") && strings.HasSuffix(path, "/titles"):
			_, _ = w.Write([]byte(mockCastTitles))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	return m
}

// URL returns the catalog base URL of the mock server.
func (m *MockIMDbServer) URL() string {
	return m.server.URL + mockBasePath
}

// Close shuts down the mock server.
func (m *MockIMDbServer) Close() {
	m.server.Close()
}

// FailNext causes the next request to fail with the given status code.
func (m *MockIMDbServer) FailNext(code int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
	m.failWithCode = code
	m.failMessage = message
}

// Requests returns a copy of the recorded requests.
func (m *MockIMDbServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CountPath returns how many recorded requests hit the given catalog path.
func (m *MockIMDbServer) CountPath(path string) int {
	n := 0
	for _, r := range m.Requests() {
		if r.Path == mockBasePath+path {
			n++
		}
	}
	return n
}

// ResetRequests clears the recorded requests.
func (m *MockIMDbServer) ResetRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}
