//go:build e2e

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// API endpoints
const (
	healthPath  = "/health"
	topPath     = "/v1/movies/top"
	searchPath  = "/v1/movies/search"
	moviesPath  = "/v1/movies/"
	genresPath  = "/v1/genres"
	castPath    = "/v1/cast/"
	cachePath   = "/v1/cache"
	metricsPath = "/metrics"
)

// get sends a GET request to the gateway and returns the response.
func get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(gatewayURL + path)
	require.NoError(t, err)
	return resp
}

// decode reads the JSON body into v and closes it.
func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer closeBody(resp)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// readBody reads and closes the response body.
func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer closeBody(resp)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

// clearCache drops every cached entry and the recorded upstream requests,
// so a test starts from a cold gateway.
func clearCache(t *testing.T) {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, gatewayURL+cachePath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	closeBody(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mockIMDb.ResetRequests()
}

type movieList struct {
	Movies []struct {
		ID     string  `json:"id"`
		Title  string  `json:"title"`
		Genre  string  `json:"genre"`
		Rating *string `json:"rating"`
	} `json:"movies"`
	TotalResults int `json:"totalResults"`
}

type searchResult struct {
	movieList
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
