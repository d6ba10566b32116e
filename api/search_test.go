package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dittohq/ditto-go/api"
)

func TestClient_Search(t *testing.T) {
	t.Run("grouped results", func(t *testing.T) {
		var gotQuery url.Values
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/search", r.URL.Path)
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]any{"data": api.SearchResults{ //nolint:errcheck
				Applications: []api.SearchResult{{ID: "app-1", Type: "application", Title: "Go Engineer at Acme"}},
				Notes:        []api.SearchResult{{ID: "app-2", Type: "note", Snippet: "…phone screen went well…"}},
				TotalCount:   2,
				Query:        "acme",
			}})
		}))

		results, err := client.Search(context.Background(), "acme", 0)
		require.NoError(t, err)
		require.Equal(t, 2, results.TotalCount)
		require.Len(t, results.Applications, 1)
		require.Len(t, results.Notes, 1)
		require.Empty(t, results.Interviews)

		require.Equal(t, "acme", gotQuery.Get("q"))
		require.Equal(t, "10", gotQuery.Get("limit"))
	})

	t.Run("short queries never reach the backend", func(t *testing.T) {
		var calls atomic.Int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))

		for _, query := range []string{"", "a", "ab"} {
			results, err := client.Search(context.Background(), query, 10)
			require.NoError(t, err)
			require.Zero(t, results.TotalCount)
			require.Equal(t, query, results.Query)
		}
		require.Zero(t, calls.Load())
	})

	t.Run("custom limit is passed through", func(t *testing.T) {
		var gotQuery url.Values
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]any{"data": api.SearchResults{Query: "interview"}}) //nolint:errcheck
		}))

		_, err := client.Search(context.Background(), "interview", 25)
		require.NoError(t, err)
		require.Equal(t, "25", gotQuery.Get("limit"))
	})
}
