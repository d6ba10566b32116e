package api_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dittohq/ditto-go/api"
)

func TestClient_ExportApplications(t *testing.T) {
	t.Run("filename from Content-Disposition", func(t *testing.T) {
		var gotQuery url.Values
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/export/applications", r.URL.Path)
			gotQuery = r.URL.Query()

			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="my_applications.csv"`)
			w.Write([]byte("company,position\nAcme,Go Engineer\n")) //nolint:errcheck
		}))

		export, err := client.ExportApplications(context.Background(), api.ExportCSV, api.ApplicationFilters{
			CompanyName: "Acme",
		})
		require.NoError(t, err)

		require.Equal(t, "my_applications.csv", export.Filename)
		require.Equal(t, "text/csv", export.ContentType)
		require.Contains(t, string(export.Data), "Acme")
		require.Equal(t, "csv", gotQuery.Get("format"))
		require.Equal(t, "Acme", gotQuery.Get("company_name"))
	})

	t.Run("fallback filename when header is missing", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`)) //nolint:errcheck
		}))

		api.NowTimeFunc = func() time.Time {
			return time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
		}
		defer func() { api.NowTimeFunc = time.Now }()

		export, err := client.ExportApplications(context.Background(), api.ExportJSON, api.ApplicationFilters{})
		require.NoError(t, err)
		require.Equal(t, "applications_2025-06-15.json", export.Filename)
	})

	t.Run("fallback filename when header is malformed", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Disposition", "attachment; filename")
			w.Write([]byte("x")) //nolint:errcheck
		}))

		api.NowTimeFunc = func() time.Time {
			return time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
		}
		defer func() { api.NowTimeFunc = time.Now }()

		export, err := client.ExportApplications(context.Background(), api.ExportCSV, api.ApplicationFilters{})
		require.NoError(t, err)
		require.Equal(t, "applications_2025-06-15.csv", export.Filename)
	})

	t.Run("error responses decode like any other call", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"export failed"}`, http.StatusInternalServerError)
		}))

		_, err := client.ExportApplications(context.Background(), api.ExportCSV, api.ApplicationFilters{})
		require.Error(t, err)
		require.True(t, api.IsStatus(err, http.StatusInternalServerError))
	})
}

func TestClient_ExportInterviews(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export/interviews", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))

	api.NowTimeFunc = func() time.Time {
		return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	}
	defer func() { api.NowTimeFunc = time.Now }()

	export, err := client.ExportInterviews(context.Background(), api.ExportJSON, api.ApplicationFilters{})
	require.NoError(t, err)
	require.Equal(t, "interviews_2025-01-02.json", export.Filename)
}
