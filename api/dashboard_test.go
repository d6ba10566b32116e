package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dittohq/ditto-go/api"
)

func TestClient_GetDashboardStats(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboard/stats", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"data": api.DashboardStats{ //nolint:errcheck
			TotalApplications:  12,
			ActiveApplications: 7,
			InterviewCount:     3,
			OfferCount:         1,
			StatusCounts:       api.StatusCounts{Applied: 5, Interview: 3, Offer: 1, Rejected: 3},
		}})
	}))

	stats, err := client.GetDashboardStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalApplications)
	require.Equal(t, 7, stats.ActiveApplications)
	require.Equal(t, 3, stats.StatusCounts.Interview)
}

func TestClient_ListUpcoming(t *testing.T) {
	t.Run("defaults to four items of any type", func(t *testing.T) {
		var gotQuery url.Values
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/dashboard/upcoming", r.URL.Path)
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]any{"data": []api.UpcomingItem{{ //nolint:errcheck
				ID:        "int-1",
				Type:      "interview",
				Title:     "Technical interview",
				Countdown: api.Countdown{Text: "Tomorrow", Urgency: "upcoming", DaysUntil: 1},
			}}})
		}))

		items, err := client.ListUpcoming(context.Background(), 0, api.UpcomingAll)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "upcoming", items[0].Countdown.Urgency)

		require.Equal(t, "4", gotQuery.Get("limit"))
		require.Empty(t, gotQuery.Get("type"), "the all filter is the backend default")
	})

	t.Run("type filter is passed through", func(t *testing.T) {
		var gotQuery url.Values
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode(map[string]any{"data": []api.UpcomingItem{}}) //nolint:errcheck
		}))

		_, err := client.ListUpcoming(context.Background(), 10, api.UpcomingAssessments)
		require.NoError(t, err)
		require.Equal(t, "assessments", gotQuery.Get("type"))
		require.Equal(t, "10", gotQuery.Get("limit"))
	})
}

func TestClient_ListRecentApplications(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/applications/recent", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"data": api.ApplicationList{ //nolint:errcheck
			Applications: []api.Application{{ID: "app-1", Company: &api.Company{Name: "Acme"}}},
		}})
	}))

	apps, err := client.ListRecentApplications(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, "Acme", apps[0].Company.Name)
	require.Equal(t, "4", gotQuery.Get("limit"))
}
