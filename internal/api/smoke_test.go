package api

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

// TestJournalSmoke walks the main user flow end to end against an in-process
// server: create an entry, find it, check stats and health.
func TestJournalSmoke(t *testing.T) {
	srv := newTestServer(t)
	client := resty.New().SetBaseURL(srv.URL)

	// create
	resp, err := client.R().
		SetFormData(map[string]string{
			"date":        "2025-03-10",
			"title":       "Smoke entry",
			"body":        "Walking through a glass city.",
			"location":    "city",
			"mood":        "1",
			"fatigue":     "2",
			"sleep_start": "23:00",
			"sleep_end":   "06:30",
		}).
		Post("/dreams/new")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Contains(t, resp.String(), "Smoke entry")
	require.Contains(t, resp.String(), "7h 30m")

	// search
	resp, err = client.R().SetQueryParam("q", "glass city").Get("/search")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Contains(t, resp.String(), "Smoke entry")

	// stats
	resp, err = client.R().Get("/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Contains(t, resp.String(), "1.00")
	require.Contains(t, resp.String(), "city")

	// health
	var health struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	resp, err = client.R().SetResult(&health).Get("/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Equal(t, "healthy", health.Status)
	require.NotEmpty(t, health.Timestamp)
}
