package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yumelog/yumelog/internal/service"
	"github.com/yumelog/yumelog/internal/store/sqlite"
	"github.com/yumelog/yumelog/internal/uploads"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	st := sqlite.NewWithDB(db)
	t.Cleanup(func() { st.Close() })

	uploadDir := t.TempDir()
	saver, err := uploads.NewSaver(uploadDir)
	require.NoError(t, err)

	router, err := NewRouter(service.New(st, saver), st, uploadDir)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// noRedirectClient stops at the first response so redirects are observable.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func validEntry(title string) url.Values {
	return url.Values{
		"date":     {"2025-03-10"},
		"title":    {title},
		"body":     {"I was gliding above calm water."},
		"location": {"lake, sky"},
		"mood":     {"2"},
	}
}

func TestHomeRedirectsToNewEntry(t *testing.T) {
	srv := newTestServer(t)
	resp, err := noRedirectClient().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/dreams/new", resp.Header.Get("Location"))
}

func TestCreateRedirectsToDetail(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient()

	resp := postForm(t, client, srv.URL+"/dreams/new", validEntry("Flying"))
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.Regexp(t, `^/dreams/\d+$`, location)

	detail, err := http.Get(srv.URL + location)
	require.NoError(t, err)
	body := readBody(t, detail)
	require.Equal(t, http.StatusOK, detail.StatusCode)
	require.Contains(t, body, "Flying")
	require.Contains(t, body, "lake")
}

func TestCreateValidationRerendersForm(t *testing.T) {
	srv := newTestServer(t)

	form := validEntry("")
	form.Set("body", "a body worth keeping")
	resp := postForm(t, noRedirectClient(), srv.URL+"/dreams/new", form)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "title is required")
	// submitted values survive the round trip
	require.Contains(t, body, "a body worth keeping")

	// nothing persisted
	missing, err := http.Get(srv.URL + "/dreams/1")
	require.NoError(t, err)
	missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestDetailNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/dreams/9999")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditUpdatesEntry(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient()

	resp := postForm(t, client, srv.URL+"/dreams/new", validEntry("Before"))
	resp.Body.Close()
	location := resp.Header.Get("Location")

	form := validEntry("After")
	resp = postForm(t, client, srv.URL+location+"/edit", form)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))

	detail, err := http.Get(srv.URL + location)
	require.NoError(t, err)
	body := readBody(t, detail)
	require.Contains(t, body, "After")
	require.NotContains(t, body, "Before")
}

func TestDeleteRemovesEntry(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient()

	resp := postForm(t, client, srv.URL+"/dreams/new", validEntry("Doomed"))
	resp.Body.Close()
	location := resp.Header.Get("Location")

	resp = postForm(t, client, srv.URL+location+"/delete", url.Values{})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dreams", resp.Header.Get("Location"))

	gone, err := http.Get(srv.URL + location)
	require.NoError(t, err)
	gone.Body.Close()
	require.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestSearchFiltersByText(t *testing.T) {
	srv := newTestServer(t)
	client := noRedirectClient()

	postForm(t, client, srv.URL+"/dreams/new", validEntry("Ocean voyage")).Body.Close()
	postForm(t, client, srv.URL+"/dreams/new", validEntry("Desert walk")).Body.Close()

	resp, err := http.Get(srv.URL + "/search?q=Ocean")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Contains(t, body, "Ocean voyage")
	require.NotContains(t, body, "Desert walk")
}

func TestCalendarShowsEntry(t *testing.T) {
	srv := newTestServer(t)
	postForm(t, noRedirectClient(), srv.URL+"/dreams/new", validEntry("March entry")).Body.Close()

	resp, err := http.Get(srv.URL + "/dreams?ym=2025-03")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "March 2025")
	require.Contains(t, body, "March entry")
	require.Contains(t, body, "2025-02")
	require.Contains(t, body, "2025-04")
}

func TestTagsPage(t *testing.T) {
	srv := newTestServer(t)
	postForm(t, noRedirectClient(), srv.URL+"/dreams/new", validEntry("Tagged")).Body.Close()

	resp, err := http.Get(srv.URL + "/tags")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Contains(t, body, "lake")
	require.Contains(t, body, "sky")
}

func TestFormatSleepMinutes(t *testing.T) {
	require.Equal(t, "-", FormatSleepMinutes(nil))
	m := 465
	require.Equal(t, "7h 45m", FormatSleepMinutes(&m))
	m = 45
	require.Equal(t, "0h 45m", FormatSleepMinutes(&m))
}

func TestMoodClass(t *testing.T) {
	require.Equal(t, "mood-none", MoodClass(nil))
	for mood, want := range map[int]string{-2: "mood--2", 0: "mood-0", 2: "mood-2"} {
		m := mood
		require.Equal(t, want, MoodClass(&m))
	}
}
