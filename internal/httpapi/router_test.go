package httpapi

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/events"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfgVal, statusVal atomic.Value
	cfg := config.Config{}
	cfg.App.Port = 8080
	cfg.Sources.Demo.Enabled = true
	cfgVal.Store(cfg)
	statusVal.Store(types.CollectStatus{})

	d := Deps{
		DB:            db.Pool,
		Hub:           events.NewHub(),
		CfgVal:        &cfgVal,
		CollectStatus: &statusVal,
		UserCfgPath:   filepath.Join(t.TempDir(), "config.yml"),
		LoadCfg:       func() (config.Config, error) { return cfgVal.Load().(config.Config), nil },
		RunCollect: func(db *sql.DB, cfg config.Config, onNewRecord func()) (int, error) {
			return 0, nil
		},
	}

	srv := httptest.NewServer(Chain(NewMux(d), RequestID, Recover, AccessLog))
	t.Cleanup(srv.Close)
	return srv, db.Pool
}

func seedRecords(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, r := range []domain.JobRecord{
		{Title: "Engineer", Company: "Acme", Location: "Austin, TX", DatePosted: mustDay("2024-01-01"), Skills: []string{"Go"}, Source: "LinkedIn"},
		{Title: "Analyst", Company: "Globex", Location: "Remote", DatePosted: mustDay("2024-01-02"), Skills: []string{"SQL", "Python"}, Source: "RemoteOK"},
	} {
		_, err := store.InsertRecordIfNew(db, r)
		require.NoError(t, err)
	}
}

func mustDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestRecordsListAndFilters(t *testing.T) {
	srv, db := newTestServer(t)
	seedRecords(t, db)

	var all []domain.JobRecord
	resp := getJSON(t, srv.URL+"/records", &all)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, all, 2)

	var filtered []domain.JobRecord
	getJSON(t, srv.URL+"/records?source=LinkedIn", &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Engineer", filtered[0].Title)

	resp, err := http.Get(srv.URL + "/records?from=01-01-2024")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRecordsImportAndExport(t *testing.T) {
	srv, _ := newTestServer(t)

	csv := `title,company,location,date_posted,skills,source,description
"Engineer","Acme","Austin, TX","2024-01-01","Go, Docker","Import",""
"Engineer","ACME","Austin, TX","2024-01-02","Go","Import",""
`
	resp, err := http.Post(srv.URL+"/records/import", "text/csv", strings.NewReader(csv))
	require.NoError(t, err)
	var res map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, 2, res["received"])
	assert.Equal(t, 1, res["added"]) // second row collides on (title, company)

	resp, err = http.Get(srv.URL + "/records/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2) // header plus the one surviving row
	assert.Contains(t, lines[1], `"Engineer"`)
}

func TestRecordsImportEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/records/import", "text/csv",
		strings.NewReader("title,company,location,date_posted,skills,source,description\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	var e APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "no_data", e.Error.Code)
}

func TestStatsEndpoints(t *testing.T) {
	srv, db := newTestServer(t)
	seedRecords(t, db)

	var summary map[string]any
	getJSON(t, srv.URL+"/stats/summary", &summary)
	assert.EqualValues(t, 2, summary["total_postings"])

	var skills []map[string]any
	getJSON(t, srv.URL+"/stats/skills?n=1", &skills)
	require.Len(t, skills, 1)

	var daily []map[string]any
	getJSON(t, srv.URL+"/stats/daily", &daily)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-01-01", daily[0]["date"])

	var cities []map[string]any
	getJSON(t, srv.URL+"/stats/cities?source=LinkedIn", &cities)
	require.Len(t, cities, 1)
	assert.Equal(t, "Austin", cities[0]["name"])

	// date range is inclusive and narrows the aggregation
	var narrowed map[string]any
	getJSON(t, srv.URL+"/stats/summary?from=2024-01-02&to=2024-01-02", &narrowed)
	assert.EqualValues(t, 1, narrowed["total_postings"])

	resp, err := http.Get(srv.URL + "/stats/summary?from=bad")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCollectRunAndStatus(t *testing.T) {
	srv, db := newTestServer(t)
	_ = db

	var st types.CollectStatus
	getJSON(t, srv.URL+"/collect/status", &st)
	assert.False(t, st.Running)

	resp, err := http.Post(srv.URL+"/collect/run", "application/json", nil)
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, true, res["ok"])

	// background pass with the stub finishes quickly
	require.Eventually(t, func() bool {
		var st types.CollectStatus
		getJSON(t, srv.URL+"/collect/status", &st)
		return !st.Running && st.LastOkAt != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHealth(t *testing.T) {
	srv, db := newTestServer(t)
	seedRecords(t, db)

	var h map[string]any
	getJSON(t, srv.URL+"/health", &h)
	assert.Equal(t, true, h["ok"])
	assert.EqualValues(t, 2, h["records"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/records", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
