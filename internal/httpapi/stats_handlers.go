package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/stats"
	"jobmarket-engine/internal/store"
)

type StatsHandler struct {
	DB *sql.DB
}

const defaultTopN = 10

func topN(r *http.Request) int {
	if v := r.URL.Query().Get("n"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultTopN
}

// filterFromQuery parses ?source=&from=&to= into the in-memory filter
// the aggregations run on. Dates must be YYYY-MM-DD, both inclusive.
func filterFromQuery(r *http.Request) (stats.Filter, error) {
	q := r.URL.Query()
	f := stats.Filter{Source: q.Get("source")}

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{
		{"from", &f.From},
		{"to", &f.To},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New(p.name + " must be YYYY-MM-DD")
		}
		*p.dst = d
	}
	return f, nil
}

// load fetches all records and narrows them with the same source/from/to
// filters the records listing takes, so every chart can be cut the same
// way.
func (h StatsHandler) load(w http.ResponseWriter, r *http.Request) ([]domain.JobRecord, bool) {
	f, err := filterFromQuery(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_filter", err.Error())
		return nil, false
	}
	records, err := store.ListRecords(r.Context(), h.DB, store.ListOpts{})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return nil, false
	}
	return stats.Apply(records, f), true
}

func (h StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.Summarize(records))
}

func (h StatsHandler) Titles(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.TopTitles(records, topN(r)))
}

func (h StatsHandler) Skills(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.TopSkills(records, topN(r)))
}

func (h StatsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.TopCities(records, topN(r)))
}

func (h StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.DailyCounts(records))
}
