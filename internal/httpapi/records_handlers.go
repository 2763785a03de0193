package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jobmarket-engine/internal/csvio"
	"jobmarket-engine/internal/events"
	"jobmarket-engine/internal/store"
)

type RecordsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

// listOptsFromQuery parses ?source=&from=&to=&limit=. Dates must be
// YYYY-MM-DD; both bounds are inclusive.
func listOptsFromQuery(r *http.Request) (store.ListOpts, error) {
	q := r.URL.Query()
	opts := store.ListOpts{Source: q.Get("source")}

	for _, p := range []struct {
		name string
		dst  *string
	}{
		{"from", &opts.From},
		{"to", &opts.To},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return opts, errors.New(p.name + " must be YYYY-MM-DD")
		}
		*p.dst = v
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		opts.Limit = n
	}
	return opts, nil
}

func (h RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptsFromQuery(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_filter", err.Error())
		return
	}

	records, err := store.ListRecords(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, records)
}

// Export streams the current listing in the canonical CSV schema.
func (h RecordsHandler) Export(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptsFromQuery(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_filter", err.Error())
		return
	}

	records, err := store.ListRecords(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="job_postings.csv"`)
	_ = csvio.WriteRecords(w, records)
}

// Import ingests a CSV body in the canonical schema; rows already in
// the store are skipped by dedup key.
func (h RecordsHandler) Import(w http.ResponseWriter, r *http.Request) {
	records, err := csvio.ReadRecords(r.Body)
	if err != nil {
		if errors.Is(err, csvio.ErrNoData) {
			WriteError(w, r, http.StatusBadRequest, "no_data", "no data rows in upload")
			return
		}
		WriteError(w, r, http.StatusBadRequest, "bad_csv", err.Error())
		return
	}

	added, err := store.ImportRecords(h.DB, records)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	if added > 0 {
		reqID := RequestIDFrom(r.Context())
		h.Hub.Publish(events.MakeEvent(reqID, events.TypeRecordAdded, 1, map[string]any{"added": added}))
	}
	writeJSON(w, map[string]any{"received": len(records), "added": added})
}
