package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"jobmarket-engine/internal/store"
)

type HealthHandler struct {
	DB *sql.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := store.CountRecords(r.Context(), h.DB)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":      err == nil,
		"records": n,
	})
}
