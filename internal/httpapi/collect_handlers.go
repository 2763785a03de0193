package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"
	"time"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/events"
	"jobmarket-engine/internal/scrape/types"
)

type CollectHandler struct {
	DB            *sql.DB
	CfgVal        *atomic.Value // config.Config
	CollectStatus *atomic.Value // types.CollectStatus
	Hub           *events.Hub
	RunCollect    func(db *sql.DB, cfg config.Config, onNewRecord func()) (added int, err error)
}

func (h CollectHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.CollectStatus.Load().(types.CollectStatus)
	writeJSON(w, st)
}

// Run kicks off a collection pass in the background. Only one pass
// runs at a time; a second request while running is a no-op.
func (h CollectHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.CollectStatus.Load().(types.CollectStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.CollectStatus.Store(types.CollectStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastAdded: 0,
		LastOkAt:  st.LastOkAt,
	})

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeCollectStarted, 1, nil))

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.RunCollect(h.DB, cfg, func() {
			h.Hub.Publish(events.MakeEvent("", events.TypeRecordAdded, 1, nil))
		})

		now := time.Now().Format(time.RFC3339)
		next := h.CollectStatus.Load().(types.CollectStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.CollectStatus.Store(next)

		h.Hub.Publish(events.MakeEvent("", events.TypeCollectFinished, 1, map[string]any{"added": added}))
	}()

	writeJSON(w, map[string]any{"ok": true})
}
