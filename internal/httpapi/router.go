package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Records
	rh := RecordsHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/records", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.List,
	}))
	mux.HandleFunc("/records/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Export,
	}))
	mux.HandleFunc("/records/import", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Import,
	}))

	// Aggregations
	th := StatsHandler{DB: d.DB}
	mux.HandleFunc("/stats/summary", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Summary,
	}))
	mux.HandleFunc("/stats/titles", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Titles,
	}))
	mux.HandleFunc("/stats/skills", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Skills,
	}))
	mux.HandleFunc("/stats/cities", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Cities,
	}))
	mux.HandleFunc("/stats/daily", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.Daily,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))

	// Collection
	cl := CollectHandler{
		DB:            d.DB,
		CfgVal:        d.CfgVal,
		CollectStatus: d.CollectStatus,
		Hub:           d.Hub,
		RunCollect:    d.RunCollect,
	}
	mux.HandleFunc("/collect/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cl.Status,
	}))
	mux.HandleFunc("/collect/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cl.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Maintenance
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	return mux
}
