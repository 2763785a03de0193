package httpapi

import (
	"database/sql"
	"sync/atomic"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal        *atomic.Value // stores config.Config
	CollectStatus *atomic.Value // stores types.CollectStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Collection entrypoint (inject for testability)
	RunCollect func(db *sql.DB, cfg config.Config, onNewRecord func()) (added int, err error)
}
