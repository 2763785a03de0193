// Command engine is the long-running API daemon: it serves the
// records/stats endpoints, streams events over SSE, and runs periodic
// collection passes when configured.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/events"
	"jobmarket-engine/internal/httpapi"
	"jobmarket-engine/internal/scheduler"
	"jobmarket-engine/internal/scrape"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/store"
)

func main() {
	dataDir := os.Getenv("JOBMARKET_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Single instance per data dir; a second engine would fight over
	// the sqlite file.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 38471
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "jobmarket.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var collectStatus atomic.Value
	collectStatus.Store(types.CollectStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		CfgVal:        &cfgVal,
		CollectStatus: &collectStatus,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		RunCollect:    scrape.RunOnce,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Printf("engine listening on http://%s (data=%s) shutdown_token=%s", addr, dataDir, token)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if interval := cfg.Collect.IntervalMinutes; interval > 0 {
		g.Go(func() error {
			scheduler.Every(gctx, time.Duration(interval)*time.Minute, "collect", func(tctx context.Context) error {
				runScheduled(db, &cfgVal, &collectStatus, hub)
				return nil
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

// runScheduled mirrors the manual /collect/run trigger, including the
// shared running flag so the two never overlap.
func runScheduled(db *store.DB, cfgVal, collectStatus *atomic.Value, hub *events.Hub) {
	st := collectStatus.Load().(types.CollectStatus)
	if st.Running {
		log.Printf("[collect] scheduled run skipped, already running")
		return
	}

	collectStatus.Store(types.CollectStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastOkAt:  st.LastOkAt,
	})
	hub.Publish(events.MakeEvent("", events.TypeCollectStarted, 1, nil))

	cfg := cfgVal.Load().(config.Config)
	added, err := scrape.RunOnce(db.Pool, cfg, func() {
		hub.Publish(events.MakeEvent("", events.TypeRecordAdded, 1, nil))
	})

	now := time.Now().Format(time.RFC3339)
	next := collectStatus.Load().(types.CollectStatus)
	next.Running = false
	next.LastRunAt = now
	next.LastAdded = added
	if err != nil {
		next.LastError = err.Error()
		log.Printf("[collect] scheduled run failed: %v", err)
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	collectStatus.Store(next)
	hub.Publish(events.MakeEvent("", events.TypeCollectFinished, 1, map[string]any{"added": added}))
}
