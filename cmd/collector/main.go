// Command collector is the one-shot CLI: run a single collection pass,
// write the canonical CSV, and import the results into the engine's
// sqlite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/csvio"
	"jobmarket-engine/internal/scrape"
	"jobmarket-engine/internal/secrets"
	"jobmarket-engine/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Printf("collector: %v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  = flag.String("config", "", "config file (default: <data-dir>/config.yml)")
		dataDir  = flag.String("data-dir", envOr("JOBMARKET_DATA_DIR", "."), "data directory")
		query    = flag.String("query", "", "override collect.query")
		location = flag.String("location", "", "override collect.location")
		maxJobs  = flag.Int("max", 0, "override collect.max_per_source")
		outCSV   = flag.String("out", "", "override collect.output_csv")
		noImport = flag.Bool("no-import", false, "skip the sqlite import, write CSV only")
	)
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		return err
	}

	path := *cfgPath
	if path == "" {
		p, err := config.EnsureUserConfig(*dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			return fmt.Errorf("config bootstrap: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load (%s): %w", path, err)
	}
	if *query != "" {
		cfg.Collect.Query = *query
	}
	if *location != "" {
		cfg.Collect.Location = *location
	}
	if *maxJobs > 0 {
		cfg.Collect.MaxPerSource = *maxJobs
	}
	if *outCSV != "" {
		cfg.Collect.OutputCSV = *outCSV
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	var imapPassword string
	if cfg.Email.Enabled {
		pw, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
		if err != nil {
			log.Printf("[collector] email source skipped: %v", err)
			cfg.Email.Enabled = false
		} else {
			imapPassword = pw
		}
	}

	fetchers := scrape.BuildFetchers(cfg, imapPassword)
	if len(fetchers) == 0 {
		return fmt.Errorf("no sources enabled in %s", path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	delayMin, delayMax := cfg.Collect.DelayBounds()
	records := scrape.Collect(ctx, fetchers, delayMin, delayMax)
	if len(records) == 0 {
		return fmt.Errorf("no records collected")
	}

	csvPath := cfg.Collect.OutputCSV
	if csvPath == "" {
		csvPath = filepath.Join(*dataDir, "job_postings.csv")
	}
	if err := csvio.WriteFile(csvPath, records); err != nil {
		return err
	}
	log.Printf("[collector] wrote %d records to %s", len(records), csvPath)

	if *noImport {
		return nil
	}

	db, err := store.Open(filepath.Join(*dataDir, "jobmarket.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	added, err := store.ImportRecords(db.Pool, records)
	if err != nil {
		return err
	}
	log.Printf("[collector] imported %d new records (%d already known)", added, len(records)-added)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
