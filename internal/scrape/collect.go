package scrape

import (
	"context"
	"log"
	"strings"
	"time"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/scrape/demo"
	"jobmarket-engine/internal/scrape/email"
	"jobmarket-engine/internal/scrape/linkedin"
	"jobmarket-engine/internal/scrape/remoteok"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/scrape/util"
)

// BuildFetchers assembles the enabled sources in their configured
// order. imapPassword may be empty when the email source is disabled.
func BuildFetchers(cfg config.Config, imapPassword string) []types.Fetcher {
	limiter := util.NewHostLimiter(cfg.Collect.RequestsPerSecond(), 1)
	delayMin, delayMax := cfg.Collect.DelayBounds()

	var fetchers []types.Fetcher

	if cfg.Sources.LinkedIn.Enabled {
		fetchers = append(fetchers, linkedin.New(linkedin.Config{
			Query:    cfg.Collect.Query,
			Location: cfg.Collect.Location,
			MaxJobs:  cfg.Collect.MaxPerSource,
			DelayMin: delayMin,
			DelayMax: delayMax,
		}, limiter))
	}
	if cfg.Sources.RemoteOK.Enabled {
		fetchers = append(fetchers, remoteok.New(remoteok.Config{
			Query:    firstWord(cfg.Collect.Query, "software"),
			MaxJobs:  cfg.Collect.MaxPerSource,
			DelayMin: delayMin,
			DelayMax: delayMax,
		}, limiter))
	}
	if cfg.Sources.Demo.Enabled {
		fetchers = append(fetchers, demo.New(cfg.Sources.Demo.Count))
	}
	if cfg.Email.Enabled {
		fetchers = append(fetchers, email.NewFetcher(email.Config{
			IMAPHost:         cfg.Email.IMAPHost,
			IMAPPort:         cfg.Email.IMAPPort,
			Username:         cfg.Email.Username,
			Mailbox:          cfg.Email.Mailbox,
			SearchSubjectAny: cfg.Email.SearchSubjectAny,
			MaxMessages:      cfg.Email.MaxMessages,
		}, imapPassword))
	}
	return fetchers
}

// Collect runs every fetcher one after another. Sequential on purpose,
// so the politeness delays actually space requests out. A failing
// source is logged and contributes nothing; it never aborts the others.
func Collect(ctx context.Context, fetchers []types.Fetcher, delayMin, delayMax time.Duration) []domain.JobRecord {
	var all []domain.JobRecord

	for i, f := range fetchers {
		log.Printf("[collect] source %s: starting", f.Name())

		res, err := f.Fetch(ctx)
		if err != nil {
			log.Printf("[collect] source %s failed: %v", f.Name(), err)
			continue
		}
		log.Printf("[collect] source %s: %d records", f.Name(), len(res.Records))
		all = append(all, res.Records...)

		if i < len(fetchers)-1 {
			util.PoliteDelay(ctx, delayMin, delayMax, 1.0)
		}
	}

	before := len(all)
	out := Dedupe(all)
	log.Printf("[collect] %d records total, %d after dedupe", before, len(out))
	return out
}

func firstWord(s, fallback string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return fallback
}
