package scrape

import (
	"context"
	"database/sql"
	"log"
	"time"

	"jobmarket-engine/internal/config"
	"jobmarket-engine/internal/secrets"
	"jobmarket-engine/internal/store"
)

const runTimeout = 10 * time.Minute

// RunOnce is the single collection entrypoint shared by the HTTP
// trigger and the scheduler: fetch every enabled source, then insert
// what is new. onNewRecord fires once per inserted record.
func RunOnce(db *sql.DB, cfg config.Config, onNewRecord func()) (added int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	var imapPassword string
	if cfg.Email.Enabled {
		pw, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
		if err != nil {
			log.Printf("[collect] email source skipped: %v", err)
			cfg.Email.Enabled = false
		} else {
			imapPassword = pw
		}
	}

	fetchers := BuildFetchers(cfg, imapPassword)
	if len(fetchers) == 0 {
		log.Printf("[collect] no sources enabled, nothing to do")
		return 0, nil
	}

	delayMin, delayMax := cfg.Collect.DelayBounds()
	records := Collect(ctx, fetchers, delayMin, delayMax)

	for _, r := range records {
		ok, err := store.InsertRecordIfNew(db, r)
		if err != nil {
			return added, err
		}
		if ok {
			added++
			if onNewRecord != nil {
				onNewRecord()
			}
		}
	}

	log.Printf("[collect] run finished: %d new of %d collected", added, len(records))
	return added, nil
}
