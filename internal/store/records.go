package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  date_posted TEXT NOT NULL,
  skills TEXT NOT NULL DEFAULT '[]',
  source TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  dedup_key TEXT NOT NULL,
  added_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_records_dedup_key
ON records(dedup_key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_records_date_posted
ON records(date_posted);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertRecordIfNew inserts the record unless its dedup key is already
// present. The first posting seen for a (title, company) pair wins.
func InsertRecordIfNew(db *sql.DB, r domain.JobRecord) (added bool, err error) {
	skillsB, _ := json.Marshal(r.Skills)
	if r.Skills == nil {
		skillsB = []byte("[]")
	}

	_, err = db.Exec(`
INSERT OR IGNORE INTO records (title, company, location, date_posted, skills, source, description, url, dedup_key, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		r.Title, r.Company, r.Location, r.DateOnly(), string(skillsB),
		r.Source, r.Description, r.URL, r.DedupKey(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}

	var changes int
	if e := db.QueryRow(`SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// ImportRecords inserts a batch, returning how many were new.
func ImportRecords(db *sql.DB, records []domain.JobRecord) (added int, err error) {
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		ok, err := InsertRecordIfNew(db, r)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// ListOpts narrow a listing; zero values mean no constraint. From/To
// are inclusive YYYY-MM-DD bounds on date_posted.
type ListOpts struct {
	Source string
	From   string
	To     string
	Limit  int
}

func ListRecords(ctx context.Context, db *sql.DB, opts ListOpts) ([]domain.JobRecord, error) {
	var conds []string
	var args []any
	if opts.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, opts.Source)
	}
	if opts.From != "" {
		conds = append(conds, "date_posted >= ?")
		args = append(args, opts.From)
	}
	if opts.To != "" {
		conds = append(conds, "date_posted <= ?")
		args = append(args, opts.To)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit := ""
	if opts.Limit > 0 {
		limit = "LIMIT ?"
		args = append(args, opts.Limit)
	}

	query := fmt.Sprintf(`
SELECT title, company, location, date_posted, skills, source, description, url
FROM records
%s
ORDER BY date_posted DESC, id ASC
%s;`, where, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		var r domain.JobRecord
		var dateStr, skillsJSON string
		if err := rows.Scan(
			&r.Title,
			&r.Company,
			&r.Location,
			&dateStr,
			&skillsJSON,
			&r.Source,
			&r.Description,
			&r.URL,
		); err != nil {
			return nil, err
		}
		r.DatePosted, _ = time.Parse("2006-01-02", dateStr)
		_ = json.Unmarshal([]byte(skillsJSON), &r.Skills)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func CountRecords(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records;`).Scan(&n)
	return n, err
}

// CleanupOldRecords drops postings older than the retention window.
func CleanupOldRecords(db *sql.DB) (deleted int64, err error) {
	res, err := db.Exec(`
DELETE FROM records
WHERE date_posted < date('now', '-6 months');
`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old records: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
