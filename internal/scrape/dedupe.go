package scrape

import "jobmarket-engine/internal/domain"

// Dedupe drops invalid records and collapses duplicates by the
// case-insensitive (title, company) key, keeping the first record seen.
// Running it on its own output is a no-op.
func Dedupe(records []domain.JobRecord) []domain.JobRecord {
	seen := make(map[string]bool, len(records))
	out := make([]domain.JobRecord, 0, len(records))

	for _, r := range records {
		if !r.Valid() {
			continue
		}
		key := r.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
