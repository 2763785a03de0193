package domain

import (
	"strings"
	"time"
)

// JobRecord is one normalized job posting. Records are built during
// collection and never mutated afterwards.
type JobRecord struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	DatePosted  time.Time `json:"datePosted"`
	Skills      []string  `json:"skills"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
}

// Valid reports whether the record is worth keeping: title and company
// must both be non-empty after trimming.
func (r JobRecord) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Company) != ""
}

// DedupKey collapses duplicate postings across sources. Lowercased so
// ("Engineer","Acme") and ("engineer","ACME") collide.
func (r JobRecord) DedupKey() string {
	t := strings.ToLower(strings.TrimSpace(r.Title))
	c := strings.ToLower(strings.TrimSpace(r.Company))
	return t + "|" + c
}

// City derives the city from the location field: the part before the
// first comma, "Remote" passthrough, "Unknown" when empty.
func (r JobRecord) City() string {
	loc := strings.TrimSpace(r.Location)
	if loc == "" {
		return "Unknown"
	}
	if strings.Contains(strings.ToLower(loc), "remote") {
		return "Remote"
	}
	if i := strings.IndexByte(loc, ','); i >= 0 {
		city := strings.TrimSpace(loc[:i])
		if city == "" {
			return "Unknown"
		}
		return city
	}
	return loc
}

// DateOnly is the canonical YYYY-MM-DD form used in the CSV schema.
func (r JobRecord) DateOnly() string {
	return r.DatePosted.Format("2006-01-02")
}
