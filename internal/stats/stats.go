// Package stats computes the dashboard aggregations over in-memory
// record slices. Everything here is pure; the HTTP layer decides where
// the records come from (sqlite or a CSV import).
package stats

import (
	"sort"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
)

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalPostings   int            `json:"total_postings"`
	UniqueCompanies int            `json:"unique_companies"`
	UniqueCities    int            `json:"unique_cities"`
	SpanDays        int            `json:"span_days"`
	MeanPerDay      float64        `json:"mean_per_day"`
	PeakPerDay      int            `json:"peak_per_day"`
	BySource        map[string]int `json:"by_source"`
}

// Filter narrows records by source and inclusive posting-date range.
// Zero values mean "no constraint"; constraints combine conjunctively.
type Filter struct {
	Source string
	From   time.Time
	To     time.Time
}

func (f Filter) Match(r domain.JobRecord) bool {
	if f.Source != "" && r.Source != f.Source {
		return false
	}
	d := r.DatePosted.Truncate(24 * time.Hour)
	if !f.From.IsZero() && d.Before(f.From.Truncate(24*time.Hour)) {
		return false
	}
	if !f.To.IsZero() && d.After(f.To.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

func Apply(records []domain.JobRecord, f Filter) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// counter tallies occurrences while remembering the order keys first
// appeared, so ties rank by first occurrence rather than alphabet.
type counter struct {
	counts  map[string]int
	display map[string]string
	first   map[string]int
	seen    int
}

func newCounter() *counter {
	return &counter{
		counts:  map[string]int{},
		display: map[string]string{},
		first:   map[string]int{},
	}
}

func (c *counter) add(key, name string) {
	if _, ok := c.first[key]; !ok {
		c.first[key] = c.seen
		c.display[key] = name
	}
	c.seen++
	c.counts[key]++
}

// top ranks by count descending, ties broken by first occurrence.
// n <= 0 means all.
func (c *counter) top(n int) []Count {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c.counts[keys[i]] != c.counts[keys[j]] {
			return c.counts[keys[i]] > c.counts[keys[j]]
		}
		return c.first[keys[i]] < c.first[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	out := make([]Count, 0, len(keys))
	for _, k := range keys {
		out = append(out, Count{Name: c.display[k], Count: c.counts[k]})
	}
	return out
}

func TopTitles(records []domain.JobRecord, n int) []Count {
	c := newCounter()
	for _, r := range records {
		if r.Title != "" {
			c.add(r.Title, r.Title)
		}
	}
	return c.top(n)
}

// TopSkills counts skills case-insensitively; the first casing seen is
// what gets displayed, so "Python" and "python" collapse to one bar.
func TopSkills(records []domain.JobRecord, n int) []Count {
	c := newCounter()
	for _, r := range records {
		for _, s := range r.Skills {
			c.add(strings.ToLower(s), s)
		}
	}
	return c.top(n)
}

func TopCities(records []domain.JobRecord, n int) []Count {
	c := newCounter()
	for _, r := range records {
		city := r.City()
		c.add(city, city)
	}
	return c.top(n)
}

// DailyCounts buckets postings by day, ascending.
func DailyCounts(records []domain.JobRecord) []DailyCount {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.DateOnly()]++
	}
	out := make([]DailyCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DailyCount{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func Summarize(records []domain.JobRecord) Summary {
	s := Summary{BySource: map[string]int{}}
	s.TotalPostings = len(records)
	if len(records) == 0 {
		return s
	}

	companies := map[string]bool{}
	cities := map[string]bool{}
	for _, r := range records {
		companies[strings.ToLower(r.Company)] = true
		cities[r.City()] = true
		s.BySource[r.Source]++
	}
	s.UniqueCompanies = len(companies)
	s.UniqueCities = len(cities)

	daily := DailyCounts(records)
	first, _ := time.Parse("2006-01-02", daily[0].Date)
	last, _ := time.Parse("2006-01-02", daily[len(daily)-1].Date)
	s.SpanDays = int(last.Sub(first).Hours() / 24)

	for _, d := range daily {
		if d.Count > s.PeakPerDay {
			s.PeakPerDay = d.Count
		}
	}
	// mean over days that have postings, not over the calendar span
	s.MeanPerDay = float64(s.TotalPostings) / float64(len(daily))
	return s
}
