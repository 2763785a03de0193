package demo

import (
	"context"
	"log"
	"math/rand"
	"time"

	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/scrape/types"
)

const maxCount = 30

var (
	companies = []string{
		"Google", "Microsoft", "Amazon", "Apple", "Meta",
		"Netflix", "Tesla", "Uber", "Airbnb", "Spotify",
	}
	titles = []string{
		"Software Engineer", "Senior Software Engineer", "Data Scientist",
		"Product Manager", "DevOps Engineer", "Full Stack Developer",
	}
	locations = []string{
		"San Francisco, CA", "Seattle, WA", "New York, NY",
		"Austin, TX", "Boston, MA", "Remote",
	}
	skillSets = [][]string{
		{"Python", "Django", "PostgreSQL", "AWS"},
		{"JavaScript", "React", "Node.js", "MongoDB"},
		{"Java", "Spring", "MySQL", "Docker"},
		{"Python", "Machine Learning", "TensorFlow", "SQL"},
		{"Go", "Kubernetes", "Docker", "AWS"},
	}
)

// Generator synthesizes records from fixed candidate pools. No network
// involved; it stands in for sources that cannot be scraped directly.
type Generator struct {
	count int
	rng   *rand.Rand
	now   func() time.Time
}

func New(count int) *Generator {
	if count <= 0 {
		count = 15
	}
	if count > maxCount {
		count = maxCount
	}
	return &Generator{
		count: count,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

func (g *Generator) Name() string { return "demo" }

func (g *Generator) Fetch(ctx context.Context) (types.Result, error) {
	records := make([]domain.JobRecord, 0, g.count)
	for i := 0; i < g.count; i++ {
		set := skillSets[g.rng.Intn(len(skillSets))]
		records = append(records, domain.JobRecord{
			Title:       titles[g.rng.Intn(len(titles))],
			Company:     companies[g.rng.Intn(len(companies))],
			Location:    locations[g.rng.Intn(len(locations))],
			DatePosted:  g.now().AddDate(0, 0, -g.rng.Intn(31)),
			Skills:      append([]string(nil), set...),
			Source:      "Glassdoor (Demo)",
			Description: "Demo job description for testing purposes.",
		})
	}
	log.Printf("[demo] generated %d records", len(records))
	return types.Result{Source: "Glassdoor (Demo)", Records: records}, nil
}
