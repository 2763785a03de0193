package linkedin

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardHTML = `
<div class="base-card">
  <a class="base-card__full-link" href="/jobs/view/python-developer-at-acme-3791?utm_source=share&amp;refId=abc"></a>
  <h3 class="base-search-card__title">
     Senior Python&nbsp;Developer
  </h3>
  <h4 class="base-search-card__subtitle">Acme Corp</h4>
  <span class="job-search-card__location">Austin, TX</span>
  <time class="job-search-card__listdate" datetime="2024-03-10">3 days ago</time>
  <p class="job-search-card__snippet">We need Python and AWS experience.</p>
</div>`

const bareCardHTML = `
<div class="base-card">
  <h3 class="base-search-card__title">Engineer</h3>
  <h4 class="base-search-card__subtitle">Globex</h4>
</div>`

func cardFrom(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	card := doc.Find("div.base-card").First()
	require.Equal(t, 1, card.Length())
	return card
}

func testScraper() *Scraper {
	s := New(Config{Query: "python", Location: "United States"}, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestParseCard(t *testing.T) {
	s := testScraper()

	rec, ok := s.parseCard(cardFrom(t, cardHTML), "https://www.linkedin.com/jobs/search?keywords=python")
	require.True(t, ok)

	assert.Equal(t, "Senior Python Developer", rec.Title) // NBSP and padding collapsed
	assert.Equal(t, "Acme Corp", rec.Company)
	assert.Equal(t, "Austin, TX", rec.Location)
	assert.Equal(t, "2024-03-10", rec.DateOnly()) // datetime attr wins over relative text
	assert.Equal(t, "LinkedIn", rec.Source)
	assert.Contains(t, rec.Skills, "Python")
	assert.Contains(t, rec.Skills, "AWS")
	assert.Equal(t, "https://www.linkedin.com/jobs/view/python-developer-at-acme-3791", rec.URL)
	assert.Contains(t, rec.Description, "We need Python and AWS experience.")
}

func TestParseCardFallbacks(t *testing.T) {
	s := testScraper()

	rec, ok := s.parseCard(cardFrom(t, bareCardHTML), "https://www.linkedin.com/jobs/search")
	require.True(t, ok)

	assert.Equal(t, "United States", rec.Location) // configured location fills in
	assert.Equal(t, "2024-03-15", rec.DateOnly())  // missing date defaults to today
	assert.Empty(t, rec.URL)
}

func TestParseCardRejectsEmptyTitle(t *testing.T) {
	s := testScraper()

	_, ok := s.parseCard(cardFrom(t, `<div class="base-card"><h4 class="base-search-card__subtitle">Acme</h4></div>`), "https://www.linkedin.com/")
	assert.False(t, ok)
}

func TestSearchURL(t *testing.T) {
	s := testScraper()
	u := s.searchURL(25)
	assert.Contains(t, u, "keywords=python")
	assert.Contains(t, u, "start=25")
	assert.Contains(t, u, "f_TPR=r604800")
}
