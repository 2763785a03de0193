package remoteok

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `
<table>
<tr class="job" data-href="/remote-jobs/12345-backend-engineer">
  <td class="company">
    <h2>Backend Engineer</h2>
    <h3>Initech</h3>
  </td>
  <td class="tags">
    <a class="tag"><h3>Go</h3></a>
    <a class="tag"><h3>PostgreSQL</h3></a>
    <a class="tag"><h3>$120k+</h3></a>
  </td>
  <td class="time"><time datetime="2024-03-12">2d</time></td>
</tr>
<tr class="job">
  <td class="company"><h2>Designer</h2><h3>Hooli</h3></td>
</tr>
<tr class="job">
  <td class="company"><h2></h2><h3>Nameless</h3></td>
</tr>
</table>`

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func testScraper(maxJobs int) *Scraper {
	s := New(Config{Query: "backend", MaxJobs: maxJobs}, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestParseListing(t *testing.T) {
	s := testScraper(50)

	records := s.parseListing(docFrom(t, listingHTML))
	require.Len(t, records, 2) // row without a title is dropped

	first := records[0]
	assert.Equal(t, "Backend Engineer", first.Title)
	assert.Equal(t, "Initech", first.Company)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "2024-03-12", first.DateOnly())
	assert.Equal(t, "RemoteOK", first.Source)
	assert.Equal(t, "https://remoteok.com/remote-jobs/12345-backend-engineer", first.URL)

	// salary badge filtered out, tag casing preserved
	assert.Contains(t, first.Skills, "Go")
	assert.Contains(t, first.Skills, "PostgreSQL")
	for _, sk := range first.Skills {
		assert.False(t, strings.HasPrefix(sk, "$"))
	}

	// row with no tags and no date falls back to today
	assert.Equal(t, "2024-03-15", records[1].DateOnly())
}

func TestParseListingHonorsMaxJobs(t *testing.T) {
	s := testScraper(1)

	records := s.parseListing(docFrom(t, listingHTML))
	assert.Len(t, records, 1)
}

func TestCandidateURLs(t *testing.T) {
	s := testScraper(10)
	urls := s.candidateURLs()
	require.Len(t, urls, 3)
	assert.Equal(t, "https://remoteok.com/remote-backend-jobs", urls[0])

	s.cfg.Query = ""
	assert.Len(t, s.candidateURLs(), 2)
}
