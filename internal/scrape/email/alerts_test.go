package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alertHTML = `
<html><body>
<table>
  <tr>
    <td><a href="https://www.linkedin.com/jobs/view/123456?trk=alert"><img src="logo.png"></a></td>
    <td>
      <a href="https://www.linkedin.com/jobs/view/123456?trk=alert&utm_source=email">Senior Go Developer</a>
      <p>Acme Corp · Austin, TX</p>
    </td>
  </tr>
</table>
<table>
  <tr>
    <td>
      <a href="https://www.linkedin.com/jobs/view/789012">Data Engineer</a>
      <p>Globex · Remote</p>
    </td>
  </tr>
</table>
<a href="https://www.linkedin.com/jobs/search/">See all jobs</a>
<a href="https://www.linkedin.com/jobs/view/345678">Vi</a>
</body></html>`

func TestParseAlertHTML(t *testing.T) {
	jobs, err := parseAlertHTML(alertHTML)
	require.NoError(t, err)
	require.Len(t, jobs, 2) // too-short title anchor yields no job

	first := jobs[0]
	assert.Equal(t, "Senior Go Developer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Austin, TX", first.Location)
	// tracking params stripped, both anchors merged by job id
	assert.Equal(t, "https://www.linkedin.com/jobs/view/123456?trk=alert", first.URL)

	second := jobs[1]
	assert.Equal(t, "Data Engineer", second.Title)
	assert.Equal(t, "Globex", second.Company)
	assert.Equal(t, "Remote", second.Location)
}

func TestParseAlertHTMLEmpty(t *testing.T) {
	jobs, err := parseAlertHTML(`<html><body><p>nothing here</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestBetterTitle(t *testing.T) {
	assert.True(t, betterTitle("Senior Engineer", ""))
	assert.True(t, betterTitle("Senior Engineer II", "Senior"))
	assert.False(t, betterTitle("ab", ""))
	assert.False(t, betterTitle("View job", ""))
	assert.False(t, betterTitle("see all jobs", ""))
	assert.False(t, betterTitle("https://example.com", ""))
	assert.False(t, betterTitle("Short", "Much Longer Title"))
}
