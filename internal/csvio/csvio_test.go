package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket-engine/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRoundTrip(t *testing.T) {
	in := []domain.JobRecord{
		{
			Title:       "Software Engineer",
			Company:     "Acme",
			Location:    "Austin, TX",
			DatePosted:  date("2024-01-01"),
			Skills:      []string{"AWS", "Go", "Python"},
			Source:      "LinkedIn",
			Description: `Builds "things" with Go, commas, and newlines`,
			URL:         "https://example.com/jobs/1",
		},
		{
			Title:      "Data Scientist",
			Company:    "Globex",
			Location:   "Remote",
			DatePosted: date("2024-01-02"),
			Skills:     []string{"Python", "SQL"},
			Source:     "RemoteOK",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, in))

	out, err := ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Company, out[i].Company)
		assert.Equal(t, in[i].City(), out[i].City())
		assert.Equal(t, in[i].DateOnly(), out[i].DateOnly())
		assert.Equal(t, in[i].Skills, out[i].Skills)
		assert.Equal(t, in[i].Source, out[i].Source)
	}
}

func TestWriteQuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, []domain.JobRecord{{
		Title:      "Engineer",
		Company:    "Acme",
		DatePosted: date("2024-03-01"),
		Source:     "Demo",
	}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"title","company","location","date_posted","skills","source","description","url"`, lines[0])
	assert.Equal(t, `"Engineer","Acme","","2024-03-01","","Demo","",""`, lines[1])
}

func TestReadDropsBadDates(t *testing.T) {
	csv := `title,company,location,date_posted,skills,source,description
"Engineer","Acme","Austin, TX","2024-01-01","Go","Demo",""
"Analyst","Globex","Boston, MA","not-a-date","SQL","Demo",""
`
	out, err := ReadRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Engineer", out[0].Title)
}

func TestReadWithoutURLColumn(t *testing.T) {
	csv := `title,company,location,date_posted,skills,source,description
"Engineer","Acme","Remote","2024-01-01","Go, Docker","Demo","desc"
`
	out, err := ReadRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Go", "Docker"}, out[0].Skills)
	assert.Empty(t, out[0].URL)
}

func TestReadEmpty(t *testing.T) {
	_, err := ReadRecords(strings.NewReader("title,company,location,date_posted,skills,source,description\n"))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ReadRecords(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)
}
