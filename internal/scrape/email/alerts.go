package email

import (
	"regexp"
	"strings"

	"jobmarket-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// alertJob is one posting lifted out of a job-alert email body.
type alertJob struct {
	Title    string
	Company  string
	Location string
	URL      string
}

var reJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

// parseAlertHTML extracts postings from a LinkedIn-style alert email.
// Alert templates scatter several anchors per job (logo, title, card),
// so anchors are merged by job id before fields are filled in.
func parseAlertHTML(body string) ([]alertJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	byID := map[string]*alertJob{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		lh := strings.ToLower(href)
		if href == "" || !strings.Contains(lh, "/jobs/view/") {
			return
		}

		jobURL := util.CanonicalizeURL(href)
		key := jobURL
		if m := reJobID.FindStringSubmatch(jobURL); len(m) == 2 {
			key = "view:" + m[1]
		}

		j, ok := byID[key]
		if !ok {
			j = &alertJob{URL: jobURL}
			byID[key] = j
			order = append(order, key)
		}

		if t := util.CleanText(a.Text()); betterTitle(t, j.Title) {
			j.Title = t
		}

		// the surrounding card usually carries "Company · Location" in a <p>
		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := util.CleanText(p.Text())
			if t == "" {
				return
			}
			if j.Company == "" && j.Location == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				j.Company = strings.TrimSpace(parts[0])
				j.Location = strings.TrimSpace(parts[1])
			}
		})
	})

	out := make([]alertJob, 0, len(byID))
	for _, key := range order {
		j := byID[key]
		if j.Title == "" || j.URL == "" {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

// betterTitle prefers longer, non-junk anchor text.
func betterTitle(cand, cur string) bool {
	if cand == "" || len(cand) < 3 {
		return false
	}
	l := strings.ToLower(cand)
	if strings.Contains(l, "view job") || strings.Contains(l, "see all") || strings.HasPrefix(l, "http") {
		return false
	}
	return len(cand) > len(cur)
}
