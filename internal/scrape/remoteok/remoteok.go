package remoteok

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/scrape/util"
	"jobmarket-engine/internal/skills"

	"github.com/PuerkitoBio/goquery"
)

type Config struct {
	Query   string
	MaxJobs int

	DelayMin time.Duration
	DelayMax time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	now     func() time.Time
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 50
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		now:     time.Now,
	}
}

func (s *Scraper) Name() string { return "remoteok" }

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	var lastErr error

	for _, u := range s.candidateURLs() {
		log.Printf("[remoteok] trying %s", u)

		doc, err := s.getDoc(ctx, u)
		if err != nil {
			log.Printf("[remoteok] %s: %v", u, err)
			lastErr = err
			continue
		}

		records := s.parseListing(doc)
		if len(records) == 0 {
			log.Printf("[remoteok] no job rows at %s", u)
			continue
		}

		util.PoliteDelay(ctx, s.cfg.DelayMin, s.cfg.DelayMax, 0.5)
		log.Printf("[remoteok] scraped %d records", len(records))
		return types.Result{Source: "RemoteOK", Records: records}, nil
	}

	if lastErr != nil {
		return types.Result{}, fmt.Errorf("remoteok: all listing urls failed: %w", lastErr)
	}
	return types.Result{Source: "RemoteOK"}, nil
}

// candidateURLs ranks listing pages from most to least specific; the
// first one yielding rows wins.
func (s *Scraper) candidateURLs() []string {
	term := strings.ToLower(strings.TrimSpace(s.cfg.Query))
	term = strings.ReplaceAll(term, " ", "-")

	urls := []string{}
	if term != "" {
		urls = append(urls, "https://remoteok.com/remote-"+term+"-jobs")
	}
	return append(urls,
		"https://remoteok.com/remote-dev-jobs",
		"https://remoteok.com/",
	)
}

func (s *Scraper) parseListing(doc *goquery.Document) []domain.JobRecord {
	var records []domain.JobRecord

	doc.Find("tr.job").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(records) >= s.cfg.MaxJobs {
			return false
		}
		if rec, ok := s.parseRow(row); ok {
			records = append(records, rec)
		}
		return true
	})
	return records
}

func (s *Scraper) parseRow(row *goquery.Selection) (domain.JobRecord, bool) {
	title := util.CleanText(row.Find("td.company h2").First().Text())
	if title == "" {
		title = util.CleanText(row.Find(`h2[itemprop="title"]`).First().Text())
	}

	company := util.CleanText(row.Find("td.company h3").First().Text())
	if company == "" {
		company = util.CleanText(row.Find(`h3[itemprop="name"]`).First().Text())
	}

	// tag cells double as a skill list; salary badges start with "$"
	var tags []string
	row.Find("td.tags a.tag h3, td.tags span.tag h3").Each(func(_ int, tag *goquery.Selection) {
		t := util.CleanText(tag.Text())
		if t != "" && !strings.HasPrefix(t, "$") {
			tags = append(tags, t)
		}
	})

	dateRaw := ""
	if timeEl := row.Find("td.time time").First(); timeEl.Length() > 0 {
		if v, ok := timeEl.Attr("datetime"); ok && v != "" {
			dateRaw = v
		} else {
			dateRaw = timeEl.Text()
		}
	}
	posted := util.ParseDate(dateRaw, s.now())

	desc := fmt.Sprintf("Remote %s position at %s.", title, company)
	if len(tags) > 0 {
		head := tags
		if len(head) > 5 {
			head = head[:5]
		}
		desc += " Required skills: " + strings.Join(head, ", ") + "."
	}

	jobURL := ""
	if href, ok := row.Attr("data-href"); ok && href != "" {
		jobURL = util.CanonicalizeURL("https://remoteok.com" + strings.TrimSpace(href))
	}

	rec := domain.JobRecord{
		Title:       title,
		Company:     company,
		Location:    "Remote",
		DatePosted:  posted,
		Skills:      skills.MergeTags(tags, skills.Extract(desc)),
		Source:      "RemoteOK",
		Description: util.TruncateDescription(desc),
		URL:         jobURL,
	}
	return rec, rec.Valid()
}

func (s *Scraper) getDoc(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://remoteok.com/")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
