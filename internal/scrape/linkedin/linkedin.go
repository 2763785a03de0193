package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/scrape/util"
	"jobmarket-engine/internal/skills"

	"github.com/PuerkitoBio/goquery"
)

const (
	pageSize = 25
	maxPages = 3
)

type Config struct {
	Query    string
	Location string
	MaxJobs  int

	// politeness bounds between page fetches
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

func (s *Scraper) Name() string { return "linkedin" }

func (s *Scraper) Fetch(ctx context.Context) (types.Result, error) {
	var records []domain.JobRecord

	pages := maxPages
	if want := s.cfg.MaxJobs/pageSize + 1; want < pages {
		pages = want
	}

	for page := 0; page < pages && len(records) < s.cfg.MaxJobs; page++ {
		pageURL := s.searchURL(page * pageSize)
		log.Printf("[linkedin] fetching page %d: %s", page+1, pageURL)

		doc, err := s.getDoc(ctx, pageURL)
		if err != nil {
			return types.Result{}, fmt.Errorf("linkedin page %d: %w", page+1, err)
		}

		cards := doc.Find("div.base-card")
		if cards.Length() == 0 {
			log.Printf("[linkedin] no job cards on page %d; markup may have changed", page+1)
			break
		}

		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(records) >= s.cfg.MaxJobs {
				return false
			}
			if rec, ok := s.parseCard(card, pageURL); ok {
				records = append(records, rec)
			}
			return true
		})

		if page < pages-1 {
			util.PoliteDelay(ctx, s.cfg.DelayMin, s.cfg.DelayMax, 0.8)
		}
	}

	log.Printf("[linkedin] scraped %d records", len(records))
	return types.Result{Source: "LinkedIn", Records: records}, nil
}

// parseCard extracts one record from a search-result card. Each field
// degrades to "" when its element is missing; the record is kept only
// if title and company survive.
func (s *Scraper) parseCard(card *goquery.Selection, baseURL string) (domain.JobRecord, bool) {
	title := util.CleanText(card.Find("h3.base-search-card__title").First().Text())

	company := util.CleanText(card.Find("h4.base-search-card__subtitle").First().Text())
	if company == "" {
		company = util.CleanText(card.Find(`a[data-tracking-control-name="public_jobs_topcard-org-name"]`).First().Text())
	}

	location := util.CleanText(card.Find("span.job-search-card__location").First().Text())
	if location == "" {
		location = s.cfg.Location
	}

	dateEl := card.Find("time.job-search-card__listdate").First()
	if dateEl.Length() == 0 {
		dateEl = card.Find("time").First()
	}
	dateRaw := ""
	if dateEl.Length() > 0 {
		if v, ok := dateEl.Attr("datetime"); ok && v != "" {
			dateRaw = v
		} else {
			dateRaw = dateEl.Text()
		}
	}
	posted := util.ParseDate(dateRaw, s.now())

	jobURL := ""
	if href, ok := card.Find("a.base-card__full-link").First().Attr("href"); ok {
		if abs, err := resolveURL(baseURL, href); err == nil {
			jobURL = util.CanonicalizeURL(abs)
		}
	}

	desc := fmt.Sprintf("LinkedIn job posting for %s at %s. Location: %s.", title, company, location)
	if snippet := util.CleanText(card.Find("p.job-search-card__snippet").First().Text()); snippet != "" {
		desc += " " + snippet
	}

	rec := domain.JobRecord{
		Title:       title,
		Company:     company,
		Location:    location,
		DatePosted:  posted,
		Skills:      skills.Extract(desc),
		Source:      "LinkedIn",
		Description: util.TruncateDescription(desc),
		URL:         jobURL,
	}
	return rec, rec.Valid()
}

func (s *Scraper) searchURL(start int) string {
	q := url.Values{}
	q.Set("keywords", s.cfg.Query)
	q.Set("location", s.cfg.Location)
	q.Set("start", fmt.Sprint(start))
	q.Set("f_TPR", "r604800") // past week
	return "https://www.linkedin.com/jobs/search?" + q.Encode()
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
	browserHeaders(req)

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

func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func resolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(h).String(), nil
}
