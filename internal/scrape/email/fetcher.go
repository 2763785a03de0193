package email

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
	"jobmarket-engine/internal/scrape/types"
	"jobmarket-engine/internal/scrape/util"
	"jobmarket-engine/internal/skills"
)

type Config struct {
	IMAPHost         string
	IMAPPort         int
	Username         string
	Mailbox          string
	SearchSubjectAny []string
	MaxMessages      int
}

// Fetcher turns job-alert emails into records. Password comes from the
// OS keyring, injected by the caller; it never lives in config.
type Fetcher struct {
	Cfg      Config
	Password string
	now      func() time.Time
}

func NewFetcher(cfg Config, password string) *Fetcher {
	return &Fetcher{Cfg: cfg, Password: password, now: time.Now}
}

func (f *Fetcher) Name() string { return "email" }

func (f *Fetcher) Fetch(ctx context.Context) (types.Result, error) {
	addr := fmt.Sprintf("%s:%d", f.Cfg.IMAPHost, f.Cfg.IMAPPort)

	c, err := DialAndLogin(ctx, addr, f.Cfg.Username, f.Password)
	if err != nil {
		return types.Result{}, err
	}
	defer func() { _ = c.Logout().Wait() }()

	if err := SelectMailbox(c, f.Cfg.Mailbox); err != nil {
		return types.Result{}, err
	}

	msgs, err := FetchRecent(ctx, c, f.Cfg.MaxMessages)
	if err != nil {
		return types.Result{}, err
	}

	var records []domain.JobRecord
	for _, m := range msgs {
		if !f.subjectMatches(m.Subject) {
			continue
		}
		body := htmlBody(m.RawMessage)
		if body == "" {
			continue
		}
		jobs, perr := parseAlertHTML(body)
		if perr != nil {
			log.Printf("[email] parse alert uid=%d: %v", m.UID, perr)
			continue
		}
		for _, j := range jobs {
			records = append(records, f.toRecord(j, m.Date))
		}
	}

	log.Printf("[email] extracted %d records from %d messages", len(records), len(msgs))
	return types.Result{Source: "Email Alerts", Records: records}, nil
}

func (f *Fetcher) subjectMatches(subject string) bool {
	if len(f.Cfg.SearchSubjectAny) == 0 {
		return true
	}
	s := strings.ToLower(subject)
	for _, want := range f.Cfg.SearchSubjectAny {
		if w := strings.ToLower(strings.TrimSpace(want)); w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (f *Fetcher) toRecord(j alertJob, received time.Time) domain.JobRecord {
	posted := received
	if posted.IsZero() {
		posted = f.now()
	}

	desc := fmt.Sprintf("Job alert for %s at %s.", j.Title, j.Company)
	if j.Location != "" {
		desc += " Location: " + j.Location + "."
	}

	return domain.JobRecord{
		Title:       util.CleanText(j.Title),
		Company:     util.CleanText(j.Company),
		Location:    util.CleanText(j.Location),
		DatePosted:  posted,
		Skills:      skills.Extract(j.Title + " " + desc),
		Source:      "Email Alerts",
		Description: util.TruncateDescription(desc),
		URL:         j.URL,
	}
}
