package skills

import (
	"regexp"
	"sort"
	"strings"
)

// vocabulary is the fixed set of recognized skill keywords, matched
// case-insensitively on word boundaries.
var vocabulary = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "c#", "c++", "php", "ruby",
	"go", "swift", "kotlin", "scala", "rust", "perl",
	// Frontend
	"html", "css", "react", "angular", "vue", "jquery", "bootstrap",
	"tailwind", "sass", "less", "svelte",
	// Backend
	"nodejs", "django", "flask", "spring", "ruby on rails", ".net",
	"laravel", "express",
	// Databases
	"sql", "mysql", "postgresql", "sqlite", "mongodb", "redis", "cassandra",
	"elasticsearch", "dynamodb", "oracle", "sql server",
	// Cloud
	"aws", "azure", "gcp", "google cloud", "amazon web services", "heroku",
	"digitalocean", "kubernetes", "docker", "terraform",
	// DevOps and tooling
	"git", "github", "gitlab", "jenkins", "ansible", "puppet", "chef",
	"ci/cd", "jira", "linux", "bash",
	// Data science / ML
	"machine learning", "data science", "artificial intelligence", "ai",
	"deep learning", "nlp", "pandas", "numpy", "scipy", "scikit-learn",
	"tensorflow", "pytorch", "keras", "spark", "hadoop",
	// Mobile
	"ios", "android", "react native", "flutter",
	// Other
	"api", "rest", "graphql", "microservices", "agile", "scrum",
}

// upperPreferred are acronyms that keep their uppercase form.
var upperPreferred = map[string]bool{
	"aws": true, "gcp": true, "ai": true, "html": true, "css": true,
	"sql": true, "api": true, "ci/cd": true, "nlp": true,
}

// special cases that neither upper-casing nor title-casing gets right
var canonicalOverride = map[string]string{
	"c#":         "C#",
	"c++":        "C++",
	"javascript": "JavaScript",
	"nodejs":     "Node.js",
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

type pattern struct {
	keyword string
	re      *regexp.Regexp
}

var patterns = compile()

func compile() []pattern {
	out := make([]pattern, 0, len(vocabulary))
	for _, kw := range vocabulary {
		// \b breaks next to '+', '#' or '.', so keywords that start or
		// end with one skip the anchor or get an explicit class instead
		// (RE2 has no lookaround). Without this, ".net" would never match
		// inside "asp.net" and "c++" would never match before a space.
		expr := regexp.QuoteMeta(kw)
		if isWordByte(kw[0]) {
			expr = `\b` + expr
		}
		if isWordByte(kw[len(kw)-1]) {
			expr += `\b`
		} else {
			expr += `(?:[^a-z0-9]|$)`
		}
		out = append(out, pattern{keyword: kw, re: regexp.MustCompile(expr)})
	}
	return out
}

// Canonical maps a vocabulary keyword to its display form.
func Canonical(keyword string) string {
	kw := strings.ToLower(keyword)
	if v, ok := canonicalOverride[kw]; ok {
		return v
	}
	if upperPreferred[kw] {
		return strings.ToUpper(kw)
	}
	return titleCase(kw)
}

// Extract matches the fixed vocabulary against free description text.
// Word-boundary matching keeps "go" from firing inside "ongoing".
// The result holds canonical forms, no duplicates, sorted.
func Extract(description string) []string {
	if description == "" {
		return nil
	}
	low := strings.ToLower(description)

	found := map[string]bool{}
	for _, p := range patterns {
		if p.re.MatchString(low) {
			found[Canonical(p.keyword)] = true
		}
	}
	if len(found) == 0 {
		return nil
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MergeTags folds an extracted set into site-provided tags (e.g.
// RemoteOK tag cells): case-insensitive dedup, sorted. Tags come first
// so their casing wins over canonicalized extraction.
func MergeTags(tags, extracted []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range append(append([]string{}, tags...), extracted...) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// titleCase uppercases every letter that follows a non-letter, so
// "ruby on rails" -> "Ruby On Rails" and "scikit-learn" -> "Scikit-Learn".
func titleCase(s string) string {
	b := []byte(s)
	upNext := true
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'a' && c <= 'z' {
			if upNext {
				b[i] = c - 'a' + 'A'
			}
			upNext = false
		} else if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			upNext = false
		} else {
			upNext = true
		}
	}
	return string(b)
}
