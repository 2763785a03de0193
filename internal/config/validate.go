package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a tidied copy plus everything wrong or
// questionable about it. Warnings don't block saving.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Collect.Query = strings.TrimSpace(out.Collect.Query)
	out.Collect.Location = strings.TrimSpace(out.Collect.Location)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if !out.Sources.LinkedIn.Enabled && !out.Sources.RemoteOK.Enabled &&
		!out.Sources.Demo.Enabled && !out.Email.Enabled {
		res.addWarn("no sources enabled; collection runs will produce nothing")
	}

	if out.Collect.MaxPerSource < 0 {
		res.addErr("collect.max_per_source must be >= 0")
	}
	if out.Collect.DelayMinSeconds < 0 || out.Collect.DelayMaxSeconds < 0 {
		res.addErr("collect delay bounds must be >= 0")
	}
	if out.Collect.DelayMaxSeconds > 0 && out.Collect.DelayMaxSeconds < out.Collect.DelayMinSeconds {
		res.addErr("collect.delay_max_seconds must be >= collect.delay_min_seconds")
	}
	if out.Collect.DelayMinSeconds > 0 && out.Collect.DelayMinSeconds < 1 {
		res.addWarn("collect.delay_min_seconds below 1s is impolite to remote servers")
	}
	if out.Collect.IntervalMinutes < 0 {
		res.addErr("collect.interval_minutes must be >= 0")
	}

	if out.Sources.Demo.Count < 0 {
		res.addErr("sources.demo.count must be >= 0")
	}

	// email required fields if enabled (password is in the keychain)
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every recent message will be scanned")
		}
	}

	return out, res
}
