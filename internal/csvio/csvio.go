// Package csvio reads and writes the canonical flat-file record schema
// shared by the collector and the dashboard:
//
//	title,company,location,date_posted,skills,source,description,url
//
// Every field is quoted, skills are joined with ", ", dates are
// YYYY-MM-DD. The url column is optional on read for files produced by
// older exports.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"jobmarket-engine/internal/domain"
)

var Header = []string{"title", "company", "location", "date_posted", "skills", "source", "description", "url"}

var ErrNoData = errors.New("csv: no data rows")

// WriteRecords writes the canonical schema with every field quoted,
// matching what downstream spreadsheet users expect of the file.
func WriteRecords(w io.Writer, records []domain.JobRecord) error {
	bw := bufio.NewWriter(w)

	writeRow := func(fields []string) error {
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(f)); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeRow(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Title,
			r.Company,
			r.Location,
			r.DateOnly(),
			strings.Join(r.Skills, ", "),
			r.Source,
			r.Description,
			r.URL,
		}
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteFile(path string, records []domain.JobRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv create: %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv write: %w", err)
	}
	return f.Close()
}

// ReadRecords loads rows back into records. Strings are trimmed, the
// skills column is split on commas, and rows whose date fails to parse
// are dropped, matching how the dashboard has always coerced its input.
// A header-only file yields ErrNoData.
func ReadRecords(r io.Reader) ([]domain.JobRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // url column is optional

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	col := indexColumns(header)
	if col["title"] < 0 || col["company"] < 0 {
		return nil, errors.New("csv: missing title/company columns")
	}

	var out []domain.JobRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}

		get := func(name string) string {
			i := col[name]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, err := time.Parse("2006-01-02", get("date_posted"))
		if err != nil {
			continue // unparseable date drops the row
		}

		out = append(out, domain.JobRecord{
			Title:       get("title"),
			Company:     get("company"),
			Location:    get("location"),
			DatePosted:  date,
			Skills:      splitSkills(get("skills")),
			Source:      get("source"),
			Description: get("description"),
			URL:         get("url"),
		})
	}

	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func ReadFile(path string) ([]domain.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv open: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(Header))
	for _, name := range Header {
		col[name] = -1
	}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// quote always wraps the field, doubling embedded quotes (RFC 4180).
func quote(f string) string {
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
