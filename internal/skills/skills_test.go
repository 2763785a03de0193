package skills

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want []string
	}{
		{
			name: "basic stack",
			desc: "We use Python, Django and PostgreSQL on AWS.",
			want: []string{"AWS", "Django", "PostgreSQL", "Python"},
		},
		{
			name: "word boundaries",
			desc: "The ongoing project is written in Go.",
			want: []string{"Go"},
		},
		{
			name: "special literals",
			desc: "Experience with C# or C++ and NodeJS required",
			want: []string{"C#", "C++", "Node.js"},
		},
		{
			name: "acronym casing",
			desc: "html, css and sql plus ci/cd pipelines",
			want: []string{"CI/CD", "CSS", "HTML", "SQL"},
		},
		{
			name: "multi word keywords",
			desc: "Machine learning and ruby on rails experience",
			// "ruby" also fires on its own inside "ruby on rails"
			want: []string{"Machine Learning", "Ruby", "Ruby On Rails"},
		},
		{
			name: "dotted keyword attached to a word",
			desc: "Migrating asp.net services",
			want: []string{".Net"},
		},
		{
			name: "dotted keyword standalone",
			desc: "Strong .NET background",
			want: []string{".Net"},
		},
		{
			name: "no duplicates",
			desc: "python Python PYTHON",
			want: []string{"Python"},
		},
		{
			name: "empty input",
			desc: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.desc))
		})
	}
}

func TestExtractSortedAndCanonical(t *testing.T) {
	got := Extract("kubernetes docker terraform react javascript aws gcp")
	require.NotEmpty(t, got)

	assert.True(t, sort.StringsAreSorted(got), "result must be sorted")

	// every tag is a canonical vocabulary form
	canon := map[string]bool{}
	for _, kw := range vocabulary {
		canon[Canonical(kw)] = true
	}
	seen := map[string]bool{}
	for _, s := range got {
		assert.True(t, canon[s], "tag %q not a canonical vocabulary form", s)
		assert.False(t, seen[strings.ToLower(s)], "duplicate tag %q", s)
		seen[strings.ToLower(s)] = true
	}
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"Python", "Golang", " "}, []string{"python", "AWS"})
	assert.Equal(t, []string{"AWS", "Golang", "Python"}, got)
}
