package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, JobRecord{Title: "Engineer", Company: "Acme"}.Valid())
	assert.False(t, JobRecord{Title: "  ", Company: "Acme"}.Valid())
	assert.False(t, JobRecord{Title: "Engineer", Company: ""}.Valid())
}

func TestDedupKey(t *testing.T) {
	a := JobRecord{Title: "Engineer", Company: "Acme"}
	b := JobRecord{Title: "ENGINEER", Company: "acme"}
	c := JobRecord{Title: "Engineer", Company: "Globex"}

	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestCity(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"Austin, TX", "Austin"},
		{"San Francisco, CA, USA", "San Francisco"},
		{"Remote", "Remote"},
		{"remote (US)", "Remote"},
		{"Berlin", "Berlin"},
		{"", "Unknown"},
		{"   ", "Unknown"},
	}
	for _, tt := range tests {
		got := JobRecord{Location: tt.location}.City()
		assert.Equal(t, tt.want, got, "location %q", tt.location)
	}
}

func TestDateOnly(t *testing.T) {
	r := JobRecord{DatePosted: time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2024-03-05", r.DateOnly())
}
