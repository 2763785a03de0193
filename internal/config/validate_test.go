package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.Sources.Demo.Enabled = true
	cfg.Sources.Demo.Count = 15
	return cfg
}

func TestNormalizeAndValidateOK(t *testing.T) {
	cfg := baseConfig()
	cfg.Collect.Query = "  software engineer  "
	cfg.Email.SearchSubjectAny = []string{" Job Alert ", "job alert", "", "New Jobs"}

	out, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.Equal(t, "software engineer", out.Collect.Query)
	assert.Equal(t, []string{"Job Alert", "New Jobs"}, out.Email.SearchSubjectAny)
}

func TestValidatePortRange(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Port = 0

	_, res := NormalizeAndValidate(cfg)
	require.False(t, res.OK())
	assert.Contains(t, res.Errors[0], "app.port")
}

func TestValidateDelayBounds(t *testing.T) {
	cfg := baseConfig()
	cfg.Collect.DelayMinSeconds = 5
	cfg.Collect.DelayMaxSeconds = 2

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestValidateEmailRequiredFields(t *testing.T) {
	cfg := baseConfig()
	cfg.Email.Enabled = true

	_, res := NormalizeAndValidate(cfg)
	require.False(t, res.OK())
	assert.Len(t, res.Errors, 3) // host, port, username
}

func TestValidateNoSourcesWarns(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources.Demo.Enabled = false

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.NotEmpty(t, res.Warnings)
}

func TestSaveAtomicAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := baseConfig()
	cfg.Collect.Query = "data engineer"
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data engineer", loaded.Collect.Query)
	assert.Equal(t, 38471, loaded.App.Port)

	// second save keeps a .bak of the previous file
	cfg.Collect.Query = "platform engineer"
	require.NoError(t, SaveAtomic(path, cfg))
	prev, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "data engineer", prev.Collect.Query)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Port = -1
	assert.Error(t, SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg))
}
