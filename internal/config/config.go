package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SourceToggle struct {
	Enabled bool `yaml:"enabled"`
}

type DemoSource struct {
	Enabled bool `yaml:"enabled"`
	Count   int  `yaml:"count"`
}

type CollectSettings struct {
	Query        string `yaml:"query"`
	Location     string `yaml:"location"`
	MaxPerSource int    `yaml:"max_per_source"`

	// politeness bounds between sequential requests
	DelayMinSeconds float64 `yaml:"delay_min_seconds"`
	DelayMaxSeconds float64 `yaml:"delay_max_seconds"`
	RequestsPerSec  float64 `yaml:"requests_per_second"`
	IntervalMinutes int     `yaml:"interval_minutes"` // periodic runs; 0 disables
	OutputCSV       string  `yaml:"output_csv"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Collect CollectSettings `yaml:"collect"`

	Sources struct {
		LinkedIn SourceToggle `yaml:"linkedin"`
		RemoteOK SourceToggle `yaml:"remoteok"`
		Demo     DemoSource   `yaml:"demo"`
	} `yaml:"sources"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
		MaxMessages      int      `yaml:"max_messages"`
	} `yaml:"email"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// DelayBounds returns the politeness window as durations, with sane
// defaults when unset.
func (c CollectSettings) DelayBounds() (min, max time.Duration) {
	lo, hi := c.DelayMinSeconds, c.DelayMaxSeconds
	if lo <= 0 {
		lo = 3
	}
	if hi < lo {
		hi = lo + 3
	}
	return time.Duration(lo * float64(time.Second)), time.Duration(hi * float64(time.Second))
}

func (c CollectSettings) RequestsPerSecond() float64 {
	if c.RequestsPerSec <= 0 {
		return 1
	}
	return c.RequestsPerSec
}
