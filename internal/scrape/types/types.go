package types

import (
	"context"

	"jobmarket-engine/internal/domain"
)

type Result struct {
	Source  string
	Records []domain.JobRecord
}

type CollectStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}
