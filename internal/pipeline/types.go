package pipeline

import (
	"time"

	"github.com/brandforge/brandforge/internal/brief"
	"github.com/brandforge/brandforge/internal/report"
)

// job is one creative to produce: a product at an aspect ratio, variant
// index within that combination.
type job struct {
	index   int
	product brief.Product
	ratio   string
	variant int
}

// RunResult summarizes one completed campaign run.
type RunResult struct {
	CampaignID string         `json:"campaign_id"`
	Rows       []report.Row   `json:"rows"`
	Summary    report.Summary `json:"summary"`
	Duration   time.Duration  `json:"duration"`
	ReportDir  string         `json:"report_dir"`
}
