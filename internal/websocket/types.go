package websocket

import (
	"time"

	"github.com/brandforge/brandforge/internal/report"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeRunStarted marks the start of a campaign run
	EventTypeRunStarted EventType = "run_started"
	// EventTypeCompliance reports prohibited terms found in a headline
	EventTypeCompliance EventType = "compliance_finding"
	// EventTypeCreative reports one rendered creative
	EventTypeCreative EventType = "creative_rendered"
	// EventTypeRunComplete carries the run summary
	EventTypeRunComplete EventType = "run_complete"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RunStartedEvent marks the start of processing one brief
type RunStartedEvent struct {
	CampaignID string `json:"campaign_id"`
	Products   int    `json:"products"`
	Ratios     int    `json:"ratios"`
	Variants   int    `json:"variants"`
}

// ComplianceEvent reports the compliance outcome for one headline
type ComplianceEvent struct {
	CampaignID string   `json:"campaign_id"`
	ProductID  string   `json:"product_id"`
	Ratio      string   `json:"ratio"`
	Terms      []string `json:"terms"`
	Sanitized  int      `json:"sanitized"`
	Warnings   int      `json:"warnings"`
}

// CreativeEvent reports one rendered creative
type CreativeEvent struct {
	CampaignID     string  `json:"campaign_id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Ratio          string  `json:"ratio"`
	Variant        int     `json:"variant"`
	Source         string  `json:"source"`
	SanitizedTerms int     `json:"sanitized_terms"`
	WarningTerms   int     `json:"warning_terms"`
	FontSize       float64 `json:"font_size"`
	LineCount      int     `json:"line_count"`
	OutputPath     string  `json:"output_path"`
}

// RunCompleteEvent carries the run summary
type RunCompleteEvent struct {
	CampaignID string         `json:"campaign_id"`
	Summary    report.Summary `json:"summary"`
	DurationMS int64          `json:"duration_ms"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	Message  string `json:"message,omitempty"`
}
