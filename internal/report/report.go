// Package report accumulates one row per produced creative and writes
// the run-level report in JSON, CSV, and console table form.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Row describes one produced creative.
type Row struct {
	CampaignID     string    `json:"campaign_id" db:"campaign_id"`
	ProductID      string    `json:"product_id" db:"product_id"`
	ProductName    string    `json:"product_name" db:"product_name"`
	Ratio          string    `json:"ratio" db:"ratio"`
	Variant        int       `json:"variant" db:"variant"`
	Source         string    `json:"source" db:"source"` // generated, reused, cached, fallback
	TermsFound     []string  `json:"terms_found" db:"-"`
	SanitizedTerms int       `json:"sanitized_terms" db:"sanitized_terms"`
	WarningTerms   int       `json:"warning_terms" db:"warning_terms"`
	FontSize       float64   `json:"font_size" db:"font_size"`
	LineCount      int       `json:"line_count" db:"line_count"`
	OutputPath     string    `json:"output_path" db:"output_path"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Summary aggregates compliance counters across a run.
type Summary struct {
	Creatives int `json:"creatives"`
	Sanitized int `json:"sanitized"`
	Warnings  int `json:"warnings"`
}

// Summarize computes run-level counters from report rows.
func Summarize(rows []Row) Summary {
	s := Summary{Creatives: len(rows)}
	for _, r := range rows {
		if r.SanitizedTerms > 0 {
			s.Sanitized++
		}
		if r.WarningTerms > 0 {
			s.Warnings++
		}
	}
	return s
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteCSV writes rows as a CSV file with a header line.
func WriteCSV(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"campaign_id", "product_id", "product_name", "ratio", "variant", "source",
		"terms_found", "sanitized_terms", "warning_terms", "font_size", "line_count", "output_path",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.CampaignID, r.ProductID, r.ProductName, r.Ratio,
			fmt.Sprintf("%d", r.Variant), r.Source, strings.Join(r.TermsFound, ";"),
			fmt.Sprintf("%d", r.SanitizedTerms), fmt.Sprintf("%d", r.WarningTerms),
			fmt.Sprintf("%g", r.FontSize), fmt.Sprintf("%d", r.LineCount), r.OutputPath,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RenderTable prints rows as a console table.
func RenderTable(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Product", "Ratio", "Variant", "Source", "Terms", "Sanitized", "Warnings", "Output"})
	table.SetBorder(false)
	for _, r := range rows {
		table.Append([]string{
			r.ProductName,
			r.Ratio,
			fmt.Sprintf("%d", r.Variant),
			r.Source,
			strings.Join(r.TermsFound, ";"),
			fmt.Sprintf("%d", r.SanitizedTerms),
			fmt.Sprintf("%d", r.WarningTerms),
			r.OutputPath,
		})
	}
	table.Render()
}
