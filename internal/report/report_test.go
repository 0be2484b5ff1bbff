package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRows() []Row {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Row{
		{
			CampaignID: "c1", ProductID: "p1", ProductName: "Hydra Boost Serum",
			Ratio: "1:1", Variant: 1, Source: "generated",
			TermsFound: []string{"guaranteed"}, SanitizedTerms: 1,
			FontSize: 48, LineCount: 2, OutputPath: "out/c1/p1/1x1/post_1.png",
			CreatedAt: now,
		},
		{
			CampaignID: "c1", ProductID: "p1", ProductName: "Hydra Boost Serum",
			Ratio: "16:9", Variant: 1, Source: "reused",
			TermsFound: []string{"clinically proven"}, WarningTerms: 1,
			FontSize: 36, LineCount: 1, OutputPath: "out/c1/p1/16x9/post_1.png",
			CreatedAt: now,
		},
		{
			CampaignID: "c1", ProductID: "p2", ProductName: "Sun Shield",
			Ratio: "1:1", Variant: 2, Source: "cached",
			FontSize: 52, LineCount: 1, OutputPath: "out/c1/p2/1x1/post_2.png",
			CreatedAt: now,
		},
	}
}

// TestSummarize tests run-level counters
func TestSummarize(t *testing.T) {
	s := Summarize(sampleRows())
	if s.Creatives != 3 {
		t.Errorf("Expected 3 creatives, got %d", s.Creatives)
	}
	if s.Sanitized != 1 {
		t.Errorf("Expected 1 sanitized row, got %d", s.Sanitized)
	}
	if s.Warnings != 1 {
		t.Errorf("Expected 1 warning row, got %d", s.Warnings)
	}

	empty := Summarize(nil)
	if empty.Creatives != 0 || empty.Sanitized != 0 || empty.Warnings != 0 {
		t.Errorf("Empty rows should yield zero summary: %+v", empty)
	}
}

// TestWriteJSON tests the JSON report writer
func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run_report.json")
	if err := WriteJSON(path, sampleRows()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report back: %v", err)
	}
	var got []Row
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(got))
	}
	if got[0].ProductName != "Hydra Boost Serum" || got[0].SanitizedTerms != 1 {
		t.Errorf("Row round-trip mismatch: %+v", got[0])
	}
}

// TestWriteCSV tests the CSV report writer
func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_report.csv")
	if err := WriteCSV(path, sampleRows()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Report is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d records", len(records))
	}
	if records[0][0] != "campaign_id" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][6] != "guaranteed" {
		t.Errorf("Terms column mismatch: %v", records[1])
	}
	if records[2][5] != "reused" {
		t.Errorf("Source column mismatch: %v", records[2])
	}
}

// TestRenderTable tests the console table
func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleRows())
	out := buf.String()
	if !strings.Contains(out, "Hydra Boost Serum") {
		t.Error("Table should list the product name")
	}
	if !strings.Contains(out, "16:9") {
		t.Error("Table should list the ratio")
	}
}
