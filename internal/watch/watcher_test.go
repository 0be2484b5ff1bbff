package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/brandforge/brandforge/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return log
}

// TestIsBrief tests drop-file filtering by extension
func TestIsBrief(t *testing.T) {
	valid := []string{"campaign.yaml", "campaign.YML", "campaign.json", "/drop/a.yaml"}
	for _, path := range valid {
		if !isBrief(path) {
			t.Errorf("%q should be recognized as a brief", path)
		}
	}
	invalid := []string{"notes.txt", "image.png", "campaign.yaml.swp", "campaign"}
	for _, path := range invalid {
		if isBrief(path) {
			t.Errorf("%q should be ignored", path)
		}
	}
}

// TestDebounce tests that repeated events collapse into one trigger
func TestDebounce(t *testing.T) {
	var fired int64
	w, err := New(t.TempDir(), 30*time.Millisecond, func(string) {
		atomic.AddInt64(&fired, 1)
	}, testLogger(t))
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	// Three rapid events on the same path must fire exactly once.
	w.schedule("/drop/brief.yaml")
	w.schedule("/drop/brief.yaml")
	w.schedule("/drop/brief.yaml")

	// A different path fires independently.
	w.schedule("/drop/other.yaml")

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&fired) < 2 {
		select {
		case <-deadline:
			t.Fatalf("Expected 2 triggers, got %d", atomic.LoadInt64(&fired))
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Allow any spurious extra timers to fire before the final check.
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&fired); got != 2 {
		t.Errorf("Expected exactly 2 triggers, got %d", got)
	}
}
