package compliance

import (
	"testing"
)

func testRules(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet([]Rule{
		{Term: "guaranteed", Replacement: "backed by our policy"},
		{Term: "100% safe", Replacement: "rigorously tested"},
		{Term: "safe", Replacement: "reliable"},
		{Term: "clinically proven"},
	})
	if err != nil {
		t.Fatalf("Failed to build rule set: %v", err)
	}
	return rs
}

// TestCheck tests the compliance engine in sanitize mode
func TestCheck(t *testing.T) {
	rs := testRules(t)

	t.Run("NoMatchReturnsInputUnchanged", func(t *testing.T) {
		in := "Glow all summer with lasting hydration"
		result := rs.Check(in, true)
		if result.Found {
			t.Error("No prohibited terms expected")
		}
		if result.Text != in {
			t.Errorf("Text should be unchanged, got %q", result.Text)
		}
		if len(result.Actions) != 0 {
			t.Errorf("Expected no actions, got %d", len(result.Actions))
		}
	})

	t.Run("SingleReplacement", func(t *testing.T) {
		result := rs.Check("Results are guaranteed for everyone", true)
		want := "Results are backed by our policy for everyone"
		if result.Text != want {
			t.Errorf("Got %q, want %q", result.Text, want)
		}
		if !result.Found || len(result.Actions) != 1 {
			t.Fatalf("Expected one action, got %d", len(result.Actions))
		}
		if !result.Actions[0].Replaced {
			t.Error("Action should be marked replaced")
		}
	})

	t.Run("CaseInsensitiveMatching", func(t *testing.T) {
		result := rs.Check("GUARANTEED results", true)
		if result.Text != "backed by our policy results" {
			t.Errorf("Uppercase match should be replaced, got %q", result.Text)
		}
	})

	t.Run("LongestPhraseWins", func(t *testing.T) {
		result := rs.Check("Our serum is 100% safe", true)
		want := "Our serum is rigorously tested"
		if result.Text != want {
			t.Errorf("Got %q, want %q", result.Text, want)
		}
		if len(result.Actions) != 1 {
			t.Fatalf("Expected one action, got %d", len(result.Actions))
		}
		if result.Actions[0].Term != "100% safe" {
			t.Errorf("Longer phrase should claim the span, got %q", result.Actions[0].Term)
		}
	})

	t.Run("MultipleMatchesOrderedByPosition", func(t *testing.T) {
		result := rs.Check("Guaranteed results, 100% safe for all", true)
		want := "backed by our policy results, rigorously tested for all"
		if result.Text != want {
			t.Errorf("Got %q, want %q", result.Text, want)
		}
		if len(result.Actions) != 2 {
			t.Fatalf("Expected two actions, got %d", len(result.Actions))
		}
		if result.Actions[0].Term != "guaranteed" || result.Actions[1].Term != "100% safe" {
			t.Errorf("Actions should be ordered by position: %v", result.Actions)
		}
	})

	t.Run("FlagOnlyRuleNeverRewrites", func(t *testing.T) {
		result := rs.Check("It is clinically proven", true)
		if result.Text != "It is clinically proven" {
			t.Errorf("Flag-only term must not be rewritten, got %q", result.Text)
		}
		if !result.Found || len(result.Actions) != 1 {
			t.Fatalf("Expected one action, got %d", len(result.Actions))
		}
		if result.Actions[0].Replaced {
			t.Error("Flag-only action must not be marked replaced")
		}
		if result.SanitizedCount() != 0 || result.WarningCount() != 1 {
			t.Errorf("Counts wrong: sanitized=%d warnings=%d",
				result.SanitizedCount(), result.WarningCount())
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := rs.Check("Guaranteed and 100% safe", true)
		second := rs.Check(first.Text, true)
		if second.Text != first.Text {
			t.Errorf("Second pass changed the text: %q -> %q", first.Text, second.Text)
		}
	})

	t.Run("SameSpanClaimedOnce", func(t *testing.T) {
		// "safe" inside "100% safe" must not match again.
		result := rs.Check("100% safe and safe", true)
		if len(result.Actions) != 2 {
			t.Fatalf("Expected two actions, got %d: %v", len(result.Actions), result.Actions)
		}
		want := "rigorously tested and reliable"
		if result.Text != want {
			t.Errorf("Got %q, want %q", result.Text, want)
		}
	})
}

// TestCheckFlagOnlyMode tests the engine with sanitization disabled
func TestCheckFlagOnlyMode(t *testing.T) {
	rs := testRules(t)

	t.Run("TextUnchanged", func(t *testing.T) {
		in := "Guaranteed and 100% safe"
		result := rs.Check(in, false)
		if result.Text != in {
			t.Errorf("Flag-only mode must not rewrite, got %q", result.Text)
		}
		if !result.Found || len(result.Actions) != 2 {
			t.Fatalf("Expected two actions, got %d", len(result.Actions))
		}
		for _, a := range result.Actions {
			if a.Replaced {
				t.Errorf("Action for %q should not be marked replaced", a.Term)
			}
		}
		if result.WarningCount() != 2 {
			t.Errorf("Expected 2 warnings, got %d", result.WarningCount())
		}
	})
}
