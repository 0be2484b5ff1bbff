package compliance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewRuleSet tests rule set construction and ordering
func TestNewRuleSet(t *testing.T) {
	t.Run("EmptyTermRejected", func(t *testing.T) {
		_, err := NewRuleSet([]Rule{{Term: "  ", Replacement: "x"}})
		if err == nil {
			t.Fatal("Expected error for empty term")
		}
		if _, ok := err.(*ConfigError); !ok {
			t.Errorf("Expected *ConfigError, got %T", err)
		}
	})

	t.Run("DuplicateTermRejected", func(t *testing.T) {
		_, err := NewRuleSet([]Rule{
			{Term: "guaranteed"},
			{Term: "Guaranteed", Replacement: "backed"},
		})
		if err == nil {
			t.Fatal("Expected error for case-insensitive duplicate")
		}
		if !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("Error should mention duplicate: %v", err)
		}
	})

	t.Run("LongestPhraseFirst", func(t *testing.T) {
		rs, err := NewRuleSet([]Rule{
			{Term: "safe"},
			{Term: "100% safe", Replacement: "rigorously tested"},
			{Term: "cure"},
		})
		if err != nil {
			t.Fatalf("Failed to build rule set: %v", err)
		}
		rules := rs.Rules()
		if rules[0].Term != "100% safe" {
			t.Errorf("Longest phrase should be first, got %q", rules[0].Term)
		}
	})

	t.Run("DeclarationOrderForEqualLength", func(t *testing.T) {
		rs, err := NewRuleSet([]Rule{
			{Term: "abcd"},
			{Term: "wxyz"},
		})
		if err != nil {
			t.Fatalf("Failed to build rule set: %v", err)
		}
		rules := rs.Rules()
		if rules[0].Term != "abcd" || rules[1].Term != "wxyz" {
			t.Errorf("Equal-length terms should keep declaration order, got %q then %q",
				rules[0].Term, rules[1].Term)
		}
	})

	t.Run("EmptySetAllowed", func(t *testing.T) {
		rs, err := NewRuleSet(nil)
		if err != nil {
			t.Fatalf("Empty rule set should be valid: %v", err)
		}
		if rs.Len() != 0 {
			t.Errorf("Expected zero rules, got %d", rs.Len())
		}
	})
}

// TestParseRules tests the on-disk schema in both YAML and JSON form
func TestParseRules(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		rs, err := ParseRules([]byte(`
prohibited_terms:
  "guaranteed": "backed by our policy"
  "100% safe": "rigorously tested"
  "clinically proven": null
`))
		if err != nil {
			t.Fatalf("Failed to parse YAML rules: %v", err)
		}
		if rs.Len() != 3 {
			t.Fatalf("Expected 3 rules, got %d", rs.Len())
		}
		for _, r := range rs.Rules() {
			if r.Term == "clinically proven" && r.Replacement != "" {
				t.Errorf("Null replacement should yield flag-only rule, got %q", r.Replacement)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		rs, err := ParseRules([]byte(`{"prohibited_terms": {"miracle": "remarkable"}}`))
		if err != nil {
			t.Fatalf("Failed to parse JSON rules: %v", err)
		}
		if rs.Len() != 1 {
			t.Fatalf("Expected 1 rule, got %d", rs.Len())
		}
		if rs.Rules()[0].Replacement != "remarkable" {
			t.Errorf("Unexpected replacement: %q", rs.Rules()[0].Replacement)
		}
	})

	t.Run("MissingMappingYieldsEmptySet", func(t *testing.T) {
		rs, err := ParseRules([]byte(`{}`))
		if err != nil {
			t.Fatalf("Empty document should parse: %v", err)
		}
		if rs.Len() != 0 {
			t.Errorf("Expected empty rule set, got %d rules", rs.Len())
		}
	})

	t.Run("NonMappingRejected", func(t *testing.T) {
		_, err := ParseRules([]byte(`
prohibited_terms:
  - guaranteed
  - miracle
`))
		if err == nil {
			t.Fatal("Expected error for sequence instead of mapping")
		}
	})

	t.Run("NonStringReplacementRejected", func(t *testing.T) {
		_, err := ParseRules([]byte(`
prohibited_terms:
  "guaranteed":
    nested: value
`))
		if err == nil {
			t.Fatal("Expected error for non-string replacement")
		}
	})
}

// TestLoadRules tests file loading and error reporting
func TestLoadRules(t *testing.T) {
	t.Run("FromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := "prohibited_terms:\n  \"guaranteed\": \"backed by our policy\"\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write rules file: %v", err)
		}
		rs, err := LoadRules(path)
		if err != nil {
			t.Fatalf("Failed to load rules: %v", err)
		}
		if rs.Len() != 1 {
			t.Errorf("Expected 1 rule, got %d", rs.Len())
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
		if err == nil {
			t.Fatal("Expected error for missing file")
		}
		ce, ok := err.(*ConfigError)
		if !ok {
			t.Fatalf("Expected *ConfigError, got %T", err)
		}
		if ce.Path == "" {
			t.Error("ConfigError should carry the file path")
		}
	})

	t.Run("MalformedFileCarriesPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		if err := os.WriteFile(path, []byte("prohibited_terms:\n  - not a mapping\n"), 0o644); err != nil {
			t.Fatalf("Failed to write rules file: %v", err)
		}
		_, err := LoadRules(path)
		if err == nil {
			t.Fatal("Expected error for malformed rules")
		}
		if ce, ok := err.(*ConfigError); !ok || ce.Path != path {
			t.Errorf("Error should carry path %q: %v", path, err)
		}
	})
}
