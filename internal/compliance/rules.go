package compliance

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a malformed compliance rule set. It is fatal at load
// time: a broken rule set aborts the run before any creative is produced.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid compliance rules: %s", e.Reason)
	}
	return fmt.Sprintf("invalid compliance rules (%s): %s", e.Path, e.Reason)
}

// RuleSet holds prohibited-term rules in matching order: longest phrase
// first, declaration order among phrases of equal length. The set is
// immutable after construction and safe to share across concurrent
// Check calls.
type RuleSet struct {
	rules    []Rule
	patterns []*regexp.Regexp
}

// NewRuleSet validates the given rules and compiles them into matching
// order. Phrases must be non-empty and unique case-insensitively.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	seen := make(map[string]bool, len(rules))
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)

	for _, r := range ordered {
		term := strings.ToLower(r.Term)
		if strings.TrimSpace(term) == "" {
			return nil, &ConfigError{Reason: "prohibited term must not be empty"}
		}
		if seen[term] {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate prohibited term %q", r.Term)}
		}
		seen[term] = true
	}

	// Longest phrase first so a multi-word phrase is matched before any
	// shorter term it contains. SliceStable keeps declaration order for
	// equal lengths.
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Term) > len(ordered[j].Term)
	})

	patterns := make([]*regexp.Regexp, len(ordered))
	for i, r := range ordered {
		p, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(r.Term))
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("term %q: %v", r.Term, err)}
		}
		patterns[i] = p
	}

	return &RuleSet{rules: ordered, patterns: patterns}, nil
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Rules returns the rules in matching order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// ruleFile mirrors the on-disk schema:
//
//	prohibited_terms:
//	  "100% safe": "safety-tested"
//	  guaranteed: "backed by our policy"
//
// YAML and JSON are both accepted. The mapping is decoded through
// yaml.Node to preserve declaration order for equal-length tie-breaks.
type ruleFile struct {
	ProhibitedTerms yaml.Node `yaml:"prohibited_terms" json:"prohibited_terms"`
}

// LoadRules reads a rule set from a YAML or JSON file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	rs, err := ParseRules(data)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Path = path
		}
		return nil, err
	}
	return rs, nil
}

// ParseRules parses rule set bytes in the prohibited_terms schema.
func ParseRules(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	if file.ProhibitedTerms.Kind == 0 || file.ProhibitedTerms.Tag == "!!null" {
		return NewRuleSet(nil)
	}
	if file.ProhibitedTerms.Kind != yaml.MappingNode {
		return nil, &ConfigError{Reason: "prohibited_terms must be a mapping of phrase to replacement"}
	}

	content := file.ProhibitedTerms.Content
	rules := make([]Rule, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i], content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return nil, &ConfigError{Reason: fmt.Sprintf("prohibited term at line %d must be a string", key.Line)}
		}
		switch {
		case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
			rules = append(rules, Rule{Term: key.Value})
		case val.Kind == yaml.ScalarNode && val.Tag == "!!str":
			rules = append(rules, Rule{Term: key.Value, Replacement: val.Value})
		default:
			return nil, &ConfigError{Reason: fmt.Sprintf("replacement for %q must be a string", key.Value)}
		}
	}
	return NewRuleSet(rules)
}
