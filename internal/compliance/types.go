package compliance

// Rule maps a prohibited phrase to its approved replacement. An empty
// replacement means the phrase has no safe alternative and can only be
// flagged, never substituted.
type Rule struct {
	Term        string `json:"term" yaml:"term"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Action records one detected occurrence of a prohibited phrase and what
// was done about it. Actions are ordered by position in the input text.
type Action struct {
	Term        string `json:"term"`
	Replacement string `json:"replacement,omitempty"`
	Replaced    bool   `json:"replaced"`
}

// Result is the outcome of checking a single text against a rule set.
// Text equals the input unless sanitize mode replaced at least one span.
type Result struct {
	Text    string   `json:"text"`
	Actions []Action `json:"actions"`
	Found   bool     `json:"found"`
}

// SanitizedCount returns the number of spans that were replaced.
func (r Result) SanitizedCount() int {
	n := 0
	for _, a := range r.Actions {
		if a.Replaced {
			n++
		}
	}
	return n
}

// WarningCount returns the number of detected spans that were left in
// place, either because sanitize mode was off or because no replacement
// is configured for the term.
func (r Result) WarningCount() int {
	n := 0
	for _, a := range r.Actions {
		if !a.Replaced {
			n++
		}
	}
	return n
}
