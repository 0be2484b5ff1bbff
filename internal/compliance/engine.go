package compliance

import (
	"sort"
	"strings"
)

// span marks a half-open byte range of the input claimed by one rule.
type span struct {
	start, end int
	rule       int
}

// Check scans text for prohibited phrases. With sanitize true, matched
// spans that have a configured replacement are rewritten; everything else
// is left untouched. With sanitize false the text is returned unchanged
// and matches are only recorded.
//
// The function is pure: the same text, rule set, and flag always produce
// the same result. Rules are applied longest phrase first, and a span
// claimed by one rule is not eligible for a second match in the same pass.
func (rs *RuleSet) Check(text string, sanitize bool) Result {
	var claimed []span
	for i, pattern := range rs.patterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if overlapsAny(claimed, loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, span{start: loc[0], end: loc[1], rule: i})
		}
	}

	if len(claimed) == 0 {
		return Result{Text: text}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	actions := make([]Action, 0, len(claimed))
	var out strings.Builder
	prev := 0
	for _, sp := range claimed {
		rule := rs.rules[sp.rule]
		replaced := sanitize && rule.Replacement != ""
		actions = append(actions, Action{
			Term:        rule.Term,
			Replacement: rule.Replacement,
			Replaced:    replaced,
		})
		if replaced {
			out.WriteString(text[prev:sp.start])
			out.WriteString(rule.Replacement)
			prev = sp.end
		}
	}

	result := Result{Text: text, Actions: actions, Found: true}
	if sanitize {
		out.WriteString(text[prev:])
		result.Text = out.String()
	}
	return result
}

func overlapsAny(spans []span, start, end int) bool {
	for _, sp := range spans {
		if start < sp.end && end > sp.start {
			return true
		}
	}
	return false
}
