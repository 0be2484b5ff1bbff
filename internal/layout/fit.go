package layout

import "strings"

// ellipsis is appended when a headline cannot fit within the allowed
// line count at the minimum font size.
const ellipsis = "…"

// Fit chooses the largest font size in the spec's range at which the text
// wraps into at most Spec.MaxLines lines that each fit Spec.Width and
// whose total height stays within Spec.BandHeight. Words are never split;
// sizes are tried from the maximum downward in one-pixel steps.
//
// When no size fits, the text is wrapped at the minimum size and truncated
// to the allowed line count with a trailing ellipsis. Fit never fails on
// valid input; the only error is an inconsistent spec.
func Fit(text string, spec Spec, m Measurer) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		minSize, _ := spec.sizeRange()
		return Result{FontSize: minSize, Lines: nil, Height: 0}, nil
	}

	minSize, maxSize := spec.sizeRange()
	for _, size := range candidateSizes(minSize, maxSize) {
		lines, ok := wrapAt(words, spec.Width, size, m, spec.MaxLines)
		if !ok {
			continue
		}
		height := float64(len(lines)) * m.LineHeight(size)
		if height > spec.BandHeight {
			continue
		}
		return Result{FontSize: size, Lines: lines, Height: height}, nil
	}

	return truncateAt(words, spec, minSize, m), nil
}

// candidateSizes lists sizes from max down to min in one-pixel steps. The
// exact minimum is always included even when the range is not a whole
// number of steps.
func candidateSizes(min, max float64) []float64 {
	var sizes []float64
	for size := max; size > min; size-- {
		sizes = append(sizes, size)
	}
	return append(sizes, min)
}

// wrapAt greedily wraps words at the candidate size. It reports false
// when the wrap needs more than maxLines lines or any line (including a
// lone overlong word) exceeds the width, signalling that a smaller size
// must be tried.
func wrapAt(words []string, width, size float64, m Measurer, maxLines int) ([]string, bool) {
	lines := wrapGreedy(words, width, size, m)
	if len(lines) > maxLines {
		return nil, false
	}
	for _, line := range lines {
		if m.LineWidth(line, size) > width {
			return nil, false
		}
	}
	return lines, true
}

// wrapGreedy accumulates words onto the current line while the measured
// width stays within bounds. A word wider than the region sits alone on
// its own line; it is never split.
func wrapGreedy(words []string, width, size float64, m Measurer) []string {
	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		if m.LineWidth(candidate, size) <= width {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// truncateAt is the no-size-fits fallback: wrap at the minimum size and,
// if the line count still exceeds the cap, cut the final allowed line and
// append an ellipsis that itself fits the width.
func truncateAt(words []string, spec Spec, size float64, m Measurer) Result {
	lines := wrapGreedy(words, spec.Width, size, m)
	truncated := false
	if len(lines) > spec.MaxLines {
		lines = lines[:spec.MaxLines]
		last := lines[len(lines)-1]
		for m.LineWidth(last+ellipsis, size) > spec.Width && len(last) > 0 {
			runes := []rune(last)
			last = strings.TrimRight(string(runes[:len(runes)-1]), " ")
		}
		lines[len(lines)-1] = last + ellipsis
		truncated = true
	}
	return Result{
		FontSize:  size,
		Lines:     lines,
		Height:    float64(len(lines)) * m.LineHeight(size),
		Truncated: truncated,
	}
}
