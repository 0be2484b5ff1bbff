package layout

import "fmt"

// Measurer reports rendered text dimensions for a given font size. The
// pipeline backs it with a real font face; tests can supply a fake.
// Measurements must be deterministic for a given text and size.
type Measurer interface {
	// LineWidth returns the rendered width of text at the given size, in
	// the same pixel units as Spec.Width.
	LineWidth(text string, size float64) float64
	// LineHeight returns the vertical space one line occupies at the
	// given size, including leading.
	LineHeight(size float64) float64
}

// Spec describes the region a headline must fit into.
type Spec struct {
	// Width is the horizontal space available for text, in pixels.
	Width float64
	// BandHeight is the vertical space available for the wrapped block.
	BandHeight float64
	// MinSize and MaxSize bound the font size search.
	MinSize float64
	MaxSize float64
	// MaxLines caps the number of wrapped lines.
	MaxLines int
	// Scale multiplies MinSize and MaxSize. Zero means 1.
	Scale float64
}

// Error reports an internally inconsistent layout spec. It is fatal at
// run start since it would affect every creative identically.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "invalid layout spec: " + e.Reason }

// Validate checks the spec for internal consistency.
func (s Spec) Validate() error {
	if s.Width <= 0 {
		return &Error{Reason: fmt.Sprintf("region width must be positive, got %g", s.Width)}
	}
	if s.BandHeight <= 0 {
		return &Error{Reason: fmt.Sprintf("band height must be positive, got %g", s.BandHeight)}
	}
	if s.MinSize <= 0 || s.MinSize > s.MaxSize {
		return &Error{Reason: fmt.Sprintf("font size range %g..%g is invalid", s.MinSize, s.MaxSize)}
	}
	if s.MaxLines < 1 {
		return &Error{Reason: fmt.Sprintf("max line count must be at least 1, got %d", s.MaxLines)}
	}
	if s.Scale < 0 {
		return &Error{Reason: fmt.Sprintf("scale must not be negative, got %g", s.Scale)}
	}
	return nil
}

func (s Spec) sizeRange() (min, max float64) {
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	return s.MinSize * scale, s.MaxSize * scale
}

// Result is a fitted headline block. Joining Lines with single spaces
// reconstructs the whitespace-normalized input unless Truncated is set.
type Result struct {
	FontSize  float64  `json:"fontSize"`
	Lines     []string `json:"lines"`
	Height    float64  `json:"height"`
	Truncated bool     `json:"truncated"`
}
