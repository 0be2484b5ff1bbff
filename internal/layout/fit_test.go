package layout

import (
	"strings"
	"testing"
)

// fakeMeasurer measures text at half a pixel per rune per size unit,
// with 1.2x leading. Deterministic and monotonic in size, which is all
// the fitter needs.
type fakeMeasurer struct{}

func (fakeMeasurer) LineWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * 0.5 * size
}

func (fakeMeasurer) LineHeight(size float64) float64 {
	return size * 1.2
}

func validSpec() Spec {
	return Spec{Width: 1000, BandHeight: 200, MinSize: 24, MaxSize: 72, MaxLines: 2}
}

// TestSpecValidate tests spec consistency checks
func TestSpecValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"ZeroWidth", func(s *Spec) { s.Width = 0 }},
		{"NegativeBand", func(s *Spec) { s.BandHeight = -1 }},
		{"ZeroMinSize", func(s *Spec) { s.MinSize = 0 }},
		{"MinAboveMax", func(s *Spec) { s.MinSize = 80 }},
		{"ZeroMaxLines", func(s *Spec) { s.MaxLines = 0 }},
		{"NegativeScale", func(s *Spec) { s.Scale = -0.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(&spec)
			err := spec.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if _, ok := err.(*Error); !ok {
				t.Errorf("Expected *Error, got %T", err)
			}
		})
	}

	t.Run("ValidSpecPasses", func(t *testing.T) {
		spec := validSpec()
		if err := spec.Validate(); err != nil {
			t.Errorf("Valid spec rejected: %v", err)
		}
	})
}

// TestFit tests the descending size search and greedy wrap
func TestFit(t *testing.T) {
	m := fakeMeasurer{}

	t.Run("InvalidSpecFails", func(t *testing.T) {
		spec := validSpec()
		spec.MinSize = 100
		if _, err := Fit("hello", spec, m); err == nil {
			t.Fatal("Expected error for inconsistent spec")
		}
	})

	t.Run("EmptyTextFitsAtMinSize", func(t *testing.T) {
		result, err := Fit("   ", validSpec(), m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if len(result.Lines) != 0 || result.Height != 0 {
			t.Errorf("Blank text should produce no lines, got %v", result.Lines)
		}
	})

	t.Run("WidthBoundChoosesLargestFittingSize", func(t *testing.T) {
		// 11 runes at 0.5 px per rune: width fits while size <= 54.5,
		// so the scan should stop at 54.
		spec := Spec{Width: 300, BandHeight: 200, MinSize: 24, MaxSize: 72, MaxLines: 1}
		result, err := Fit("hello world", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if result.FontSize != 54 {
			t.Errorf("Expected size 54, got %g", result.FontSize)
		}
		if len(result.Lines) != 1 || result.Lines[0] != "hello world" {
			t.Errorf("Unexpected lines: %v", result.Lines)
		}
		if result.Truncated {
			t.Error("Result should not be truncated")
		}
	})

	t.Run("BandHeightBoundsSize", func(t *testing.T) {
		// Width allows any size in range; the 30px band caps a single
		// 1.2x-leading line at size 25.
		spec := Spec{Width: 200, BandHeight: 30, MinSize: 20, MaxSize: 40, MaxLines: 1}
		result, err := Fit("abcd", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if result.FontSize != 25 {
			t.Errorf("Expected size 25, got %g", result.FontSize)
		}
	})

	t.Run("WrapReconstructsInput", func(t *testing.T) {
		text := "Glow all summer with hydration that lasts through every day"
		result, err := Fit(text, validSpec(), m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if result.Truncated {
			t.Fatal("Text should fit without truncation")
		}
		joined := strings.Join(result.Lines, " ")
		if joined != strings.Join(strings.Fields(text), " ") {
			t.Errorf("Joined lines should reconstruct input, got %q", joined)
		}
		if len(result.Lines) > validSpec().MaxLines {
			t.Errorf("Line cap exceeded: %d lines", len(result.Lines))
		}
		for _, line := range result.Lines {
			if m.LineWidth(line, result.FontSize) > validSpec().Width {
				t.Errorf("Line %q exceeds width at size %g", line, result.FontSize)
			}
		}
	})

	t.Run("TruncatesWithEllipsisWhenNothingFits", func(t *testing.T) {
		// Only size 20 is available; each word needs its own line and
		// there are three of them, so the last allowed line is cut.
		spec := Spec{Width: 40, BandHeight: 1000, MinSize: 20, MaxSize: 20, MaxLines: 2}
		result, err := Fit("aa bb cc", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if !result.Truncated {
			t.Fatal("Expected truncation")
		}
		if result.FontSize != 20 {
			t.Errorf("Truncation should happen at minimum size, got %g", result.FontSize)
		}
		if len(result.Lines) != 2 {
			t.Fatalf("Expected 2 lines, got %v", result.Lines)
		}
		last := result.Lines[len(result.Lines)-1]
		if !strings.HasSuffix(last, "…") {
			t.Errorf("Last line should end with ellipsis, got %q", last)
		}
		if m.LineWidth(last, result.FontSize) > spec.Width {
			t.Errorf("Truncated line still exceeds width: %q", last)
		}
	})

	t.Run("OverlongWordForcesSmallerSize", func(t *testing.T) {
		// A 20-rune word fits the 200px width only at size <= 20.
		spec := Spec{Width: 200, BandHeight: 1000, MinSize: 10, MaxSize: 40, MaxLines: 1}
		result, err := Fit("supercalifragilistic", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if result.FontSize != 20 {
			t.Errorf("Expected size 20, got %g", result.FontSize)
		}
		if len(result.Lines) != 1 || result.Lines[0] != "supercalifragilistic" {
			t.Errorf("Word must never be split: %v", result.Lines)
		}
	})

	t.Run("ScaleMultipliesSizeRange", func(t *testing.T) {
		spec := Spec{Width: 300, BandHeight: 200, MinSize: 24, MaxSize: 72, MaxLines: 1, Scale: 0.5}
		result, err := Fit("hello world", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		// Scaled range is 12..36, all of which fit the width, so the
		// scaled maximum wins.
		if result.FontSize != 36 {
			t.Errorf("Expected scaled max 36, got %g", result.FontSize)
		}
	})

	t.Run("ExactMinimumAlwaysTried", func(t *testing.T) {
		// Fractional range: candidates are 25.5, 24.5, then exactly 23.7.
		// Only the minimum fits the width.
		spec := Spec{Width: 131, BandHeight: 1000, MinSize: 23.7, MaxSize: 25.5, MaxLines: 1}
		result, err := Fit("elevenchars", spec, m)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		if result.FontSize != 23.7 {
			t.Errorf("Exact minimum should be tried, got %g", result.FontSize)
		}
	})
}
