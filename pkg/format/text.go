package format

import "unicode/utf8"

const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.2
	ellipsis        = "…"
)

// Measurer measures rendered text extents. Hosts with a real text engine
// supply their own; [ApproxMeasurer] is used headless.
type Measurer interface {
	Measure(text string, fontSize float64) (width, height float64)
}

// ApproxMeasurer estimates extents from the rune count and font size.
type ApproxMeasurer struct{}

// Measure implements Measurer.
func (ApproxMeasurer) Measure(text string, fontSize float64) (float64, float64) {
	n := utf8.RuneCountInString(text)
	return float64(n) * fontSize * charWidthRatio, fontSize * lineHeightRatio
}

// Truncate returns the longest prefix of text (followed by an ellipsis) whose
// width fits maxWidth. Text that already fits is returned unchanged; if not
// even one character fits the result is empty. Text is never wrapped.
func Truncate(text string, maxWidth, fontSize float64, m Measurer) string {
	if m == nil {
		m = ApproxMeasurer{}
	}
	if w, _ := m.Measure(text, fontSize); w <= maxWidth {
		return text
	}
	runes := []rune(text)
	lo, hi := 0, len(runes)-1
	best := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		candidate := string(runes[:mid+1]) + ellipsis
		if w, _ := m.Measure(candidate, fontSize); w <= maxWidth {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return ""
	}
	return string(runes[:best+1]) + ellipsis
}
