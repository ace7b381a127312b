// color.go - deterministic cumulative-percentage-to-color mapping for
// the DOT emitter (spec.md GLOSSARY's wavelength color rule).

package analyzer

import "fmt"

// ColorFromPercent maps a cumulative percentage in [0, 100] to a
// "#rrggbb" string. percent is first treated as a wavelength in the
// visible spectrum (440 + 2.2*percent nm), converted to RGB by the
// standard piecewise approximation, then scaled to 70% brightness —
// the same mapping a hot function's color in the rendered graph is
// derived from. Component truncation, not rounding, to match the
// reference integer-cast behavior exactly.
func ColorFromPercent(percent float64) string {
	wavelength := 440.0 + percent*2.2

	var r, g, b float64
	switch {
	case wavelength < 490:
		r, g, b = 0, (wavelength-440)/(490-440), 1
	case wavelength < 510:
		r, g, b = 0, 1, -(wavelength-510)/(510-490)
	case wavelength < 580:
		r, g, b = (wavelength-510)/(580-510), 1, 0
	case wavelength < 645:
		r, g, b = 1, -(wavelength-645)/(645-580), 0
	default:
		r, g, b = 1, 0, 0
	}

	const brightness = 0.7
	ri := int(r * 255 * brightness)
	gi := int(g * 255 * brightness)
	bi := int(b * 255 * brightness)

	return fmt.Sprintf("#%02x%02x%02x", ri, gi, bi)
}
