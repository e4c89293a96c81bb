package chart

import (
	"hash/fnv"
	"strings"
)

// fallbackColors are handed out to values the configured palette does not name.
var fallbackColors = []string{
	"#1f77b4", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
	"#e377c2", "#7f7f7f", "#bcbd22", "#17becf", "#ff9896",
}

// Palette maps categorical values to hex colors. Unknown values get a
// stable fallback color instead of failing.
type Palette map[string]string

// DefaultPalette colors the subscription outcomes.
func DefaultPalette() Palette {
	return Palette{"yes": "#ff7f0e", "no": "#65bcff"}
}

// Color returns the hex color for value.
func (p Palette) Color(value string) string {
	if c, ok := p[value]; ok && c != "" {
		return normalizeHex(c)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return fallbackColors[int(h.Sum32()%uint32(len(fallbackColors)))]
}

// Extend returns a copy of p that names every value in values.
func (p Palette) Extend(values []string) Palette {
	out := make(Palette, len(p)+len(values))
	for k, v := range p {
		out[k] = v
	}
	for _, v := range values {
		if _, ok := out[v]; !ok {
			out[v] = p.Color(v)
		}
	}
	return out
}

func normalizeHex(c string) string {
	c = strings.TrimSpace(c)
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return strings.ToLower(c)
}
