package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseOptions controls numeric interpretation of cells. Auto-detection
// reads a lone comma as the decimal separator ("1,500" is 1.5) and a lone
// dot likewise; set ThousandsSeparator or DecimalSeparator for such data.
type ParseOptions struct {
	// DecimalSeparator; if 0, auto-detect per value, or the other of ',' and
	// '.' when ThousandsSeparator is set.
	DecimalSeparator rune
	// ThousandsSeparator; if 0, strip common separators (',' '.' space) that
	// differ from the decimal separator.
	ThousandsSeparator rune
}

func parseNumeric(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 && (thou == ',' || thou == '.') {
		dec = ','
		if thou == ',' {
			dec = '.'
		}
	}
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
