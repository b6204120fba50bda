package extract

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// scaleFactors maps captured scale tokens to multipliers. Currency and count
// nouns deliberately do not appear: they classify the unit of the KPI type,
// not the magnitude of the number.
var scaleFactors = map[string]float64{
	"thousand": 1e3,
	"k":        1e3,
	"million":  1e6,
	"m":        1e6,
	"mil":      1e6,
	"billion":  1e9,
	"bil":      1e9,
}

// Normalize converts a raw match to a canonical base-unit value: thousands
// separators stripped, scale token folded in. A non-numeric magnitude is a
// match-level parse failure, reported to the caller for silent dropping.
func Normalize(m RawMatch) (float64, error) {
	mag := strings.ReplaceAll(strings.TrimSpace(m.Magnitude), ",", "")
	v, err := strconv.ParseFloat(mag, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "extract: parse magnitude %q", m.Magnitude)
	}
	return v * scaleFactor(m.Unit), nil
}

// scaleFactor returns the multiplier for a scale token, or 1 for absent or
// non-scale tokens.
func scaleFactor(unit string) float64 {
	if f, ok := scaleFactors[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return f
	}
	return 1
}
