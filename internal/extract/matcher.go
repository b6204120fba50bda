// Package extract implements the per-document KPI extraction pipeline:
// template matching, numeric normalization, confidence scoring,
// deduplication, and orchestration.
package extract

import (
	"github.com/finsight/kpiscan/internal/catalog"
	"github.com/finsight/kpiscan/internal/model"
)

// RawMatch is one template hit prior to normalization. Text is the full
// matched substring and doubles as the local context for confidence scoring.
type RawMatch struct {
	Type      model.KPIType
	Pattern   *catalog.Pattern
	Text      string
	Magnitude string
	Unit      string
}

// Match scans the full text with every template of every catalog descriptor
// and returns all candidate matches. It is a pure candidate generator: no
// deduplication, no semantic validation.
func Match(text string, cat *catalog.Catalog) []RawMatch {
	if text == "" {
		return nil
	}

	var matches []RawMatch
	patterns := cat.Patterns()
	for i := range patterns {
		p := &patterns[i]
		for _, tpl := range p.Templates {
			for _, hit := range tpl.FindAll(text) {
				matches = append(matches, RawMatch{
					Type:      p.Type,
					Pattern:   p,
					Text:      hit.Text,
					Magnitude: hit.Magnitude,
					Unit:      hit.Unit,
				})
			}
		}
	}
	return matches
}
