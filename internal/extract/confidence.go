package extract

import (
	"strings"

	"github.com/finsight/kpiscan/internal/catalog"
)

// ScoreTunables holds the confidence model parameters. The model is local to
// the matched span: a precise, positively-phrased sentence scores higher than
// a terse or hedged phrasing of the same number.
type ScoreTunables struct {
	Base           float64 // starting confidence for any template hit
	ContextBoost   float64 // max boost when every context keyword appears
	ExcludePenalty float64 // penalty per exclusion keyword occurrence
	Min            float64 // lower clamp; never zero
	Max            float64 // upper clamp
}

// DefaultTunables returns the standard confidence parameters.
func DefaultTunables() ScoreTunables {
	return ScoreTunables{
		Base:           0.7,
		ContextBoost:   0.2,
		ExcludePenalty: 0.15,
		Min:            0.1,
		Max:            1.0,
	}
}

// ScoreConfidence computes the confidence for one raw match:
//
//	clamp(base + boost × contextHits/|context| − penalty × excludeHits, min, max)
//
// Keyword hits are counted case-insensitively within the matched span only,
// never the whole document.
func ScoreConfidence(m RawMatch, p *catalog.Pattern, tun ScoreTunables) float64 {
	span := strings.ToLower(m.Text)

	score := tun.Base
	if len(p.ContextKeywords) > 0 {
		hits := 0
		for _, kw := range p.ContextKeywords {
			hits += strings.Count(span, strings.ToLower(kw))
		}
		score += tun.ContextBoost * float64(hits) / float64(len(p.ContextKeywords))
	}
	for _, kw := range p.ExcludeKeywords {
		score -= tun.ExcludePenalty * float64(strings.Count(span, strings.ToLower(kw)))
	}

	if score < tun.Min {
		return tun.Min
	}
	if score > tun.Max {
		return tun.Max
	}
	return score
}
