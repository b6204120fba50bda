package extract

import (
	"math"
	"sort"

	"github.com/finsight/kpiscan/internal/model"
)

// DefaultDedupTolerance is the relative-value threshold under which two
// candidates of the same KPI type count as the same underlying fact.
const DefaultDedupTolerance = 0.01

// Dedupe collapses near-duplicate candidates: same KPI type, values within
// the relative tolerance of an already-accepted record. It is a pure fold
// over candidates sorted by confidence descending (ties keep input order),
// so the accepted variant of each fact is always the highest-confidence one.
// Running Dedupe on its own output is a no-op.
func Dedupe(kpis []model.ExtractedKPI, tolerance float64) []model.ExtractedKPI {
	if tolerance <= 0 {
		tolerance = DefaultDedupTolerance
	}
	if len(kpis) <= 1 {
		return kpis
	}

	sorted := make([]model.ExtractedKPI, len(kpis))
	copy(sorted, kpis)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	accepted := make([]model.ExtractedKPI, 0, len(sorted))
	for _, cand := range sorted {
		if !isDuplicate(accepted, cand, tolerance) {
			accepted = append(accepted, cand)
		}
	}
	return accepted
}

// isDuplicate checks a candidate against already-accepted records. The
// tolerance base is the accepted value, which was seen first in
// confidence order.
func isDuplicate(accepted []model.ExtractedKPI, cand model.ExtractedKPI, tolerance float64) bool {
	for i := range accepted {
		if accepted[i].KPIType != cand.KPIType {
			continue
		}
		if math.Abs(accepted[i].Value-cand.Value) < tolerance*math.Abs(accepted[i].Value) {
			return true
		}
	}
	return false
}
