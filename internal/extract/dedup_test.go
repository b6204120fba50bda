package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/kpiscan/internal/model"
)

func kpi(kpiType model.KPIType, value, confidence float64) model.ExtractedKPI {
	return model.ExtractedKPI{KPIType: kpiType, Value: value, Confidence: confidence}
}

func TestDedupe_CollapsesNearDuplicates(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPIStores, 1200, 0.72),
		kpi(model.KPIStores, 1205, 0.85), // within 1% of 1200
	}

	out := Dedupe(in, DefaultDedupTolerance)
	require.Len(t, out, 1)
	assert.InDelta(t, 1205, out[0].Value, 1e-9)
	assert.InDelta(t, 0.85, out[0].Confidence, 1e-9)
}

func TestDedupe_KeepsDistinctValues(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPIStores, 1200, 0.9),
		kpi(model.KPIStores, 1300, 0.8), // well outside tolerance
	}

	out := Dedupe(in, DefaultDedupTolerance)
	assert.Len(t, out, 2)
}

func TestDedupe_DifferentTypesNeverCollapse(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPISubscribers, 50_200_000, 0.9),
		kpi(model.KPIMAU, 50_200_000, 0.8),
	}

	out := Dedupe(in, DefaultDedupTolerance)
	assert.Len(t, out, 2)
}

func TestDedupe_SortsByConfidenceDescending(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPISubscribers, 50_000_000, 0.6),
		kpi(model.KPIStores, 1200, 0.95),
		kpi(model.KPIMAU, 300_000_000, 0.8),
	}

	out := Dedupe(in, DefaultDedupTolerance)
	require.Len(t, out, 3)
	assert.Equal(t, model.KPIStores, out[0].KPIType)
	assert.Equal(t, model.KPIMAU, out[1].KPIType)
	assert.Equal(t, model.KPISubscribers, out[2].KPIType)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPIStores, 1200, 0.72),
		kpi(model.KPIStores, 1205, 0.85),
		kpi(model.KPISubscribers, 50_200_000, 0.77),
	}

	once := Dedupe(in, DefaultDedupTolerance)
	twice := Dedupe(once, DefaultDedupTolerance)
	assert.Equal(t, once, twice)
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPIStores, 1200, 0.5),
		kpi(model.KPIStores, 9999, 0.9),
	}

	Dedupe(in, DefaultDedupTolerance)
	assert.InDelta(t, 1200, in[0].Value, 1e-9)
	assert.InDelta(t, 9999, in[1].Value, 1e-9)
}

func TestDedupe_ZeroToleranceFallsBackToDefault(t *testing.T) {
	in := []model.ExtractedKPI{
		kpi(model.KPIStores, 1200, 0.72),
		kpi(model.KPIStores, 1205, 0.85),
	}

	out := Dedupe(in, 0)
	assert.Len(t, out, 1)
}

func TestDedupe_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Dedupe(nil, DefaultDedupTolerance))
	single := []model.ExtractedKPI{kpi(model.KPIStores, 1200, 0.7)}
	assert.Equal(t, single, Dedupe(single, DefaultDedupTolerance))
}
