package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finsight/kpiscan/internal/catalog"
	"github.com/finsight/kpiscan/internal/model"
	"github.com/finsight/kpiscan/internal/segment"
)

// Config tunes the extraction pipeline. The zero value selects defaults.
type Config struct {
	Tunables       ScoreTunables
	DedupTolerance float64
}

// Extractor runs the per-document extraction pipeline. It holds only
// read-only state and is safe to share across concurrent documents.
type Extractor struct {
	catalog   *catalog.Catalog
	tunables  ScoreTunables
	tolerance float64
}

// New creates an Extractor over the given catalog.
func New(cat *catalog.Catalog, cfg Config) *Extractor {
	tun := cfg.Tunables
	if tun == (ScoreTunables{}) {
		tun = DefaultTunables()
	}
	tol := cfg.DedupTolerance
	if tol <= 0 {
		tol = DefaultDedupTolerance
	}
	return &Extractor{catalog: cat, tunables: tun, tolerance: tol}
}

// Extract runs the full pipeline on one document: segmentation
// (informational), matching, normalization, scoring, deduplication. It never
// panics out to the caller; any failure becomes a failed ExtractionResult.
// Zero matches is a successful outcome with an empty KPI list.
func (e *Extractor) Extract(text string, meta model.DocumentMeta) (result *model.ExtractionResult) {
	start := time.Now()
	now := start.UTC()

	doc := &model.ProcessedDocument{
		ID:        uuid.NewString(),
		Meta:      meta,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	fail := func(msg string) *model.ExtractionResult {
		doc.Transition(model.StatusProcessing)
		doc.Transition(model.StatusFailed)
		doc.ProcessingTime = time.Since(start).Milliseconds()
		return &model.ExtractionResult{
			Success:        false,
			Document:       doc,
			ExtractedKPIs:  []model.ExtractedKPI{},
			ProcessingTime: doc.ProcessingTime,
			Errors:         []string{msg},
		}
	}

	// A panic anywhere in the pipeline is a document-level failure, never a
	// crash of the host batch.
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("extract: pipeline panic",
				zap.String("document", meta.Source),
				zap.Any("panic", r),
			)
			result = fail(fmt.Sprintf("extraction pipeline panic: %v", r))
		}
	}()

	if strings.TrimSpace(text) == "" {
		return fail("no extracted text provided")
	}
	if meta.Symbol == "" {
		return fail("document metadata missing symbol")
	}

	doc.ExtractedText = text
	doc.Transition(model.StatusProcessing)

	doc.Sections = segment.SplitSections(text)
	doc.Tables = segment.DetectTables(text)

	matches := Match(text, e.catalog)

	var kpis []model.ExtractedKPI
	dropped := 0
	for _, m := range matches {
		if !m.Pattern.AllowsUnit(m.Unit) {
			dropped++
			zap.L().Debug("extract: dropped match with unrecognized unit",
				zap.String("kpi_type", string(m.Type)),
				zap.String("unit", m.Unit),
			)
			continue
		}
		value, err := Normalize(m)
		if err != nil {
			dropped++
			zap.L().Debug("extract: dropped unparseable match",
				zap.String("kpi_type", string(m.Type)),
				zap.String("magnitude", m.Magnitude),
				zap.Error(err),
			)
			continue
		}

		conf := ScoreConfidence(m, m.Pattern, e.tunables)
		kpis = append(kpis, model.ExtractedKPI{
			Symbol:           meta.Symbol,
			KPIType:          m.Type,
			DisplayName:      m.Type.DisplayName(),
			Category:         m.Type.Category(),
			Value:            value,
			Unit:             m.Type.Unit(),
			Date:             meta.ReportDate,
			Period:           meta.FiscalPeriod,
			SourceText:       m.Text,
			SourceDocument:   meta.Source,
			ExtractionMethod: model.ExtractionMethodPattern,
			Confidence:       conf,
			QualityScore:     conf,
			ExtractedAt:      now,
		})
	}

	kpis = Dedupe(kpis, e.tolerance)
	if kpis == nil {
		kpis = []model.ExtractedKPI{}
	}

	doc.ExtractedKPIs = kpis
	doc.Transition(model.StatusCompleted)
	doc.ProcessingTime = time.Since(start).Milliseconds()

	return &model.ExtractionResult{
		Success:        true,
		Document:       doc,
		ExtractedKPIs:  kpis,
		ProcessingTime: doc.ProcessingTime,
		Confidence:     meanConfidence(kpis),
		DroppedMatches: dropped,
	}
}

// meanConfidence is the document-level confidence: the arithmetic mean of
// retained KPI confidences, 0 for an empty list.
func meanConfidence(kpis []model.ExtractedKPI) float64 {
	if len(kpis) == 0 {
		return 0
	}
	var sum float64
	for _, k := range kpis {
		sum += k.Confidence
	}
	return sum / float64(len(kpis))
}
