package model

import "time"

// ProcessingStatus tracks a document through the extraction pipeline.
type ProcessingStatus string

// Document processing states. Transitions only move forward:
// pending → processing → completed | failed.
const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// validTransitions defines the allowed forward edges of the status machine.
var validTransitions = map[ProcessingStatus][]ProcessingStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// DocumentMeta carries caller-supplied metadata for one document.
type DocumentMeta struct {
	Symbol       string `json:"symbol"`
	DocumentType string `json:"document_type"`
	Source       string `json:"source"` // filename or external id
	ReportDate   string `json:"report_date"`
	FiscalPeriod string `json:"fiscal_period"`
	FiscalYear   int    `json:"fiscal_year"`
}

// Section is one labeled slice of document text. Informational only: sections
// never gate extraction, they annotate where KPIs are likely to appear.
type Section struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	KPILikelihood float64 `json:"kpi_likelihood"`
}

// Table is a delimiter-separated block parsed into headers and rows.
// Parsed for completeness; the matcher scans raw text, not tables.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Context string     `json:"context,omitempty"`
}

// ProcessedDocument aggregates everything derived from one document.
type ProcessedDocument struct {
	ID             string           `json:"id"`
	Meta           DocumentMeta     `json:"meta"`
	ExtractedText  string           `json:"-"`
	Sections       []Section        `json:"sections,omitempty"`
	Tables         []Table          `json:"tables,omitempty"`
	ExtractedKPIs  []ExtractedKPI   `json:"extracted_kpis"`
	Status         ProcessingStatus `json:"status"`
	ProcessingTime int64            `json:"processing_time_ms"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Transition advances the document status. Returns false and leaves the
// status untouched if the edge is not a legal forward transition.
func (d *ProcessedDocument) Transition(to ProcessingStatus) bool {
	for _, next := range validTransitions[d.Status] {
		if next == to {
			d.Status = to
			d.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// ExtractionResult is the envelope handed to downstream collaborators.
// Success=false means Errors is non-empty and ExtractedKPIs is empty;
// callers must check Success before trusting the KPI list.
type ExtractionResult struct {
	Success        bool               `json:"success"`
	Document       *ProcessedDocument `json:"document"`
	ExtractedKPIs  []ExtractedKPI     `json:"extracted_kpis"`
	ProcessingTime int64              `json:"processing_time_ms"`
	Confidence     float64            `json:"confidence"`
	DroppedMatches int                `json:"dropped_matches,omitempty"`
	Errors         []string           `json:"errors,omitempty"`
}
