// Package store persists extraction results for downstream consumers. The
// extraction engine itself never touches storage; this is the persistence
// collaborator the CLI wires around it.
package store

import (
	"context"

	"github.com/finsight/kpiscan/internal/model"
)

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	Symbol string
	Status model.ProcessingStatus
	Limit  int
	Offset int
}

// KPIFilter narrows ListKPIs.
type KPIFilter struct {
	Symbol     string
	DocumentID string
	KPIType    model.KPIType
	Limit      int
}

// DocumentSummary is a listing row without the full result payload.
type DocumentSummary struct {
	ID             string                 `json:"id"`
	Symbol         string                 `json:"symbol"`
	DocumentType   string                 `json:"document_type"`
	Source         string                 `json:"source"`
	Status         model.ProcessingStatus `json:"status"`
	KPICount       int                    `json:"kpi_count"`
	Confidence     float64                `json:"confidence"`
	ProcessingTime int64                  `json:"processing_time_ms"`
	CreatedAt      string                 `json:"created_at"`
}

// Store is the persistence contract for extraction results.
type Store interface {
	Migrate(ctx context.Context) error
	SaveResult(ctx context.Context, result *model.ExtractionResult) error
	GetDocument(ctx context.Context, id string) (*model.ProcessedDocument, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]DocumentSummary, error)
	ListKPIs(ctx context.Context, filter KPIFilter) ([]model.ExtractedKPI, error)
	Close() error
}
