package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/finsight/kpiscan/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	symbol        TEXT NOT NULL,
	document_type TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	confidence    REAL NOT NULL DEFAULT 0,
	processing_ms INTEGER NOT NULL DEFAULT 0,
	result        TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS extracted_kpis (
	id            TEXT PRIMARY KEY,
	document_id   TEXT NOT NULL REFERENCES documents(id),
	symbol        TEXT NOT NULL,
	kpi_type      TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	category      TEXT NOT NULL,
	value         REAL NOT NULL,
	unit          TEXT NOT NULL,
	date          TEXT NOT NULL DEFAULT '',
	period        TEXT NOT NULL DEFAULT '',
	source_text   TEXT NOT NULL DEFAULT '',
	confidence    REAL NOT NULL,
	quality_score REAL NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_documents_symbol ON documents(symbol);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_kpis_document_id ON extracted_kpis(document_id);
CREATE INDEX IF NOT EXISTS idx_kpis_symbol_type ON extracted_kpis(symbol, kpi_type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult persists the document row and, when successful, its KPI rows in
// one transaction.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *model.ExtractionResult) error {
	if result == nil || result.Document == nil {
		return eris.New("sqlite: nil result")
	}
	doc := result.Document

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, symbol, document_type, source, status, confidence, processing_ms, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Meta.Symbol, doc.Meta.DocumentType, doc.Meta.Source,
		string(doc.Status), result.Confidence, result.ProcessingTime,
		string(resultJSON), doc.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert document %s", doc.ID)
	}

	for _, k := range result.ExtractedKPIs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO extracted_kpis (id, document_id, symbol, kpi_type, display_name, category, value, unit, date, period, source_text, confidence, quality_score, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), doc.ID, k.Symbol, string(k.KPIType), k.DisplayName,
			string(k.Category), k.Value, string(k.Unit), k.Date, k.Period,
			k.SourceText, k.Confidence, k.QualityScore, k.ExtractedAt.UTC(),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert kpi for document %s", doc.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*model.ProcessedDocument, error) {
	var resultJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM documents WHERE id = ?`, id,
	).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("document not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get document")
	}

	var result model.ExtractionResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return result.Document, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]DocumentSummary, error) {
	query := `SELECT d.id, d.symbol, d.document_type, d.source, d.status, d.confidence, d.processing_ms, d.created_at,
		(SELECT count(*) FROM extracted_kpis k WHERE k.document_id = d.id)
		FROM documents d WHERE 1=1`
	var args []any

	if filter.Symbol != "" {
		query += ` AND d.symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.Status != "" {
		query += ` AND d.status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY d.created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var d DocumentSummary
		var createdAt time.Time
		if err := rows.Scan(&d.ID, &d.Symbol, &d.DocumentType, &d.Source, &d.Status,
			&d.Confidence, &d.ProcessingTime, &createdAt, &d.KPICount); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document summary")
		}
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		docs = append(docs, d)
	}
	return docs, eris.Wrap(rows.Err(), "sqlite: list documents iterate")
}

func (s *SQLiteStore) ListKPIs(ctx context.Context, filter KPIFilter) ([]model.ExtractedKPI, error) {
	query := `SELECT symbol, kpi_type, display_name, category, value, unit, date, period, source_text, confidence, quality_score, created_at
		FROM extracted_kpis WHERE 1=1`
	var args []any

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.DocumentID != "" {
		query += ` AND document_id = ?`
		args = append(args, filter.DocumentID)
	}
	if filter.KPIType != "" {
		query += ` AND kpi_type = ?`
		args = append(args, string(filter.KPIType))
	}
	query += ` ORDER BY created_at DESC, confidence DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list kpis")
	}
	defer rows.Close()

	var kpis []model.ExtractedKPI
	for rows.Next() {
		var k model.ExtractedKPI
		var extractedAt time.Time
		if err := rows.Scan(&k.Symbol, &k.KPIType, &k.DisplayName, &k.Category,
			&k.Value, &k.Unit, &k.Date, &k.Period, &k.SourceText,
			&k.Confidence, &k.QualityScore, &extractedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan kpi")
		}
		k.ExtractionMethod = model.ExtractionMethodPattern
		k.ExtractedAt = extractedAt.UTC()
		kpis = append(kpis, k)
	}
	return kpis, eris.Wrap(rows.Err(), "sqlite: list kpis iterate")
}
