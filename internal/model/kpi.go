package model

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KPIType identifies an operational metric extracted from document text.
// The set is open: catalog overlays may introduce new types, which fall back
// to derived display metadata.
type KPIType string

// Built-in KPI types covered by the default pattern catalog.
const (
	KPISubscribers KPIType = "subscribers"
	KPIStores      KPIType = "stores"
	KPIARPU        KPIType = "arpu"
	KPIMAU         KPIType = "mau"
	KPIDAU         KPIType = "dau"
	KPIGGR         KPIType = "ggr"
	KPIEmployees   KPIType = "employees"
)

// KPICategory groups KPI types for display and filtering.
type KPICategory string

// KPI categories.
const (
	CategoryOperational KPICategory = "operational"
	CategoryCustomer    KPICategory = "customer"
	CategoryFinancial   KPICategory = "financial"
	CategoryEfficiency  KPICategory = "efficiency"
	CategoryGrowth      KPICategory = "growth"
)

// KPIUnit is the canonical unit of an extracted value.
type KPIUnit string

// Canonical units. Scale suffixes (million, thousand) never survive
// normalization, so these are the only two units the engine emits.
const (
	UnitCount KPIUnit = "count"
	UnitUSD   KPIUnit = "USD"
)

// kpiMeta holds display metadata for a known KPI type.
type kpiMeta struct {
	display  string
	category KPICategory
	unit     KPIUnit
}

var kpiMetas = map[KPIType]kpiMeta{
	KPISubscribers: {display: "Subscribers", category: CategoryCustomer, unit: UnitCount},
	KPIStores:      {display: "Store Count", category: CategoryOperational, unit: UnitCount},
	KPIARPU:        {display: "Average Revenue Per User", category: CategoryFinancial, unit: UnitUSD},
	KPIMAU:         {display: "Monthly Active Users", category: CategoryCustomer, unit: UnitCount},
	KPIDAU:         {display: "Daily Active Users", category: CategoryCustomer, unit: UnitCount},
	KPIGGR:         {display: "Gross Gaming Revenue", category: CategoryFinancial, unit: UnitUSD},
	KPIEmployees:   {display: "Employees", category: CategoryEfficiency, unit: UnitCount},
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the human label for the KPI type. Unknown types are
// title-cased from their key (underscores become spaces).
func (t KPIType) DisplayName() string {
	if m, ok := kpiMetas[t]; ok {
		return m.display
	}
	return titleCaser.String(strings.ReplaceAll(string(t), "_", " "))
}

// Category returns the KPI category, defaulting to operational for types the
// built-in table does not know.
func (t KPIType) Category() KPICategory {
	if m, ok := kpiMetas[t]; ok {
		return m.category
	}
	return CategoryOperational
}

// Unit returns the canonical unit for values of this KPI type. The unit is
// decided by the type, never by the scale token captured in the text.
func (t KPIType) Unit() KPIUnit {
	if m, ok := kpiMetas[t]; ok {
		return m.unit
	}
	return UnitCount
}

// ExtractionMethodPattern is the extraction method recorded by this engine.
const ExtractionMethodPattern = "pattern"

// ExtractedKPI is one extracted operational metric, immutable once produced.
// Value is always in base units: scale suffixes from the source text are
// folded in during normalization.
type ExtractedKPI struct {
	Symbol           string      `json:"symbol"`
	KPIType          KPIType     `json:"kpi_type"`
	DisplayName      string      `json:"display_name"`
	Category         KPICategory `json:"category"`
	Value            float64     `json:"value"`
	Unit             KPIUnit     `json:"unit"`
	Date             string      `json:"date"`
	Period           string      `json:"period"`
	SourceText       string      `json:"source_text"`
	SourceDocument   string      `json:"source_document"`
	ExtractionMethod string      `json:"extraction_method"`
	Confidence       float64     `json:"confidence"`
	QualityScore     float64     `json:"quality_score"`
	AnomalyFlags     []string    `json:"anomaly_flags,omitempty"`
	ExtractedAt      time.Time   `json:"extracted_at"`
}
