// Package report writes extracted KPIs to analyst-facing files.
package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/finsight/kpiscan/internal/model"
)

var kpiHeaders = []string{
	"Symbol", "KPI", "Type", "Category", "Value", "Unit",
	"Date", "Period", "Confidence", "Source Text", "Document",
}

// WriteXLSX writes the KPI rows to an xlsx workbook at path.
func WriteXLSX(kpis []model.ExtractedKPI, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("KPIs")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range kpiHeaders {
		header.AddCell().SetString(h)
	}

	for _, k := range kpis {
		row := sheet.AddRow()
		row.AddCell().SetString(k.Symbol)
		row.AddCell().SetString(k.DisplayName)
		row.AddCell().SetString(string(k.KPIType))
		row.AddCell().SetString(string(k.Category))
		row.AddCell().SetFloat(k.Value)
		row.AddCell().SetString(string(k.Unit))
		row.AddCell().SetString(k.Date)
		row.AddCell().SetString(k.Period)
		row.AddCell().SetFloat(k.Confidence)
		row.AddCell().SetString(k.SourceText)
		row.AddCell().SetString(k.SourceDocument)
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}
