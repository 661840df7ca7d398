package services

import "templatebuilder/builder"

// TemplateExportRow is one flattened line of a template export.
type TemplateExportRow struct {
	Index       int
	Name        string
	Description string
	Unit        string
	Rate        float64
	Quantity    float64
	Amount      float64
	Source      string
}

// TemplateExportData carries everything the Excel and PDF exporters need.
type TemplateExportData struct {
	Name        string
	Description string
	Category    string
	CreatedDate string
	Rows        []TemplateExportRow
	TotalAmount float64
}

// BuildTemplateExportData flattens a stored template into export rows,
// resolving reference entries the same way the builder load path does.
// Unreadable entries are dropped from the export.
func BuildTemplateExportData(tpl builder.Template, lib map[string]builder.LibraryRecord, createdDate string) TemplateExportData {
	data := TemplateExportData{
		Name:        tpl.Name,
		Description: tpl.Description,
		Category:    tpl.Category,
		CreatedDate: createdDate,
	}

	items, _ := builder.FromTemplateEntries(tpl.TemplateItems, lib)
	for i, it := range items {
		amount := LineAmount(it.Rate, it.QuantityMultiplier)
		source := "Custom"
		if it.IsLibraryRef() {
			source = "Library"
		}
		data.Rows = append(data.Rows, TemplateExportRow{
			Index:       i + 1,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Rate:        it.Rate,
			Quantity:    it.QuantityMultiplier,
			Amount:      amount,
			Source:      source,
		})
		data.TotalAmount += amount
	}
	return data
}
