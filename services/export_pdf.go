package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateTemplatePDF creates a PDF sheet for a stored template using
// maroto/v2. It returns the raw PDF bytes or an error.
func GenerateTemplatePDF(data TemplateExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addTemplateHeader(m, data)
	addItemTableHeader(m)
	for _, r := range data.Rows {
		addItemTableRow(m, r)
	}
	addTemplateSummary(m, data)
	addTemplateFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addTemplateHeader adds the template name, category, and date lines.
func addTemplateHeader(m core.Maroto, data TemplateExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Name, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	category := data.Category
	if category == "" {
		category = "Uncategorized"
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Category: %s", category), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	if data.Description != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(data.Description, props.Text{
						Size:  9,
						Align: align.Left,
						Color: &props.Color{Red: 80, Green: 80, Blue: 80},
					}),
				),
			),
		)
	}

	// Spacer
	m.AddRows(row.New(4))
}

// addItemTableHeader adds the column header row for the item table.
func addItemTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Item", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Rate", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Amount", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addItemTableRow adds a single item row. Custom (non-library) items get a
// light gray background so the two entry kinds read apart on paper.
func addItemTableRow(m core.Maroto, r TemplateExportRow) {
	var cellStyle *props.Cell
	if r.Source == "Custom" {
		bg := &props.Color{Red: 245, Green: 245, Blue: 245}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colIndex := col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), baseText))
	colName := col.New(3).Add(text.New(r.Name, leftText))
	colDesc := col.New(3).Add(text.New(r.Description, leftText))
	colUnit := col.New(1).Add(text.New(r.Unit, baseText))
	colRate := col.New(1).Add(text.New(FormatAmount(r.Rate), rightText))
	colQty := col.New(1).Add(text.New(FormatQty(r.Quantity), rightText))
	colAmount := col.New(2).Add(text.New(FormatAmount(r.Amount), rightText))

	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colName = colName.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colRate = colRate.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colAmount = colAmount.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colName,
			colDesc,
			colUnit,
			colRate,
			colQty,
			colAmount,
		),
	)
}

// addTemplateSummary adds the total band at the bottom of the table.
func addTemplateSummary(m core.Maroto, data TemplateExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("Total (%d items)", len(data.Rows)), labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatAmount(data.TotalAmount), valueStyle),
			).WithStyle(summaryCell),
		),
	)
}

// addTemplateFooter adds the generated-date line at the bottom.
func addTemplateFooter(m core.Maroto, data TemplateExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
