package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"templatebuilder/services"
)

// DocumentRow is one document in the list.
type DocumentRow struct {
	ID              string
	Title           string
	DocType         string
	ReferenceNumber string
	LineCount       int
}

// DocumentListData drives the documents page and its table fragment.
type DocumentListData struct {
	Rows     []DocumentRow
	DocTypes []string
}

// DocumentsContent renders the documents page body.
func DocumentsContent(data DocumentListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section><h1>Documents</h1>`)

		b.WriteString(`<form class="toolbar" hx-post="/documents" hx-target="#documents-table">`)
		b.WriteString(`<input type="text" name="title" placeholder="Title" required>`)
		b.WriteString(`<select name="doc_type">`)
		for _, opt := range data.DocTypes {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, esc(opt), esc(docTypeLabel(opt)))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<input type="text" name="reference_number" placeholder="Reference #">`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Create document</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<div id="documents-table">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := DocumentsTable(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// DocumentsTable renders the document list fragment.
func DocumentsTable(data DocumentListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<table class="data-table"><thead><tr><th>Title</th><th>Type</th><th>Reference</th><th class="n">Lines</th><th></th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="5" class="muted">No documents yet.</td></tr>`)
		}
		for _, row := range data.Rows {
			b.WriteString(`<tr><td>` + esc(row.Title) + `</td>`)
			b.WriteString(`<td>` + esc(docTypeLabel(row.DocType)) + `</td>`)
			b.WriteString(`<td class="muted">` + esc(row.ReferenceNumber) + `</td>`)
			fmt.Fprintf(&b, `<td class="n">%d</td>`, row.LineCount)
			fmt.Fprintf(&b, `<td><a class="btn" href="/documents/%s">Open</a></td></tr>`, esc(row.ID))
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// DocumentLineRow is one priced line of a document.
type DocumentLineRow struct {
	Name        string
	Description string
	Unit        string
	Rate        float64
	Qty         float64
	Amount      float64
}

// DocumentSectionData is one labeled group of lines.
type DocumentSectionData struct {
	Label    string
	Lines    []DocumentLineRow
	Subtotal float64
}

// DocumentDetailData drives the single-document page.
type DocumentDetailData struct {
	ID              string
	Title           string
	DocType         string
	ReferenceNumber string
	Sections        []DocumentSectionData
	TotalAmount     float64
	Templates       []TemplateRow
}

// DocumentDetailContent renders the document page body.
func DocumentDetailContent(data DocumentDetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<section><h1>%s <span class="tag">%s</span></h1>`, esc(data.Title), esc(docTypeLabel(data.DocType)))
		if data.ReferenceNumber != "" {
			b.WriteString(`<p class="muted">` + esc(data.ReferenceNumber) + `</p>`)
		}

		b.WriteString(`<div class="toolbar">`)
		fmt.Fprintf(&b, `<input id="apply-section" type="text" name="section" placeholder="Section for applied lines">`)
		for _, tpl := range data.Templates {
			fmt.Fprintf(&b, `<button class="btn" hx-post="/documents/%s/apply/%s" hx-include="#apply-section" hx-target="#document-lines">Apply %s</button>`,
				esc(data.ID), esc(tpl.ID), esc(tpl.Name))
		}
		b.WriteString(`</div>`)

		b.WriteString(`<div id="document-lines">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := DocumentLines(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// DocumentLines renders the sectioned line tables. Applying a template
// swaps this fragment.
func DocumentLines(data DocumentDetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		if len(data.Sections) == 0 {
			b.WriteString(`<p class="muted">No lines on this document yet.</p>`)
		}
		for _, section := range data.Sections {
			b.WriteString(`<div class="section-block">`)
			label := section.Label
			if label == "" {
				label = "Unsectioned"
			}
			fmt.Fprintf(&b, `<h2>%s `, esc(label))
			fmt.Fprintf(&b, `<button class="btn" hx-post="/builder/sections" hx-vals='{"documentId":"%s","section":"%s"}' hx-target="#builder-panel" hx-swap="outerHTML">Pull into builder</button></h2>`,
				esc(data.ID), esc(section.Label))

			b.WriteString(`<table class="data-table"><thead><tr><th>Item</th><th>Unit</th><th class="n">Rate</th><th class="n">Qty</th><th class="n">Amount</th></tr></thead><tbody>`)
			for _, line := range section.Lines {
				b.WriteString(`<tr><td>` + esc(line.Name))
				if line.Description != "" {
					b.WriteString(`<div class="muted">` + esc(line.Description) + `</div>`)
				}
				b.WriteString(`</td>`)
				b.WriteString(`<td>` + esc(line.Unit) + `</td>`)
				fmt.Fprintf(&b, `<td class="n">%s</td>`, services.FormatAmount(line.Rate))
				fmt.Fprintf(&b, `<td class="n">%s</td>`, services.FormatQty(line.Qty))
				fmt.Fprintf(&b, `<td class="n">%s</td>`, services.FormatAmount(line.Amount))
				b.WriteString(`</tr>`)
			}
			fmt.Fprintf(&b, `<tr><td colspan="4" class="n"><strong>Subtotal</strong></td><td class="n"><strong>%s</strong></td></tr>`,
				services.FormatAmount(section.Subtotal))
			b.WriteString(`</tbody></table></div>`)
		}

		fmt.Fprintf(&b, `<p class="n" style="text-align:right"><strong>Total: %s</strong></p>`, services.FormatAmount(data.TotalAmount))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func docTypeLabel(docType string) string {
	switch docType {
	case "estimate":
		return "Estimate"
	case "invoice":
		return "Invoice"
	case "work_order":
		return "Work Order"
	default:
		return docType
	}
}
