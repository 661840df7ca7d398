package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// TemplateRow is one stored template in the list.
type TemplateRow struct {
	ID          string
	Name        string
	Description string
	Category    string
	ItemCount   int
	Updated     string
}

// TemplateListData drives the templates page and its table fragment.
type TemplateListData struct {
	Rows []TemplateRow
}

// TemplatesContent renders the templates page body.
func TemplatesContent(data TemplateListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h1>Templates</h1><div id="templates-table">`); err != nil {
			return err
		}
		if err := TemplatesTable(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// TemplatesTable renders the template list fragment. Delete swaps it whole.
func TemplatesTable(data TemplateListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString(`<table class="data-table"><thead><tr><th>Name</th><th>Category</th><th class="n">Items</th><th>Updated</th><th></th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="5" class="muted">No templates saved yet.</td></tr>`)
		}
		for _, row := range data.Rows {
			b.WriteString(`<tr><td>` + esc(row.Name))
			if row.Description != "" {
				b.WriteString(`<div class="muted">` + esc(row.Description) + `</div>`)
			}
			b.WriteString(`</td>`)
			b.WriteString(`<td>` + esc(row.Category) + `</td>`)
			fmt.Fprintf(&b, `<td class="n">%d</td>`, row.ItemCount)
			b.WriteString(`<td class="muted">` + esc(row.Updated) + `</td>`)

			b.WriteString(`<td>`)
			fmt.Fprintf(&b, `<button class="btn btn-primary" hx-post="/builder/open" hx-vals='{"templateId":"%s"}' hx-target="#builder-panel" hx-swap="outerHTML">Edit in builder</button>`, esc(row.ID))
			fmt.Fprintf(&b, `<a class="btn" href="/templates/%s/export/excel">Excel</a>`, esc(row.ID))
			fmt.Fprintf(&b, `<a class="btn" href="/templates/%s/export/pdf">PDF</a>`, esc(row.ID))
			fmt.Fprintf(&b, `<button class="btn btn-danger" hx-delete="/templates/%s" hx-confirm="Delete this template?" hx-target="#templates-table">Delete</button>`, esc(row.ID))
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
