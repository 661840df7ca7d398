package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"templatebuilder/services"
)

// BuilderItemRow is one line of the builder panel.
type BuilderItemRow struct {
	Index       int
	Name        string
	Description string
	Unit        string
	Rate        float64
	Qty         float64
	Amount      float64
	IsLibrary   bool
	Section     string
}

// BuilderPanelData drives the builder panel fragment.
type BuilderPanelData struct {
	IsOpen            bool
	EditingTemplateID string
	Name              string
	Description       string
	Category          string
	CategoryOptions   []string
	Items             []BuilderItemRow
	TotalAmount       float64
	Warnings          []string
}

// BuilderPanel renders the builder side panel. Every control inside targets
// the panel itself, so each mutation swaps in a fresh copy.
func BuilderPanel(data BuilderPanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		if !data.IsOpen {
			b.WriteString(`<aside id="builder-panel" class="builder-panel closed" hx-target="#builder-panel" hx-swap="outerHTML">`)
			b.WriteString(`<p class="muted">No template in progress.</p>`)
			b.WriteString(`<button class="btn btn-primary" hx-post="/builder/open">Start a template</button>`)
			b.WriteString(`</aside>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString(`<aside id="builder-panel" class="builder-panel open" hx-target="#builder-panel" hx-swap="outerHTML">`)

		b.WriteString(`<div class="panel-head"><h2>Template Builder`)
		if data.EditingTemplateID != "" {
			b.WriteString(` <span class="tag">editing</span>`)
		}
		b.WriteString(`</h2><button class="btn" hx-post="/builder/close">Discard</button></div>`)

		if len(data.Warnings) > 0 {
			b.WriteString(`<ul class="panel-warnings">`)
			for _, warning := range data.Warnings {
				b.WriteString(`<li>` + esc(warning) + `</li>`)
			}
			b.WriteString(`</ul>`)
		}

		b.WriteString(`<div class="panel-meta">`)
		fmt.Fprintf(&b, `<label>Name<input type="text" name="value" value="%s" placeholder="Template name" hx-post="/builder/metadata" hx-vals='{"field":"name"}' hx-trigger="change"></label>`, esc(data.Name))
		fmt.Fprintf(&b, `<label>Description<textarea name="value" rows="2" hx-post="/builder/metadata" hx-vals='{"field":"description"}' hx-trigger="change">%s</textarea></label>`, esc(data.Description))
		b.WriteString(`<label>Category<select name="value" hx-post="/builder/metadata" hx-vals='{"field":"category"}' hx-trigger="change"><option value=""></option>`)
		for _, opt := range data.CategoryOptions {
			selected := ""
			if opt == data.Category {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
		}
		b.WriteString(`</select></label></div>`)

		if len(data.Items) == 0 {
			b.WriteString(`<p class="muted">No items yet. Add them from the library or pull in a document section.</p>`)
		} else {
			b.WriteString(`<table class="panel-items">`)
			last := len(data.Items) - 1
			for _, row := range data.Items {
				b.WriteString(`<tr>`)
				fmt.Fprintf(&b, `<td class="muted">%d</td>`, row.Index+1)

				b.WriteString(`<td>`)
				fmt.Fprintf(&b, `<input class="cell-wide" type="text" name="name" value="%s" hx-post="/builder/items/%d" hx-trigger="change">`, esc(row.Name), row.Index)
				if row.Description != "" {
					b.WriteString(`<div class="muted">` + esc(row.Description) + `</div>`)
				}
				if !row.IsLibrary {
					b.WriteString(`<span class="tag">custom</span>`)
				}
				if row.Section != "" {
					b.WriteString(`<span class="tag">` + esc(row.Section) + `</span>`)
				}
				b.WriteString(`</td>`)

				fmt.Fprintf(&b, `<td class="muted">%s</td>`, esc(row.Unit))
				fmt.Fprintf(&b, `<td><input class="cell" type="text" name="rate" value="%s" hx-post="/builder/items/%d" hx-trigger="change"></td>`, num(row.Rate), row.Index)
				fmt.Fprintf(&b, `<td><input class="cell" type="text" name="qty" value="%s" hx-post="/builder/items/%d" hx-trigger="change"></td>`, num(row.Qty), row.Index)
				fmt.Fprintf(&b, `<td class="n">%s</td>`, services.FormatAmount(row.Amount))

				b.WriteString(`<td>`)
				upDisabled := ""
				if row.Index == 0 {
					upDisabled = " disabled"
				}
				downDisabled := ""
				if row.Index == last {
					downDisabled = " disabled"
				}
				fmt.Fprintf(&b, `<button class="btn" title="Move up" hx-post="/builder/reorder" hx-vals='{"from":%d,"to":%d}'%s>&uarr;</button>`, row.Index, row.Index-1, upDisabled)
				fmt.Fprintf(&b, `<button class="btn" title="Move down" hx-post="/builder/reorder" hx-vals='{"from":%d,"to":%d}'%s>&darr;</button>`, row.Index, row.Index+1, downDisabled)
				fmt.Fprintf(&b, `<button class="btn btn-danger" title="Remove" hx-delete="/builder/items/%d">&times;</button>`, row.Index)
				b.WriteString(`</td></tr>`)
			}
			b.WriteString(`</table>`)
		}

		fmt.Fprintf(&b, `<div class="panel-totals"><span>%d items</span><strong>%s</strong></div>`,
			len(data.Items), services.FormatAmount(data.TotalAmount))

		saveLabel := "Save template"
		if data.EditingTemplateID != "" {
			saveLabel = "Update template"
		}
		fmt.Fprintf(&b, `<button class="btn btn-primary" hx-post="/builder/save">%s</button>`, saveLabel)

		b.WriteString(`</aside>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
