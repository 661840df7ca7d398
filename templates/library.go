package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"templatebuilder/services"
)

// LibraryRow is one library item in the picker table.
type LibraryRow struct {
	ID          string
	Name        string
	Description string
	Unit        string
	Rate        float64
	Category    string
	Selected    bool
}

// LibraryListData drives the library page and its table fragment.
type LibraryListData struct {
	Rows            []LibraryRow
	Query           string
	Category        string
	CategoryOptions []string
	UnitOptions     []string
	Page            int
	TotalPages      int
	TotalItems      int
	SelectedCount   int
}

// LibraryContent renders the library page body: toolbar, create form, and
// the table fragment.
func LibraryContent(data LibraryListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section><h1>Item Library</h1>`)

		b.WriteString(`<div class="toolbar">`)
		fmt.Fprintf(&b, `<input type="search" name="q" value="%s" placeholder="Search items" hx-get="/library/items" hx-trigger="input changed delay:300ms" hx-target="#library-table" hx-include="#library-category">`, esc(data.Query))
		b.WriteString(`<select id="library-category" name="category" hx-get="/library/items" hx-trigger="change" hx-target="#library-table" hx-include="[name='q']"><option value="">All categories</option>`)
		for _, opt := range data.CategoryOptions {
			selected := ""
			if opt == data.Category {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<a class="btn" href="/library/import">Bulk import</a>`)
		b.WriteString(`</div>`)

		b.WriteString(`<details><summary class="muted">New library item</summary>`)
		b.WriteString(`<form class="toolbar" hx-post="/library/items" hx-target="#library-table">`)
		b.WriteString(`<input type="text" name="name" placeholder="Name" required>`)
		b.WriteString(`<input type="text" name="description" placeholder="Description">`)
		b.WriteString(`<select name="unit">`)
		for _, opt := range data.UnitOptions {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, esc(opt), esc(opt))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<input type="number" name="rate" step="0.01" placeholder="Rate">`)
		b.WriteString(`<select name="category"><option value=""></option>`)
		for _, opt := range data.CategoryOptions {
			fmt.Fprintf(&b, `<option value="%s">%s</option>`, esc(opt), esc(opt))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Add item</button>`)
		b.WriteString(`</form></details>`)

		b.WriteString(`<div id="library-table">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := LibraryTable(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
}

// LibraryTable renders the pageable item table. It is the fragment the
// search box, filters and paging controls swap.
func LibraryTable(data LibraryListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		fmt.Fprintf(&b, `<div class="toolbar"><span class="muted">%d items</span>`, data.TotalItems)
		disabled := ""
		if data.SelectedCount == 0 {
			disabled = " disabled"
		}
		fmt.Fprintf(&b, `<button class="btn btn-primary" hx-post="/builder/items" hx-target="#builder-panel" hx-swap="outerHTML"%s>Add selected (%d)</button>`, disabled, data.SelectedCount)
		b.WriteString(`</div>`)

		b.WriteString(`<table class="data-table"><thead><tr><th></th><th>Name</th><th>Unit</th><th class="n">Rate</th><th>Category</th><th></th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="6" class="muted">No items match.</td></tr>`)
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		for _, row := range data.Rows {
			if err := LibraryItemRow(row).Render(ctx, w); err != nil {
				return err
			}
		}

		b.Reset()
		b.WriteString(`</tbody></table>`)

		b.WriteString(`<nav class="paging">`)
		prevDisabled := ""
		if data.Page <= 1 {
			prevDisabled = " disabled"
		}
		nextDisabled := ""
		if data.Page >= data.TotalPages {
			nextDisabled = " disabled"
		}
		fmt.Fprintf(&b, `<button class="btn" hx-get="%s" hx-target="#library-table"%s>Prev</button>`, esc(libraryPageURL(data, data.Page-1)), prevDisabled)
		fmt.Fprintf(&b, `<span>Page %d of %d</span>`, data.Page, data.TotalPages)
		fmt.Fprintf(&b, `<button class="btn" hx-get="%s" hx-target="#library-table"%s>Next</button>`, esc(libraryPageURL(data, data.Page+1)), nextDisabled)
		b.WriteString(`</nav>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func libraryPageURL(data LibraryListData, page int) string {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	if data.Query != "" {
		q.Set("q", data.Query)
	}
	if data.Category != "" {
		q.Set("category", data.Category)
	}
	return "/library/items?" + q.Encode()
}

// LibraryItemRow renders one display row. Update handlers return it to swap
// an editor row back out.
func LibraryItemRow(row LibraryRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<tr id="item-%s">`, esc(row.ID))

		checked := ""
		if row.Selected {
			checked = " checked"
		}
		fmt.Fprintf(&b, `<td><input type="checkbox" hx-post="/builder/selection/toggle" hx-vals='{"id":"%s"}' hx-swap="none"%s></td>`, esc(row.ID), checked)

		b.WriteString(`<td>` + esc(row.Name))
		if row.Description != "" {
			b.WriteString(`<div class="muted">` + esc(row.Description) + `</div>`)
		}
		b.WriteString(`</td>`)
		b.WriteString(`<td>` + esc(row.Unit) + `</td>`)
		fmt.Fprintf(&b, `<td class="n">%s</td>`, services.FormatAmount(row.Rate))
		b.WriteString(`<td>` + esc(row.Category) + `</td>`)

		b.WriteString(`<td>`)
		fmt.Fprintf(&b, `<button class="btn" hx-post="/builder/items" hx-vals='{"ids":"%s"}' hx-target="#builder-panel" hx-swap="outerHTML">Add</button>`, esc(row.ID))
		fmt.Fprintf(&b, `<button class="btn" hx-get="/library/items/%s/edit" hx-target="closest tr" hx-swap="outerHTML">Edit</button>`, esc(row.ID))
		fmt.Fprintf(&b, `<button class="btn btn-danger" hx-delete="/library/items/%s" hx-confirm="Delete this library item?" hx-target="#library-table">Delete</button>`, esc(row.ID))
		b.WriteString(`</td></tr>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// LibraryItemEditor renders the inline editor row for one item.
func LibraryItemEditor(row LibraryRow, unitOptions, categoryOptions []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<tr id="item-%s">`, esc(row.ID))
		b.WriteString(`<td></td>`)

		b.WriteString(`<td>`)
		fmt.Fprintf(&b, `<input type="text" name="name" value="%s">`, esc(row.Name))
		fmt.Fprintf(&b, `<input type="text" name="description" value="%s" placeholder="Description">`, esc(row.Description))
		b.WriteString(`</td>`)

		b.WriteString(`<td><select name="unit">`)
		for _, opt := range unitOptions {
			selected := ""
			if opt == row.Unit {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
		}
		b.WriteString(`</select></td>`)

		fmt.Fprintf(&b, `<td class="n"><input class="cell" type="number" name="rate" step="0.01" value="%s"></td>`, num(row.Rate))

		b.WriteString(`<td><select name="category"><option value=""></option>`)
		for _, opt := range categoryOptions {
			selected := ""
			if opt == row.Category {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
		}
		b.WriteString(`</select></td>`)

		b.WriteString(`<td>`)
		fmt.Fprintf(&b, `<button class="btn btn-primary" hx-post="/library/items/%s" hx-include="closest tr" hx-target="closest tr" hx-swap="outerHTML">Save</button>`, esc(row.ID))
		fmt.Fprintf(&b, `<button class="btn" hx-get="/library/items/%s/row" hx-target="closest tr" hx-swap="outerHTML">Cancel</button>`, esc(row.ID))
		b.WriteString(`</td></tr>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
