package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"templatebuilder/services"
)

// ImportContent renders the bulk import page body.
func ImportContent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section><h1>Bulk import library items</h1>`)
		b.WriteString(`<p class="muted">Upload a .csv or .xlsx file. <a href="/library/import/template">Download the import template</a> to get the expected columns.</p>`)
		b.WriteString(`<form hx-post="/library/import" hx-encoding="multipart/form-data" hx-target="#import-result" class="toolbar">`)
		b.WriteString(`<input type="file" name="file" accept=".csv,.xlsx" required>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Validate file</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`<div id="import-result"></div>`)
		b.WriteString(`<p><a href="/">Back to library</a></p></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImportValidationResults renders the outcome of the validate phase. When
// the file is clean, it carries the parsed rows forward in a hidden field
// for the commit request.
func ImportValidationResults(result *services.ImportValidation, parsedRowsJSON, errorsJSON string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		cls := "ok"
		if result.ErrorRows > 0 {
			cls = "bad"
		}
		fmt.Fprintf(&b, `<div id="import-result" class="result-box %s">`, cls)
		fmt.Fprintf(&b, `<p><strong>%s</strong>: %d rows, %d valid, %d with errors.</p>`,
			esc(result.FileName), result.TotalRows, result.ValidRows, result.ErrorRows)

		if result.ErrorRows > 0 {
			b.WriteString(`<table class="data-table"><thead><tr><th>Row</th><th>Field</th><th>Error</th></tr></thead><tbody>`)
			for _, e := range result.Errors {
				fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, e.Row, esc(e.Field), esc(e.Message))
			}
			b.WriteString(`</tbody></table>`)
			b.WriteString(`<form method="post" action="/library/import/errors">`)
			fmt.Fprintf(&b, `<input type="hidden" name="errors_json" value="%s">`, esc(errorsJSON))
			b.WriteString(`<button class="btn" type="submit">Download error report</button></form>`)
			b.WriteString(`<p class="muted">Fix the rows above and upload the file again.</p>`)
		} else {
			b.WriteString(`<form hx-post="/library/import/commit" hx-target="#import-result">`)
			fmt.Fprintf(&b, `<input type="hidden" name="parsed_rows_json" value="%s">`, esc(parsedRowsJSON))
			fmt.Fprintf(&b, `<button class="btn btn-primary" type="submit">Import %d items</button>`, result.ValidRows)
			b.WriteString(`</form>`)
		}

		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImportSuccess renders the post-commit confirmation.
func ImportSuccess(imported int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="import-result" class="result-box ok">`)
		fmt.Fprintf(&b, `<p><strong>%d items imported.</strong></p>`, imported)
		b.WriteString(`<p><a href="/">Back to library</a></p></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImportFailure renders commit-phase failures, chunk by chunk.
func ImportFailure(result *services.LibraryImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="import-result" class="result-box bad">`)
		fmt.Fprintf(&b, `<p><strong>Import incomplete:</strong> %d of %d rows imported, %d failed.</p>`,
			result.Imported, result.TotalRows, result.Failed)
		if result.RolledBack {
			b.WriteString(`<p class="muted">Failed chunks were rolled back; no partial rows from them were kept.</p>`)
		}
		if len(result.Errors) > 0 {
			b.WriteString(`<table class="data-table"><thead><tr><th>Row</th><th>Field</th><th>Error</th></tr></thead><tbody>`)
			for _, e := range result.Errors {
				fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, e.Row, esc(e.Field), esc(e.Message))
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
