package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page wraps content and the builder panel in the full HTML shell. The
// active string marks the matching nav link.
func Page(title, active string, content, panel templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead(title)+pageNav(active)); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		if panel != nil {
			if err := panel.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

func pageHead(title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>` + esc(title) + ` · Template Builder</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; color: #212529; background: #f8f9fa; }
nav.topnav { display: flex; gap: 1.5rem; align-items: center; padding: 0.75rem 1.5rem; background: #212529; color: #fff; }
nav.topnav .brand { font-weight: 700; margin-right: 1rem; }
nav.topnav a { color: #adb5bd; text-decoration: none; }
nav.topnav a.active, nav.topnav a:hover { color: #fff; }
main.layout { display: grid; grid-template-columns: minmax(0, 1fr) 400px; gap: 1.25rem; padding: 1.25rem 1.5rem; align-items: start; }
main.layout > section { min-width: 0; }
h1 { font-size: 1.3rem; margin: 0 0 1rem; }
table.data-table { width: 100%; border-collapse: collapse; background: #fff; font-size: 0.875rem; }
table.data-table th, table.data-table td { padding: 0.45rem 0.6rem; border-bottom: 1px solid #dee2e6; text-align: left; }
table.data-table th { background: #343a40; color: #fff; font-weight: 600; }
table.data-table td.n, table.data-table th.n { text-align: right; }
.muted { color: #6c757d; font-size: 0.8rem; }
.btn { display: inline-block; border: 1px solid #ced4da; border-radius: 4px; background: #fff; padding: 0.3rem 0.7rem; font-size: 0.8rem; cursor: pointer; text-decoration: none; color: #212529; }
.btn:disabled { opacity: 0.45; cursor: default; }
.btn-primary { background: #1d4ed8; border-color: #1d4ed8; color: #fff; }
.btn-danger { color: #dc2626; border-color: #dc2626; }
.toolbar { display: flex; gap: 0.5rem; align-items: center; margin-bottom: 1rem; flex-wrap: wrap; }
.toolbar input[type=search] { flex: 1 1 200px; padding: 0.35rem 0.5rem; }
input, select, textarea { font: inherit; padding: 0.3rem 0.45rem; border: 1px solid #ced4da; border-radius: 4px; }
.builder-panel { background: #fff; border: 1px solid #dee2e6; border-radius: 6px; padding: 1rem; position: sticky; top: 1rem; }
.builder-panel.closed { border-style: dashed; color: #6c757d; text-align: center; }
.panel-head { display: flex; justify-content: space-between; align-items: center; margin-bottom: 0.75rem; }
.panel-head h2 { font-size: 1rem; margin: 0; }
.panel-meta label { display: block; font-size: 0.75rem; color: #495057; margin-bottom: 0.5rem; }
.panel-meta input, .panel-meta select, .panel-meta textarea { width: 100%; margin-top: 0.15rem; }
.panel-items { width: 100%; border-collapse: collapse; font-size: 0.8rem; margin: 0.75rem 0; }
.panel-items td { padding: 0.3rem 0.25rem; border-bottom: 1px solid #e9ecef; vertical-align: top; }
.panel-items input.cell { width: 4.5rem; padding: 0.15rem 0.3rem; font-size: 0.8rem; }
.panel-items input.cell-wide { width: 100%; padding: 0.15rem 0.3rem; font-size: 0.8rem; }
.panel-totals { display: flex; justify-content: space-between; font-size: 0.9rem; margin: 0.5rem 0 0.75rem; }
.panel-warnings { margin: 0 0 0.75rem; padding-left: 1.1rem; color: #b45309; font-size: 0.8rem; }
.tag { display: inline-block; font-size: 0.65rem; padding: 0 0.3rem; border-radius: 3px; background: #e9ecef; color: #495057; }
.paging { display: flex; gap: 0.75rem; align-items: center; margin-top: 0.75rem; font-size: 0.85rem; }
.section-block { margin-bottom: 1.5rem; }
.section-block h2 { font-size: 1rem; margin: 0 0 0.5rem; }
.result-box { border: 1px solid #dee2e6; border-radius: 6px; background: #fff; padding: 1rem; margin-top: 1rem; }
.result-box.ok { border-color: #16a34a; }
.result-box.bad { border-color: #dc2626; }
#toast-box { position: fixed; top: 1rem; right: 1rem; z-index: 50; display: flex; flex-direction: column; gap: 0.5rem; }
.toast { padding: 0.6rem 1rem; border-radius: 4px; color: #fff; background: #343a40; font-size: 0.85rem; box-shadow: 0 2px 8px rgba(0,0,0,0.2); }
.toast-success { background: #16a34a; }
.toast-error { background: #dc2626; }
.toast-warning { background: #d97706; }
</style>
</head>
<body>
<div id="toast-box"></div>
`
}

func pageNav(active string) string {
	link := func(href, slug, label string) string {
		cls := ""
		if active == slug {
			cls = ` class="active"`
		}
		return `<a href="` + href + `"` + cls + `>` + label + `</a>`
	}
	return `<nav class="topnav"><span class="brand">Template Builder</span>` +
		link("/", "library", "Library") +
		link("/templates", "templates", "Templates") +
		link("/documents", "documents", "Documents") +
		`</nav>
<main class="layout">
`
}

const pageFoot = `</main>
<script>
(function () {
  function show(t) {
    if (!t || !t.message) return;
    var box = document.getElementById('toast-box');
    var el = document.createElement('div');
    el.className = 'toast toast-' + (t.type || 'info');
    el.textContent = t.message;
    box.appendChild(el);
    setTimeout(function () { el.remove(); }, 4000);
  }
  document.body.addEventListener('showToast', function (evt) { show(evt.detail); });
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (m) {
    try { show(JSON.parse(decodeURIComponent(m[1]))); } catch (e) {}
    document.cookie = 'flash_toast=; Max-Age=0; path=/';
  }
})();
</script>
</body>
</html>
`
