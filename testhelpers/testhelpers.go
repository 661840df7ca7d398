// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestLineItem creates a library item record and returns it.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, name, unit string, rate float64, category string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		t.Fatalf("failed to find line_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("unit", unit)
	record.Set("rate", rate)
	record.Set("category", category)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// CreateTestDocument creates a document record and returns it.
func CreateTestDocument(t *testing.T, app *pocketbase.PocketBase, title, docType string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		t.Fatalf("failed to find documents collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("doc_type", docType)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}

	return record
}

// CreateTestDocumentLine creates a line record on a document.
func CreateTestDocumentLine(t *testing.T, app *pocketbase.PocketBase, documentID, section string, sortOrder int, name, unit string, rate, qty float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("document_lines")
	if err != nil {
		t.Fatalf("failed to find document_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("document", documentID)
	record.Set("section", section)
	record.Set("sort_order", sortOrder)
	record.Set("name", name)
	record.Set("unit", unit)
	record.Set("rate", rate)
	record.Set("qty", qty)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document line: %v", err)
	}

	return record
}

// CreateTestTemplate creates an item_templates record carrying the given
// entry list and returns it.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name string, entries []builder.TemplateEntry) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("item_templates")
	if err != nil {
		t.Fatalf("failed to find item_templates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("template_items", entries)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
