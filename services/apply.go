package services

import (
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
)

// ErrNoUsableItems means every entry of the template failed normalization,
// so there is nothing to stamp onto the document.
var ErrNoUsableItems = errors.New("template has no usable items")

// ApplyResult summarizes one template stamped onto a document.
type ApplyResult struct {
	LinesCreated int
	Warnings     []builder.Warning
}

// ApplyTemplate appends one document line per template entry to the given
// document, continuing from its highest sort_order. Reference entries are
// resolved against the live library first and fall back to their stored
// snapshots; each line's qty is the entry's quantity multiplier. When
// section is non-empty, every created line lands in that section.
func ApplyTemplate(app *pocketbase.PocketBase, documentID, templateID, section string) (ApplyResult, error) {
	if _, err := app.FindRecordById("documents", documentID); err != nil {
		return ApplyResult{}, fmt.Errorf("could not find document %s: %w", documentID, err)
	}

	tpl, lib, err := LoadTemplate(app, templateID)
	if err != nil {
		return ApplyResult{}, err
	}

	items, warns := builder.FromTemplateEntries(tpl.TemplateItems, lib)
	if len(items) == 0 {
		return ApplyResult{Warnings: warns}, fmt.Errorf("template %q: %w", tpl.Name, ErrNoUsableItems)
	}

	linesCol, err := app.FindCollectionByNameOrId("document_lines")
	if err != nil {
		return ApplyResult{}, fmt.Errorf("could not find document_lines collection: %w", err)
	}

	nextSort := nextLineSortOrder(app, documentID)
	for i, it := range items {
		rec := core.NewRecord(linesCol)
		rec.Set("document", documentID)
		rec.Set("section", section)
		rec.Set("sort_order", nextSort+i)
		rec.Set("name", it.Name)
		rec.Set("description", it.Description)
		rec.Set("unit", it.Unit)
		rec.Set("rate", builder.ClampRate(it.Rate))
		rec.Set("qty", it.QuantityMultiplier)
		rec.Set("source_template", tpl.ID)
		rec.Set("source_item_id", it.LibraryItemID)
		if err := app.Save(rec); err != nil {
			return ApplyResult{}, fmt.Errorf("could not create line %q: %w", it.Name, err)
		}
	}

	return ApplyResult{LinesCreated: len(items), Warnings: warns}, nil
}

// nextLineSortOrder returns the next sort_order value for a line on the
// given document. Lines start at 1 for an empty document.
func nextLineSortOrder(app *pocketbase.PocketBase, documentID string) int {
	records, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"-sort_order",
		1,
		0,
		map[string]any{"documentId": documentID},
	)
	if err != nil || len(records) == 0 {
		return 1
	}
	return records[0].GetInt("sort_order") + 1
}
