package services

import (
	"testing"

	"templatebuilder/builder"
	"templatebuilder/testhelpers"
)

func TestApplyTemplate_CreatesLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	item := testhelpers.CreateTestLineItem(t, app, "Interior paint", "Sq Ft", 2.25, "Finishes")
	doc := testhelpers.CreateTestDocument(t, app, "Maple St estimate", "estimate")
	tpl := testhelpers.CreateTestTemplate(t, app, "Repaint", []builder.TemplateEntry{
		{LibraryItemID: item.Id, QuantityMultiplier: 350, PositionIndex: 0},
		{QuantityMultiplier: 1, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Protect floors", Unit: "Ea", Rate: 45}},
	})

	result, err := ApplyTemplate(app, doc.Id, tpl.Id, "Interior")
	if err != nil {
		t.Fatalf("ApplyTemplate() error: %v", err)
	}
	if result.LinesCreated != 2 {
		t.Errorf("LinesCreated = %d, want 2", result.LinesCreated)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	lines, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:d}",
		"sort_order",
		0,
		0,
		map[string]any{"d": doc.Id},
	)
	if err != nil {
		t.Fatalf("load lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	first := lines[0]
	if first.GetInt("sort_order") != 1 {
		t.Errorf("first sort_order = %d, want 1", first.GetInt("sort_order"))
	}
	if first.GetString("name") != "Interior paint" {
		t.Errorf("first name = %q", first.GetString("name"))
	}
	if first.GetString("section") != "Interior" {
		t.Errorf("first section = %q, want 'Interior'", first.GetString("section"))
	}
	if first.GetFloat("qty") != 350 {
		t.Errorf("first qty = %v, want 350", first.GetFloat("qty"))
	}
	if first.GetString("source_template") != tpl.Id {
		t.Errorf("source_template = %q, want %q", first.GetString("source_template"), tpl.Id)
	}
	if first.GetString("source_item_id") != item.Id {
		t.Errorf("source_item_id = %q, want %q", first.GetString("source_item_id"), item.Id)
	}

	second := lines[1]
	if second.GetInt("sort_order") != 2 {
		t.Errorf("second sort_order = %d, want 2", second.GetInt("sort_order"))
	}
	if second.GetString("name") != "Protect floors" {
		t.Errorf("second name = %q", second.GetString("name"))
	}
	if second.GetString("source_item_id") != "" {
		t.Errorf("embedded line should have no source_item_id, got %q", second.GetString("source_item_id"))
	}
}

func TestApplyTemplate_AppendsAfterExistingLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestDocument(t, app, "Busy doc", "invoice")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Tear out", "Lot", 500, 1)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 2, "Haul away", "Lot", 200, 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Addon", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "New work", Unit: "Ea", Rate: 99}},
	})

	result, err := ApplyTemplate(app, doc.Id, tpl.Id, "")
	if err != nil {
		t.Fatalf("ApplyTemplate() error: %v", err)
	}
	if result.LinesCreated != 1 {
		t.Errorf("LinesCreated = %d, want 1", result.LinesCreated)
	}

	lines, _ := app.FindRecordsByFilter(
		"document_lines",
		"document = {:d}",
		"-sort_order",
		1,
		0,
		map[string]any{"d": doc.Id},
	)
	if len(lines) != 1 {
		t.Fatalf("expected a newest line")
	}
	if lines[0].GetInt("sort_order") != 3 {
		t.Errorf("new line sort_order = %d, want 3", lines[0].GetInt("sort_order"))
	}
	if lines[0].GetString("name") != "New work" {
		t.Errorf("new line name = %q", lines[0].GetString("name"))
	}
}

func TestApplyTemplate_SubstitutesNonPositiveRates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestDocument(t, app, "Rate check", "estimate")
	tpl := testhelpers.CreateTestTemplate(t, app, "Zero rate", []builder.TemplateEntry{
		{QuantityMultiplier: 5, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Freebie", Unit: "Ea", Rate: 0}},
	})

	if _, err := ApplyTemplate(app, doc.Id, tpl.Id, ""); err != nil {
		t.Fatalf("ApplyTemplate() error: %v", err)
	}

	lines, _ := app.FindRecordsByFilter(
		"document_lines",
		"document = {:d}",
		"sort_order",
		0,
		0,
		map[string]any{"d": doc.Id},
	)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].GetFloat("rate") != 1.0 {
		t.Errorf("rate = %v, want 1.0 substitution", lines[0].GetFloat("rate"))
	}
}

func TestApplyTemplate_SkipsMalformedEntries(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestDocument(t, app, "Partial", "work_order")
	tpl := testhelpers.CreateTestTemplate(t, app, "Mixed", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0}, // unresolvable
		{QuantityMultiplier: 1, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Still good", Unit: "Ea", Rate: 10}},
	})

	result, err := ApplyTemplate(app, doc.Id, tpl.Id, "")
	if err != nil {
		t.Fatalf("ApplyTemplate() error: %v", err)
	}
	if result.LinesCreated != 1 {
		t.Errorf("LinesCreated = %d, want 1", result.LinesCreated)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestApplyTemplate_NoUsableItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestDocument(t, app, "Empty apply", "estimate")
	tpl := testhelpers.CreateTestTemplate(t, app, "Hollow", nil)

	_, err := ApplyTemplate(app, doc.Id, tpl.Id, "")
	if err == nil {
		t.Error("expected error for template with no usable items")
	}
}

func TestApplyTemplate_MissingDocument(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	tpl := testhelpers.CreateTestTemplate(t, app, "Orphan", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "X", Rate: 1}},
	})

	_, err := ApplyTemplate(app, "nonexistent", tpl.Id, "")
	if err == nil {
		t.Error("expected error for missing document")
	}
}

func TestApplyTemplate_MissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := testhelpers.CreateTestDocument(t, app, "No template", "estimate")

	_, err := ApplyTemplate(app, doc.Id, "nonexistent", "")
	if err == nil {
		t.Error("expected error for missing template")
	}
}
