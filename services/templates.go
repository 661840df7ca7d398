package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
)

// TemplateFromRecord maps an item_templates record onto the builder's load
// shape, parsing the stored entry list out of the template_items json field.
func TemplateFromRecord(rec *core.Record) (builder.Template, error) {
	tpl := builder.Template{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Description: rec.GetString("description"),
		Category:    rec.GetString("category"),
	}

	raw := rec.GetString("template_items")
	if raw == "" || raw == "null" {
		return tpl, nil
	}
	if err := rec.UnmarshalJSONField("template_items", &tpl.TemplateItems); err != nil {
		return builder.Template{}, fmt.Errorf("template %s has unreadable entries: %w", rec.Id, err)
	}
	return tpl, nil
}

// LoadTemplate fetches a stored template by id along with the live library
// records its reference entries point at.
func LoadTemplate(app *pocketbase.PocketBase, templateID string) (builder.Template, map[string]builder.LibraryRecord, error) {
	rec, err := app.FindRecordById("item_templates", templateID)
	if err != nil {
		return builder.Template{}, nil, fmt.Errorf("could not find template %s: %w", templateID, err)
	}
	tpl, err := TemplateFromRecord(rec)
	if err != nil {
		return builder.Template{}, nil, err
	}
	lib := FetchLibraryRecords(app, ReferenceIDs(tpl.TemplateItems))
	return tpl, lib, nil
}

// AttachSnapshots denormalizes current library data onto reference entries
// before they are stored. The outbound payload never carries snapshots; they
// are added at the storage boundary so templates stay loadable after library
// records are edited or deleted.
func AttachSnapshots(app *pocketbase.PocketBase, entries []builder.TemplateEntry) []builder.TemplateEntry {
	out := make([]builder.TemplateEntry, len(entries))
	copy(out, entries)
	for i, entry := range out {
		if entry.LibraryItemID == "" {
			continue
		}
		rec, err := app.FindRecordById("line_items", entry.LibraryItemID)
		if err != nil {
			continue
		}
		snap := LibraryRecordFromRecord(rec)
		out[i].LibraryItem = &snap
	}
	return out
}

// SaveTemplate stores a new template from the builder's payload and returns
// the created record.
func SaveTemplate(app *pocketbase.PocketBase, payload builder.TemplatePayload) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("item_templates")
	if err != nil {
		return nil, fmt.Errorf("could not find item_templates collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("name", payload.Name)
	rec.Set("description", payload.Description)
	rec.Set("category", payload.Category)
	rec.Set("company_id", payload.CompanyID)
	rec.Set("template_items", AttachSnapshots(app, payload.LineItemIDs))

	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("could not save template: %w", err)
	}
	return rec, nil
}

// UpdateTemplate overwrites the stored template with the builder's payload.
// The metadata is written as-is, including a blanked name when the record
// already carries one and the payload doesn't.
func UpdateTemplate(app *pocketbase.PocketBase, templateID string, payload builder.TemplatePayload) (*core.Record, error) {
	rec, err := app.FindRecordById("item_templates", templateID)
	if err != nil {
		return nil, fmt.Errorf("could not find template %s: %w", templateID, err)
	}

	rec.Set("name", payload.Name)
	rec.Set("description", payload.Description)
	rec.Set("category", payload.Category)
	if payload.CompanyID != "" {
		rec.Set("company_id", payload.CompanyID)
	}
	rec.Set("template_items", AttachSnapshots(app, payload.LineItemIDs))

	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("could not update template %s: %w", templateID, err)
	}
	return rec, nil
}
