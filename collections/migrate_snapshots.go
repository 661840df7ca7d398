package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"templatebuilder/builder"
)

// BackfillTemplateSnapshots walks every stored template and attaches a
// denormalized library snapshot to reference entries that lack one. The
// snapshot is what keeps a template loadable after its library record is
// deleted, and templates saved by older builds were stored without it.
// Safe to call on every startup -- records already carrying snapshots are
// left untouched.
func BackfillTemplateSnapshots(app *pocketbase.PocketBase) error {
	templatesCol, err := app.FindCollectionByNameOrId("item_templates")
	if err != nil {
		return fmt.Errorf("migrate: could not find item_templates collection: %w", err)
	}

	templates, err := app.FindAllRecords(templatesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query templates: %w", err)
	}
	if len(templates) == 0 {
		return nil
	}

	migrated := 0
	for _, tpl := range templates {
		var entries []builder.TemplateEntry
		if err := tpl.UnmarshalJSONField("template_items", &entries); err != nil {
			log.Printf("migrate: template %q (%s) has unreadable entries: %v\n", tpl.GetString("name"), tpl.Id, err)
			continue
		}

		changed := false
		for i, entry := range entries {
			if entry.LibraryItemID == "" || entry.LibraryItem != nil {
				continue
			}
			rec, err := app.FindRecordById("line_items", entry.LibraryItemID)
			if err != nil {
				// Nothing to snapshot from; the load path will skip the entry.
				continue
			}
			entries[i].LibraryItem = &builder.LibraryRecord{
				ID:          rec.Id,
				Name:        rec.GetString("name"),
				Description: rec.GetString("description"),
				Unit:        rec.GetString("unit"),
				Rate:        rec.GetFloat("rate"),
				Category:    rec.GetString("category"),
			}
			changed = true
		}
		if !changed {
			continue
		}

		tpl.Set("template_items", entries)
		if err := app.Save(tpl); err != nil {
			log.Printf("migrate: failed to update template %q (%s): %v\n", tpl.GetString("name"), tpl.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: backfilled snapshots on %d template(s).\n", migrated)
	}
	return nil
}
