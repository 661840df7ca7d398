package services

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
)

// LibraryRecordFromRecord maps a line_items record onto the shape the
// builder consumes.
func LibraryRecordFromRecord(rec *core.Record) builder.LibraryRecord {
	return builder.LibraryRecord{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Description: rec.GetString("description"),
		Unit:        rec.GetString("unit"),
		Rate:        rec.GetFloat("rate"),
		Category:    rec.GetString("category"),
	}
}

// FetchLibraryRecords loads the given library ids and returns the records
// that still exist, keyed by id. Missing ids are simply absent from the
// result; callers fall back to stored snapshots for those.
func FetchLibraryRecords(app *pocketbase.PocketBase, ids []string) map[string]builder.LibraryRecord {
	found := make(map[string]builder.LibraryRecord, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := found[id]; ok {
			continue
		}
		rec, err := app.FindRecordById("line_items", id)
		if err != nil {
			continue
		}
		found[id] = LibraryRecordFromRecord(rec)
	}
	return found
}

// ReferenceIDs collects the library ids referenced by a stored entry list.
func ReferenceIDs(entries []builder.TemplateEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.LibraryItemID != "" {
			ids = append(ids, entry.LibraryItemID)
		}
	}
	return ids
}
