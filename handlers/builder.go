package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/services"
)

// HandleBuilderOpen opens the builder, blank by default or loaded from a
// stored template when a templateId is posted. Loading an existing template
// reports any stored entries that could not be normalized.
func HandleBuilderOpen(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		templateID := strings.TrimSpace(e.Request.FormValue("templateId"))
		if templateID == "" {
			store.OpenNew()
			return renderPanel(e, store, nil)
		}

		tpl, lib, err := services.LoadTemplate(app, templateID)
		if err != nil {
			log.Printf("builder_open: could not load template %s: %v", templateID, err)
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		warnings, err := store.OpenEdit(tpl, lib)
		if err != nil {
			log.Printf("builder_open: could not open template %s: %v", templateID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if len(warnings) > 0 {
			SetToast(e, "warning", fmt.Sprintf("%d stored entries could not be loaded", len(warnings)))
		}
		return renderPanel(e, store, warnings)
	}
}

// HandleBuilderClose discards the template in progress.
func HandleBuilderClose(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store.Close()
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderPanel renders the current panel fragment without mutating
// anything.
func HandleBuilderPanel(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderState returns the builder snapshot as JSON.
func HandleBuilderState(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, store.State())
	}
}

// HandleBuilderAddItems appends library items to the open builder. Item ids
// come from the posted ids field when present, otherwise from the picker
// selection, which is consumed by the add.
func HandleBuilderAddItems(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		ids := splitIDs(e.Request.Form["ids"])
		fromSelection := false
		if len(ids) == 0 {
			ids = store.State().SelectedIDs
			fromSelection = true
		}
		if len(ids) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Select at least one item to add")
		}

		var recs []builder.LibraryRecord
		var warnings []builder.Warning
		for _, id := range ids {
			rec, err := app.FindRecordById("line_items", id)
			if err != nil {
				log.Printf("builder_add_items: library item %s not found: %v", id, err)
				warnings = append(warnings, builder.Warning{
					Kind:    builder.WarnMalformedEntry,
					Message: fmt.Sprintf("library item %s no longer exists", id),
				})
				continue
			}
			recs = append(recs, services.LibraryRecordFromRecord(rec))
		}

		items, normWarns := builder.FromLibraryRecords(recs)
		warnings = append(warnings, normWarns...)

		if err := store.AddItems(items...); err != nil {
			if errors.Is(err, builder.ErrClosed) {
				return ErrorToast(e, http.StatusBadRequest, "Start a template before adding items")
			}
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if fromSelection {
			store.ClearSelection()
		}

		SetToast(e, "success", fmt.Sprintf("Added %d items", len(items)))
		return renderPanel(e, store, warnings)
	}
}

// HandleBuilderAddSection pulls the lines of one document section into the
// builder, opening it first when needed. A blank builder name picks up the
// section label.
func HandleBuilderAddSection(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		documentID := strings.TrimSpace(e.Request.FormValue("documentId"))
		if documentID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing document ID")
		}
		section := e.Request.FormValue("section")

		if _, err := app.FindRecordById("documents", documentID); err != nil {
			log.Printf("builder_add_section: document %s not found: %v", documentID, err)
			return ErrorToast(e, http.StatusNotFound, "Document not found")
		}

		lineRecs, err := app.FindRecordsByFilter(
			"document_lines",
			"document = {:documentId} && section = {:section}",
			"sort_order", 0, 0,
			map[string]any{"documentId": documentID, "section": section},
		)
		if err != nil {
			log.Printf("builder_add_section: could not query lines for document %s: %v", documentID, err)
			lineRecs = nil
		}
		if len(lineRecs) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Section has no lines to import")
		}

		rows := make([]builder.SectionRow, 0, len(lineRecs))
		for _, rec := range lineRecs {
			rows = append(rows, builder.SectionRow{
				ID:          rec.Id,
				Name:        rec.GetString("name"),
				Description: rec.GetString("description"),
				Unit:        rec.GetString("unit"),
				Rate:        rec.GetFloat("rate"),
			})
		}
		items, warnings := builder.FromSectionRows(rows)

		if !store.State().IsOpen {
			store.OpenNew()
		}
		if err := store.AddSection(section, items); err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", fmt.Sprintf("Imported %d lines into the builder", len(items)))
		return renderPanel(e, store, warnings)
	}
}

// HandleBuilderRemoveItem removes the item at the path index.
func HandleBuilderRemoveItem(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		index, err := strconv.Atoi(e.Request.PathValue("index"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item index")
		}
		if err := store.RemoveItem(index); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "No template in progress")
		}
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderReorder moves an item between two positions.
func HandleBuilderReorder(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		from, err := strconv.Atoi(e.Request.FormValue("from"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid position")
		}
		to, err := strconv.Atoi(e.Request.FormValue("to"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid position")
		}
		if err := store.Reorder(from, to); err != nil {
			if errors.Is(err, builder.ErrBadIndex) {
				return ErrorToast(e, http.StatusBadRequest, "Invalid position")
			}
			return ErrorToast(e, http.StatusBadRequest, "No template in progress")
		}
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderUpdateItem patches the posted fields of the item at the path
// index. Only fields present in the form are touched.
func HandleBuilderUpdateItem(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		index, err := strconv.Atoi(e.Request.PathValue("index"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item index")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		patch := builder.ItemPatch{
			Name:               formPtr(e, "name"),
			Description:        formPtr(e, "description"),
			Unit:               formPtr(e, "unit"),
			Rate:               formPtr(e, "rate"),
			QuantityMultiplier: formPtr(e, "qty"),
		}
		if err := store.UpdateItem(index, patch); err != nil {
			if errors.Is(err, builder.ErrBadIndex) {
				return ErrorToast(e, http.StatusBadRequest, "Invalid item index")
			}
			return ErrorToast(e, http.StatusBadRequest, "No template in progress")
		}
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderMetadata sets one metadata field from the posted field/value
// pair.
func HandleBuilderMetadata(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		field := e.Request.FormValue("field")
		value := e.Request.FormValue("value")
		if err := store.SetMetadata(field, value); err != nil {
			if errors.Is(err, builder.ErrClosed) {
				return ErrorToast(e, http.StatusBadRequest, "No template in progress")
			}
			return ErrorToast(e, http.StatusBadRequest, "Unknown metadata field")
		}
		return renderPanel(e, store, nil)
	}
}

// HandleBuilderToggleSelection flips one library item in the picker
// selection. The checkbox swaps nothing, so the response has no body.
func HandleBuilderToggleSelection(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		id := strings.TrimSpace(e.Request.FormValue("id"))
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing item ID")
		}
		store.ToggleSelection(id)
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleBuilderSetSelection replaces the picker selection with the posted
// ids.
func HandleBuilderSetSelection(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		store.SetSelection(splitIDs(e.Request.Form["ids"]))
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleBuilderClearSelection empties the picker selection.
func HandleBuilderClearSelection(store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		store.ClearSelection()
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleBuilderSave persists the template in progress, creating a new record
// or updating the one being edited. The builder closes only after the save
// goes through; a failed save keeps the work intact.
func HandleBuilderSave(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := store.State()
		if !st.IsOpen {
			return ErrorToast(e, http.StatusBadRequest, "No template in progress")
		}

		if st.EditingTemplateID != "" {
			payload, templateID, err := builder.UpdatePayload(st)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, saveErrorMessage(err))
			}
			if _, err := services.UpdateTemplate(app, templateID, payload); err != nil {
				log.Printf("builder_save: could not update template %s: %v", templateID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Could not update template. Please try again.")
			}
			store.Close()
			SetToast(e, "success", "Template updated")
			return renderPanel(e, store, nil)
		}

		payload, err := builder.SavePayload(st)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, saveErrorMessage(err))
		}
		if _, err := services.SaveTemplate(app, payload); err != nil {
			log.Printf("builder_save: could not save template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save template. Please try again.")
		}
		store.Close()
		SetToast(e, "success", "Template saved")
		return renderPanel(e, store, nil)
	}
}

func saveErrorMessage(err error) string {
	switch {
	case errors.Is(err, builder.ErrNoItems):
		return "Add at least one item before saving"
	case errors.Is(err, builder.ErrNoName):
		return "Give the template a name before saving"
	default:
		return "Could not save template"
	}
}

// splitIDs flattens repeated and comma-separated id values into one list.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// formPtr returns the first posted value for key, or nil when the field was
// not part of the form at all.
func formPtr(e *core.RequestEvent, key string) *string {
	if vals, ok := e.Request.Form[key]; ok && len(vals) > 0 {
		v := vals[0]
		return &v
	}
	return nil
}
