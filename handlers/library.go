package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/services"
	"templatebuilder/templates"
)

const libraryPageSize = 25

// libraryListParams holds parsed query parameters for the library list.
type libraryListParams struct {
	Page     int
	Query    string
	Category string
}

// parseLibraryListParams extracts and validates query parameters from the
// request.
func parseLibraryListParams(e *core.RequestEvent) libraryListParams {
	params := libraryListParams{Page: 1}

	if p := e.Request.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			params.Page = v
		}
	}
	params.Query = strings.TrimSpace(e.Request.URL.Query().Get("q"))
	params.Category = strings.TrimSpace(e.Request.URL.Query().Get("category"))
	return params
}

// buildLibraryFilter constructs a PocketBase filter string and bind params.
func buildLibraryFilter(query, category string) (string, map[string]any) {
	var parts []string
	params := map[string]any{}

	if query != "" {
		parts = append(parts, "(name ~ {:search} || description ~ {:search})")
		params["search"] = query
	}
	if category != "" {
		parts = append(parts, "category = {:category}")
		params["category"] = category
	}
	if len(parts) == 0 {
		return "id != ''", params
	}
	return strings.Join(parts, " && "), params
}

// buildLibraryListData queries one page of library items and maps them onto
// the list view model, marking rows that sit in the picker selection.
func buildLibraryListData(app *pocketbase.PocketBase, store *builder.Store, params libraryListParams) (templates.LibraryListData, error) {
	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return templates.LibraryListData{}, err
	}

	filter, filterParams := buildLibraryFilter(params.Query, params.Category)

	allRecords, err := app.FindRecordsByFilter(col, filter, "name", 0, 0, filterParams)
	if err != nil {
		log.Printf("library_list: could not count items: %v", err)
		allRecords = nil
	}
	totalItems := len(allRecords)

	totalPages := int(math.Ceil(float64(totalItems) / float64(libraryPageSize)))
	if totalPages < 1 {
		totalPages = 1
	}
	if params.Page > totalPages {
		params.Page = totalPages
	}

	offset := (params.Page - 1) * libraryPageSize
	records, err := app.FindRecordsByFilter(col, filter, "name", libraryPageSize, offset, filterParams)
	if err != nil {
		log.Printf("library_list: could not query items: %v", err)
		records = nil
	}

	selectedIDs := store.State().SelectedIDs
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	rows := make([]templates.LibraryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, libraryRowFromRecord(rec, selected[rec.Id]))
	}

	return templates.LibraryListData{
		Rows:            rows,
		Query:           params.Query,
		Category:        params.Category,
		CategoryOptions: services.CategoryOptions,
		UnitOptions:     services.UnitOptions,
		Page:            params.Page,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		SelectedCount:   len(selectedIDs),
	}, nil
}

func libraryRowFromRecord(rec *core.Record, selected bool) templates.LibraryRow {
	return templates.LibraryRow{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Description: rec.GetString("description"),
		Unit:        rec.GetString("unit"),
		Rate:        rec.GetFloat("rate"),
		Category:    rec.GetString("category"),
		Selected:    selected,
	}
}

// HandleLibraryPage renders the item library, the home page.
func HandleLibraryPage(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildLibraryListData(app, store, parseLibraryListParams(e))
		if err != nil {
			log.Printf("library_page: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.LibraryContent(data)
		} else {
			component = templates.Page("Item Library", "library", templates.LibraryContent(data), templates.BuilderPanel(GetPanelData(e.Request)))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryList renders the library table fragment for search, filter
// and paging swaps.
func HandleLibraryList(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildLibraryListData(app, store, parseLibraryListParams(e))
		if err != nil {
			log.Printf("library_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.LibraryTable(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryCreate creates a library item from the inline form and
// re-renders the table.
func HandleLibraryCreate(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Name is required")
		}
		rate, err := parseRateField(e.Request.FormValue("rate"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Rate must be a number")
		}

		col, err := app.FindCollectionByNameOrId("line_items")
		if err != nil {
			log.Printf("library_create: could not find line_items collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		rec.Set("name", name)
		rec.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		rec.Set("unit", e.Request.FormValue("unit"))
		rec.Set("rate", rate)
		rec.Set("category", e.Request.FormValue("category"))
		if err := app.Save(rec); err != nil {
			log.Printf("library_create: could not save item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not create item. Please try again.")
		}

		SetToast(e, "success", "Item created")
		data, err := buildLibraryListData(app, store, libraryListParams{Page: 1})
		if err != nil {
			log.Printf("library_create: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.LibraryTable(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryEditRow swaps one table row for its inline editor.
func HandleLibraryEditRow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("line_items", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		component := templates.LibraryItemEditor(libraryRowFromRecord(rec, false), services.UnitOptions, services.CategoryOptions)
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryItemRow renders a single plain table row. The inline editor's
// cancel button uses it to restore the row.
func HandleLibraryItemRow(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("line_items", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		selected := false
		for _, id := range store.State().SelectedIDs {
			if id == rec.Id {
				selected = true
				break
			}
		}
		return templates.LibraryItemRow(libraryRowFromRecord(rec, selected)).Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryUpdate saves the inline editor and swaps the plain row back
// in.
func HandleLibraryUpdate(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("line_items", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Name is required")
		}
		rate, err := parseRateField(e.Request.FormValue("rate"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Rate must be a number")
		}

		rec.Set("name", name)
		rec.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		rec.Set("unit", e.Request.FormValue("unit"))
		rec.Set("rate", rate)
		rec.Set("category", e.Request.FormValue("category"))
		if err := app.Save(rec); err != nil {
			log.Printf("library_update: could not save item %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save item. Please try again.")
		}

		SetToast(e, "success", "Item saved")
		selected := false
		for _, id := range store.State().SelectedIDs {
			if id == rec.Id {
				selected = true
				break
			}
		}
		return templates.LibraryItemRow(libraryRowFromRecord(rec, selected)).Render(e.Request.Context(), e.Response)
	}
}

// HandleLibraryDelete removes a library item and re-renders the table.
// Stored templates keep working through their embedded snapshots.
func HandleLibraryDelete(app *pocketbase.PocketBase, store *builder.Store) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("line_items", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("library_delete: could not delete item %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete item. Please try again.")
		}

		SetToast(e, "success", "Item deleted")
		data, err := buildLibraryListData(app, store, libraryListParams{Page: 1})
		if err != nil {
			log.Printf("library_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.LibraryTable(data).Render(e.Request.Context(), e.Response)
	}
}

// parseRateField reads a rate form value. Blank means zero; anything else
// must parse as a number.
func parseRateField(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
