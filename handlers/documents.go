package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/services"
	"templatebuilder/templates"
)

// buildDocumentListData queries all documents with their line counts,
// newest first.
func buildDocumentListData(app *pocketbase.PocketBase) (templates.DocumentListData, error) {
	col, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		return templates.DocumentListData{}, err
	}

	records, err := app.FindRecordsByFilter(col, "id != ''", "-created", 0, 0)
	if err != nil {
		log.Printf("document_list: could not query documents: %v", err)
		records = nil
	}

	rows := make([]templates.DocumentRow, 0, len(records))
	for _, rec := range records {
		lines, err := app.FindRecordsByFilter(
			"document_lines",
			"document = {:documentId}",
			"", 0, 0,
			map[string]any{"documentId": rec.Id},
		)
		if err != nil {
			lines = nil
		}
		rows = append(rows, templates.DocumentRow{
			ID:              rec.Id,
			Title:           rec.GetString("title"),
			DocType:         rec.GetString("doc_type"),
			ReferenceNumber: rec.GetString("reference_number"),
			LineCount:       len(lines),
		})
	}
	return templates.DocumentListData{Rows: rows, DocTypes: services.DocumentTypeOptions}, nil
}

// HandleDocumentList renders the documents page.
func HandleDocumentList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildDocumentListData(app)
		if err != nil {
			log.Printf("document_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentsContent(data)
		} else {
			component = templates.Page("Documents", "documents", templates.DocumentsContent(data), templates.BuilderPanel(GetPanelData(e.Request)))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleDocumentCreate creates a document from the inline form and
// re-renders the table.
func HandleDocumentCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		if title == "" {
			return ErrorToast(e, http.StatusBadRequest, "Title is required")
		}
		docType := e.Request.FormValue("doc_type")
		if !validDocumentType(docType) {
			return ErrorToast(e, http.StatusBadRequest, "Invalid document type")
		}

		col, err := app.FindCollectionByNameOrId("documents")
		if err != nil {
			log.Printf("document_create: could not find documents collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		rec := core.NewRecord(col)
		rec.Set("title", title)
		rec.Set("doc_type", docType)
		rec.Set("reference_number", strings.TrimSpace(e.Request.FormValue("reference_number")))
		if err := app.Save(rec); err != nil {
			log.Printf("document_create: could not save document: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not create document. Please try again.")
		}

		SetToast(e, "success", "Document created")
		data, err := buildDocumentListData(app)
		if err != nil {
			log.Printf("document_create: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.DocumentsTable(data).Render(e.Request.Context(), e.Response)
	}
}

func validDocumentType(docType string) bool {
	for _, t := range services.DocumentTypeOptions {
		if t == docType {
			return true
		}
	}
	return false
}

// buildDocumentDetail loads a document with its lines grouped into sections
// in first-seen order, plus the stored templates offered for applying.
func buildDocumentDetail(app *pocketbase.PocketBase, documentID string) (templates.DocumentDetailData, error) {
	rec, err := app.FindRecordById("documents", documentID)
	if err != nil {
		return templates.DocumentDetailData{}, fmt.Errorf("document not found: %w", err)
	}

	data := templates.DocumentDetailData{
		ID:              rec.Id,
		Title:           rec.GetString("title"),
		DocType:         rec.GetString("doc_type"),
		ReferenceNumber: rec.GetString("reference_number"),
	}

	lineRecs, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"sort_order", 0, 0,
		map[string]any{"documentId": documentID},
	)
	if err != nil {
		log.Printf("document_detail: could not query lines for %s: %v", documentID, err)
		lineRecs = nil
	}

	sectionIndex := map[string]int{}
	for _, line := range lineRecs {
		label := line.GetString("section")
		idx, ok := sectionIndex[label]
		if !ok {
			idx = len(data.Sections)
			sectionIndex[label] = idx
			data.Sections = append(data.Sections, templates.DocumentSectionData{Label: label})
		}

		rate := line.GetFloat("rate")
		qty := line.GetFloat("qty")
		amount := services.LineAmount(rate, qty)
		data.Sections[idx].Lines = append(data.Sections[idx].Lines, templates.DocumentLineRow{
			Name:        line.GetString("name"),
			Description: line.GetString("description"),
			Unit:        line.GetString("unit"),
			Rate:        rate,
			Qty:         qty,
			Amount:      amount,
		})
		data.Sections[idx].Subtotal += amount
		data.TotalAmount += amount
	}

	tplData, err := buildTemplateListData(app)
	if err == nil {
		data.Templates = tplData.Rows
	}
	return data, nil
}

// HandleDocumentDetail renders one document with its sectioned lines.
func HandleDocumentDetail(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildDocumentDetail(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("document_detail: %v", err)
			return e.String(http.StatusNotFound, "Document not found")
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentDetailContent(data)
		} else {
			component = templates.Page(data.Title, "documents", templates.DocumentDetailContent(data), templates.BuilderPanel(GetPanelData(e.Request)))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleDocumentSections returns the document's section labels as JSON, in
// the order they first appear.
func HandleDocumentSections(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		documentID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("documents", documentID); err != nil {
			return e.String(http.StatusNotFound, "Document not found")
		}

		lineRecs, err := app.FindRecordsByFilter(
			"document_lines",
			"document = {:documentId}",
			"sort_order", 0, 0,
			map[string]any{"documentId": documentID},
		)
		if err != nil {
			log.Printf("document_sections: could not query lines for %s: %v", documentID, err)
			lineRecs = nil
		}

		seen := map[string]bool{}
		labels := []string{}
		for _, line := range lineRecs {
			label := line.GetString("section")
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
		return e.JSON(http.StatusOK, labels)
	}
}

// HandleDocumentLines renders the sectioned lines fragment.
func HandleDocumentLines(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildDocumentDetail(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("document_lines: %v", err)
			return e.String(http.StatusNotFound, "Document not found")
		}
		return templates.DocumentLines(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleDocumentApply stamps a stored template onto a document as new lines
// and re-renders the lines fragment.
func HandleDocumentApply(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		documentID := e.Request.PathValue("id")
		templateID := e.Request.PathValue("templateId")
		if documentID == "" || templateID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing required IDs")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		section := strings.TrimSpace(e.Request.FormValue("section"))

		if _, err := app.FindRecordById("documents", documentID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Document not found")
		}
		if _, err := app.FindRecordById("item_templates", templateID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		result, err := services.ApplyTemplate(app, documentID, templateID, section)
		if err != nil {
			if errors.Is(err, services.ErrNoUsableItems) {
				return ErrorToast(e, http.StatusBadRequest, "Template has no usable items")
			}
			log.Printf("document_apply: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not apply template. Please try again.")
		}

		message := fmt.Sprintf("Added %d lines", result.LinesCreated)
		if len(result.Warnings) > 0 {
			message = fmt.Sprintf("Added %d lines, %d entries skipped", result.LinesCreated, len(result.Warnings))
		}
		SetToast(e, "success", message)

		data, err := buildDocumentDetail(app, documentID)
		if err != nil {
			log.Printf("document_apply: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.DocumentLines(data).Render(e.Request.Context(), e.Response)
	}
}
