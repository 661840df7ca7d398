package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/services"
	"templatebuilder/templates"
)

// buildTemplateListData queries all stored templates, newest change first.
func buildTemplateListData(app *pocketbase.PocketBase) (templates.TemplateListData, error) {
	col, err := app.FindCollectionByNameOrId("item_templates")
	if err != nil {
		return templates.TemplateListData{}, err
	}

	records, err := app.FindRecordsByFilter(col, "id != ''", "-updated", 0, 0)
	if err != nil {
		log.Printf("template_list: could not query templates: %v", err)
		records = nil
	}

	rows := make([]templates.TemplateRow, 0, len(records))
	for _, rec := range records {
		itemCount := 0
		if tpl, err := services.TemplateFromRecord(rec); err == nil {
			itemCount = len(tpl.TemplateItems)
		}
		updated := ""
		if dt := rec.GetDateTime("updated"); !dt.IsZero() {
			updated = dt.Time().Format("02 Jan 2006")
		}
		rows = append(rows, templates.TemplateRow{
			ID:          rec.Id,
			Name:        rec.GetString("name"),
			Description: rec.GetString("description"),
			Category:    rec.GetString("category"),
			ItemCount:   itemCount,
			Updated:     updated,
		})
	}
	return templates.TemplateListData{Rows: rows}, nil
}

// HandleTemplateList renders the saved templates page.
func HandleTemplateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildTemplateListData(app)
		if err != nil {
			log.Printf("template_list: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.TemplatesContent(data)
		} else {
			component = templates.Page("Templates", "templates", templates.TemplatesContent(data), templates.BuilderPanel(GetPanelData(e.Request)))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleTemplateShow returns one stored template as JSON, entries resolved
// exactly as stored.
func HandleTemplateShow(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tpl, _, err := services.LoadTemplate(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("template_show: %v", err)
			return e.String(http.StatusNotFound, "Template not found")
		}
		return e.JSON(http.StatusOK, tpl)
	}
}

// HandleTemplateDelete removes a stored template and re-renders the table.
func HandleTemplateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("item_templates", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("template_delete: could not delete %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete template. Please try again.")
		}

		SetToast(e, "success", "Template deleted")
		data, err := buildTemplateListData(app)
		if err != nil {
			log.Printf("template_delete: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}
		return templates.TemplatesTable(data).Render(e.Request.Context(), e.Response)
	}
}

// buildTemplateExport fetches a stored template and shapes it for the Excel
// and PDF generators. Reference entries resolve against the live library
// with stored snapshots as fallback.
func buildTemplateExport(app *pocketbase.PocketBase, templateID string) (services.TemplateExportData, error) {
	rec, err := app.FindRecordById("item_templates", templateID)
	if err != nil {
		return services.TemplateExportData{}, fmt.Errorf("template not found: %w", err)
	}

	tpl, err := services.TemplateFromRecord(rec)
	if err != nil {
		return services.TemplateExportData{}, fmt.Errorf("could not read template %s: %w", templateID, err)
	}
	lib := services.FetchLibraryRecords(app, services.ReferenceIDs(tpl.TemplateItems))

	createdDate := ""
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}
	return services.BuildTemplateExportData(tpl, lib, createdDate), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleTemplateExportExcel generates and downloads an Excel workbook for a
// template.
func HandleTemplateExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("id")
		if templateID == "" {
			return e.String(http.StatusBadRequest, "Missing template ID")
		}

		data, err := buildTemplateExport(app, templateID)
		if err != nil {
			log.Printf("template_export_excel: %v", err)
			return e.String(http.StatusNotFound, "Template not found")
		}

		xlsxBytes, err := services.GenerateTemplateExcel(data)
		if err != nil {
			log.Printf("template_export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Template_%s_%d.xlsx", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleTemplateExportPDF generates and downloads a PDF for a template.
func HandleTemplateExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("id")
		if templateID == "" {
			return e.String(http.StatusBadRequest, "Missing template ID")
		}

		data, err := buildTemplateExport(app, templateID)
		if err != nil {
			log.Printf("template_export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Template not found")
		}

		pdfBytes, err := services.GenerateTemplatePDF(data)
		if err != nil {
			log.Printf("template_export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Template_%s_%d.pdf", sanitizeFilename(data.Name), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
