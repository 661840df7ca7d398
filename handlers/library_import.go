package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/services"
	"templatebuilder/templates"
)

const maxImportUploadSize = 10 << 20 // 10MB

// HandleImportPage renders the bulk import page.
func HandleImportPage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		component := templates.Page("Bulk Import", "library", templates.ImportContent(), templates.BuilderPanel(GetPanelData(e.Request)))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleImportValidate parses and validates an uploaded CSV or Excel file,
// rendering the validation results fragment. Nothing is written yet; a clean
// file carries its parsed rows forward to the commit step.
func HandleImportValidate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxImportUploadSize); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Could not read the upload")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Choose a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateLibraryFile(file, header.Filename)
		if err != nil {
			log.Printf("import_validate: could not validate %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		errorsJSON := ""
		if len(result.Errors) > 0 {
			if data, err := json.Marshal(result.Errors); err == nil {
				errorsJSON = string(data)
			}
		}
		parsedRowsJSON := ""
		if result.ErrorRows == 0 && len(result.ParsedRows) > 0 {
			if data, err := json.Marshal(result.ParsedRows); err == nil {
				parsedRowsJSON = string(data)
			}
		}

		component := templates.ImportValidationResults(result, parsedRowsJSON, errorsJSON)
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleImportCommit inserts the rows validated in the previous step.
func HandleImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		raw := e.Request.FormValue("parsed_rows_json")
		if raw == "" {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to import")
		}

		var parsedRows []map[string]string
		if err := json.Unmarshal([]byte(raw), &parsedRows); err != nil {
			log.Printf("import_commit: invalid parsed rows payload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid import data")
		}
		if len(parsedRows) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to import")
		}

		result, err := services.CommitLibraryImport(app, parsedRows)
		if err != nil {
			log.Printf("import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Import failed. Please try again.")
		}
		if result.RolledBack {
			SetToast(e, "error", "Import failed, no items were created")
			return templates.ImportFailure(result).Render(e.Request.Context(), e.Response)
		}

		SetToast(e, "success", fmt.Sprintf("Imported %d items", result.Imported))
		return templates.ImportSuccess(result.Imported).Render(e.Request.Context(), e.Response)
	}
}

// HandleImportErrorReport turns the validation errors posted back by the
// results fragment into a downloadable Excel report.
func HandleImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Invalid form data")
		}
		raw := e.Request.FormValue("errors_json")
		if raw == "" {
			return e.String(http.StatusBadRequest, "No errors to report")
		}

		var importErrors []services.ImportValidationError
		if err := json.Unmarshal([]byte(raw), &importErrors); err != nil {
			return e.String(http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateImportErrorReport(importErrors)
		if err != nil {
			log.Printf("import_errors: could not generate report: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Library_Import_Errors.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleImportTemplate serves the pre-formatted import template workbook.
func HandleImportTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateLibraryImportTemplate()
		if err != nil {
			log.Printf("import_template: could not generate template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Line_Items_Import_Template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
