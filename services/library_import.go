package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"

	"templatebuilder/builder"
)

const libraryImportBatchSize = 100

// ImportField describes one column in a library import file.
type ImportField struct {
	Key          string // internal name, matches PocketBase field name
	Label        string // human-readable header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string // e.g. "Numeric", "One of: ...", ""
	ExampleValue string // shown on the Instructions sheet
	Required     bool
}

// LibraryImportFields returns the ordered list of columns for library item
// import files.
func LibraryImportFields() []ImportField {
	return []ImportField{
		{Key: "name", Label: "Name", Description: "Short name of the work item", ExampleValue: "Interior paint, one coat", Required: true},
		{Key: "description", Label: "Description", Description: "Longer description shown on documents", ExampleValue: "Walls and ceiling, prep included"},
		{Key: "unit", Label: "Unit", Description: "Unit of measure (select from dropdown)", FormatRule: "One of: " + strings.Join(UnitOptions, ", "), ExampleValue: "Sq Ft"},
		{Key: "rate", Label: "Rate", Description: "Price per unit", FormatRule: "Numeric, e.g. 2.25", ExampleValue: "2.25"},
		{Key: "category", Label: "Category", Description: "Trade category (select from dropdown)", FormatRule: "One of: " + strings.Join(CategoryOptions, ", "), ExampleValue: "Finishes"},
	}
}

// ImportValidationError represents a single field-level error on one row.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportValidation is returned after parsing and validating an uploaded file.
type ImportValidation struct {
	TotalRows  int                     `json:"total_rows"`
	ValidRows  int                     `json:"valid_rows"`
	ErrorRows  int                     `json:"error_rows"`
	Errors     []ImportValidationError `json:"errors"`
	ParsedRows []map[string]string     `json:"-"`
	FileName   string                  `json:"-"`
}

// parseImportCSV reads a CSV file and returns headers + data rows.
func parseImportCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseImportExcel reads an xlsx file and returns headers + data rows from
// the first sheet.
func parseImportExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// mapImportHeaders maps uploaded column headers to ImportField keys.
// Returns an ordered list of field keys (one per column) and any
// unrecognized columns.
func mapImportHeaders(headers []string, fields []ImportField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		normalized := strings.ToLower(strings.TrimSpace(f.Label))
		labelToKey[normalized] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that our template adds for required fields
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateLibraryFile parses and validates an uploaded library item file.
func ValidateLibraryFile(file multipart.File, fileName string) (*ImportValidation, error) {
	fields := LibraryImportFields()

	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseImportCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseImportExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapImportHeaders(headers, fields)

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ImportValidation{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		var rowErrors []ImportValidationError

		// Map columns to values
		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		// Check required fields
		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				rowErrors = append(rowErrors, ImportValidationError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
		}

		// Field-format validations (only if value is non-empty)
		rowErrors = append(rowErrors, validateLibraryRowFormats(rowNum, rowData)...)

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// validateLibraryRowFormats checks format-specific rules for non-empty values.
func validateLibraryRowFormats(rowNum int, data map[string]string) []ImportValidationError {
	var errs []ImportValidationError

	if v := data["rate"]; v != "" {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			errs = append(errs, ImportValidationError{Row: rowNum, Field: "Rate", Message: fmt.Sprintf("Rate %q is not a number", v)})
		}
	}
	if v := data["unit"]; v != "" && !containsOption(UnitOptions, v) {
		errs = append(errs, ImportValidationError{Row: rowNum, Field: "Unit", Message: fmt.Sprintf("Unit must be one of: %s", strings.Join(UnitOptions, ", "))})
	}
	if v := data["category"]; v != "" && !containsOption(CategoryOptions, v) {
		errs = append(errs, ImportValidationError{Row: rowNum, Field: "Category", Message: fmt.Sprintf("Category must be one of: %s", strings.Join(CategoryOptions, ", "))})
	}

	return errs
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// LibraryImportResult holds the outcome of a batch import operation.
type LibraryImportResult struct {
	TotalRows  int                     `json:"total_rows"`
	Imported   int                     `json:"imported"`
	Failed     int                     `json:"failed"`
	Errors     []ImportValidationError `json:"errors,omitempty"`
	RolledBack bool                    `json:"rolled_back"`
}

// CommitLibraryImport re-validates and batch-inserts parsed library rows
// into PocketBase. It processes rows in chunks of libraryImportBatchSize.
//
// Strategy: within each chunk, if any insert fails, roll back the entire
// chunk and record errors. Continue with the next chunk.
func CommitLibraryImport(app *pocketbase.PocketBase, parsedRows []map[string]string) (*LibraryImportResult, error) {
	// Re-validate all rows before committing. The rows travel through the
	// browser between validation and commit, so trust nothing.
	revalidationErrors := revalidateLibraryRows(parsedRows)
	if len(revalidationErrors) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range revalidationErrors {
			errorRowSet[e.Row] = true
		}
		return &LibraryImportResult{
			TotalRows:  len(parsedRows),
			Imported:   0,
			Failed:     len(errorRowSet),
			Errors:     revalidationErrors,
			RolledBack: true,
		}, nil
	}

	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return nil, fmt.Errorf("line_items collection not found: %w", err)
	}

	result := &LibraryImportResult{
		TotalRows: len(parsedRows),
	}

	for chunkStart := 0; chunkStart < len(parsedRows); chunkStart += libraryImportBatchSize {
		chunkEnd := chunkStart + libraryImportBatchSize
		if chunkEnd > len(parsedRows) {
			chunkEnd = len(parsedRows)
		}
		chunk := parsedRows[chunkStart:chunkEnd]

		chunkErrors := insertLibraryChunk(app, col, chunk, chunkStart)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) // entire chunk failed
			result.RolledBack = true
		} else {
			result.Imported += len(chunk)
		}
	}

	return result, nil
}

// insertLibraryChunk inserts a batch of rows within a RunInTransaction block.
// If any row fails, the entire chunk is rolled back and errors are returned.
func insertLibraryChunk(
	app *pocketbase.PocketBase,
	col *core.Collection,
	rows []map[string]string,
	startOffset int,
) []ImportValidationError {
	var chunkErrors []ImportValidationError

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, rowData := range rows {
			rowNum := startOffset + i + 2 // 1-indexed + header row

			record := core.NewRecord(col)
			record.Set("name", rowData["name"])
			if v := rowData["description"]; v != "" {
				record.Set("description", v)
			}
			// The unit column rejects blanks, so rows without one get the
			// same default as section imports.
			unit := rowData["unit"]
			if unit == "" {
				unit = builder.DefaultUnit
			}
			record.Set("unit", unit)
			if v := rowData["category"]; v != "" {
				record.Set("category", v)
			}
			if v := rowData["rate"]; v != "" {
				rate, _ := strconv.ParseFloat(v, 64)
				record.Set("rate", rate)
			}

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportValidationError{
					Row:     rowNum,
					Field:   "",
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("library_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportValidationError{
				Row:     startOffset + 2,
				Field:   "",
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return chunkErrors
}

// revalidateLibraryRows performs the same validation as ValidateLibraryFile
// but against already-parsed row data.
func revalidateLibraryRows(parsedRows []map[string]string) []ImportValidationError {
	fields := LibraryImportFields()

	var allErrors []ImportValidationError
	for rowIdx, rowData := range parsedRows {
		rowNum := rowIdx + 2

		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				allErrors = append(allErrors, ImportValidationError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
		}

		allErrors = append(allErrors, validateLibraryRowFormats(rowNum, rowData)...)
	}

	return allErrors
}
