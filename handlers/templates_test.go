package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"templatebuilder/builder"
	"templatebuilder/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces become dashes", "Kitchen remodel", "Kitchen-remodel"},
		{"slashes become dashes", "Rough-in/finish", "Rough-in-finish"},
		{"backslashes become dashes", `Bid \ rev 2`, "Bid---rev-2"},
		{"colons become dashes", "Phase 1: demo", "Phase-1--demo"},
		{"clean name unchanged", "Bathroom", "Bathroom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandleTemplateList_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestTemplate(t, app, "Kitchen remodel", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Demo walls", Unit: "Hr", Rate: 85}},
		{QuantityMultiplier: 2, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Haul debris", Unit: "Lot", Rate: 150}},
	})

	handler := HandleTemplateList(app)

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<!DOCTYPE html>",
		"Kitchen remodel",
		`<td class="n">2</td>`,
		"/export/excel",
		"/export/pdf",
		`id="builder-panel"`,
	)
}

func TestHandleTemplateList_Fragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestTemplate(t, app, "Bath refresh", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Set vanity", Unit: "Ea", Rate: 220}},
	})

	handler := HandleTemplateList(app)

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("fragment response should not include the full page shell")
	}
	testhelpers.AssertHTMLContains(t, body, "Bath refresh", `id="templates-table"`)
}

func TestHandleTemplateList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateList(app)

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No templates saved yet.")
}

func TestHandleTemplateShow_ReturnsJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	li := testhelpers.CreateTestLineItem(t, app, "Interior paint", "Sq Ft", 2.5, "Finishes")
	tplRec := testhelpers.CreateTestTemplate(t, app, "Paint package", []builder.TemplateEntry{
		{LibraryItemID: li.Id, QuantityMultiplier: 3, PositionIndex: 0},
		{QuantityMultiplier: 1, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
	})

	handler := HandleTemplateShow(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/"+tplRec.Id, nil)
	req.SetPathValue("id", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var tpl builder.Template
	if err := json.Unmarshal(rec.Body.Bytes(), &tpl); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
	if tpl.ID != tplRec.Id {
		t.Errorf("expected template ID %q, got %q", tplRec.Id, tpl.ID)
	}
	if tpl.Name != "Paint package" {
		t.Errorf("expected template name 'Paint package', got %q", tpl.Name)
	}
	if len(tpl.TemplateItems) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tpl.TemplateItems))
	}
	if tpl.TemplateItems[0].LibraryItemID != li.Id {
		t.Errorf("expected first entry to reference %s, got %q", li.Id, tpl.TemplateItems[0].LibraryItemID)
	}
	if tpl.TemplateItems[1].Embedded == nil || tpl.TemplateItems[1].Embedded.Code != "Masking" {
		t.Errorf("expected second entry to embed 'Masking', got %+v", tpl.TemplateItems[1].Embedded)
	}
}

func TestHandleTemplateShow_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateShow(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/nonexistent12345", nil)
	req.SetPathValue("id", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Template not found") {
		t.Errorf("expected not-found message, got %q", rec.Body.String())
	}
}

func TestHandleTemplateDelete_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tplRec := testhelpers.CreateTestTemplate(t, app, "Doomed template", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Anything", Unit: "Ea", Rate: 1}},
	})

	handler := HandleTemplateDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/templates/"+tplRec.Id, nil)
	req.SetPathValue("id", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("item_templates", tplRec.Id); err == nil {
		t.Error("expected template record to be deleted")
	}

	toast := decodeToast(t, decodeTrigger(t, rec)["showToast"])
	if toast["message"] != "Template deleted" {
		t.Errorf("expected delete toast, got %q", toast["message"])
	}

	// The handler re-renders the table, now empty.
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No templates saved yet.")
}

func TestHandleTemplateDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/templates/nonexistent12345", nil)
	req.SetPathValue("id", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected HX-Reswap: none on error response")
	}
}

func TestHandleTemplateExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	li := testhelpers.CreateTestLineItem(t, app, "Interior paint", "Sq Ft", 2.5, "Finishes")
	tplRec := testhelpers.CreateTestTemplate(t, app, "Kitchen remodel", []builder.TemplateEntry{
		{LibraryItemID: li.Id, QuantityMultiplier: 120, PositionIndex: 0},
		{QuantityMultiplier: 1, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Haul debris", Unit: "Lot", Rate: 150}},
	})

	handler := HandleTemplateExportExcel(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/"+tplRec.Id+"/export/excel", nil)
	req.SetPathValue("id", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}

	wantFilename := fmt.Sprintf("Template_Kitchen-remodel_%d.xlsx", time.Now().Year())
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, wantFilename) {
		t.Errorf("expected disposition to contain %q, got %q", wantFilename, cd)
	}

	// xlsx files are zip archives, so the body starts with the zip magic.
	if body := rec.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
		t.Error("expected response body to be a zip archive")
	}
}

func TestHandleTemplateExportExcel_MissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateExportExcel(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/nonexistent12345/export/excel", nil)
	req.SetPathValue("id", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleTemplateExportExcel_MissingID(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateExportExcel(app)

	req := httptest.NewRequest(http.MethodGet, "/templates//export/excel", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing template ID") {
		t.Errorf("expected missing-ID message, got %q", rec.Body.String())
	}
}

func TestHandleTemplateExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tplRec := testhelpers.CreateTestTemplate(t, app, "Bath: full gut", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Demo tile", Unit: "Sq Ft", Rate: 4}},
	})

	handler := HandleTemplateExportPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/"+tplRec.Id+"/export/pdf", nil)
	req.SetPathValue("id", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}

	wantFilename := fmt.Sprintf("Template_Bath--full-gut_%d.pdf", time.Now().Year())
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, wantFilename) {
		t.Errorf("expected disposition to contain %q, got %q", wantFilename, cd)
	}

	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected response body to start with the PDF header")
	}
}

func TestHandleTemplateExportPDF_MissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleTemplateExportPDF(app)

	req := httptest.NewRequest(http.MethodGet, "/templates/nonexistent12345/export/pdf", nil)
	req.SetPathValue("id", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
