package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"templatebuilder/builder"
	"templatebuilder/testhelpers"
)

func TestHandleDocumentList_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Demo walls", "Hr", 85, 2)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 2, "Haul debris", "Lot", 150, 1)
	testhelpers.CreateTestDocument(t, app, "Jones invoice", "invoice")

	handler := HandleDocumentList(app)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
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
		"Smith kitchen",
		"Jones invoice",
		`id="builder-panel"`,
	)
}

func TestHandleDocumentList_Fragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")

	handler := HandleDocumentList(app)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
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
	testhelpers.AssertHTMLContains(t, body, "Smith kitchen", `id="documents-table"`)
}

func TestHandleDocumentList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentList(app)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No documents yet.")
}

func TestHandleDocumentCreate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentCreate(app)

	form := url.Values{}
	form.Set("title", "  Garage conversion  ")
	form.Set("doc_type", "work_order")
	form.Set("reference_number", "WO-0042")

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	docs, err := app.FindAllRecords("documents")
	if err != nil {
		t.Fatalf("failed to query documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if got := docs[0].GetString("title"); got != "Garage conversion" {
		t.Errorf("expected trimmed title, got %q", got)
	}
	if got := docs[0].GetString("doc_type"); got != "work_order" {
		t.Errorf("expected doc_type work_order, got %q", got)
	}
	if got := docs[0].GetString("reference_number"); got != "WO-0042" {
		t.Errorf("expected reference number WO-0042, got %q", got)
	}

	toast := decodeToast(t, decodeTrigger(t, rec)["showToast"])
	if toast["message"] != "Document created" {
		t.Errorf("expected create toast, got %q", toast["message"])
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Garage conversion")
}

func TestHandleDocumentCreate_MissingTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentCreate(app)

	form := url.Values{}
	form.Set("title", "   ")
	form.Set("doc_type", "estimate")

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Title is required") {
		t.Errorf("expected title error, got %q", rec.Body.String())
	}
}

func TestHandleDocumentCreate_InvalidDocType(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentCreate(app)

	form := url.Values{}
	form.Set("title", "Quote attempt")
	form.Set("doc_type", "quote")

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid document type") {
		t.Errorf("expected doc type error, got %q", rec.Body.String())
	}

	docs, err := app.FindAllRecords("documents")
	if err != nil {
		t.Fatalf("failed to query documents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestHandleDocumentDetail_GroupsSections(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Demo walls", "Hr", 85, 2)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "", 2, "Dumpster", "Lot", 150, 1)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 3, "Demo tile", "Sq Ft", 4, 100)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Finishes", 4, "Interior paint", "Sq Ft", 2.5, 120)

	testhelpers.CreateTestTemplate(t, app, "Paint package", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
	})

	handler := HandleDocumentDetail(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id, nil)
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!DOCTYPE html>",
		"Smith kitchen",
		"Estimate",
		"Apply Paint package",
		"Total: 1,020.00",
	)

	// Sections keep the order their first line appears in.
	idxDemo := strings.Index(body, "<h2>Demolition")
	idxUnsec := strings.Index(body, "<h2>Unsectioned")
	idxFin := strings.Index(body, "<h2>Finishes")
	if idxDemo == -1 || idxUnsec == -1 || idxFin == -1 {
		t.Fatalf("expected all three section headings, got demo=%d unsec=%d fin=%d", idxDemo, idxUnsec, idxFin)
	}
	if !(idxDemo < idxUnsec && idxUnsec < idxFin) {
		t.Errorf("sections out of order: demo=%d unsec=%d fin=%d", idxDemo, idxUnsec, idxFin)
	}

	// Both Demolition lines land under one heading with a shared subtotal.
	testhelpers.AssertHTMLContains(t, body, "570.00", "300.00")
}

func TestHandleDocumentDetail_Fragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")

	handler := HandleDocumentDetail(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("fragment response should not include the full page shell")
	}
	testhelpers.AssertHTMLContains(t, body, "Smith kitchen", `id="document-lines"`)
}

func TestHandleDocumentDetail_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentDetail(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/nonexistent12345", nil)
	req.SetPathValue("id", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Document not found") {
		t.Errorf("expected not-found message, got %q", rec.Body.String())
	}
}

func TestHandleDocumentSections_ReturnsLabels(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Demo walls", "Hr", 85, 2)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "", 2, "Dumpster", "Lot", 150, 1)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 3, "Demo tile", "Sq Ft", 4, 100)
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Finishes", 4, "Interior paint", "Sq Ft", 2.5, 120)

	handler := HandleDocumentSections(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id+"/sections", nil)
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var labels []string
	if err := json.Unmarshal(rec.Body.Bytes(), &labels); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
	want := []string{"Demolition", "", "Finishes"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("expected labels %v, got %v", want, labels)
	}
}

func TestHandleDocumentSections_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentSections(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/nonexistent12345/sections", nil)
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

func TestHandleDocumentLines_RendersFragment(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Demo walls", "Hr", 85, 2)

	handler := HandleDocumentLines(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id+"/lines", nil)
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("fragment response should not include the full page shell")
	}
	testhelpers.AssertHTMLContains(t, body, "Demo walls", "170.00")
}

func TestHandleDocumentLines_EmptyDocument(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Blank slate", "invoice")

	handler := HandleDocumentLines(app)

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id+"/lines", nil)
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No lines on this document yet.")
}

func TestHandleDocumentApply_StampsLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	testhelpers.CreateTestDocumentLine(t, app, doc.Id, "Demolition", 1, "Demo walls", "Hr", 85, 2)

	li := testhelpers.CreateTestLineItem(t, app, "Interior paint", "Sq Ft", 2.5, "Finishes")
	tplRec := testhelpers.CreateTestTemplate(t, app, "Paint package", []builder.TemplateEntry{
		{LibraryItemID: li.Id, QuantityMultiplier: 120, PositionIndex: 0},
		{QuantityMultiplier: 1, PositionIndex: 1, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
	})

	handler := HandleDocumentApply(app)

	form := url.Values{}
	form.Set("section", "Phase 2")

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.Id+"/apply/"+tplRec.Id, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", doc.Id)
	req.SetPathValue("templateId", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	lines, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"sort_order", 0, 0,
		map[string]any{"documentId": doc.Id},
	)
	if err != nil {
		t.Fatalf("failed to query lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	first := lines[1]
	if got := first.GetInt("sort_order"); got != 2 {
		t.Errorf("expected applied line to continue at sort_order 2, got %d", got)
	}
	if got := first.GetString("name"); got != "Interior paint" {
		t.Errorf("expected library item name, got %q", got)
	}
	if got := first.GetString("section"); got != "Phase 2" {
		t.Errorf("expected section 'Phase 2', got %q", got)
	}
	if got := first.GetFloat("qty"); got != 120 {
		t.Errorf("expected qty 120, got %v", got)
	}
	if got := first.GetString("source_template"); got != tplRec.Id {
		t.Errorf("expected source_template %s, got %q", tplRec.Id, got)
	}
	if got := first.GetString("source_item_id"); got != li.Id {
		t.Errorf("expected source_item_id %s, got %q", li.Id, got)
	}

	second := lines[2]
	if got := second.GetInt("sort_order"); got != 3 {
		t.Errorf("expected sort_order 3, got %d", got)
	}
	if got := second.GetString("name"); got != "Masking" {
		t.Errorf("expected embedded name, got %q", got)
	}
	if got := second.GetString("source_item_id"); got != "" {
		t.Errorf("expected blank source_item_id for embedded line, got %q", got)
	}

	toast := decodeToast(t, decodeTrigger(t, rec)["showToast"])
	if toast["message"] != "Added 2 lines" {
		t.Errorf("expected apply toast, got %q", toast["message"])
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Phase 2", "Interior paint", "Masking")
}

func TestHandleDocumentApply_DefaultSection(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	tplRec := testhelpers.CreateTestTemplate(t, app, "Paint package", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
	})

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.Id+"/apply/"+tplRec.Id, nil)
	req.SetPathValue("id", doc.Id)
	req.SetPathValue("templateId", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	lines, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"sort_order", 0, 0,
		map[string]any{"documentId": doc.Id},
	)
	if err != nil {
		t.Fatalf("failed to query lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if got := lines[0].GetString("section"); got != "" {
		t.Errorf("expected blank section, got %q", got)
	}
	if got := lines[0].GetInt("sort_order"); got != 1 {
		t.Errorf("expected first line at sort_order 1, got %d", got)
	}
}

func TestHandleDocumentApply_ReportsSkippedEntries(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	tplRec := testhelpers.CreateTestTemplate(t, app, "Partly broken", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
		{LibraryItemID: "vanished0000001", QuantityMultiplier: 2, PositionIndex: 1},
	})

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.Id+"/apply/"+tplRec.Id, nil)
	req.SetPathValue("id", doc.Id)
	req.SetPathValue("templateId", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	lines, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"sort_order", 0, 0,
		map[string]any{"documentId": doc.Id},
	)
	if err != nil {
		t.Fatalf("failed to query lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	toast := decodeToast(t, decodeTrigger(t, rec)["showToast"])
	if toast["message"] != "Added 1 lines, 1 entries skipped" {
		t.Errorf("expected skip toast, got %q", toast["message"])
	}
}

func TestHandleDocumentApply_NoUsableItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")
	tplRec := testhelpers.CreateTestTemplate(t, app, "All broken", []builder.TemplateEntry{
		{LibraryItemID: "vanished0000001", QuantityMultiplier: 2, PositionIndex: 0},
	})

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.Id+"/apply/"+tplRec.Id, nil)
	req.SetPathValue("id", doc.Id)
	req.SetPathValue("templateId", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Template has no usable items") {
		t.Errorf("expected unusable-template error, got %q", rec.Body.String())
	}

	lines, err := app.FindRecordsByFilter(
		"document_lines",
		"document = {:documentId}",
		"", 0, 0,
		map[string]any{"documentId": doc.Id},
	)
	if err != nil {
		t.Fatalf("failed to query lines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestHandleDocumentApply_MissingDocument(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tplRec := testhelpers.CreateTestTemplate(t, app, "Paint package", []builder.TemplateEntry{
		{QuantityMultiplier: 1, PositionIndex: 0, Embedded: &builder.EmbeddedData{Code: "Masking", Unit: "Lot", Rate: 40}},
	})

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents/nonexistent12345/apply/"+tplRec.Id, nil)
	req.SetPathValue("id", "nonexistent12345")
	req.SetPathValue("templateId", tplRec.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Document not found") {
		t.Errorf("expected document error, got %q", rec.Body.String())
	}
}

func TestHandleDocumentApply_MissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	doc := testhelpers.CreateTestDocument(t, app, "Smith kitchen", "estimate")

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents/"+doc.Id+"/apply/nonexistent12345", nil)
	req.SetPathValue("id", doc.Id)
	req.SetPathValue("templateId", "nonexistent12345")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Template not found") {
		t.Errorf("expected template error, got %q", rec.Body.String())
	}
}

func TestHandleDocumentApply_MissingIDs(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentApply(app)

	req := httptest.NewRequest(http.MethodPost, "/documents//apply/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing required IDs") {
		t.Errorf("expected missing-IDs error, got %q", rec.Body.String())
	}
}
