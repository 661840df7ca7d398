package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
)

// ── Definition structs ───────────────────────────────────────────────────

type lineItemDef struct {
	name        string
	description string
	unit        string
	rate        float64
	category    string
}

type docLineDef struct {
	section     string
	sortOrder   int
	name        string
	description string
	unit        string
	rate        float64
	qty         float64
}

type documentDef struct {
	title           string
	docType         string
	referenceNumber string
	lines           []docLineDef
}

// ── Seed data ────────────────────────────────────────────────────────────

var seedLineItems = []lineItemDef{
	{name: "Remove existing flooring", description: "Tear out and dispose, any surface", unit: "Sq Ft", rate: 1.75, category: "Demolition"},
	{name: "Debris haul-away", description: "Load, haul and dump fees, per trip", unit: "Ea", rate: 165, category: "Demolition"},
	{name: "Frame interior partition wall", description: "2x4 studs 16\" OC, plates included", unit: "Ln Ft", rate: 14.5, category: "Framing"},
	{name: "Install duplex receptacle", description: "15A, tamper resistant, wired to existing circuit", unit: "Ea", rate: 48, category: "Electrical"},
	{name: "Recessed light install", description: "6\" LED retrofit, switched", unit: "Ea", rate: 85, category: "Electrical"},
	{name: "Rough-in supply and drain", description: "Single fixture, PEX supply, PVC drain", unit: "Ea", rate: 310, category: "Plumbing"},
	{name: "Set toilet", description: "Customer-supplied fixture, wax ring and bolts", unit: "Ea", rate: 140, category: "Plumbing"},
	{name: "Interior paint, one coat", description: "Walls and ceiling, standard finish", unit: "Sq Ft", rate: 2.25, category: "Finishes"},
	{name: "Install baseboard", description: "Paint-grade MDF, caulked and filled", unit: "Ln Ft", rate: 4.1, category: "Finishes"},
	{name: "General labor", description: "Unclassified site work", unit: "Hr", rate: 55, category: "General"},
}

var seedDocuments = []documentDef{
	{
		title:           "Maple St bathroom remodel",
		docType:         "estimate",
		referenceNumber: "EST-2025-014",
		lines: []docLineDef{
			{section: "Demolition", sortOrder: 1, name: "Demo existing tile", description: "Bathroom floor and shower surround", unit: "Sq Ft", rate: 4.5, qty: 120},
			{section: "Demolition", sortOrder: 2, name: "Remove vanity and toilet", unit: "Ea", rate: 95, qty: 1},
			{section: "Demolition", sortOrder: 3, name: "Debris haul-away", unit: "Ea", rate: 165, qty: 1},
			{section: "Electrical", sortOrder: 4, name: "Replace vanity light", unit: "Ea", rate: 120, qty: 1},
			{section: "Electrical", sortOrder: 5, name: "Add GFCI receptacle", description: "Code-required at vanity", unit: "Ea", rate: 64, qty: 2},
		},
	},
	{
		title:           "Harborview Cafe build-out",
		docType:         "work_order",
		referenceNumber: "WO-2025-031",
		lines: []docLineDef{
			{section: "Framing", sortOrder: 1, name: "Frame service counter wall", unit: "Ln Ft", rate: 18, qty: 22},
			{section: "Framing", sortOrder: 2, name: "Blocking for wall cabinets", unit: "Ea", rate: 35, qty: 6},
		},
	},
	{
		title:           "Unit 4B turnover",
		docType:         "invoice",
		referenceNumber: "INV-2025-087",
	},
}

// Seed populates the collections with a small realistic data set for a first
// run. It is safe to call on every startup because it returns early if any
// library records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if the library is already populated ────────
	lineItemsCol, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return fmt.Errorf("seed: could not find line_items collection: %w", err)
	}
	existing, err := app.FindAllRecords(lineItemsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query line_items: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: line_items collection is empty – inserting seed data …")

	documentsCol, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		return fmt.Errorf("seed: could not find documents collection: %w", err)
	}
	documentLinesCol, err := app.FindCollectionByNameOrId("document_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find document_lines collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("item_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find item_templates collection: %w", err)
	}

	// ── library items ────────────────────────────────────────────────
	libIDs := make(map[string]string, len(seedLineItems))
	for _, d := range seedLineItems {
		rec := core.NewRecord(lineItemsCol)
		rec.Set("name", d.name)
		rec.Set("description", d.description)
		rec.Set("unit", d.unit)
		rec.Set("rate", d.rate)
		rec.Set("category", d.category)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not create line item %q: %w", d.name, err)
		}
		libIDs[d.name] = rec.Id
	}
	log.Printf("seed: created %d library items\n", len(seedLineItems))

	// ── documents and their lines ────────────────────────────────────
	for _, d := range seedDocuments {
		doc := core.NewRecord(documentsCol)
		doc.Set("title", d.title)
		doc.Set("doc_type", d.docType)
		doc.Set("reference_number", d.referenceNumber)
		if err := app.Save(doc); err != nil {
			return fmt.Errorf("seed: could not create document %q: %w", d.title, err)
		}
		for _, ln := range d.lines {
			rec := core.NewRecord(documentLinesCol)
			rec.Set("document", doc.Id)
			rec.Set("section", ln.section)
			rec.Set("sort_order", ln.sortOrder)
			rec.Set("name", ln.name)
			rec.Set("description", ln.description)
			rec.Set("unit", ln.unit)
			rec.Set("rate", ln.rate)
			rec.Set("qty", ln.qty)
			if err := app.Save(rec); err != nil {
				return fmt.Errorf("seed: could not create line %q on %q: %w", ln.name, d.title, err)
			}
		}
	}
	log.Printf("seed: created %d documents\n", len(seedDocuments))

	// ── a starter template: one library reference, one embedded item ─
	paintID := libIDs["Interior paint, one coat"]
	starter := []builder.TemplateEntry{
		{
			LibraryItemID:      paintID,
			QuantityMultiplier: 350,
			PositionIndex:      0,
			LibraryItem: &builder.LibraryRecord{
				ID:   paintID,
				Name: "Interior paint, one coat",
				Unit: "Sq Ft",
				Rate: 2.25,
			},
		},
		{
			QuantityMultiplier: 1,
			PositionIndex:      1,
			Embedded: &builder.EmbeddedData{
				Code:        "Protect floors and mask trim",
				Description: "Paper, plastic and tape for one room",
				Unit:        "Ea",
				Rate:        45,
			},
		},
	}
	tpl := core.NewRecord(templatesCol)
	tpl.Set("name", "Repaint one room")
	tpl.Set("description", "Prep and one finish coat for a standard room")
	tpl.Set("category", "Finishes")
	tpl.Set("template_items", starter)
	if err := app.Save(tpl); err != nil {
		return fmt.Errorf("seed: could not create starter template: %w", err)
	}

	log.Println("seed: complete.")
	return nil
}
