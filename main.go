package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/collections"
	"templatebuilder/handlers"
)

func main() {
	app := pocketbase.New()
	store := builder.NewStore()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.BackfillTemplateSnapshots(app); err != nil {
			log.Printf("Warning: snapshot backfill failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Every full page embeds the builder panel
		se.Router.BindFunc(handlers.BuilderPanelMiddleware(store))

		// ── Item library (home) ──────────────────────────────────
		se.Router.GET("/", handlers.HandleLibraryPage(app, store))
		se.Router.GET("/library/items", handlers.HandleLibraryList(app, store))
		se.Router.POST("/library/items", handlers.HandleLibraryCreate(app, store))
		se.Router.GET("/library/items/{id}/edit", handlers.HandleLibraryEditRow(app))
		se.Router.GET("/library/items/{id}/row", handlers.HandleLibraryItemRow(app, store))
		se.Router.POST("/library/items/{id}", handlers.HandleLibraryUpdate(app, store))
		se.Router.DELETE("/library/items/{id}", handlers.HandleLibraryDelete(app, store))

		// ── Bulk import ──────────────────────────────────────────
		se.Router.GET("/library/import", handlers.HandleImportPage())
		se.Router.POST("/library/import", handlers.HandleImportValidate())
		se.Router.POST("/library/import/commit", handlers.HandleImportCommit(app))
		se.Router.POST("/library/import/errors", handlers.HandleImportErrorReport())
		se.Router.GET("/library/import/template", handlers.HandleImportTemplate())

		// ── Template builder ─────────────────────────────────────
		se.Router.POST("/builder/open", handlers.HandleBuilderOpen(app, store))
		se.Router.POST("/builder/close", handlers.HandleBuilderClose(store))
		se.Router.GET("/builder/panel", handlers.HandleBuilderPanel(store))
		se.Router.GET("/builder/state", handlers.HandleBuilderState(store))
		se.Router.POST("/builder/items", handlers.HandleBuilderAddItems(app, store))
		se.Router.POST("/builder/items/{index}", handlers.HandleBuilderUpdateItem(store))
		se.Router.DELETE("/builder/items/{index}", handlers.HandleBuilderRemoveItem(store))
		se.Router.POST("/builder/sections", handlers.HandleBuilderAddSection(app, store))
		se.Router.POST("/builder/reorder", handlers.HandleBuilderReorder(store))
		se.Router.POST("/builder/metadata", handlers.HandleBuilderMetadata(store))
		se.Router.POST("/builder/selection/toggle", handlers.HandleBuilderToggleSelection(store))
		se.Router.POST("/builder/selection", handlers.HandleBuilderSetSelection(store))
		se.Router.POST("/builder/selection/clear", handlers.HandleBuilderClearSelection(store))
		se.Router.POST("/builder/save", handlers.HandleBuilderSave(app, store))

		// ── Saved templates ──────────────────────────────────────
		se.Router.GET("/templates", handlers.HandleTemplateList(app))
		se.Router.GET("/templates/{id}/export/excel", handlers.HandleTemplateExportExcel(app))
		se.Router.GET("/templates/{id}/export/pdf", handlers.HandleTemplateExportPDF(app))
		se.Router.GET("/templates/{id}", handlers.HandleTemplateShow(app))
		se.Router.DELETE("/templates/{id}", handlers.HandleTemplateDelete(app))

		// ── Documents ────────────────────────────────────────────
		se.Router.GET("/documents", handlers.HandleDocumentList(app))
		se.Router.POST("/documents", handlers.HandleDocumentCreate(app))
		se.Router.GET("/documents/{id}/sections", handlers.HandleDocumentSections(app))
		se.Router.GET("/documents/{id}/lines", handlers.HandleDocumentLines(app))
		se.Router.POST("/documents/{id}/apply/{templateId}", handlers.HandleDocumentApply(app))
		se.Router.GET("/documents/{id}", handlers.HandleDocumentDetail(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
