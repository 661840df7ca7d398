package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/services"
	"templatebuilder/templates"
)

// panelData maps a builder snapshot onto the panel view model.
func panelData(st builder.State, warnings []builder.Warning) templates.BuilderPanelData {
	rows := make([]templates.BuilderItemRow, 0, len(st.Items))
	for i, it := range st.Items {
		rows = append(rows, templates.BuilderItemRow{
			Index:       i,
			Name:        it.Name,
			Description: it.Description,
			Unit:        it.Unit,
			Rate:        it.Rate,
			Qty:         it.QuantityMultiplier,
			Amount:      services.LineAmount(it.Rate, it.QuantityMultiplier),
			IsLibrary:   it.IsLibraryRef(),
			Section:     it.SourceSection,
		})
	}

	texts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		texts = append(texts, w.Message)
	}

	totals := services.CalcTemplateTotals(st.Items)
	return templates.BuilderPanelData{
		IsOpen:            st.IsOpen,
		EditingTemplateID: st.EditingTemplateID,
		Name:              st.Name,
		Description:       st.Description,
		Category:          st.Category,
		CategoryOptions:   services.TemplateCategoryOptions,
		Items:             rows,
		TotalAmount:       totals.TotalAmount,
		Warnings:          texts,
	}
}

// renderPanel writes the builder panel fragment from a fresh store snapshot.
func renderPanel(e *core.RequestEvent, store *builder.Store, warnings []builder.Warning) error {
	component := templates.BuilderPanel(panelData(store.State(), warnings))
	return component.Render(e.Request.Context(), e.Response)
}
