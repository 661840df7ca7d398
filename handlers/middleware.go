package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"templatebuilder/builder"
	"templatebuilder/templates"
)

type contextKey string

const PanelDataKey contextKey = "panelData"

// GetPanelData extracts the pre-built builder panel view model from the
// request context. Full-page handlers embed it so every page shows the
// template in progress without reaching into the store themselves.
func GetPanelData(r *http.Request) templates.BuilderPanelData {
	if val, ok := r.Context().Value(PanelDataKey).(templates.BuilderPanelData); ok {
		return val
	}
	return templates.BuilderPanelData{}
}

// BuilderPanelMiddleware snapshots the builder once per request and stores
// the panel view model in the request context. Handlers that mutate the
// builder re-read the store for their response; the context copy predates
// the mutation.
func BuilderPanelMiddleware(store *builder.Store) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := context.WithValue(e.Request.Context(), PanelDataKey, panelData(store.State(), nil))
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
