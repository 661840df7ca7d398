package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast queues a toast notification for the client. The toast rides the
// HX-Trigger response header as a showToast event; if the header already
// carries other events, the toast is merged into them instead of clobbering
// the header. A short-lived flash cookie carries the same payload across
// full-page redirects, where response headers from the previous request are
// gone by the time the page renders.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	header, err := mergeTriggerHeader(e.Response.Header().Get("HX-Trigger"), payload)
	if err != nil {
		log.Printf("toast: could not build HX-Trigger header: %v", err)
	} else {
		e.Response.Header().Set("HX-Trigger", header)
	}

	cookieVal, err := json.Marshal(payload)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     "flash_toast",
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // the toast script reads it
		SameSite: http.SameSiteLaxMode,
	})
}

// mergeTriggerHeader folds the showToast event into an existing HX-Trigger
// value. An existing value that is not a JSON object is replaced.
func mergeTriggerHeader(existing string, toast map[string]string) (string, error) {
	events := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, replacing: %v", err)
			events = map[string]any{}
		}
	}
	events["showToast"] = toast

	data, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ErrorToast responds with an error toast and stops HTMX from swapping the
// plain-text error body into the page. HX-Reswap: none keeps the current DOM
// while the HX-Trigger header still fires the toast.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
