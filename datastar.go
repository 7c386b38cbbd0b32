package formguard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	// DataStarAcceptHeader marks a request as coming from DataStar.
	DataStarAcceptHeader = "text/event-stream"

	// DataStarQueryParam carries the signals of DataStar GET requests.
	DataStarQueryParam = "datastar"

	// ErrorsSignal is the signal the default error handler patches with
	// {field: message} on a failed DataStar submission.
	ErrorsSignal = "formErrors"
)

// Patch modes for WithPatchMode.
const (
	PatchOuter   = datastar.ElementPatchModeOuter   // Morphs element (default)
	PatchInner   = datastar.ElementPatchModeInner   // Replace inner HTML
	PatchReplace = datastar.ElementPatchModeReplace // Replace entire element
	PatchPrepend = datastar.ElementPatchModePrepend // Prepend inside element
	PatchAppend  = datastar.ElementPatchModeAppend  // Append inside element
)

// IsDataStar checks if the request is a DataStar request.
// DataStar requests accept Server-Sent Events and send their signals either
// in the body or in the datastar query parameter.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	if r.URL != nil && r.URL.Query().Has(DataStarQueryParam) {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}

// PatchFormErrors sends the field errors of a failed submission as a signals
// patch, so the page can render them next to the inputs. Passing nil clears
// previously sent errors.
func PatchFormErrors(w http.ResponseWriter, r *http.Request, errs map[string]string) error {
	data, err := json.Marshal(map[string]any{ErrorsSignal: errs})
	if err != nil {
		return err
	}
	sse := datastar.NewSSE(w, r)
	return sse.PatchSignals(data)
}
