package formguard

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption tunes the element patch sent to DataStar clients. Regular
// requests ignore it.
type TemplOption = datastar.PatchElementOption

// WithTarget patches the element matching selector instead of the one with
// the component's root id.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the patch merges into the DOM, see PatchOuter and friends.
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

type templResponse struct {
	status    int
	component templ.Component
	options   []datastar.PatchElementOption
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		return sse.PatchElementTempl(t.component, t.options...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ creates a response from a templ component. DataStar requests receive
// an element patch with the given options; other requests get plain HTML.
//
// Rendering the empty form with its validator metadata:
//
//	if !form.IsFormMode() {
//		return formguard.Templ(views.Signup(form.Meta("username")))
//	}
func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{component: component, options: opts}
}

// TemplStatus is like Templ but writes status for regular requests.
// SSE responses always use 200.
func TemplStatus(status int, component templ.Component, opts ...TemplOption) Response {
	return templResponse{status: status, component: component, options: opts}
}
