package formguard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a 200 response with v as data.
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
}

// JSONStatus creates a response with v as data and a custom status.
func JSONStatus(status int, v any) Response {
	return jsonResponse{status: status, body: JSONResponse{Data: v}}
}

// JSONError creates an error response. Form errors carry their kind as code
// and the offending field.
func JSONError(err error) Response {
	status := statusOf(err)
	return jsonResponse{status: status, body: JSONResponse{Error: errorToDetail(err, status)}}
}

func errorToDetail(err error, status int) *ErrorDetail {
	if !validator.IsFormError(err) {
		if errors.Is(err, ErrBodyTooLarge) {
			return &ErrorDetail{Code: "body_too_large", Message: http.StatusText(status)}
		}
		return &ErrorDetail{Code: "internal_error", Message: http.StatusText(status)}
	}
	return &ErrorDetail{
		Code:    validator.KindOf(err),
		Message: err.Error(),
		Field:   validator.FieldOf(err),
	}
}

type redirectResponse struct {
	url  string
	code int
}

// Render uses an SSE redirect for DataStar and a Location header otherwise.
func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).Redirect(rr.url)
	}
	http.Redirect(w, r, rr.url, rr.code)
	return nil
}

// Redirect answers with 303 See Other, the usual reply to a handled form post.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode is like Redirect with a custom status code.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}
