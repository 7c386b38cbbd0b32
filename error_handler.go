package formguard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// ErrorPageParams contains data for rendering error pages
type ErrorPageParams struct {
	Error      string
	Field      string
	Kind       string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// ErrorPage renders the error page for regular HTTP requests.
	// Without it the handler falls back to http.Error.
	ErrorPage func(ErrorPageParams) templ.Component

	// ExposeInternal includes the message of non-form errors in responses.
	// Leave it off in production.
	ExposeInternal bool
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Message    string
	Field      string
	Kind       string
	LogLevel   slog.Level
}

const genericMessage = "An error occurred processing your request"

// ClassifyError maps an error to its HTTP status, user message and log level.
// Form errors are client errors; everything else is a server error.
func ClassifyError(err error, exposeInternal bool) ErrorInfo {
	info := ErrorInfo{
		StatusCode: statusOf(err),
		Field:      validator.FieldOf(err),
		Kind:       validator.KindOf(err),
	}

	switch {
	case info.Kind != "":
		info.Message = err.Error()
	case exposeInternal:
		info.Message = err.Error()
	case info.StatusCode == http.StatusRequestEntityTooLarge:
		info.Message = http.StatusText(info.StatusCode)
	default:
		info.Message = genericMessage
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func logError(log *slog.Logger, ctx Context, err error, info ErrorInfo) {
	r := ctx.Request()
	log.LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.StatusCode(info.StatusCode),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Field(info.Field),
		logger.Kind(info.Kind),
		logger.Component("error_handler"),
	)
}

// renderDataStarResponse patches the formErrors signal so the page can show
// the message next to the field.
func renderDataStarResponse(ctx Context, info ErrorInfo, log *slog.Logger) {
	field := info.Field
	if field == "" {
		field = "_form"
	}
	if err := PatchFormErrors(ctx.ResponseWriter(), ctx.Request(), map[string]string{field: info.Message}); err != nil {
		log.Error("failed to patch form errors",
			logger.Error(err),
			logger.Event("render_form_errors"),
		)
	}
}

func renderHTTPResponse(ctx Context, cfg ErrorHandlerConfig, info ErrorInfo, log *slog.Logger) {
	w, r := ctx.ResponseWriter(), ctx.Request()
	if cfg.ErrorPage == nil {
		http.Error(w, info.Message, info.StatusCode)
		return
	}

	component := cfg.ErrorPage(ErrorPageParams{
		Error:      info.Message,
		Field:      info.Field,
		Kind:       info.Kind,
		StatusCode: info.StatusCode,
		RequestID:  requestid.FromContext(r.Context()),
		RetryURL:   r.URL.Path,
	})
	if err := TemplStatus(info.StatusCode, component).Render(w, r); err != nil {
		log.Error("failed to render error page",
			logger.Error(err),
			logger.Event("render_error_page"),
		)
	}
}

// NewErrorHandler creates the default error handler that adapts to the request:
// DataStar requests get a formErrors signals patch, requests accepting JSON a
// JSON error body, everything else the configured error page or plain text.
// Configure it once in main.go and pass it to every Wrap call.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		info := ClassifyError(err, cfg.ExposeInternal)
		logError(log, ctx, err, info)

		r := ctx.Request()
		switch {
		case IsDataStar(r):
			renderDataStarResponse(ctx, info, log)
		case acceptsJSON(r):
			resp := jsonResponse{status: info.StatusCode, body: JSONResponse{Error: &ErrorDetail{
				Code:    info.Kind,
				Message: info.Message,
				Field:   info.Field,
			}}}
			if info.Kind == "" {
				resp.body.Error.Code = "internal_error"
			}
			if rerr := resp.Render(ctx.ResponseWriter(), r); rerr != nil {
				log.Error("failed to render json error", logger.Error(rerr))
			}
		default:
			renderHTTPResponse(ctx, cfg, info, log)
		}
	}
}
