package formguard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/requestid"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

func mockErrorPage(params formguard.ErrorPageParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "Error %d on %s: %s", params.StatusCode, params.Field, params.Error)
		return err
	})
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		field  string
		level  slog.Level
	}{
		{"missing field", &validator.MissingFieldError{Field: "new"}, http.StatusBadRequest, validator.KindMissingField, "new", slog.LevelWarn},
		{"pattern", &validator.PatternMismatchError{Field: "new", Value: "bye", Pattern: "hi"}, http.StatusBadRequest, validator.KindPatternMismatch, "new", slog.LevelWarn},
		{"session", &validator.InvalidSessionError{}, http.StatusForbidden, validator.KindInvalidSession, "", slog.LevelWarn},
		{"too large", &validator.MalformedFormError{Err: fmt.Errorf("%w: 10 bytes", formguard.ErrBodyTooLarge)}, http.StatusRequestEntityTooLarge, validator.KindMalformedForm, "", slog.LevelWarn},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "", "", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := formguard.ClassifyError(tt.err, false)
			assert.Equal(t, tt.status, info.StatusCode)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.field, info.Field)
			assert.Equal(t, tt.level, info.LogLevel)
		})
	}

	t.Run("internal message hidden", func(t *testing.T) {
		info := formguard.ClassifyError(errors.New("db down"), false)
		assert.NotContains(t, info.Message, "db down")

		info = formguard.ClassifyError(errors.New("db down"), true)
		assert.Equal(t, "db down", info.Message)
	})
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	formErr := &validator.PatternMismatchError{Field: "new", Value: "bye", Pattern: "hi"}

	t.Run("plain http fallback", func(t *testing.T) {
		t.Parallel()
		h := formguard.NewErrorHandler(slog.New(slog.DiscardHandler), formguard.ErrorHandlerConfig{})

		rec := httptest.NewRecorder()
		h(formguard.NewContext(rec, httptest.NewRequest(http.MethodPost, "/signup", nil)), formErr)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "does not match pattern")
	})

	t.Run("error page", func(t *testing.T) {
		t.Parallel()
		h := formguard.NewErrorHandler(nil, formguard.ErrorHandlerConfig{ErrorPage: mockErrorPage})

		rec := httptest.NewRecorder()
		h(formguard.NewContext(rec, httptest.NewRequest(http.MethodPost, "/signup", nil)), formErr)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Error 400 on new:"))
	})

	t.Run("json client", func(t *testing.T) {
		t.Parallel()
		h := formguard.NewErrorHandler(slog.New(slog.DiscardHandler), formguard.ErrorHandlerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h(formguard.NewContext(rec, req), formErr)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body formguard.JSONResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, validator.KindPatternMismatch, body.Error.Code)
		assert.Equal(t, "new", body.Error.Field)
	})

	t.Run("json client internal error", func(t *testing.T) {
		t.Parallel()
		h := formguard.NewErrorHandler(slog.New(slog.DiscardHandler), formguard.ErrorHandlerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h(formguard.NewContext(rec, req), errors.New("db down"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)
		assert.NotContains(t, rec.Body.String(), "db down")
	})

	t.Run("datastar request", func(t *testing.T) {
		t.Parallel()
		h := formguard.NewErrorHandler(slog.New(slog.DiscardHandler), formguard.ErrorHandlerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req.Header.Set("Accept", "text/event-stream")
		rec := httptest.NewRecorder()
		h(formguard.NewContext(rec, req), formErr)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
		body := rec.Body.String()
		assert.Contains(t, body, "datastar-patch-signals")
		assert.Contains(t, body, formguard.ErrorsSignal)
		assert.Contains(t, body, `"new"`)
	})

	t.Run("logs with request id", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		h := formguard.NewErrorHandler(log, formguard.ErrorHandlerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/signup", nil)
		req = req.WithContext(requestid.WithContext(req.Context(), "req-42"))
		h(formguard.NewContext(httptest.NewRecorder(), req), formErr)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, "new", entry["field"])
		assert.Equal(t, validator.KindPatternMismatch, entry["kind"])
		assert.Equal(t, float64(http.StatusBadRequest), entry["status_code"])
	})
}
