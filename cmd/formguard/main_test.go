package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/cookie"
	"github.com/dmitrymomot/formguard/pkg/csrf"
	"github.com/dmitrymomot/formguard/pkg/rules"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "formguard "+version)
	assert.Contains(t, out, "Go version:")
}

func TestLintCmd(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		out, err := execute(t, "lint", "testdata/rules.yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "contact")
		assert.Contains(t, out, "/subscribe")
		assert.Contains(t, out, "POST,PUT")
		assert.Contains(t, out, "csrf")
		assert.Contains(t, out, "2 route(s) OK")
	})

	t.Run("broken file", func(t *testing.T) {
		_, err := execute(t, "lint", "testdata/broken.yaml")
		assert.ErrorIs(t, err, rules.ErrUnknownKind)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "lint")
		assert.Error(t, err)
	})
}

func TestServeCmd_InvalidLogFormat(t *testing.T) {
	t.Setenv("FORMGUARD_LOG_FORMAT", "xml")

	_, err := execute(t, "serve", "--rules", "testdata/rules.yaml", "--env-file", "testdata/none.env")
	assert.ErrorIs(t, err, errInvalidLogFormat)
}

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	doc, err := rules.LoadFile("testdata/rules.yaml")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	h, err := newRouter(routerDeps{
		cfg: serveConfig{
			AppEnv: "test",
			Form:   formguard.DefaultConfig(),
			Cookie: cookie.Config{Secrets: []string{strings.Repeat("s", 32)}},
			CSRF:   csrf.Config{CookieName: csrf.DefaultCookieName},
		},
		doc:      doc,
		log:      nil,
		registry: reg,
	})
	require.NoError(t, err)
	return h, reg
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) echoResponse {
	t.Helper()
	var body struct {
		Data echoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestRouter(t *testing.T) {
	t.Parallel()
	h, reg := newTestRouter(t)

	// GET issues the CSRF cookie and exposes the token through metadata.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	page := decode(t, rec)
	assert.Equal(t, "contact", page.Guard)
	token, _ := page.Meta["csrf_token"]["csrf_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, float64(5), page.Meta["message"]["length_min"])
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	submit := func(values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid submission is echoed", func(t *testing.T) {
		rec := submit(url.Values{
			"csrf_token": {token},
			"email":      {"jane@example.com"},
			"message":    {"hello there"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode(t, rec)
		assert.Equal(t, "jane@example.com", got.Fields["email"])
		assert.Empty(t, got.Meta)
	})

	t.Run("forged token", func(t *testing.T) {
		rec := submit(url.Values{
			"csrf_token": {"forged"},
			"email":      {"jane@example.com"},
			"message":    {"hello there"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"csrf_token"`)
	})

	t.Run("short message", func(t *testing.T) {
		rec := submit(url.Values{
			"csrf_token": {token},
			"email":      {"jane@example.com"},
			"message":    {"hi"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"invalid_value"`)
	})

	t.Run("json fallback on default path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/subscribe", strings.NewReader(`{"plan": "pro"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pro", decode(t, rec).Fields["plan"])
	})

	t.Run("health and metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, "ALIVE", rec.Body.String())

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, "READY", rec.Body.String())

		families, err := reg.Gather()
		require.NoError(t, err)
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "formguard_evaluations_total")

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Contains(t, rec.Body.String(), `formguard_evaluations_total{guard="contact"`)
	})
}
