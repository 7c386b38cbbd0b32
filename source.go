package formguard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

// DefaultMaxMemory caps the request body read in form mode (10MB).
const DefaultMaxMemory = 10 << 20

// sourceOptions selects which request parts readFields may consume.
type sourceOptions struct {
	maxMemory int64
	json      bool
	signals   bool
}

// readFields materializes the submitted fields of a request.
//
// Sources, by request type:
//   - DataStar requests (when signals is set): the signals sent by the client,
//     from the datastar query parameter on GET and from a JSON body otherwise
//   - application/x-www-form-urlencoded and multipart/form-data: body fields
//     only, query string values are not form fields
//   - application/json (when json is set): top-level scalar members
//
// Anything else yields an empty set, so validated fields are reported missing.
// Bodies over maxMemory fail with ErrBodyTooLarge. JSON and signal bodies are
// buffered and put back on the request so the handler can read them again.
func readFields(r *http.Request, opts sourceOptions) (url.Values, error) {
	if opts.signals && hasSignals(r) {
		if err := bufferBody(r, opts.maxMemory); err != nil {
			return nil, err
		}
		signals := make(map[string]any)
		err := datastar.ReadSignals(r, &signals)
		if rerr := rewindBody(r); rerr != nil && err == nil {
			err = rerr
		}
		if err != nil {
			return nil, fmt.Errorf("read datastar signals: %w", err)
		}
		return flattenJSON(signals), nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return url.Values{}, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("parse content type: %w", err)
	}

	switch {
	case mediaType == "multipart/form-data":
		limitBody(r, opts.maxMemory)
		if err := r.ParseMultipartForm(opts.maxMemory); err != nil {
			return nil, parseError("parse multipart form", err, opts.maxMemory)
		}
		return r.PostForm, nil

	case mediaType == "application/x-www-form-urlencoded":
		return readURLEncoded(r, opts.maxMemory)

	case opts.json && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")):
		return readJSON(r, opts.maxMemory)
	}

	return url.Values{}, nil
}

// readURLEncoded parses urlencoded bodies for any method. net/http only reads
// the body of POST, PUT and PATCH requests into PostForm.
func readURLEncoded(r *http.Request, limit int64) (url.Values, error) {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		limitBody(r, limit)
		if err := r.ParseForm(); err != nil {
			return nil, parseError("parse form", err, limit)
		}
		return r.PostForm, nil
	}

	if r.Body == nil || r.Body == http.NoBody {
		return url.Values{}, nil
	}
	if err := bufferBody(r, limit); err != nil {
		return nil, err
	}
	defer func() { _ = rewindBody(r) }()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read form body: %w", err)
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	r.PostForm = values
	return values, nil
}

// hasSignals reports whether r carries DataStar signals. GET requests send
// them in the query, other methods in a JSON body. A form posted to a URL
// with a datastar query key is still parsed as a form.
func hasSignals(r *http.Request) bool {
	if !IsDataStar(r) {
		return false
	}
	if r.Method == http.MethodGet {
		return true
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasPrefix(mediaType, "application/x-datastar")
}

// limitBody caps what the net/http form parsers may read from the body.
func limitBody(r *http.Request, limit int64) {
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(nil, r.Body, limit)
	}
}

// parseError reports a body cut off by limitBody as ErrBodyTooLarge.
func parseError(op string, err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrBodyTooLarge, limit)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func readJSON(r *http.Request, limit int64) (url.Values, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return url.Values{}, nil
	}
	if err := bufferBody(r, limit); err != nil {
		return nil, err
	}
	defer func() { _ = rewindBody(r) }()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	return flattenJSON(doc), nil
}

// bufferBody replaces the request body with an in-memory copy of at most
// limit bytes. Larger bodies are rejected.
func bufferBody(r *http.Request, limit int64) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if _, ok := r.Body.(*bufferedBody); ok {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	_ = r.Body.Close()
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrBodyTooLarge, limit)
	}
	r.Body = &bufferedBody{Reader: bytes.NewReader(data)}
	return nil
}

// rewindBody resets a body installed by bufferBody to its start.
func rewindBody(r *http.Request) error {
	b, ok := r.Body.(*bufferedBody)
	if !ok {
		return nil
	}
	_, err := b.Seek(0, io.SeekStart)
	return err
}

type bufferedBody struct {
	*bytes.Reader
}

func (*bufferedBody) Close() error { return nil }

// flattenJSON keeps top-level scalars and arrays of scalars.
// null members count as absent; nested objects are not form fields.
func flattenJSON(doc map[string]any) url.Values {
	values := make(url.Values, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if s, ok := scalarString(item); ok {
					values.Add(k, s)
				}
			}
		default:
			if s, ok := scalarString(t); ok {
				values.Set(k, s)
			}
		}
	}
	return values
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
