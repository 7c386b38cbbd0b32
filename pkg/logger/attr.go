package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil or empty, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil || id == "" {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// ClientIP records the client address under the key "client_ip".
// An empty address yields an empty Attr.
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// Guard records the guard name under the key "guard".
// An unnamed guard yields an empty Attr.
func Guard(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("guard", name)
}

// Field records the form field under the key "field".
// An empty name yields an empty Attr.
func Field(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("field", name)
}

// Kind records the failure kind, e.g. "missing_field", under the key "kind".
func Kind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("kind", kind)
}

// Method records the HTTP method under the key "method".
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path records the request path under the key "path".
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// StatusCode records the response status under the key "status_code".
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
