package validator

import (
	"context"
	"fmt"
	"time"
)

// ISO layouts accepted by ISODate and ISOTime.
var (
	isoDateLayouts = []string{time.DateOnly}
	isoTimeLayouts = []string{"15:04:05.999999999", time.TimeOnly, "15:04"}
)

// TemporalValidator checks that a value parses with a time layout.
// The parsed value is discarded; handlers parse it again when they need it.
type TemporalValidator struct {
	kind    string
	layouts []string
	iso     bool
}

// Date accepts values matching a Go reference layout, e.g. "01/02/2006".
// It panics on an empty layout.
func Date(layout string) *TemporalValidator {
	return mustTemporal("date", layout)
}

// ISODate accepts calendar dates in YYYY-MM-DD form.
func ISODate() *TemporalValidator {
	return &TemporalValidator{kind: "date", layouts: isoDateLayouts, iso: true}
}

// Time accepts values matching a Go reference layout, e.g. "3:04 PM".
// It panics on an empty layout.
func Time(layout string) *TemporalValidator {
	return mustTemporal("time", layout)
}

// ISOTime accepts HH:MM, HH:MM:SS and HH:MM:SS with fractional seconds.
func ISOTime() *TemporalValidator {
	return &TemporalValidator{kind: "time", layouts: isoTimeLayouts, iso: true}
}

// NewTemporal builds a "date" or "time" rule. An empty layout selects the ISO form.
func NewTemporal(kind, layout string) (*TemporalValidator, error) {
	switch kind {
	case "date":
		if layout == "" {
			return ISODate(), nil
		}
	case "time":
		if layout == "" {
			return ISOTime(), nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown temporal kind %q", ErrInvalidRule, kind)
	}
	return &TemporalValidator{kind: kind, layouts: []string{layout}}, nil
}

func mustTemporal(kind, layout string) *TemporalValidator {
	if layout == "" {
		panic(fmt.Errorf("%w: empty %s layout", ErrInvalidRule, kind))
	}
	return &TemporalValidator{kind: kind, layouts: []string{layout}}
}

func (v *TemporalValidator) Name() string { return v.kind }

func (v *TemporalValidator) Validate(_ context.Context, field, value string) error {
	var err error
	for _, layout := range v.layouts {
		if _, err = time.Parse(layout, value); err == nil {
			return nil
		}
	}

	msg := fmt.Sprintf("invalid value for format %q", v.layouts[0])
	if v.iso {
		msg = fmt.Sprintf("invalid value for ISO %s format", v.kind)
	}
	return &ValidationError{Field: field, Value: value, Rule: v.kind, Message: msg, Err: err}
}

func (v *TemporalValidator) Populate(_ context.Context, _ string) map[string]any {
	if v.iso {
		return map[string]any{"layout": nil, "iso": true}
	}
	return map[string]any{"layout": v.layouts[0], "iso": false}
}
