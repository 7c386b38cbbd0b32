package formguard

import (
	"maps"
	"net/url"
	"slices"
)

// Form exposes the submitted fields of one request together with the form
// mode flag. It never validates on read: when IsFormMode is false no
// validator has run and values must not be trusted.
//
// A Form belongs to a single request and is not safe for concurrent writes;
// it is never written after the guard returns it.
type Form struct {
	method   string
	formMode bool
	values   url.Values
	meta     map[string]map[string]any
}

// NewForm creates a Form over already materialized values.
// It is mainly useful in tests of code that consumes a Form.
func NewForm(method string, formMode bool, values url.Values) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{method: method, formMode: formMode, values: values}
}

// IsFormMode reports whether the request method is one the guard validates.
func (f *Form) IsFormMode() bool {
	if f == nil {
		return false
	}
	return f.formMode
}

// Method returns the request method the form was built for.
func (f *Form) Method() string {
	if f == nil {
		return ""
	}
	return f.method
}

// Get returns the first value of a field. ok is false if the field was not
// submitted; an empty value counts as submitted.
func (f *Form) Get(name string) (value string, ok bool) {
	if f == nil {
		return "", false
	}
	vs, ok := f.values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Value returns the first value of a field, or "" if it is absent.
func (f *Form) Value(name string) string {
	v, _ := f.Get(name)
	return v
}

// Values returns all values of a multi-value field.
func (f *Form) Values(name string) []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.values[name])
}

// Has reports whether the field was submitted.
func (f *Form) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Fields returns the submitted field names in sorted order.
func (f *Form) Fields() []string {
	if f == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(f.values))
}

// Len returns the number of submitted fields.
func (f *Form) Len() int {
	if f == nil {
		return 0
	}
	return len(f.values)
}

// Meta returns the validator metadata of a field, e.g. {"regex_pattern": "[a-z]+"}.
// Metadata is collected only outside form mode, when a page renders the
// empty form; it is nil otherwise.
func (f *Form) Meta(field string) map[string]any {
	if f == nil || f.meta == nil {
		return nil
	}
	return f.meta[field]
}

// Map returns a copy of all first values, convenient for JSON encoding.
func (f *Form) Map() map[string]string {
	if f == nil {
		return nil
	}
	out := make(map[string]string, len(f.values))
	for k, vs := range f.values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
