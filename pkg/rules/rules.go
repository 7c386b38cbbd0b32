package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/csrf"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

var (
	// ErrEmptyDocument is returned for a rules file without routes.
	ErrEmptyDocument = errors.New("rules: no routes defined")
	// ErrDuplicateRoute is returned when two routes share a name.
	ErrDuplicateRoute = errors.New("rules: duplicate route")
	// ErrUnknownKind is returned for a rule kind with no builder.
	ErrUnknownKind = errors.New("rules: unknown rule kind")
	// ErrInvalidRoute is returned for routes missing a name or fields.
	ErrInvalidRoute = errors.New("rules: invalid route")
)

// Document is the root of a rules file.
type Document struct {
	Routes []Route `yaml:"routes"`
}

// Route describes one guarded endpoint.
type Route struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Methods      []string `yaml:"methods"`
	JSONFallback *bool    `yaml:"json_fallback"`
	MaxMemory    int64    `yaml:"max_memory"`
	Fields       []Field  `yaml:"fields"`

	steps []step
}

// Field lists the rules of one form field, applied in order.
type Field struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule is one validator with its parameters. Which parameters apply depends
// on Kind.
type Rule struct {
	Kind     string   `yaml:"kind"`
	Pattern  string   `yaml:"pattern,omitempty"`
	Domain   string   `yaml:"domain,omitempty"`
	Min      *int     `yaml:"min,omitempty"`
	Max      *int     `yaml:"max,omitempty"`
	Options  []string `yaml:"options,omitempty"`
	FoldCase bool     `yaml:"fold_case,omitempty"`
	Layout   string   `yaml:"layout,omitempty"`
	Families []string `yaml:"families,omitempty"`
	Tag      string   `yaml:"tag,omitempty"`
	Name     string   `yaml:"name,omitempty"`
}

type step struct {
	field      string
	validators []validator.Validator
}

// LoadOption configures Load.
type LoadOption func(*loader)

type loader struct {
	custom map[string]validator.Validator
}

// WithCustom makes v available as {kind: custom, name: <name>}, the way to
// use Func validators from a rules file.
func WithCustom(name string, v validator.Validator) LoadOption {
	return func(l *loader) {
		l.custom[name] = v
	}
}

// LoadFile reads and builds a rules file.
func LoadFile(path string, opts ...LoadOption) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rules: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load parses a rules document and builds every validator in it, so
// configuration mistakes surface here and never per request.
func Load(r io.Reader, opts ...LoadOption) (*Document, error) {
	l := &loader{custom: make(map[string]validator.Validator)}
	for _, opt := range opts {
		opt(l)
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("rules: parse: %w", err)
	}
	if len(doc.Routes) == 0 {
		return nil, ErrEmptyDocument
	}

	seen := make(map[string]bool, len(doc.Routes))
	for i := range doc.Routes {
		route := &doc.Routes[i]
		route.Name = strings.TrimSpace(route.Name)
		if route.Name == "" {
			return nil, fmt.Errorf("%w: route %d has no name", ErrInvalidRoute, i)
		}
		if seen[route.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoute, route.Name)
		}
		seen[route.Name] = true

		if err := l.build(route); err != nil {
			return nil, fmt.Errorf("route %q: %w", route.Name, err)
		}
	}
	return &doc, nil
}

// Route returns the route with the given name.
func (d *Document) Route(name string) (Route, bool) {
	for _, r := range d.Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

func (l *loader) build(route *Route) error {
	if len(route.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidRoute)
	}
	for _, f := range route.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: field without name", ErrInvalidRoute)
		}
		if len(f.Rules) == 0 {
			return fmt.Errorf("%w: field %q has no rules", ErrInvalidRoute, f.Name)
		}
		validators := make([]validator.Validator, 0, len(f.Rules))
		for j, rule := range f.Rules {
			v, err := l.buildValidator(rule)
			if err != nil {
				return fmt.Errorf("field %q rule %d: %w", f.Name, j, err)
			}
			validators = append(validators, v)
		}
		route.steps = append(route.steps, step{field: f.Name, validators: validators})
	}
	return nil
}

// BuildValidator builds the validator a rule describes.
func BuildValidator(rule Rule) (validator.Validator, error) {
	return (&loader{}).buildValidator(rule)
}

func (l *loader) buildValidator(rule Rule) (validator.Validator, error) {
	switch strings.ToLower(rule.Kind) {
	case "regex":
		if rule.Pattern == "" {
			return nil, fmt.Errorf("%w: empty pattern", validator.ErrInvalidPattern)
		}
		return validator.CompileRegex(rule.Pattern)
	case "exists":
		return validator.Exists(), nil
	case "email":
		var opts []validator.EmailOption
		if rule.Domain != "" {
			opts = append(opts, validator.WithDomain(rule.Domain))
		}
		return validator.Email(opts...), nil
	case "length":
		var opts []validator.LengthOption
		if rule.Min != nil {
			opts = append(opts, validator.Min(*rule.Min))
		}
		if rule.Max != nil {
			opts = append(opts, validator.Max(*rule.Max))
		}
		return validator.NewLength(opts...)
	case "select":
		var opts []validator.SelectOption
		if rule.FoldCase {
			opts = append(opts, validator.FoldCase())
		}
		return validator.NewSelect(rule.Options, opts...)
	case "date", "time":
		return validator.NewTemporal(strings.ToLower(rule.Kind), rule.Layout)
	case "ipaddress":
		families := make([]validator.AddressFamily, 0, len(rule.Families))
		for _, f := range rule.Families {
			families = append(families, validator.AddressFamily(strings.ToLower(f)))
		}
		return validator.NewIPAddress(families...)
	case "tag":
		return validator.CompileTag(rule.Tag)
	case "csrf":
		return csrf.Validator(), nil
	case "custom":
		if v, ok := l.custom[rule.Name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: custom validator %q is not registered", ErrUnknownKind, rule.Name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rule.Kind)
}

// Options converts the route into guard options. More options, e.g. a
// logger or hooks, can be appended by the caller.
func (r Route) Options() []formguard.Option {
	opts := []formguard.Option{formguard.WithName(r.Name)}
	if len(r.Methods) > 0 {
		opts = append(opts, formguard.WithMethods(r.Methods...))
	}
	if r.JSONFallback != nil {
		opts = append(opts, formguard.WithJSONFallback(*r.JSONFallback))
	}
	if r.MaxMemory != 0 {
		opts = append(opts, formguard.WithMaxMemory(r.MaxMemory))
	}
	for _, s := range r.steps {
		opts = append(opts, formguard.WithValidator(s.field, s.validators...))
	}
	return opts
}

// Guard builds the route's guard.
func (r Route) Guard(opts ...formguard.Option) (*formguard.Guard, error) {
	if len(r.steps) == 0 {
		return nil, fmt.Errorf("%w: route %q was not built by Load", ErrInvalidRoute, r.Name)
	}
	return formguard.New(append(r.Options(), opts...)...)
}
