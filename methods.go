package formguard

import (
	"net/http"
	"slices"
	"strings"
)

// DefaultMethods is the method set used when a guard is configured without any.
var DefaultMethods = []string{http.MethodPost}

// MethodSet is the set of request methods for which a guard validates.
// It is immutable once built and safe to share between goroutines.
type MethodSet struct {
	methods []string
}

// NewMethodSet normalizes method names to upper case, dropping blanks and
// duplicates. With no usable names the set defaults to POST.
// Unknown methods such as "PURGE" are kept as opaque tokens.
func NewMethodSet(methods ...string) MethodSet {
	set := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || slices.Contains(set, m) {
			continue
		}
		set = append(set, m)
	}
	if len(set) == 0 {
		set = slices.Clone(DefaultMethods)
	}
	return MethodSet{methods: set}
}

// Matches reports whether method belongs to the set.
func (s MethodSet) Matches(method string) bool {
	methods := s.methods
	if len(methods) == 0 {
		methods = DefaultMethods
	}
	return slices.Contains(methods, strings.ToUpper(method))
}

// Methods returns a copy of the normalized methods, in configuration order.
func (s MethodSet) Methods() []string {
	if len(s.methods) == 0 {
		return slices.Clone(DefaultMethods)
	}
	return slices.Clone(s.methods)
}

func (s MethodSet) String() string {
	return strings.Join(s.Methods(), ",")
}
