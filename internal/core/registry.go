package core

import (
	"slices"
	"strings"
)

// FallbackCategory receives the transactions of a deleted category. It is
// always present in a Registry and cannot be deleted.
const FallbackCategory = "Other"

// DefaultCategories seeds the registry when nothing has been persisted yet.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Housing",
	"Utilities",
	"Entertainment",
	"Income",
	FallbackCategory,
}

// Registry is the ordered, duplicate-free list of category names.
// Names are compared by exact, case-sensitive match.
type Registry struct {
	names []string
}

// NewRegistry builds a registry from names, keeping first occurrences in
// input order and dropping blanks. The fallback category is appended when
// missing.
func NewRegistry(names []string) *Registry {
	r := &Registry{names: dedupe(names)}
	if !r.Contains(FallbackCategory) {
		r.names = append(r.names, FallbackCategory)
	}
	return r
}

// DefaultRegistry returns a registry seeded with DefaultCategories.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultCategories)
}

// Add appends name to the end of the registry and returns the stored
// (trimmed) name.
func (r *Registry) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid(FieldCategory, ErrEmptyCategory)
	}
	if r.Contains(name) {
		return "", Invalid(FieldCategory, ErrDuplicateCategory)
	}
	r.names = append(r.names, name)
	return name, nil
}

// Delete removes name, trimmed as in Add. Deleting a name that is not
// present is a no-op and returns false. The fallback category cannot be
// deleted.
func (r *Registry) Delete(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == FallbackCategory {
		return false, Invalid(FieldCategory, ErrFallbackCategory)
	}
	i := slices.Index(r.names, name)
	if i < 0 {
		return false, nil
	}
	r.names = slices.Delete(r.names, i, i+1)
	return true, nil
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	return slices.Contains(r.names, name)
}

// Names returns the categories in insertion order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.names)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	return &Registry{names: slices.Clone(r.names)}
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
