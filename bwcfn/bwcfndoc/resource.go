package bwcfndoc

import (
	"bytes"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrConflict is returned when a different definition is written under a
// logical id that is already present.
var ErrConflict = errors.New("conflicting resource definition")

// Resource is a single entry of the template's Resources section.
type Resource struct {
	Type       string
	Condition  string
	DependsOn  []string
	Properties *Map
	// Attributes holds the remaining resource attributes (DeletionPolicy,
	// Metadata, Version, ...) in template order.
	Attributes *Map
}

// Property returns the property stored under key.
func (r *Resource) Property(key string) (any, bool) {
	return r.Properties.Get(key)
}

// SetProperty stores a property, creating the Properties mapping if needed.
func (r *Resource) SetProperty(key string, val any) {
	if r.Properties == nil {
		r.Properties = NewMap()
	}
	r.Properties.Set(key, val)
}

// DeleteProperty removes a property and reports whether it was present.
func (r *Resource) DeleteProperty(key string) bool {
	return r.Properties.Delete(key)
}

// Equal reports whether both resources encode to the same template bytes.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, err := marshalJSON(r)
	if err != nil {
		return false
	}
	b, err := marshalJSON(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (r *Resource) body() *Map {
	m := NewMap()
	if r.Type != "" {
		m.Set("Type", r.Type)
	}
	if r.Condition != "" {
		m.Set("Condition", r.Condition)
	}
	if len(r.DependsOn) > 0 {
		deps := make([]any, 0, len(r.DependsOn))
		for _, d := range r.DependsOn {
			deps = append(deps, d)
		}
		m.Set("DependsOn", deps)
	}
	for k, v := range r.Attributes.All() {
		m.Set(k, v)
	}
	if r.Properties != nil {
		m.Set("Properties", r.Properties)
	}
	return m
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	return marshalJSON(r.body())
}

func (r *Resource) MarshalYAML() (any, error) {
	return r.body(), nil
}

func resourceFromValue(v any) (*Resource, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, errors.Newf("expected mapping, got %T", v)
	}

	res := &Resource{}
	for k, val := range m.All() {
		switch k {
		case "Type":
			s, ok := val.(string)
			if !ok {
				return nil, errors.Newf("Type must be a string, got %T", val)
			}
			res.Type = s
		case "Condition":
			s, ok := val.(string)
			if !ok {
				return nil, errors.Newf("Condition must be a string, got %T", val)
			}
			res.Condition = s
		case "DependsOn":
			deps, err := dependsOnFromValue(val)
			if err != nil {
				return nil, err
			}
			res.DependsOn = deps
		case "Properties":
			props, ok := val.(*Map)
			if !ok {
				return nil, errors.Newf("Properties must be a mapping, got %T", val)
			}
			res.Properties = props
		default:
			if res.Attributes == nil {
				res.Attributes = NewMap()
			}
			res.Attributes.Set(k, val)
		}
	}
	return res, nil
}

func dependsOnFromValue(v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []any:
		deps := make([]string, 0, len(t))
		for i, d := range t {
			s, ok := d.(string)
			if !ok {
				return nil, errors.Newf("DependsOn[%d] must be a string, got %T", i, d)
			}
			deps = append(deps, s)
		}
		return deps, nil
	default:
		return nil, errors.Newf("DependsOn must be a string or list, got %T", v)
	}
}

// Resources is the ordered Resources section of a template.
type Resources struct {
	Ordered[*Resource]
}

// Put inserts res under id. Putting an identical definition again is a no-op
// and a different definition under an existing id fails with ErrConflict.
func (r *Resources) Put(id string, res *Resource) error {
	if existing, ok := r.Get(id); ok {
		if existing.Equal(res) {
			return nil
		}
		return errors.Wrapf(ErrConflict, "resource %q", id)
	}
	r.Set(id, res)
	return nil
}

// IDsOfType returns the logical ids of all resources with the given type.
func (r *Resources) IDsOfType(typ string) []string {
	var ids []string
	for id, res := range r.All() {
		if res.Type == typ {
			ids = append(ids, id)
		}
	}
	return slices.Clip(ids)
}
