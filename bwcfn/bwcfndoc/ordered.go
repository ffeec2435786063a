package bwcfndoc

import (
	"bytes"
	"encoding/json"
	"iter"

	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Ordered is a string-keyed map that remembers insertion order. Setting a key
// that is already present replaces its value but keeps its position.
//
// The zero value is ready to use.
type Ordered[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// Map is the ordered mapping used for template sections, resource properties
// and any nested mapping decoded from a template.
type Map = Ordered[any]

// NewOrdered returns an empty ordered map.
func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{m: orderedmap.New[string, V]()}
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return NewOrdered[any]()
}

// Get returns the value stored under key.
func (o *Ordered[V]) Get(key string) (V, bool) {
	if o == nil || o.m == nil {
		var zero V
		return zero, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present.
func (o *Ordered[V]) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores val under key. New keys are appended at the end.
func (o *Ordered[V]) Set(key string, val V) {
	if o.m == nil {
		o.m = orderedmap.New[string, V]()
	}
	o.m.Set(key, val)
}

// Delete removes key and reports whether it was present.
func (o *Ordered[V]) Delete(key string) bool {
	if o == nil || o.m == nil {
		return false
	}
	_, ok := o.m.Delete(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Ordered[V]) Keys() []string {
	if o.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, o.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries.
func (o *Ordered[V]) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

// All iterates over the entries in insertion order.
func (o *Ordered[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if o == nil || o.m == nil {
			return
		}
		for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range o.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		vb, err := marshalJSON(v)
		if err != nil {
			return nil, errors.Wrapf(err, "marshaling %q", k)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (o *Ordered[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range o.All() {
		var vn yaml.Node
		if err := vn.Encode(v); err != nil {
			return nil, errors.Wrapf(err, "marshaling %q", k)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&vn,
		)
	}
	return node, nil
}

// marshalJSON is json.Marshal without HTML escaping, so access log formats and
// policies survive a round trip unchanged. The map's own MarshalJSON goes
// through json.Marshal and would rewrite & and < in them.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
