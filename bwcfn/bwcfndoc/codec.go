package bwcfndoc

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format selects the template encoding.
type Format int

const (
	// FormatJSON encodes templates as indented JSON.
	FormatJSON Format = iota
	// FormatYAML encodes templates as YAML with long-form intrinsics.
	FormatYAML
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return 0, errors.Newf("unsupported template extension %q", filepath.Ext(path))
	}
}

// Parse reads a JSON or YAML template. The template must have a Resources
// section.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, errors.New("invalid template document")
	}

	root, err := DecodeNode(node.Content[0])
	if err != nil {
		return nil, err
	}
	rootMap, ok := root.(*Map)
	if !ok {
		return nil, errors.New("template root is not a mapping")
	}

	d := &Document{
		Resources: &Resources{},
		Outputs:   NewMap(),
		sections:  NewMap(),
	}
	for k, v := range rootMap.All() {
		switch k {
		case sectionResources:
			resources, ok := v.(*Map)
			if !ok {
				return nil, errors.New("Resources is not a mapping")
			}
			for id, rv := range resources.All() {
				res, err := resourceFromValue(rv)
				if err != nil {
					return nil, errors.Wrapf(err, "in Resources.%s", id)
				}
				d.Resources.Set(id, res)
			}
			d.sections.Set(k, nil)
		case sectionOutputs:
			outputs, ok := v.(*Map)
			if !ok && v != nil {
				return nil, errors.New("Outputs is not a mapping")
			}
			if outputs != nil {
				d.Outputs = outputs
			}
			d.sections.Set(k, nil)
		default:
			d.sections.Set(k, v)
		}
	}

	if !d.sections.Has(sectionResources) {
		return nil, errors.New("template has no Resources section")
	}
	return d, nil
}

// Encode renders the document in the given format.
func (d *Document) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(err, "encoding template JSON")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, errors.Wrap(err, "encoding template YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding template YAML")
		}
	default:
		return nil, errors.Newf("unknown format %d", format)
	}
	return buf.Bytes(), nil
}

// DecodeNode converts a YAML node into template values: *Map for mappings,
// []any for sequences and plain scalars otherwise. Short-form intrinsic tags
// are expanded, e.g. "!GetAtt Log.Arn" becomes {"Fn::GetAtt": ["Log", "Arn"]}.
func DecodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return DecodeNode(n.Content[0])
	case yaml.AliasNode:
		return DecodeNode(n.Alias)
	}

	if fn, ok := intrinsicName(n.Tag); ok {
		inner := *n
		inner.Tag = ""
		val, err := DecodeNode(&inner)
		if err != nil {
			return nil, err
		}
		if s, ok := val.(string); ok && fn == "Fn::GetAtt" {
			if res, attr, found := strings.Cut(s, "."); found {
				val = []any{res, attr}
			}
		}
		m := NewMap()
		m.Set(fn, val)
		return m, nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i < len(n.Content)-1; i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, errors.Newf("line %d: mapping key is not a scalar", key.Line)
			}
			if key.Tag == "!!merge" {
				return nil, errors.Newf("line %d: merge keys are not supported", key.Line)
			}
			val, err := DecodeNode(n.Content[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "in %s", key.Value)
			}
			m.Set(key.Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			val, err := DecodeNode(item)
			if err != nil {
				return nil, errors.Wrapf(err, "in [%d]", i)
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return v, nil
	default:
		return nil, errors.Newf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func intrinsicName(tag string) (string, bool) {
	if len(tag) < 2 || tag[0] != '!' || tag[1] == '!' {
		return "", false
	}
	name := tag[1:]
	switch name {
	case "Ref", "Condition":
		return name, true
	default:
		return "Fn::" + name, true
	}
}
