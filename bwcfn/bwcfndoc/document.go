// Package bwcfndoc holds the in-progress CloudFormation template that the
// packaging pipeline and the stage compiler mutate.
//
// The document keeps every section in template order so that compiling the
// same configuration twice produces byte-identical output. Templates are read
// from JSON or YAML; CloudFormation short-form tags such as !Ref and !GetAtt
// are expanded to their long form on the way in.
package bwcfndoc

const (
	sectionResources = "Resources"
	sectionOutputs   = "Outputs"
)

// Document is a CloudFormation template with ordered sections.
type Document struct {
	Resources *Resources
	Outputs   *Map

	// sections keeps every top-level key in template order. The values for
	// Resources and Outputs are placeholders; the typed fields win.
	sections *Map
}

// New returns an empty document with Resources and Outputs sections.
func New() *Document {
	d := &Document{
		Resources: &Resources{},
		Outputs:   NewMap(),
		sections:  NewMap(),
	}
	d.sections.Set(sectionResources, nil)
	d.sections.Set(sectionOutputs, nil)
	return d
}

// Section returns a top-level section other than Resources and Outputs, such
// as AWSTemplateFormatVersion or Description.
func (d *Document) Section(name string) (any, bool) {
	switch name {
	case sectionResources:
		return d.Resources, true
	case sectionOutputs:
		return d.Outputs, true
	}
	return d.sections.Get(name)
}

// SetSection stores a top-level section. Resources and Outputs are managed
// through their typed fields and are ignored here.
func (d *Document) SetSection(name string, val any) {
	if name == sectionResources || name == sectionOutputs {
		return
	}
	d.sections.Set(name, val)
}

func (d *Document) root() *Map {
	m := NewMap()
	for k, v := range d.sections.All() {
		switch k {
		case sectionResources:
			m.Set(k, d.Resources)
		case sectionOutputs:
			m.Set(k, d.Outputs)
		default:
			m.Set(k, v)
		}
	}
	if !m.Has(sectionResources) {
		m.Set(sectionResources, d.Resources)
	}
	if !m.Has(sectionOutputs) && d.Outputs.Len() > 0 {
		m.Set(sectionOutputs, d.Outputs)
	}
	return m
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return marshalJSON(d.root())
}

func (d *Document) MarshalYAML() (any, error) {
	return d.root(), nil
}
