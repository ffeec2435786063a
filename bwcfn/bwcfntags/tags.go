// Package bwcfntags merges the stack-level and resource-level tag maps of a
// service into a single ordered tag list.
package bwcfntags

// Entry is a single tag.
type Entry struct {
	Key   string
	Value string
}

// List is an ordered list of tags. Keys are unique.
type List []Entry

// Get returns the value for key.
func (l List) Get(key string) (string, bool) {
	for _, e := range l {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Merge overlays tags on top of stackTags.
//
// A key keeps the position of the source that introduced it first, while its
// value comes from the last source that set it: tags wins on value but not on
// position. The result is never nil.
func Merge(stackTags, tags List) List {
	merged := make(List, 0, len(stackTags)+len(tags))
	index := make(map[string]int, len(stackTags)+len(tags))

	for _, source := range []List{stackTags, tags} {
		for _, e := range source {
			if i, ok := index[e.Key]; ok {
				merged[i].Value = e.Value
				continue
			}
			index[e.Key] = len(merged)
			merged = append(merged, e)
		}
	}
	return merged
}
