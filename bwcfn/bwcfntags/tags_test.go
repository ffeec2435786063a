package bwcfntags_test

import (
	"testing"

	"github.com/basewarphq/bwstage/bwcfn/bwcfntags"
	"github.com/google/go-cmp/cmp"
)

func TestMerge(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		stackTags bwcfntags.List
		tags      bwcfntags.List
		want      bwcfntags.List
	}{
		{
			name: "both empty",
			want: bwcfntags.List{},
		},
		{
			name:      "stack tags only",
			stackTags: bwcfntags.List{{Key: "foo", Value: "1"}},
			want:      bwcfntags.List{{Key: "foo", Value: "1"}},
		},
		{
			name: "tags only",
			tags: bwcfntags.List{{Key: "foo", Value: "1"}},
			want: bwcfntags.List{{Key: "foo", Value: "1"}},
		},
		{
			name: "tags override stack tags in place",
			stackTags: bwcfntags.List{
				{Key: "foo", Value: "from-stackTags"},
				{Key: "bar", Value: "from-stackTags"},
			},
			tags: bwcfntags.List{
				{Key: "foo", Value: "from-tags"},
				{Key: "buz", Value: "from-tags"},
			},
			want: bwcfntags.List{
				{Key: "foo", Value: "from-tags"},
				{Key: "bar", Value: "from-stackTags"},
				{Key: "buz", Value: "from-tags"},
			},
		},
		{
			name: "tags order does not move existing keys",
			stackTags: bwcfntags.List{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2"},
				{Key: "c", Value: "3"},
			},
			tags: bwcfntags.List{
				{Key: "d", Value: "4"},
				{Key: "c", Value: "30"},
				{Key: "a", Value: "10"},
			},
			want: bwcfntags.List{
				{Key: "a", Value: "10"},
				{Key: "b", Value: "2"},
				{Key: "c", Value: "30"},
				{Key: "d", Value: "4"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := bwcfntags.Merge(tt.stackTags, tt.tags)
			if got == nil {
				t.Fatal("Merge() must never return nil")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	stackTags := bwcfntags.List{{Key: "foo", Value: "stack"}}
	tags := bwcfntags.List{{Key: "foo", Value: "tags"}}

	bwcfntags.Merge(stackTags, tags)

	if stackTags[0].Value != "stack" {
		t.Errorf("stackTags was modified: %v", stackTags)
	}
}

func TestList_Get(t *testing.T) {
	t.Parallel()
	l := bwcfntags.List{{Key: "team", Value: "core"}}
	if v, ok := l.Get("team"); !ok || v != "core" {
		t.Errorf("Get(team) = %q, %v", v, ok)
	}
	if _, ok := l.Get("missing"); ok {
		t.Error("Get(missing) should report absent")
	}
}
