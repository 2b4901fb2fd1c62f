/*
Copyright 2024 The Crossplane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoin(t *testing.T) {
	cases := map[string]struct {
		literal string
		want    Path
	}{
		"Self": {
			literal: ".",
			want:    Path{},
		},
		"Empty": {
			literal: "",
			want:    Path{},
		},
		"Absolute": {
			literal: "/a/b",
			want:    Path{Absolute: true, Names: []string{"a", "b"}},
		},
		"RelativeChild": {
			literal: "a/b",
			want:    Path{Names: []string{"a", "b"}},
		},
		"OneUp": {
			literal: "../a",
			want:    Path{Up: 1, Names: []string{"a"}},
		},
		"TwoUpNoTail": {
			literal: "../..",
			want:    Path{Up: 2},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Join(tc.literal)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Join(%q): -want, +got:\n%s", tc.literal, diff)
			}
		})
	}
}

func TestChildParent(t *testing.T) {
	root := Root()
	child := root.Child("a").Child("b")
	if diff := cmp.Diff(Path{Absolute: true, Names: []string{"a", "b"}}, child); diff != "" {
		t.Errorf("Root().Child(a).Child(b): -want, +got:\n%s", diff)
	}

	back := child.Parent()
	if diff := cmp.Diff(Path{Absolute: true, Names: []string{"a"}}, back); diff != "" {
		t.Errorf("child.Parent(): -want, +got:\n%s", diff)
	}

	rel := Self().Parent()
	if diff := cmp.Diff(Path{Up: 1}, rel); diff != "" {
		t.Errorf("Self().Parent(): -want, +got:\n%s", diff)
	}
}

func TestString(t *testing.T) {
	cases := map[string]struct {
		p    Path
		want string
	}{
		"Self":     {p: Self(), want: "."},
		"Root":     {p: Root(), want: "/"},
		"Absolute": {p: Path{Absolute: true, Names: []string{"a", "b"}}, want: "/a/b"},
		"Up":       {p: Path{Up: 2, Names: []string{"a"}}, want: "../../a"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.p.String(); got != tc.want {
				t.Errorf("String(): got %q, want %q", got, tc.want)
			}
		})
	}
}
