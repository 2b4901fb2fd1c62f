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

package declare

import "testing"

func TestLiftFlattensExtends(t *testing.T) {
	base := NewBuilder("base").Resource("a", nil, noopBase)
	extended := NewBuilder("extended").Extend(base).Resource("b", nil, noopBase).Build()

	lifted := Lift("extended", extended.AsSource())

	if len(lifted.Contributions) != 2 {
		t.Fatalf("Contributions = %d, want 2 (a from the extension, then b)", len(lifted.Contributions))
	}
	if lifted.Contributions[0].Name != "a" || lifted.Contributions[1].Name != "b" {
		t.Errorf("Contributions = %v, want [a b]", []string{lifted.Contributions[0].Name, lifted.Contributions[1].Name})
	}
}

func TestLiftPreservesFactoryFlag(t *testing.T) {
	f := NewBuilder("worker").Factory().Build()
	lifted := Lift("worker", f.AsSource())
	if !lifted.Factory {
		t.Error("Lift dropped the explicit Factory flag")
	}
}

func TestLiftRecursesChildren(t *testing.T) {
	child := NewBuilder("child").Resource("x", nil, noopBase)
	root := NewBuilder("root").Child("child", child).Build()

	lifted := Lift("root", root.AsSource())
	if len(lifted.Children) != 1 {
		t.Fatalf("Children = %d, want 1", len(lifted.Children))
	}
	if len(lifted.Children[0].Scope.Contributions) != 1 {
		t.Error("nested child's own contributions were not lifted")
	}
}
