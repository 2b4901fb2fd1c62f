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

// Package compose is the Composer: it union-mounts N Declaration Model
// trees into a single composed scope tree, enforcing the "exactly one
// base, or all holes, or all endomorphisms" arity law for every name.
package compose

import (
	"github.com/negz/mixin/pkg/declare"
	"github.com/negz/mixin/pkg/path"
)

// A Kind classifies what a composed Binding resolves to.
type Kind int

const (
	// Concrete bindings have exactly one Base and zero or more Patches;
	// the Evaluator forces them by invoking the Base then the Patches.
	Concrete Kind = iota
	// Parameter bindings have no Base: either they are composed entirely
	// of Holes (Extern is true), or entirely of Patches every one of
	// which was declared Endomorphism (Extern is false). Either way, the
	// name becomes a value the enclosing scope must be called with.
	Parameter
)

// A Binding is the per-name outcome of composition (spec's "Composed
// Binding").
type Binding struct {
	// Name is the identifier this binding occupies in its scope.
	Name string

	Kind Kind

	// Variant is Resource or Aggregate, meaningful only when Kind is
	// Concrete; it selects how Patches feed the Base (chained vs
	// collected-and-reduced).
	Variant declare.Variant

	// Base is the single base contribution, set only when Kind is
	// Concrete.
	Base declare.Contribution

	// Patches is every Patch/PatchMany contribution to this name, in
	// declaration order across the union-mounted inputs.
	Patches []declare.Contribution

	// Extern is true when this Parameter binding arose from Hole
	// contributions (required from outside with no transformation);
	// false when it arose from endomorphism-only Patches (the caller
	// supplies the initial value the Patches are applied to).
	Extern bool

	// Eager is true if any contribution to Name requested eager
	// evaluation.
	Eager bool

	// Published is true if any contribution to Name requested
	// publication, or, under WithPublishedOnlyIfDeclared, if the Base
	// itself requested it.
	Published bool

	// InsertionIndex is the position Name first appeared at during
	// union, used to break ties among independent eager bindings (spec
	// §4.5/§5).
	InsertionIndex int

	// Contributors names, for diagnostics, every source declaration that
	// contributed to this name, as "decl#<i>" where i is the declaration's
	// index among the inputs unioned at this node.
	Contributors []string
}

// A Node is one position in the composed scope tree.
type Node struct {
	Name   string
	Path   path.Path
	Parent *Node

	Children   map[string]*Node
	ChildOrder []string

	Bindings   map[string]*Binding
	BindOrder  []string

	// Factory marks this node as a per-call factory: calling its
	// Evaluator-side Scope produces a fresh Instance Scope.
	Factory bool
}

// Child looks up a direct child by name, honoring only this node's own
// children (no lexical climb) - used by literal Path navigation.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.Children[name]
	return c, ok
}

// Binding looks up a direct binding by name.
func (n *Node) Binding(name string) (*Binding, bool) {
	b, ok := n.Bindings[name]
	return b, ok
}

// Parameters returns the names of every Parameter-kind Binding at this
// node: the call signature the Instance Scope Factory validates against.
func (n *Node) Parameters() []string {
	var params []string
	for _, name := range n.BindOrder {
		if n.Bindings[name].Kind == Parameter {
			params = append(params, name)
		}
	}
	return params
}

// Root walks up to the composed tree root.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
