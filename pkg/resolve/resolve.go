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

// Package resolve is the Resolver: lexical lookup of an identifier along
// the ancestor chain of a composed scope tree, with the self-shadow skip
// rule, the proxy "uncle search" rule, and literal Path navigation (which
// never climbs lexically).
package resolve

import (
	"github.com/negz/mixin/pkg/compose"
	"github.com/negz/mixin/pkg/mxerrors"
	"github.com/negz/mixin/pkg/path"
)

// A ResultKind tells the caller whether a Lookup landed on a child scope
// or on a bound resource.
type ResultKind int

const (
	// ResultChild means the name resolved to a nested scope. Child scopes
	// always shadow same-named contributions in the same scope.
	ResultChild ResultKind = iota
	// ResultBinding means the name resolved to a composed Binding owned
	// by OwnerNode.
	ResultBinding
)

// A Result is what Lookup or NavigatePath found.
type Result struct {
	Kind ResultKind

	// ChildNode is set when Kind is ResultChild.
	ChildNode *compose.Node

	// OwnerNode and Binding are set when Kind is ResultBinding: OwnerNode
	// is the ancestor scope that owns the binding (the scope lexical
	// lookup actually walked to), which may differ from the scope the
	// lookup started from.
	OwnerNode *compose.Node
	Binding   *compose.Binding
}

// Lookup resolves name starting from start, walking ancestors to the
// root. If selfShadow is true (the lookup originates from a contribution
// body whose own name equals name), start's own child/binding named name
// is skipped and the search begins at start.Parent instead.
func Lookup(start *compose.Node, name string, selfShadow bool) (Result, error) {
	first := start
	if selfShadow {
		first = start.Parent
	}

	var searched []string
	for a := first; a != nil; a = a.Parent {
		searched = append(searched, a.Path.String())
		if child, ok := a.Child(name); ok {
			return Result{Kind: ResultChild, ChildNode: child}, nil
		}
		if b, ok := a.Binding(name); ok {
			return Result{Kind: ResultBinding, OwnerNode: a, Binding: b}, nil
		}
	}

	return Result{}, &mxerrors.UnresolvedNameError{
		Name:     name,
		Origin:   start.Path.String(),
		Searched: searched,
	}
}

// LookupProxy implements the "uncle search" rule for a proxy-requested
// parameter: it walks ancestors of start looking for the first scope that
// itself directly contains a child named name (never a resource with that
// name), and returns that child so the caller can wrap it in a Proxy.
func LookupProxy(start *compose.Node, name string) (*compose.Node, error) {
	for a := start; a != nil; a = a.Parent {
		if child, ok := a.Child(name); ok {
			return child, nil
		}
	}
	return nil, &mxerrors.UnresolvedNameError{
		Name:   name,
		Origin: start.Path.String(),
	}
}

// NavigatePath follows a literal Path from start: it starts from the
// absolute root if p is absolute, or from start after p.Up ancestor hops
// otherwise, and at each remaining
// step looks a name up only in that node's direct children/bindings -
// never climbing lexically.
func NavigatePath(start *compose.Node, p path.Path) (Result, error) {
	cur := start
	if p.Absolute {
		cur = start.Root()
	} else {
		for i := 0; i < p.Up; i++ {
			if cur.Parent == nil {
				return Result{}, &mxerrors.UnresolvedNameError{
					Name:   p.String(),
					Origin: start.Path.String(),
				}
			}
			cur = cur.Parent
		}
	}

	if len(p.Names) == 0 {
		return Result{Kind: ResultChild, ChildNode: cur}, nil
	}

	for i, name := range p.Names {
		last := i == len(p.Names)-1

		if child, ok := cur.Child(name); ok {
			cur = child
			continue
		}
		if b, ok := cur.Binding(name); ok {
			if !last {
				return Result{}, &mxerrors.UnresolvedNameError{
					Name:   p.String(),
					Origin: start.Path.String(),
				}
			}
			return Result{Kind: ResultBinding, OwnerNode: cur, Binding: b}, nil
		}
		return Result{}, &mxerrors.UnresolvedNameError{
			Name:   name,
			Origin: cur.Path.String(),
		}
	}

	return Result{Kind: ResultChild, ChildNode: cur}, nil
}
