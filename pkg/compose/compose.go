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

package compose

import (
	"fmt"

	"github.com/negz/mixin/pkg/declare"
	"github.com/negz/mixin/pkg/mxerrors"
	"github.com/negz/mixin/pkg/path"
)

// Compose union-mounts decls at the same tree position, producing one
// composed scope tree. Composition is deterministic: the same decls in
// the same order always produce a structurally identical tree.
func Compose(decls []*declare.Scope, opts ...Option) (*Node, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return composeNode("", path.Root(), nil, flatten(decls), o)
}

// flatten resolves every input's Extends relation up front, so the
// recursive union below never has to special-case it.
func flatten(decls []*declare.Scope) []*declare.Scope {
	out := make([]*declare.Scope, len(decls))
	for i, d := range decls {
		out[i] = declare.Lift(d.Name, d.AsSource())
	}
	return out
}

type contribSrc struct {
	c      declare.Contribution
	source int
}

func composeNode(name string, p path.Path, parent *Node, decls []*declare.Scope, o *options) (*Node, error) {
	n := &Node{
		Name:     name,
		Path:     p,
		Parent:   parent,
		Children: map[string]*Node{},
		Bindings: map[string]*Binding{},
	}

	// Reject a single input declaration that names both a child and a
	// contribution the same thing; only cross-declaration collisions may
	// be resolved by "child shadows resource" after union.
	for i, d := range decls {
		childNames := map[string]bool{}
		for _, c := range d.Children {
			childNames[c.Name] = true
		}
		for _, c := range d.Contributions {
			if childNames[c.Name] {
				return nil, &mxerrors.CompositionError{
					Name:         c.Name,
					Path:         p.String(),
					Contributors: []string{fmt.Sprintf("decl#%d", i)},
				}
			}
		}
	}

	// Union children by name: first appearance across inputs sets order.
	childOrder := []string{}
	childInputs := map[string][]*declare.Scope{}
	for _, d := range decls {
		for _, c := range d.Children {
			if _, ok := childInputs[c.Name]; !ok {
				childOrder = append(childOrder, c.Name)
			}
			childInputs[c.Name] = append(childInputs[c.Name], c.Scope)
		}
	}

	for _, cname := range childOrder {
		child, err := composeNode(cname, p.Child(cname), n, flatten(childInputs[cname]), o)
		if err != nil {
			return nil, err
		}
		n.Children[cname] = child
		n.ChildOrder = append(n.ChildOrder, cname)
		if cname == declare.ImpliedFactoryName {
			child.Factory = true
		}
	}

	// Union contributions by name: concatenate preserving source order,
	// skipping any name a child already shadows.
	contribOrder := []string{}
	contribInputs := map[string][]contribSrc{}
	for i, d := range decls {
		for _, c := range d.Contributions {
			if _, isChild := n.Children[c.Name]; isChild {
				continue
			}
			if _, ok := contribInputs[c.Name]; !ok {
				contribOrder = append(contribOrder, c.Name)
			}
			contribInputs[c.Name] = append(contribInputs[c.Name], contribSrc{c: c, source: i})
		}
	}

	for idx, cname := range contribOrder {
		b, err := buildBinding(cname, contribInputs[cname], idx, p, o.publishedOnlyIfDeclared)
		if err != nil {
			return nil, err
		}
		n.Bindings[cname] = b
		n.BindOrder = append(n.BindOrder, cname)
	}

	for _, d := range decls {
		if d.Factory {
			n.Factory = true
		}
	}

	o.log.Debug("composed scope", "path", p.String(), "children", len(n.Children), "bindings", len(n.Bindings))
	return n, nil
}

func buildBinding(name string, srcs []contribSrc, insertionIndex int, scopePath path.Path, publishedOnlyIfDeclared bool) (*Binding, error) {
	var bases, holes, patches []contribSrc
	for _, s := range srcs {
		switch s.c.Variant {
		case declare.Resource, declare.Aggregate:
			bases = append(bases, s)
		case declare.Extern:
			holes = append(holes, s)
		case declare.Patch, declare.PatchMany:
			patches = append(patches, s)
		}
	}

	b := &Binding{
		Name:           name,
		InsertionIndex: insertionIndex,
	}
	for _, s := range srcs {
		if s.c.Eager {
			b.Eager = true
		}
		if !publishedOnlyIfDeclared && s.c.Published {
			b.Published = true
		}
		b.Contributors = append(b.Contributors, fmt.Sprintf("decl#%d", s.source))
	}
	if publishedOnlyIfDeclared && len(bases) == 1 && bases[0].c.Published {
		b.Published = true
	}

	switch {
	case len(bases) == 1:
		b.Kind = Concrete
		b.Variant = bases[0].c.Variant
		b.Base = bases[0].c
		for _, s := range patches {
			b.Patches = append(b.Patches, s.c)
		}
		return b, nil

	case len(bases) == 0 && len(holes) >= 1 && len(patches) == 0:
		b.Kind = Parameter
		b.Extern = true
		return b, nil

	case len(bases) == 0 && len(holes) == 0 && len(patches) >= 1 && allEndomorphic(patches):
		b.Kind = Parameter
		b.Extern = false
		for _, s := range patches {
			b.Patches = append(b.Patches, s.c)
		}
		return b, nil

	default:
		return nil, &mxerrors.CompositionError{
			Name:         name,
			Path:         scopePath.String(),
			Contributors: b.Contributors,
			Bases:        len(bases),
			Patches:      len(patches),
			Holes:        len(holes),
		}
	}
}

func allEndomorphic(patches []contribSrc) bool {
	for _, s := range patches {
		if !s.c.Endomorphism {
			return false
		}
	}
	return true
}
