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

// A NamedSource pairs a nested Source with the child name it should be
// mounted under.
type NamedSource struct {
	Name   string
	Source Source
}

// A Source is the Declaration Source Adapter ingress contract: anything
// exposing ordered contributions, ordered nested sources and ordered
// sibling sources to union-mount ("extends") can be lifted into the
// canonical Scope tree by Lift. Class-shaped, module-shaped and
// package-shaped declarations are all, in a host language that supports
// that reflection, adapters that implement Source; this package does not
// implement that reflection layer, only the interface and the one
// concrete adapter a Go caller actually needs: Builder, whose built *Scope
// speaks Source via AsSource.
type Source interface {
	// ListContributions returns this source's own named contributions, in
	// order.
	ListContributions() []Contribution

	// ListChildren returns this source's own nested sources, in order.
	ListChildren() []NamedSource

	// ListExtends returns sibling sources to union-mount with this one
	// before composition.
	ListExtends() []Source
}

// AsSource adapts an already-built *Scope to the Source interface, so a
// hand-built declaration tree can be fed back through Lift (for example
// when flattening an Extends entry, or re-lifting a Scope a Builder
// produced earlier).
func (s *Scope) AsSource() Source { return scopeSource{s: s} }

type scopeSource struct{ s *Scope }

func (a scopeSource) ListContributions() []Contribution { return a.s.Contributions }

func (a scopeSource) ListChildren() []NamedSource {
	out := make([]NamedSource, 0, len(a.s.Children))
	for _, c := range a.s.Children {
		out = append(out, NamedSource{Name: c.Name, Source: c.Scope.AsSource()})
	}
	return out
}

func (a scopeSource) ListExtends() []Source {
	out := make([]Source, 0, len(a.s.Extends))
	for _, e := range a.s.Extends {
		out = append(out, e.AsSource())
	}
	return out
}

// Lift recursively resolves a Source (flattening its Extends) into the
// canonical Declaration Model tree the Composer consumes. Extension
// declarations are resolved depth-first and their contributions/children
// placed ahead of the source's own.
func Lift(name string, src Source) *Scope {
	s := &Scope{Name: name}

	for _, ext := range src.ListExtends() {
		extScope := Lift(name, ext)
		s.Contributions = append(s.Contributions, extScope.Contributions...)
		s.Children = append(s.Children, extScope.Children...)
	}

	s.Contributions = append(s.Contributions, src.ListContributions()...)
	for _, c := range src.ListChildren() {
		s.Children = append(s.Children, Child{Name: c.Name, Scope: Lift(c.Name, c.Source)})
	}

	if ss, ok := src.(scopeSource); ok {
		s.Factory = ss.s.Factory
	}

	return s
}
