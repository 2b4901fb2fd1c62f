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

// Package path models absolute and relative paths into a composed scope
// tree. A Path is pure data: it carries no reference to any particular
// tree and performs no lookup itself, so that it can be shared between
// the Composer's static output and the Evaluator's navigation logic
// without an import cycle.
package path

import "strings"

// A Path is an ordered sequence of scope names, either absolute (from the
// composed root) or relative (Up ancestor hops followed by Names).
type Path struct {
	// Absolute is true if this path starts from the composed tree root.
	Absolute bool

	// Up is the number of ancestor hops to take before descending into
	// Names. It is only meaningful when Absolute is false.
	Up int

	// Names is the sequence of child names to descend into after the
	// starting point (root, for an absolute path; Up ancestors up, for a
	// relative one) is established.
	Names []string
}

// Root is the absolute path identifying the composed tree's root scope.
func Root() Path { return Path{Absolute: true} }

// Self is the relative path identifying the current scope.
func Self() Path { return Path{} }

// Child returns a copy of p with name appended to its Names.
func (p Path) Child(name string) Path {
	names := make([]string, len(p.Names), len(p.Names)+1)
	copy(names, p.Names)
	names = append(names, name)
	return Path{Absolute: p.Absolute, Up: p.Up, Names: names}
}

// Parent returns a copy of p with one ancestor hop prepended, or with its
// last Name removed if p already has Names to shed.
func (p Path) Parent() Path {
	if len(p.Names) > 0 {
		return Path{Absolute: p.Absolute, Up: p.Up, Names: p.Names[:len(p.Names)-1]}
	}
	if p.Absolute {
		// Root has no parent; callers should not walk above it.
		return p
	}
	return Path{Up: p.Up + 1}
}

// String renders p using "/" as an absolute-root marker and ".." for each
// ancestor hop, purely for diagnostics.
func (p Path) String() string {
	var b strings.Builder
	switch {
	case p.Absolute:
		b.WriteString("/")
	case p.Up > 0:
		for i := 0; i < p.Up; i++ {
			b.WriteString("../")
		}
	case len(p.Names) == 0:
		return "."
	}
	b.WriteString(strings.Join(p.Names, "/"))
	return b.String()
}

// Join splits a "/"-delimited literal such as "../../a/b" or "/a/b" into a
// Path. It is a convenience for tests and for bodies that build paths from
// string literals; the Evaluator never requires string paths internally.
func Join(literal string) Path {
	if literal == "" || literal == "." {
		return Self()
	}
	if strings.HasPrefix(literal, "/") {
		return Path{Absolute: true, Names: splitNonEmpty(strings.TrimPrefix(literal, "/"))}
	}
	p := Path{}
	rest := literal
	for strings.HasPrefix(rest, "../") {
		p.Up++
		rest = strings.TrimPrefix(rest, "../")
	}
	if rest == ".." {
		p.Up++
		rest = ""
	}
	p.Names = splitNonEmpty(rest)
	return p
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
