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

// Package evaluate is the Evaluator and Instance Scope Factory: lazy,
// memoized forcing of composed bindings, the symlink rule for
// Proxy-valued results, eager pre-warming, and the per-call factory that
// produces Instance Scopes.
package evaluate

import (
	"context"
	"sync"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/negz/mixin/pkg/compose"
	"github.com/negz/mixin/pkg/declare"
	"github.com/negz/mixin/pkg/mxerrors"
	"github.com/negz/mixin/pkg/resolve"
)

// Error strings.
const (
	errFmtUnrecognisedVariant = "binding %q: unrecognised variant"
	errFmtNotAFactory         = "parameter %q at %s names scope %q, which is not a factory; request it with ProxyParam to navigate it explicitly"
	errMergePatchOutput       = "cannot merge patch output onto previous value"
)

// A Factory is what gets injected for a parameter that lexically resolves
// to a factory child scope: calling it produces a fresh Instance Scope.
type Factory func(ctx context.Context, args map[string]any) (*Scope, error)

type memoEntry struct {
	value any
	err   error
}

// A Scope is the live, evaluatable counterpart of a composed compose.Node.
// Every composed Node has exactly one canonical Scope, created once by
// Evaluate and reused for every access; calling a Scope produces an
// independent Instance Scope that shares the canonical Scope's lexical
// parent but starts with an empty memo of its own.
type Scope struct {
	node   *compose.Node
	parent *Scope
	rt     *runtime
	id     string

	childMu    sync.Mutex
	childCache map[string]*Scope

	memoMu sync.Mutex
	memo   map[string]*memoEntry

	sf singleflight.Group
}

func newScope(n *compose.Node, parent *Scope, rt *runtime) *Scope {
	return &Scope{
		node:       n,
		parent:     parent,
		rt:         rt,
		id:         uuid.NewString(),
		childCache: map[string]*Scope{},
		memo:       map[string]*memoEntry{},
	}
}

// Path renders this scope's position in the composed tree, for diagnostics.
func (s *Scope) Path() string { return s.node.Path.String() }

// ID is a unique identifier for this Scope, stable for its lifetime.
// Instance Scopes each get a distinct ID even when they share a node.
func (s *Scope) ID() string { return s.id }

// Get forces and returns the value of one of this scope's own Published
// bindings. Unlike internal parameter resolution, Get never climbs the
// lexical chain and never reaches an unpublished name - publication gates
// only the external API surface.
func (s *Scope) Get(ctx context.Context, name string) (any, error) {
	b, ok := s.node.Binding(name)
	if !ok || !b.Published {
		return nil, &mxerrors.UnresolvedNameError{Name: name, Origin: s.node.Path.String()}
	}
	return s.force(ctx, name)
}

// childScope lazily creates and caches the Scope for one of this scope's
// direct children. The same *Scope is returned for every subsequent call
// with the same name, on the same Scope receiver.
func (s *Scope) childScope(name string) *Scope {
	s.childMu.Lock()
	defer s.childMu.Unlock()
	if c, ok := s.childCache[name]; ok {
		return c
	}
	n, ok := s.node.Child(name)
	if !ok {
		return nil
	}
	c := newScope(n, s, s.rt)
	s.childCache[name] = c
	return c
}

// realize maps an arbitrary compose.Node, reached via resolve.Lookup,
// resolve.LookupProxy or resolve.NavigatePath, back to the live Scope that
// owns its memo. It works uphill or downhill of s: it climbs s's own
// lexical parent chain until it finds a scope whose node is an ancestor of
// (or equal to) n, then descends through childScope for the remainder of
// n's path. Climbing via parent pointers - rather than n.Parent directly -
// is what lets an Instance Scope's own subtree resolve against its
// independent memo while still sharing the outer composed tree with its
// canonical sibling.
func (s *Scope) realize(n *compose.Node) *Scope {
	if s.node == n {
		return s
	}
	for a := s; a != nil; a = a.parent {
		if isAncestorOrSelf(a.node, n) {
			return a.descendTo(n)
		}
	}
	return nil
}

func (s *Scope) descendTo(n *compose.Node) *Scope {
	cur := s
	for _, name := range n.Path.Names[len(s.node.Path.Names):] {
		cur = cur.childScope(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func isAncestorOrSelf(ancestor, n *compose.Node) bool {
	if len(n.Path.Names) < len(ancestor.Path.Names) {
		return false
	}
	for i, name := range ancestor.Path.Names {
		if n.Path.Names[i] != name {
			return false
		}
	}
	return true
}

// cycleKey carries the in-progress "scope.name" call stack of the current
// force chain through context.Context, so reentrant evaluation (the same
// name, on the same call stack) is distinguished from merely concurrent
// evaluation of the same name from unrelated goroutines (collapsed instead
// by singleflight below).
type cycleKey struct{}

// force evaluates and memoizes name, which must be a binding this scope
// owns directly (the caller - buildArgs or Get - is responsible for
// resolving which scope that is). Concurrent callers for the same name on
// this Scope collapse onto a single invocation; reentrant callers (the same
// name already on the current call stack) fail with a CycleError instead
// of deadlocking or silently recomputing.
func (s *Scope) force(ctx context.Context, name string) (any, error) {
	frame := s.node.Path.String() + "." + name
	stack, _ := ctx.Value(cycleKey{}).([]string)
	for _, f := range stack {
		if f == frame {
			return nil, &mxerrors.CycleError{Cycle: append(append([]string{}, stack...), frame)}
		}
	}

	if v, err, ok := s.memoLookup(name); ok {
		return v, err
	}

	s.rt.log.Debug("Forcing binding", "scope", s.node.Path.String(), "name", name)

	next := append(append([]string{}, stack...), frame)
	ctx = context.WithValue(ctx, cycleKey{}, next)

	v, err, _ := s.sf.Do(name, func() (any, error) {
		if v, err, ok := s.memoLookup(name); ok {
			return v, err
		}

		b, ok := s.node.Binding(name)
		if !ok {
			err := &mxerrors.UnresolvedNameError{Name: name, Origin: s.node.Path.String()}
			s.store(name, nil, err)
			return nil, err
		}

		val, err := s.invoke(ctx, name, b)
		if err != nil {
			s.store(name, nil, err)
			return nil, err
		}

		// Symlink rule: a Proxy returned as a binding's value is resolved
		// once here, and the resolved target - not the Proxy wrapper - is
		// what gets memoized.
		if p, ok := val.(*Proxy); ok {
			target, err := p.Force(ctx)
			if err != nil {
				s.store(name, nil, err)
				return nil, err
			}
			val = target
		}

		s.store(name, val, nil)
		return val, nil
	})
	return v, err
}

func (s *Scope) memoLookup(name string) (any, error, bool) {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	e, ok := s.memo[name]
	if !ok {
		return nil, nil, false
	}
	return e.value, e.err, true
}

func (s *Scope) store(name string, v any, err error) {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	s.memo[name] = &memoEntry{value: v, err: err}
}

func (s *Scope) invoke(ctx context.Context, name string, b *compose.Binding) (any, error) {
	if b.Kind == compose.Parameter {
		return nil, &mxerrors.MissingParameterError{Scope: s.node.Path.String(), Missing: []string{name}}
	}

	switch b.Variant {
	case declare.Resource:
		args, err := s.buildArgs(ctx, b.Base)
		if err != nil {
			return nil, s.wrapBody(name, err)
		}
		v, err := b.Base.Base(ctx, args)
		if err != nil {
			return nil, s.wrapBody(name, err)
		}
		v, err = s.applyPatches(ctx, v, b.Patches)
		if err != nil {
			return nil, s.wrapBody(name, err)
		}
		return v, nil

	case declare.Aggregate:
		var elements []any
		for _, p := range b.Patches {
			args, err := s.buildArgs(ctx, p)
			if err != nil {
				return nil, s.wrapBody(name, err)
			}
			switch p.Variant {
			case declare.Patch:
				v, err := p.Patch(ctx, nil, args)
				if err != nil {
					return nil, s.wrapBody(name, err)
				}
				elements = append(elements, v)
			case declare.PatchMany:
				vs, err := p.PatchMany(ctx, nil, args)
				if err != nil {
					return nil, s.wrapBody(name, err)
				}
				elements = append(elements, vs...)
			}
		}
		args, err := s.buildArgs(ctx, b.Base)
		if err != nil {
			return nil, s.wrapBody(name, err)
		}
		v, err := b.Base.Aggregator(ctx, elements, args)
		if err != nil {
			return nil, s.wrapBody(name, err)
		}
		return v, nil

	default:
		return nil, errors.Errorf(errFmtUnrecognisedVariant, name)
	}
}

func (s *Scope) wrapBody(name string, err error) error {
	switch err.(type) {
	case *mxerrors.UnresolvedNameError, *mxerrors.CycleError, *mxerrors.MissingParameterError, *mxerrors.BodyError:
		return err
	}
	return &mxerrors.BodyError{Scope: s.node.Path.String(), Name: name, Err: err}
}

// applyPatches threads previous through an ordered chain of Patch/PatchMany
// contributions. When both the running value and a patch's output are
// map[string]any, the output is deep-merged
// onto the running value (overriding its own keys, preserving the rest)
// rather than replacing it outright, so a patch only has to mention the
// fields it adds or changes.
func (s *Scope) applyPatches(ctx context.Context, previous any, patches []declare.Contribution) (any, error) {
	cur := previous
	for _, p := range patches {
		args, err := s.buildArgs(ctx, p)
		if err != nil {
			return nil, err
		}
		switch p.Variant {
		case declare.Patch:
			v, err := p.Patch(ctx, cur, args)
			if err != nil {
				return nil, err
			}
			cur, err = mergeValue(cur, v)
			if err != nil {
				return nil, err
			}
		case declare.PatchMany:
			vs, err := p.PatchMany(ctx, cur, args)
			if err != nil {
				return nil, err
			}
			for _, v := range vs {
				cur, err = mergeValue(cur, v)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return cur, nil
}

func mergeValue(prev, next any) (any, error) {
	prevMap, prevOK := prev.(map[string]any)
	nextMap, nextOK := next.(map[string]any)
	if !prevOK || !nextOK {
		return next, nil
	}
	merged := make(map[string]any, len(prevMap))
	for k, v := range prevMap {
		merged[k] = v
	}
	if err := mergo.Merge(&merged, nextMap, mergo.WithOverride()); err != nil {
		return nil, errors.Wrap(err, errMergePatchOutput)
	}
	return merged, nil
}

// buildArgs assembles the Args bag for one contribution's invocation,
// resolving each declared parameter by name through the Resolver and
// either forcing it (ResultBinding), wrapping it in a Proxy
// (proxy-requested parameters, via the uncle-search rule), or injecting a
// Factory closure (a parameter that names a factory child scope).
func (s *Scope) buildArgs(ctx context.Context, c declare.Contribution) (declare.Args, error) {
	if len(c.Params) == 0 {
		return nil, nil
	}

	args := declare.Args{}
	for _, param := range c.Params {
		if c.ProxyParams[param] {
			child, err := resolve.LookupProxy(s.node, param)
			if err != nil {
				return nil, err
			}
			args[param] = &Proxy{scope: s.realize(child)}
			continue
		}

		selfShadow := param == c.Name
		res, err := resolve.Lookup(s.node, param, selfShadow)
		if err != nil {
			return nil, err
		}

		switch res.Kind {
		case resolve.ResultChild:
			if !res.ChildNode.Factory {
				return nil, errors.Errorf(errFmtNotAFactory, param, s.node.Path, res.ChildNode.Name)
			}
			args[param] = Factory(s.realize(res.ChildNode).Call)
		case resolve.ResultBinding:
			owner := s.realize(res.OwnerNode)
			v, err := owner.force(ctx, param)
			if err != nil {
				return nil, err
			}
			args[param] = v
		}
	}
	return args, nil
}

// forceEager walks this scope's own eager bindings in composer insertion
// order, forcing each in turn, then recurses into every non-factory
// child. Factory children are never descended into here: their bindings
// only come alive once the factory is called.
func (s *Scope) forceEager(ctx context.Context) error {
	forced := 0
	for _, name := range s.node.BindOrder {
		if !s.node.Bindings[name].Eager {
			continue
		}
		if _, err := s.force(ctx, name); err != nil {
			return err
		}
		forced++
	}
	if forced > 0 {
		s.rt.log.Info("Forced eager bindings", "scope", s.node.Path.String(), "count", forced)
	}
	for _, cname := range s.node.ChildOrder {
		if s.node.Children[cname].Factory {
			continue
		}
		if err := s.childScope(cname).forceEager(ctx); err != nil {
			return err
		}
	}
	return nil
}
