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

package evaluate

import (
	"context"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/negz/mixin/pkg/mxerrors"
	"github.com/negz/mixin/pkg/path"
	"github.com/negz/mixin/pkg/resolve"
)

// Error strings.
const (
	errFmtProxyAlreadyNamesResource  = "proxy already names resource %q; it cannot be navigated further"
	errFmtProxyNamesScope            = "proxy at %s names a scope, not a resource; navigate onto a resource name before forcing"
	errFmtProxyNamesResourceNotScope = "proxy names resource %q, not a scope"
)

// A Proxy is an opaque, navigable handle into the composed tree. It is
// injected as a parameter value for proxy-requested parameters (the
// "uncle search" rule), and a Base, Patch or Aggregator body may also
// return one to make its binding a transparent symbolic link to another
// name.
//
// A Proxy names either a scope (further navigable, not yet forceable) or,
// once Navigate has walked onto a terminal binding, a specific resource
// within that scope (forceable, not further navigable).
type Proxy struct {
	scope *Scope
	name  string
}

// Navigate descends one step: into a child scope, or onto one of the
// current scope's own bindings if name is not also a child. Navigating
// past a binding (name already set) is an error - a Proxy identifies
// exactly one scope or one resource, never both.
func (p *Proxy) Navigate(name string) (*Proxy, error) {
	if p.name != "" {
		return nil, errors.Errorf(errFmtProxyAlreadyNamesResource, p.name)
	}
	if _, ok := p.scope.node.Child(name); ok {
		return &Proxy{scope: p.scope.childScope(name)}, nil
	}
	if _, ok := p.scope.node.Binding(name); ok {
		return &Proxy{scope: p.scope, name: name}, nil
	}
	return nil, &mxerrors.UnresolvedNameError{Name: name, Origin: p.scope.node.Path.String()}
}

// NavigatePath walks a literal Path, which never climbs lexically, from
// this proxy's current scope.
func (p *Proxy) NavigatePath(pth path.Path) (*Proxy, error) {
	if p.name != "" {
		return nil, errors.Errorf(errFmtProxyAlreadyNamesResource, p.name)
	}
	res, err := resolve.NavigatePath(p.scope.node, pth)
	if err != nil {
		return nil, err
	}
	switch res.Kind {
	case resolve.ResultChild:
		return &Proxy{scope: p.scope.realize(res.ChildNode)}, nil
	default:
		return &Proxy{scope: p.scope.realize(res.OwnerNode), name: pth.Names[len(pth.Names)-1]}, nil
	}
}

// Force resolves this proxy to a value. It is an error to Force a proxy
// that currently names a scope rather than a resource; navigate onto a
// resource name first.
func (p *Proxy) Force(ctx context.Context) (any, error) {
	if p.name == "" {
		return nil, errors.Errorf(errFmtProxyNamesScope, p.scope.node.Path)
	}
	return p.scope.force(ctx, p.name)
}

// Resource is a convenience for Navigate(name) followed by Force.
func (p *Proxy) Resource(ctx context.Context, name string) (any, error) {
	next, err := p.Navigate(name)
	if err != nil {
		return nil, err
	}
	return next.Force(ctx)
}

// Scope returns the live Scope this proxy currently points at, forcing
// eager bindings as if it had just been called with no arguments. It is
// only meaningful when the proxy still names a scope.
func (p *Proxy) Scope(ctx context.Context) (*Scope, error) {
	if p.name != "" {
		return nil, errors.Errorf(errFmtProxyNamesResourceNotScope, p.name)
	}
	return p.scope.Call(ctx, nil)
}
