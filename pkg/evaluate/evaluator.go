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

	"github.com/negz/mixin/pkg/compose"
	"github.com/negz/mixin/pkg/declare"
)

// Error strings.
const (
	errComposeDeclarations = "cannot compose declarations"
)

// Evaluate composes decls and returns a Result, the top-level callable
// handle. It performs no forcing itself - not even of eager bindings -
// since a scope's call signature may still have required names that
// forcing would need.
func Evaluate(decls []*declare.Scope, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cOpts := []compose.Option{compose.WithLogger(o.log)}
	if o.publishedOnlyIfDeclared {
		cOpts = append(cOpts, compose.WithPublishedOnlyIfDeclared())
	}

	root, err := compose.Compose(decls, cOpts...)
	if err != nil {
		return Result{}, errors.Wrap(err, errComposeDeclarations)
	}

	o.log.Info("composed declarations", "root", root.Path.String())

	return Result{root: newScope(root, nil, &runtime{log: o.log})}, nil
}

// A Result is the callable root Evaluate returns. Calling it - with or
// without arguments, per the composed root's own call signature - yields a
// usable Scope.
type Result struct {
	root *Scope
}

// Call forces eager bindings and returns the composed root scope (if it
// takes no arguments and none are supplied) or a fresh Instance Scope built
// from args.
func (r Result) Call(ctx context.Context, args map[string]any) (*Scope, error) {
	return r.root.Call(ctx, args)
}

// Graph exposes the composed tree's root node, for read-only inspection
// (e.g. pkg/graphviz, internal/fsview) without forcing anything.
func (r Result) Graph() *compose.Node {
	return r.root.node
}
