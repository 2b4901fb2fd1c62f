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

// Package mixin is the top-level facade over the Declaration Model,
// Composer, Resolver and Evaluator: build scopes with a Builder, Evaluate
// them, and Call the result to get a usable Scope. Everything here is a
// thin re-export of pkg/declare and pkg/evaluate, plus two helpers wiring
// pkg/graphviz and internal/fsview, kept together so that a caller who
// only wants the public surface never has to import the sub-packages
// directly.
package mixin

import (
	"io"

	"github.com/spf13/afero"

	"github.com/negz/mixin/internal/fsview"
	"github.com/negz/mixin/pkg/declare"
	"github.com/negz/mixin/pkg/evaluate"
	"github.com/negz/mixin/pkg/graphviz"
)

// A Scope is a declaration - a scope and its contributions and children -
// before composition. Build one with NewBuilder.
type Scope = declare.Scope

// A Builder assembles a Scope declaration by hand.
type Builder = declare.Builder

// Args is the by-name argument bag a Base, Patch or Aggregator body is
// invoked with.
type Args = declare.Args

// NewBuilder starts building a scope declaration named name.
func NewBuilder(name string) *Builder { return declare.NewBuilder(name) }

// Eager, Published, Endomorphic and ProxyParam are ContribOptions, used
// with a Builder's Resource/Aggregate/Patch/PatchMany/Extern methods.
var (
	Eager       = declare.Eager
	Published   = declare.Published
	Endomorphic = declare.Endomorphic
	ProxyParam  = declare.ProxyParam
)

// An EvaluatedScope is a live, evaluatable scope: the result of calling an
// Evaluate Result, or of calling a factory child scope reached through one.
type EvaluatedScope = evaluate.Scope

// A Proxy is a navigable, lazily-forceable handle into the composed tree.
type Proxy = evaluate.Proxy

// A Factory produces a fresh Instance Scope when called.
type Factory = evaluate.Factory

// An Option configures Evaluate.
type Option = evaluate.Option

// WithLogger and WithPublishedOnlyIfDeclared configure Evaluate.
var (
	WithLogger                  = evaluate.WithLogger
	WithPublishedOnlyIfDeclared = evaluate.WithPublishedOnlyIfDeclared
)

// A Result is Evaluate's callable handle: call it, with or without
// arguments, to obtain a usable EvaluatedScope.
type Result = evaluate.Result

// Evaluate composes decls into one scope tree and returns a Result. Call
// the Result to obtain a usable EvaluatedScope.
func Evaluate(decls []*Scope, opts ...Option) (Result, error) {
	return evaluate.Evaluate(decls, opts...)
}

// WriteGraph renders res's composed tree as a Graphviz "dot" graph.
func WriteGraph(w io.Writer, res Result) error {
	return graphviz.Write(w, res.Graph())
}

// FS presents res's composed tree as a read-only afero.Fs: scopes are
// directories, bindings are files.
func FS(res Result) afero.Fs {
	return fsview.New(res.Graph())
}
