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

import "github.com/crossplane/crossplane-runtime/pkg/logging"

type options struct {
	log                     logging.Logger
	publishedOnlyIfDeclared bool
}

// An Option configures Evaluate.
type Option func(*options)

// WithLogger sets the logger the Evaluator uses for composition and
// evaluation tracing. The default is a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPublishedOnlyIfDeclared is forwarded to the Composer; see
// compose.WithPublishedOnlyIfDeclared.
func WithPublishedOnlyIfDeclared() Option {
	return func(o *options) { o.publishedOnlyIfDeclared = true }
}

func defaultOptions() *options {
	return &options{log: logging.NewNopLogger()}
}

// runtime is shared, immutable configuration threaded through every Scope
// descended from one Evaluate call, including every Instance Scope
// produced by calling a factory.
type runtime struct {
	log logging.Logger
}
