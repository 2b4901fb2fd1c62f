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

// Package mxerrors defines the structured error kinds the core signals:
// composition arity violations, unresolved names, cyclic dependencies and
// missing call parameters.
package mxerrors

import "fmt"

// A CompositionError is returned when the Composer finds a name whose
// contributions do not satisfy the "exactly one base, or all holes, or all
// endomorphisms" arity law.
type CompositionError struct {
	// Name is the offending contribution name.
	Name string

	// Path is the scope path ("/" separated) at which the name was being
	// composed.
	Path string

	// Contributors identifies, by source index, every declaration that
	// contributed to Name.
	Contributors []string

	// Bases, Patches and Holes are the arity counts the Composer observed.
	Bases, Patches, Holes int
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition error at %s.%s: %d base(s), %d patch(es), %d hole(s) from %v",
		e.Path, e.Name, e.Bases, e.Patches, e.Holes, e.Contributors)
}

// An UnresolvedNameError is returned when the Resolver cannot bind an
// identifier by walking the ancestor chain to the root.
type UnresolvedNameError struct {
	// Name is the identifier that failed to resolve.
	Name string

	// Origin is the path of the scope the lookup started from.
	Origin string

	// Searched is the ordered list of ancestor scope paths that were
	// consulted before giving up.
	Searched []string
}

func (e *UnresolvedNameError) Error() string {
	return fmt.Sprintf("unresolved name %q from %s (searched %v)", e.Name, e.Origin, e.Searched)
}

// A CycleError is returned when evaluating a name requires re-entering a
// binding that is already in progress.
type CycleError struct {
	// Cycle is the chain of "scopePath.name" entries visited, in encounter
	// order, ending with the name that closed the cycle.
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %v", e.Cycle)
}

// A MissingParameterError is returned when a scope is called without
// supplying every name its composed binding requires.
type MissingParameterError struct {
	// Scope is the path of the scope that was called.
	Scope string

	// Missing lists the required names that were not supplied.
	Missing []string

	// Unexpected lists supplied names the scope does not accept.
	Unexpected []string
}

func (e *MissingParameterError) Error() string {
	switch {
	case len(e.Unexpected) > 0 && len(e.Missing) > 0:
		return fmt.Sprintf("calling %s: missing %v, unexpected %v", e.Scope, e.Missing, e.Unexpected)
	case len(e.Unexpected) > 0:
		return fmt.Sprintf("calling %s: unexpected parameter(s) %v", e.Scope, e.Unexpected)
	default:
		return fmt.Sprintf("calling %s: missing required parameter(s) %v", e.Scope, e.Missing)
	}
}

// A BodyError wraps an error raised by a Base, Patch or Aggregator body
// during invocation, identifying which contribution raised it. The core
// caches BodyErrors in a Failed memo entry so repeated access yields the
// same error rather than re-invoking the body.
type BodyError struct {
	// Scope is the path of the scope the contribution belongs to.
	Scope string

	// Name is the contribution name that raised the error.
	Name string

	// Err is the underlying error the body returned.
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Scope, e.Name, e.Err)
}

// Unwrap lets callers use errors.Is/errors.As to inspect the underlying
// body error.
func (e *BodyError) Unwrap() error { return e.Err }
