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

// Package declare is an immutable, in-memory representation of a scope
// and its named contributions before composition. It carries no
// resolution or evaluation logic - it is pure data, built either by hand
// with a Builder or lifted from some other Source.
package declare

import "context"

// A Variant identifies the role a Contribution plays in composition.
type Variant int

const (
	// Resource is a Base that produces a value; Patches attached to it are
	// applied sequentially, each wrapping the previous value.
	Resource Variant = iota
	// Aggregate is a Base whose Aggregator reduces every attached Patch's
	// output, collected as a sequence, into a single value.
	Aggregate
	// Patch transforms the previous value of a Resource Base, or
	// contributes one element to an Aggregate Base.
	Patch
	// PatchMany is a Patch that yields a sequence of replacements (against
	// a Resource Base) or a sequence of elements (against an Aggregate
	// Base), in order.
	PatchMany
	// Extern declares that a name must be supplied from outside; it has
	// no body.
	Extern
)

func (v Variant) String() string {
	switch v {
	case Resource:
		return "resource"
	case Aggregate:
		return "aggregate"
	case Patch:
		return "patch"
	case PatchMany:
		return "patch_many"
	case Extern:
		return "extern"
	default:
		return "unknown"
	}
}

// Args is the by-name argument bag a Base, Patch or Aggregator body is
// invoked with. Resolution is purely by name, not by type, so Args is the
// only way a body reads its declared parameters.
type Args map[string]any

// Get returns the value bound to name, or nil if it was never set. A body
// should only call Get with a name it declared as a parameter.
func (a Args) Get(name string) any {
	if a == nil {
		return nil
	}
	return a[name]
}

// A BaseBody produces a value for a Resource contribution. Aggregate
// contributions use an AggregatorBody instead.
type BaseBody func(ctx context.Context, args Args) (any, error)

// A PatchBody transforms the previous value of a Resource Base. previous
// is nil when the patch instead feeds an Aggregate Base, in which case its
// return value is one element of the aggregated sequence.
type PatchBody func(ctx context.Context, previous any, args Args) (any, error)

// A PatchManyBody is a Patch that yields several replacements (against a
// Resource Base, applied in the returned order) or several elements
// (against an Aggregate Base), in one invocation.
type PatchManyBody func(ctx context.Context, previous any, args Args) ([]any, error)

// An AggregatorBody reduces the ordered sequence of values produced by all
// Patches attached to an Aggregate contribution into the contribution's
// final value.
type AggregatorBody func(ctx context.Context, elements []any, args Args) (any, error)

// A Contribution is one named callable participating in composition.
type Contribution struct {
	// Name is the identifier other contributions reference by parameter
	// name, and that this contribution occupies in its enclosing scope's
	// flat child/contribution namespace.
	Name string

	// Variant selects which of Base, Patch, PatchMany or Aggregator below
	// is populated.
	Variant Variant

	// Params is the ordered list of parameter names this contribution's
	// body declares. A name equal to Name is self-shadowing: resolution
	// for it skips this scope's own binding of Name and begins at the
	// parent.
	Params []string

	// ProxyParams is the subset of Params that should be injected as a
	// Proxy rather than a forced value.
	ProxyParams map[string]bool

	// Base is invoked for Variant Resource. For Aggregate the Aggregator
	// reducer described in AggregatorBody's doc is invoked instead - the
	// two are mutually exclusive; exactly one of Base (for Resource) or
	// Aggregator (for Aggregate) is set.
	Base BaseBody

	// Aggregator reduces Patch outputs for an Aggregate contribution.
	Aggregator AggregatorBody

	// Patch is invoked for Variant Patch.
	Patch PatchBody

	// PatchMany is invoked for Variant PatchMany.
	PatchMany PatchManyBody

	// Endomorphism marks a Patch/PatchMany contribution as having the same
	// input/output shape, as the user asserts it - classified by flag,
	// never inferred. It is only consulted by the Composer when a name
	// has no Base and no Extern: every Patch
	// contributing to that name must set this for the name to become an
	// endomorphism-only parameter slot.
	Endomorphism bool

	// Eager forces this contribution to be evaluated as soon as its scope
	// is composed, rather than lazily on first access.
	Eager bool

	// Published marks this contribution visible to callers outside its
	// declaring scope.
	Published bool
}

// A Child names a nested scope declaration.
type Child struct {
	Name  string
	Scope *Scope
}

// A Scope is a named container of Contributions and Children, before
// composition. Scopes are immutable once built: composing the same Scope
// twice must yield identical results.
type Scope struct {
	// Name is this scope's local name; the root scope passed to Evaluate
	// has an empty Name.
	Name string

	// Contributions are this scope's own named contributions, in
	// declaration order.
	Contributions []Contribution

	// Children are this scope's own nested scope declarations, in
	// declaration order.
	Children []Child

	// Extends lists sibling declarations to union-mount with this one
	// before composition (the extend relation). Entries here are
	// flattened by Lift, so the Composer itself never sees Extends.
	Extends []*Scope

	// Factory marks this scope as a per-call factory: calling the
	// composed scope at this position produces a fresh Instance Scope
	// rather than forcing eagerly. By convention a child scope literally
	// named "RequestScope" is treated as a factory even if this flag is
	// left unset; see ImpliedFactoryName.
	Factory bool
}

// ImpliedFactoryName is the conventional child scope name that is treated
// as a factory even when Factory is not explicitly set.
const ImpliedFactoryName = "RequestScope"

// IsFactory reports whether s should be surfaced as a callable factory,
// combining the explicit Factory flag with the RequestScope naming
// convention.
func (s *Scope) IsFactory() bool {
	return s.Factory || s.Name == ImpliedFactoryName
}
