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

// A Builder assembles a *Scope by hand. It is the concrete Declaration
// Source Adapter a Go caller uses directly, made explicit since Go has no
// decorators or class-shaped declarations: a Builder can be mounted as a
// child or an extension of another Builder's scope, and the *Scope it
// builds is a Source (via AsSource) that Lift flattens into one tree.
//
// A Builder is not safe for concurrent use while being built; once handed
// to Lift/compose it is read only.
type Builder struct {
	name    string
	scope   *Scope
	factory bool
}

// NewBuilder starts building a scope declaration named name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, scope: &Scope{Name: name}}
}

// Factory marks the scope under construction as a per-call factory,
// regardless of its name.
func (b *Builder) Factory() *Builder {
	b.factory = true
	return b
}

// Resource adds a Base contribution of variant Resource.
func (b *Builder) Resource(name string, params []string, body BaseBody, opts ...ContribOption) *Builder {
	return b.add(Contribution{Name: name, Variant: Resource, Params: params, Base: body}, opts...)
}

// Aggregate adds a Base contribution of variant Aggregate, whose value is
// the Aggregator's reduction over every Patch contributed to name.
func (b *Builder) Aggregate(name string, params []string, reducer AggregatorBody, opts ...ContribOption) *Builder {
	return b.add(Contribution{Name: name, Variant: Aggregate, Params: params, Aggregator: reducer}, opts...)
}

// Patch adds a Patch contribution transforming name's previous value (or,
// against an Aggregate Base, contributing one element).
func (b *Builder) Patch(name string, params []string, body PatchBody, opts ...ContribOption) *Builder {
	return b.add(Contribution{Name: name, Variant: Patch, Params: params, Patch: body}, opts...)
}

// PatchMany adds a Patch contribution yielding several replacements (or
// elements) in one invocation.
func (b *Builder) PatchMany(name string, params []string, body PatchManyBody, opts ...ContribOption) *Builder {
	return b.add(Contribution{Name: name, Variant: PatchMany, Params: params, PatchMany: body}, opts...)
}

// Extern declares that name must be supplied by the caller of the
// composed scope (or of an enclosing factory's Instance Scope).
func (b *Builder) Extern(name string, opts ...ContribOption) *Builder {
	return b.add(Contribution{Name: name, Variant: Extern}, opts...)
}

func (b *Builder) add(c Contribution, opts ...ContribOption) *Builder {
	for _, o := range opts {
		o(&c)
	}
	b.scope.Contributions = append(b.scope.Contributions, c)
	return b
}

// Child mounts a nested scope declaration under name.
func (b *Builder) Child(name string, child *Builder) *Builder {
	b.scope.Children = append(b.scope.Children, Child{Name: name, Scope: child.Build()})
	return b
}

// Extend nominates another declaration to be union-mounted with this one;
// Build only records the extension in Extends; Lift later flattens its
// contributions/children in ahead of this Builder's own.
func (b *Builder) Extend(other *Builder) *Builder {
	b.scope.Extends = append(b.scope.Extends, other.Build())
	return b
}

// Build finalizes the declaration. The returned *Scope is immutable; the
// Builder should not be reused afterward.
func (b *Builder) Build() *Scope {
	b.scope.Factory = b.factory
	return b.scope
}

// A ContribOption sets an optional flag on a Contribution being added via
// the Builder.
type ContribOption func(*Contribution)

// Eager marks a contribution to be forced as soon as its scope is
// composed.
func Eager() ContribOption { return func(c *Contribution) { c.Eager = true } }

// Published marks a contribution visible outside its declaring scope.
func Published() ContribOption { return func(c *Contribution) { c.Published = true } }

// Endomorphic marks a Patch/PatchMany contribution as endomorphic: when
// every contribution to a name is a Patch/PatchMany so marked (and there
// is no Base and no Extern), the Composer treats the name as a
// caller-supplied parameter slot.
func Endomorphic() ContribOption { return func(c *Contribution) { c.Endomorphism = true } }

// ProxyParam marks one of the contribution's declared Params as
// proxy-requested: the Evaluator injects a Proxy for it instead of a
// forced value.
func ProxyParam(name string) ContribOption {
	return func(c *Contribution) {
		if c.ProxyParams == nil {
			c.ProxyParams = map[string]bool{}
		}
		c.ProxyParams[name] = true
	}
}
