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

package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/negz/mixin/pkg/declare"
	"github.com/negz/mixin/pkg/mxerrors"
)

func noopBase(context.Context, declare.Args) (any, error) { return nil, nil }
func noopAgg(context.Context, []any, declare.Args) (any, error) { return nil, nil }
func noopPatch(context.Context, any, declare.Args) (any, error) { return nil, nil }

func TestComposeSingleBaseWithPatches(t *testing.T) {
	decl := declare.NewBuilder("").
		Resource("conn", nil, noopBase).
		Patch("conn", nil, noopPatch).
		Patch("conn", nil, noopPatch).
		Build()

	root, err := Compose([]*declare.Scope{decl})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b, ok := root.Binding("conn")
	if !ok {
		t.Fatal("conn not bound")
	}
	if b.Kind != Concrete {
		t.Errorf("Kind = %v, want Concrete", b.Kind)
	}
	if len(b.Patches) != 2 {
		t.Errorf("Patches = %d, want 2", len(b.Patches))
	}
}

func TestComposeAllHolesIsParameter(t *testing.T) {
	a := declare.NewBuilder("a").Extern("x").Build()
	b := declare.NewBuilder("b").Extern("x").Build()

	root, err := Compose([]*declare.Scope{a, b})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	binding, ok := root.Binding("x")
	if !ok {
		t.Fatal("x not bound")
	}
	if binding.Kind != Parameter || !binding.Extern {
		t.Errorf("binding = %+v, want Parameter/Extern", binding)
	}
}

func TestComposeAllEndomorphicPatchesIsParameter(t *testing.T) {
	decl := declare.NewBuilder("").
		Patch("timeout", nil, noopPatch, declare.Endomorphic()).
		Patch("timeout", nil, noopPatch, declare.Endomorphic()).
		Build()

	root, err := Compose([]*declare.Scope{decl})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	binding, ok := root.Binding("timeout")
	if !ok {
		t.Fatal("timeout not bound")
	}
	if binding.Kind != Parameter || binding.Extern {
		t.Errorf("binding = %+v, want Parameter/non-Extern", binding)
	}
	if len(binding.Patches) != 2 {
		t.Errorf("Patches = %d, want 2", len(binding.Patches))
	}
}

func TestComposeArityViolations(t *testing.T) {
	cases := []struct {
		name  string
		decls []*declare.Scope
	}{
		{
			name: "two bases",
			decls: []*declare.Scope{
				declare.NewBuilder("a").Resource("x", nil, noopBase).Build(),
				declare.NewBuilder("b").Resource("x", nil, noopBase).Build(),
			},
		},
		{
			name: "two bases and a hole",
			decls: []*declare.Scope{
				declare.NewBuilder("a").Resource("x", nil, noopBase).Build(),
				declare.NewBuilder("b").Extern("x").Build(),
				declare.NewBuilder("c").Resource("x", nil, noopBase).Build(),
			},
		},
		{
			name: "hole and non-endomorphic patch",
			decls: []*declare.Scope{
				declare.NewBuilder("a").Extern("x").Build(),
				declare.NewBuilder("b").Patch("x", nil, noopPatch).Build(),
			},
		},
		{
			name: "mixed endomorphic and non-endomorphic patches, no base",
			decls: []*declare.Scope{
				declare.NewBuilder("a").Patch("x", nil, noopPatch, declare.Endomorphic()).Build(),
				declare.NewBuilder("b").Patch("x", nil, noopPatch).Build(),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compose(tc.decls)
			var cerr *mxerrors.CompositionError
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *mxerrors.CompositionError", err)
			}
		})
	}
}

func TestComposeChildShadowsContribution(t *testing.T) {
	a := declare.NewBuilder("a").Resource("x", nil, noopBase).Build()
	b := declare.NewBuilder("b").Child("x", declare.NewBuilder("x").Resource("y", nil, noopBase)).Build()

	root, err := Compose([]*declare.Scope{a, b})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if _, ok := root.Binding("x"); ok {
		t.Error("x should have been shadowed by the child scope, not bound as a resource")
	}
	if _, ok := root.Child("x"); !ok {
		t.Error("child x should be present")
	}
}

func TestComposeSameDeclarationChildAndContributionCollide(t *testing.T) {
	decl := declare.NewBuilder("").
		Resource("x", nil, noopBase).
		Child("x", declare.NewBuilder("x")).
		Build()

	_, err := Compose([]*declare.Scope{decl})
	var cerr *mxerrors.CompositionError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *mxerrors.CompositionError", err)
	}
}

func TestComposeImpliedFactory(t *testing.T) {
	decl := declare.NewBuilder("").
		Child("RequestScope", declare.NewBuilder(declare.ImpliedFactoryName).Extern("request")).
		Build()

	root, err := Compose([]*declare.Scope{decl})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	child, ok := root.Child("RequestScope")
	if !ok {
		t.Fatal("RequestScope not composed")
	}
	if !child.Factory {
		t.Error("RequestScope should be implicitly marked as a Factory")
	}
}

func TestComposePublishedOnlyIfDeclared(t *testing.T) {
	base := declare.NewBuilder("base").Resource("x", nil, noopBase).Build()
	withPub := declare.NewBuilder("withpub").Patch("x", nil, noopPatch, declare.Published()).Build()

	root, err := Compose([]*declare.Scope{base, withPub}, WithPublishedOnlyIfDeclared())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b, _ := root.Binding("x")
	if b.Published {
		t.Error("Published should only reflect the base's own flag under WithPublishedOnlyIfDeclared, and the base did not request it")
	}

	pubBase := declare.NewBuilder("base").Resource("x", nil, noopBase, declare.Published()).Build()
	root2, err := Compose([]*declare.Scope{pubBase}, WithPublishedOnlyIfDeclared())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b2, _ := root2.Binding("x")
	if !b2.Published {
		t.Error("Published should be true when the base itself requested it")
	}
}
