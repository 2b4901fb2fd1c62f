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

import (
	"context"
	"testing"
)

func noopBase(context.Context, Args) (any, error) { return nil, nil }

func TestBuilderBuild(t *testing.T) {
	s := NewBuilder("root").
		Resource("connection", []string{"database_path"}, noopBase, Published(), Eager()).
		Extern("database_path").
		Child("RequestScope", NewBuilder("RequestScope").Extern("request")).
		Build()

	if s.Name != "root" {
		t.Errorf("Name = %q, want root", s.Name)
	}
	if len(s.Contributions) != 2 {
		t.Fatalf("Contributions = %d, want 2", len(s.Contributions))
	}
	if !s.Contributions[0].Published || !s.Contributions[0].Eager {
		t.Error("Resource did not carry its ContribOptions through")
	}
	if len(s.Children) != 1 || s.Children[0].Name != "RequestScope" {
		t.Fatalf("Children = %+v, want one child named RequestScope", s.Children)
	}
}

func TestBuilderExtend(t *testing.T) {
	base := NewBuilder("base").Resource("a", nil, noopBase)
	extended := NewBuilder("extended").Extend(base).Resource("b", nil, noopBase).Build()

	if len(extended.Extends) != 1 {
		t.Fatalf("Extends = %d, want 1", len(extended.Extends))
	}
	if len(extended.Contributions) != 1 || extended.Contributions[0].Name != "b" {
		t.Fatalf("Contributions = %+v, want only b (Extends is flattened by Lift, not Build)", extended.Contributions)
	}
}

func TestIsFactory(t *testing.T) {
	cases := []struct {
		name    string
		scope   string
		factory bool
		want    bool
	}{
		{name: "explicit flag", scope: "anything", factory: true, want: true},
		{name: "conventional name", scope: ImpliedFactoryName, factory: false, want: true},
		{name: "neither", scope: "plain", factory: false, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(tc.scope)
			if tc.factory {
				b.Factory()
			}
			if got := b.Build().IsFactory(); got != tc.want {
				t.Errorf("IsFactory() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProxyParam(t *testing.T) {
	s := NewBuilder("root").
		Resource("x", []string{"y", "z"}, noopBase, ProxyParam("y")).
		Build()

	c := s.Contributions[0]
	if !c.ProxyParams["y"] {
		t.Error("y should be proxy-requested")
	}
	if c.ProxyParams["z"] {
		t.Error("z should not be proxy-requested")
	}
}
