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

// Package graphviz renders a composed scope tree as a Graphviz graph, for
// inspecting how union mounting and patch/aggregate composition resolved a
// set of declarations that would otherwise be opaque once built.
package graphviz

import (
	"fmt"
	"io"

	"github.com/emicklei/dot"
	"github.com/pkg/errors"

	"github.com/negz/mixin/pkg/compose"
	"github.com/negz/mixin/pkg/resolve"
)

// Error strings.
const (
	errGraphEmpty = "graph is empty"
	errWriteGraph = "cannot write graph"
)

// renderer accumulates the dot graph nodes for every composed binding, so
// edges can be drawn between bindings owned by different scopes once every
// scope's own nodes have been created.
type renderer struct {
	g     *dot.Graph
	nodes map[string]dot.Node
}

// Write renders root's composed scope tree to w as a Graphviz "dot" graph.
// Scopes render as nested clusters; bindings render as nodes inside their
// owning scope's cluster, labeled with their parameter kind (extern or
// endomorphism) or their variant and patch count; an edge runs from each
// Concrete binding to every parameter its Base and Patches declare that
// resolves to a binding, pointing at whichever scope the Resolver says
// actually owns that name, so self-shadowing and ancestor resolution are
// both visible.
func Write(w io.Writer, root *compose.Node) error {
	r := &renderer{g: dot.NewGraph(dot.Directed), nodes: map[string]dot.Node{}}
	r.buildScope(r.g, root)
	r.buildEdges(root)

	s := r.g.String()
	if s == "" {
		return errors.New(errGraphEmpty)
	}
	_, err := io.WriteString(w, s)
	return errors.Wrap(err, errWriteGraph)
}

func (r *renderer) buildScope(parent *dot.Graph, n *compose.Node) {
	label := n.Name
	if label == "" {
		label = "/"
	}
	cluster := parent.Subgraph(label, dot.ClusterOption{})
	if n.Factory {
		cluster.Attr("label", label+" (factory)")
	}

	for _, name := range n.BindOrder {
		b := n.Bindings[name]
		gn := cluster.Node(id(n, name))
		gn.Label(bindingLabel(name, b))
		if b.Kind == compose.Parameter {
			gn.Attr("shape", "diamond")
		} else {
			gn.Attr("shape", "box")
		}
		r.nodes[id(n, name)] = gn
	}

	for _, cname := range n.ChildOrder {
		r.buildScope(cluster, n.Children[cname])
	}
}

func (r *renderer) buildEdges(n *compose.Node) {
	for _, name := range n.BindOrder {
		b := n.Bindings[name]
		from, ok := r.nodes[id(n, name)]
		if !ok {
			continue
		}
		if b.Kind == compose.Concrete {
			r.edgesForParams(n, b.Base.Name, b.Base.Params, from)
			for _, p := range b.Patches {
				r.edgesForParams(n, p.Name, p.Params, from)
			}
		}
	}
	for _, cname := range n.ChildOrder {
		r.buildEdges(n.Children[cname])
	}
}

func (r *renderer) edgesForParams(n *compose.Node, contribName string, params []string, from dot.Node) {
	for _, param := range params {
		res, err := resolve.Lookup(n, param, param == contribName)
		if err != nil {
			continue
		}
		// A ResultChild means param names a nested factory scope, injected
		// as a callable rather than a forced value; there is no binding
		// node to point at, only the cluster itself, so there is nothing
		// useful to draw an edge to.
		if res.Kind != resolve.ResultBinding {
			continue
		}
		to, ok := r.nodes[id(res.OwnerNode, param)]
		if !ok {
			continue
		}
		r.g.Edge(from, to, param)
	}
}

func id(n *compose.Node, name string) string {
	return fmt.Sprintf("%s/%s", n.Path.String(), name)
}

func bindingLabel(name string, b *compose.Binding) string {
	switch b.Kind {
	case compose.Parameter:
		if b.Extern {
			return fmt.Sprintf("%s\n(extern)", name)
		}
		return fmt.Sprintf("%s\n(endomorphism)", name)
	default:
		return fmt.Sprintf("%s\n(%s, %d patch(es))", name, b.Variant, len(b.Patches))
	}
}
