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

package graphviz

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/negz/mixin/pkg/compose"
	"github.com/negz/mixin/pkg/declare"
)

func noopBase(context.Context, declare.Args) (any, error) { return nil, nil }

func TestWrite(t *testing.T) {
	decl := declare.NewBuilder("").
		Extern("database_path").
		Resource("connection", []string{"database_path"}, noopBase, declare.Published()).
		Build()

	root, err := compose.Compose([]*declare.Scope{decl})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, root); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "connection") || !strings.Contains(out, "database_path") {
		t.Errorf("graph output missing expected node labels:\n%s", out)
	}
}
