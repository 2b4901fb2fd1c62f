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

package mixin_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/negz/mixin"
)

func ExampleEvaluate() {
	sqlite := mixin.NewBuilder("").
		Extern("database_path").
		Resource("connection", []string{"database_path"}, func(_ context.Context, args mixin.Args) (any, error) {
			return fmt.Sprintf("sqlite://%s", args.Get("database_path")), nil
		}, mixin.Published()).
		Build()

	res, err := mixin.Evaluate([]*mixin.Scope{sqlite})
	if err != nil {
		panic(err)
	}
	root, err := res.Call(context.Background(), map[string]any{"database_path": ":memory:"})
	if err != nil {
		panic(err)
	}
	conn, err := root.Get(context.Background(), "connection")
	if err != nil {
		panic(err)
	}
	fmt.Println(conn)
	// Output: sqlite://:memory:
}

func TestWriteGraphAndFS(t *testing.T) {
	decl := mixin.NewBuilder("").
		Extern("database_path").
		Resource("connection", []string{"database_path"}, func(_ context.Context, args mixin.Args) (any, error) {
			return args.Get("database_path"), nil
		}, mixin.Published()).
		Build()

	res, err := mixin.Evaluate([]*mixin.Scope{decl})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	var buf bytes.Buffer
	if err := mixin.WriteGraph(&buf, res); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("WriteGraph produced no output")
	}

	fi, err := mixin.FS(res).Stat("/connection")
	if err != nil {
		t.Fatalf("FS Stat: %v", err)
	}
	if fi.IsDir() {
		t.Error("connection should be a file, not a directory")
	}
}
