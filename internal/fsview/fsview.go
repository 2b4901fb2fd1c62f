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

// Package fsview presents a composed scope tree as a read-only afero.Fs:
// scopes are directories, bindings are files, matching the union
// filesystem analogy the composed tree's structure already suggests. It
// exists so that analogy can be driven by real filesystem-walking code
// (ls, find, afero.Walk) instead of staying a mere metaphor.
package fsview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	pathlib "path"
	"strings"
	"time"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"

	"github.com/negz/mixin/pkg/compose"
)

// Error strings.
const (
	errNotADirectory = "fsview: not a directory"
)

// New wraps root as a read-only afero.Fs. Every mutating Fs method returns
// an os.PathError wrapping os.ErrPermission.
func New(root *compose.Node) afero.Fs {
	return &fs{root: root}
}

type fs struct{ root *compose.Node }

func (f *fs) Name() string { return "fsview" }

func (f *fs) resolve(name string) (dir *compose.Node, binding *compose.Binding, isFile bool, err error) {
	clean := pathlib.Clean("/" + name)
	if clean == "/" {
		return f.root, nil, false, nil
	}

	cur := f.root
	parts := strings.Split(strings.Trim(clean, "/"), "/")
	for i, part := range parts {
		if child, ok := cur.Child(part); ok {
			cur = child
			continue
		}
		if i == len(parts)-1 {
			if b, ok := cur.Binding(part); ok {
				return cur, b, true, nil
			}
		}
		return nil, nil, false, os.ErrNotExist
	}
	return cur, nil, false, nil
}

func (f *fs) Open(name string) (afero.File, error) {
	n, b, isFile, err := f.resolve(name)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	if isFile {
		return newDataFile(name, []byte(describeBinding(b))), nil
	}
	return newDirFile(name, n), nil
}

func (f *fs) OpenFile(name string, flag int, _ os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, readOnlyErr("open", name)
	}
	return f.Open(name)
}

func (f *fs) Stat(name string) (os.FileInfo, error) {
	_, b, isFile, err := f.resolve(name)
	if err != nil {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	base := pathlib.Base(pathlib.Clean("/" + name))
	if isFile {
		return nodeInfo{name: base, size: int64(len(describeBinding(b)))}, nil
	}
	return nodeInfo{name: base, isDir: true}, nil
}

func (f *fs) Create(name string) (afero.File, error)                  { return nil, readOnlyErr("create", name) }
func (f *fs) Mkdir(name string, _ os.FileMode) error                  { return readOnlyErr("mkdir", name) }
func (f *fs) MkdirAll(path string, _ os.FileMode) error               { return readOnlyErr("mkdir", path) }
func (f *fs) Remove(name string) error                                { return readOnlyErr("remove", name) }
func (f *fs) RemoveAll(path string) error                             { return readOnlyErr("remove", path) }
func (f *fs) Rename(oldname, _ string) error                          { return readOnlyErr("rename", oldname) }
func (f *fs) Chmod(name string, _ os.FileMode) error                  { return readOnlyErr("chmod", name) }
func (f *fs) Chtimes(name string, _, _ time.Time) error               { return readOnlyErr("chtimes", name) }
func (f *fs) Chown(name string, _, _ int) error                       { return readOnlyErr("chown", name) }

func readOnlyErr(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: os.ErrPermission}
}

// describeBinding is a regular file's entire content: a one-line summary
// of what the Composer decided for this name, useful for grepping a
// rendered tree for every Parameter or every multiply-patched Resource.
func describeBinding(b *compose.Binding) string {
	if b.Kind == compose.Parameter {
		kind := "endomorphism"
		if b.Extern {
			kind = "extern"
		}
		return fmt.Sprintf("parameter (%s)\n", kind)
	}
	return fmt.Sprintf("%s (%s, %d patch(es), eager=%v, published=%v)\n",
		b.Name, b.Variant, len(b.Patches), b.Eager, b.Published)
}

type nodeInfo struct {
	name  string
	isDir bool
	size  int64
}

func (i nodeInfo) Name() string { return i.name }
func (i nodeInfo) Size() int64  { return i.size }
func (i nodeInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o555
	}
	return 0o444
}
func (i nodeInfo) ModTime() time.Time { return time.Time{} }
func (i nodeInfo) IsDir() bool        { return i.isDir }
func (i nodeInfo) Sys() any           { return nil }

// vfile is the read-only afero.File backing both directory and regular
// file views.
type vfile struct {
	name  string
	isDir bool

	*bytes.Reader

	entries  []os.FileInfo
	entryPos int
}

func newDataFile(name string, content []byte) *vfile {
	return &vfile{name: name, Reader: bytes.NewReader(content)}
}

func newDirFile(name string, n *compose.Node) *vfile {
	entries := make([]os.FileInfo, 0, len(n.ChildOrder)+len(n.BindOrder))
	for _, cname := range n.ChildOrder {
		entries = append(entries, nodeInfo{name: cname, isDir: true})
	}
	for _, bname := range n.BindOrder {
		content := describeBinding(n.Bindings[bname])
		entries = append(entries, nodeInfo{name: bname, size: int64(len(content))})
	}
	return &vfile{name: name, isDir: true, Reader: bytes.NewReader(nil), entries: entries}
}

func (f *vfile) Close() error                               { return nil }
func (f *vfile) Name() string                                { return f.name }
func (f *vfile) Sync() error                                 { return nil }
func (f *vfile) Write(_ []byte) (int, error)                 { return 0, os.ErrPermission }
func (f *vfile) WriteAt(_ []byte, _ int64) (int, error)      { return 0, os.ErrPermission }
func (f *vfile) WriteString(_ string) (int, error)           { return 0, os.ErrPermission }
func (f *vfile) Truncate(_ int64) error                      { return os.ErrPermission }

func (f *vfile) Stat() (os.FileInfo, error) {
	if f.isDir {
		return nodeInfo{name: f.name, isDir: true}, nil
	}
	return nodeInfo{name: f.name, size: f.Reader.Size()}, nil
}

func (f *vfile) Readdir(count int) ([]os.FileInfo, error) {
	if !f.isDir {
		return nil, errors.New(errNotADirectory)
	}
	if count <= 0 {
		out := f.entries[f.entryPos:]
		f.entryPos = len(f.entries)
		return out, nil
	}
	end := f.entryPos + count
	if end > len(f.entries) {
		end = len(f.entries)
	}
	out := f.entries[f.entryPos:end]
	f.entryPos = end
	var err error
	if len(out) == 0 {
		err = io.EOF
	}
	return out, err
}

func (f *vfile) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = fi.Name()
	}
	return names, err
}
