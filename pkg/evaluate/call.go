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

import (
	"context"

	"github.com/negz/mixin/pkg/mxerrors"
)

// Call implements the Instance Scope Factory. Every composed scope is
// callable: its call signature is the set of names whose composed
// binding is a Parameter (either an Extern hole or an endomorphism-only
// patch chain). A scope with no such names, called with no arguments,
// returns itself (after forcing its own eager bindings) rather than a
// fresh instance - there would be nothing for a fresh copy to differ by.
// Otherwise Call validates args against the required names, installs them
// (applying any endomorphism patches to the supplied initial value), and
// returns a fresh Instance Scope that shares s's lexical parent but starts
// with an independent, empty memo.
func (s *Scope) Call(ctx context.Context, args map[string]any) (*Scope, error) {
	required := s.node.Parameters()

	if len(required) == 0 && len(args) == 0 {
		if err := s.forceEager(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.rt.log.Debug("Calling scope", "scope", s.node.Path.String(), "args", len(args))

	requiredSet := make(map[string]bool, len(required))
	for _, r := range required {
		requiredSet[r] = true
	}

	var missing, unexpected []string
	for _, r := range required {
		if _, ok := args[r]; !ok {
			missing = append(missing, r)
		}
	}
	for k := range args {
		if !requiredSet[k] {
			unexpected = append(unexpected, k)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, &mxerrors.MissingParameterError{
			Scope:      s.node.Path.String(),
			Missing:    missing,
			Unexpected: unexpected,
		}
	}

	inst := newScope(s.node, s.parent, s.rt)
	s.rt.log.Info("Built instance scope", "scope", s.node.Path.String(), "id", inst.id)

	for _, name := range required {
		b := s.node.Bindings[name]
		v := args[name]
		if !b.Extern {
			merged, err := inst.applyPatches(ctx, v, b.Patches)
			if err != nil {
				return nil, &mxerrors.BodyError{Scope: s.node.Path.String(), Name: name, Err: err}
			}
			v = merged
		}
		inst.store(name, v, nil)
	}

	if err := inst.forceEager(ctx); err != nil {
		return nil, err
	}
	return inst, nil
}
