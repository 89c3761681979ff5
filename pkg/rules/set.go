// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"slices"

	"gitlab.com/tozd/go/errors"
)

// 📚 Set is an ordered, read-only sequence of rules. Order is significant:
// later rules see the text already rewritten by earlier ones.
type Set struct {
	rules []Rule
}

// 🏭 NewSet returns a set holding a copy of rs in the given order
func NewSet(rs ...Rule) *Set {
	return &Set{rules: slices.Clone(rs)}
}

// Len returns the number of rules
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// At returns the i-th rule
func (s *Set) At(i int) Rule {
	return s.rules[i]
}

// Rules returns a copy of the rules in order
func (s *Set) Rules() []Rule {
	if s == nil {
		return nil
	}
	return slices.Clone(s.rules)
}

// With returns a new set with extra appended after the receiver's rules.
// The receiver is not modified.
func (s *Set) With(extra ...Rule) *Set {
	out := make([]Rule, 0, s.Len()+len(extra))
	out = append(out, s.Rules()...)
	out = append(out, extra...)
	return &Set{rules: out}
}

// 📋 Spec is the declarative form of a rule as written in configuration files.
// Exactly one of Pattern or Literal must be set.
type Spec struct {
	Pattern       string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional" toml:"pattern,omitempty"`
	Literal       string `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional" toml:"literal,omitempty"`
	Replacement   string `json:"replacement" yaml:"replacement" hcl:"replacement,optional" toml:"replacement"`
	Description   string `json:"description" yaml:"description" hcl:"description" toml:"description"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty" hcl:"case_sensitive,optional" toml:"case_sensitive,omitempty"`
}

// 🔨 Compile turns a spec into a rule
func Compile(spec Spec) (Rule, error) {
	var opts []Option
	if spec.CaseSensitive {
		opts = append(opts, CaseSensitive())
	}

	switch {
	case spec.Pattern != "" && spec.Literal != "":
		return Rule{}, errors.Errorf("rule %q: pattern and literal are mutually exclusive", spec.Description)
	case spec.Pattern != "":
		return NewPattern(spec.Pattern, spec.Replacement, spec.Description, opts...)
	case spec.Literal != "":
		return NewLiteral(spec.Literal, spec.Replacement, spec.Description, opts...)
	default:
		return Rule{}, errors.Errorf("rule %q: one of pattern or literal is required", spec.Description)
	}
}

// CompileAll compiles specs in order, reporting the index of the first failure
func CompileAll(specs []Spec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := Compile(spec)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
