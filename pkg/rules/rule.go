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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎯 MatchKind selects how a rule finds its targets
type MatchKind int

const (
	// MatchPattern treats the rule source as a regular expression (RE2 syntax)
	MatchPattern MatchKind = iota
	// MatchLiteral treats the rule source as a plain substring
	MatchLiteral
)

// String returns a string representation of MatchKind
func (k MatchKind) String() string {
	switch k {
	case MatchPattern:
		return "pattern"
	case MatchLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// 🔄 Rule is one syntax conversion: a matcher, a replacement and a label.
// Rules are immutable once built; the zero value is not usable.
type Rule struct {
	kind          MatchKind
	source        string
	caseSensitive bool
	re            *regexp.Regexp // nil for case-sensitive literals
	replacement   Template
	description   string
}

// 🔧 Option adjusts rule construction
type Option func(*Rule)

// CaseSensitive makes the rule match only the exact case written in its source.
// Rules are case-insensitive by default so both upper- and lower-case dialect
// keywords are covered.
func CaseSensitive() Option {
	return func(r *Rule) {
		r.caseSensitive = true
	}
}

// 🏭 NewPattern builds a rule from a regular expression. The replacement may
// reference capture groups of pattern (see Template).
func NewPattern(pattern, replacement, description string, opts ...Option) (Rule, error) {
	r := Rule{kind: MatchPattern, source: pattern, description: description}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.validateCommon(); err != nil {
		return Rule{}, err
	}

	expr := pattern
	if !r.caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, errors.Errorf("rule %q: compiling pattern: %w", description, err)
	}
	if re.MatchString("") {
		return Rule{}, errors.Errorf("rule %q: pattern %q matches the empty string", description, pattern)
	}

	tmpl, err := ParseTemplate(replacement, re.NumSubexp())
	if err != nil {
		return Rule{}, errors.Errorf("rule %q: %w", description, err)
	}

	r.re = re
	r.replacement = tmpl
	return r, nil
}

// 🏭 NewLiteral builds a rule that replaces every occurrence of text with
// replacement. Both are taken verbatim.
func NewLiteral(text, replacement, description string, opts ...Option) (Rule, error) {
	r := Rule{kind: MatchLiteral, source: text, description: description}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.validateCommon(); err != nil {
		return Rule{}, err
	}

	if !r.caseSensitive {
		r.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
	}
	r.replacement = LiteralTemplate(replacement)
	return r, nil
}

// MustPattern is like NewPattern but panics on error. Intended for rule
// tables compiled into the binary.
func MustPattern(pattern, replacement, description string, opts ...Option) Rule {
	r, err := NewPattern(pattern, replacement, description, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) validateCommon() error {
	if r.source == "" {
		return errors.Errorf("rule %q: %s is required", r.description, r.kind)
	}
	if strings.TrimSpace(r.description) == "" {
		return errors.Errorf("rule for %q: description is required", r.source)
	}
	return nil
}

// Description returns the human-readable label used in change manifests
func (r Rule) Description() string { return r.description }

// Source returns the pattern or literal text as written
func (r Rule) Source() string { return r.source }

// Kind returns how the rule matches
func (r Rule) Kind() MatchKind { return r.kind }

// IsCaseSensitive reports whether matching respects case
func (r Rule) IsCaseSensitive() bool { return r.caseSensitive }

// Replacement returns the replacement template
func (r Rule) Replacement() Template { return r.replacement }

// Count returns the number of non-overlapping matches of the rule in text
func (r Rule) Count(text string) int {
	if r.re == nil {
		return strings.Count(text, r.source)
	}
	return len(r.re.FindAllStringIndex(text, -1))
}

// 🔄 Apply replaces every non-overlapping match in text, scanning left to
// right, and returns the new text with the number of matches replaced.
// When nothing matches the input string is returned as is.
func (r Rule) Apply(text string) (string, int) {
	if r.re == nil {
		n := strings.Count(text, r.source)
		if n == 0 {
			return text, 0
		}
		return strings.ReplaceAll(text, r.source, r.replacement.String()), n
	}

	if r.replacement.IsLiteral() {
		n := len(r.re.FindAllStringIndex(text, -1))
		if n == 0 {
			return text, 0
		}
		return r.re.ReplaceAllLiteralString(text, r.replacement.expanded()), n
	}

	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		r.replacement.expand(&b, text, m)
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String(), len(matches)
}
