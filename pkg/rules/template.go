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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧩 segment is either a literal run of text or a reference to a capture group
type segment struct {
	literal string
	group   int // -1 for literal segments
}

// 📝 Template is a replacement with positional group references.
//
// Syntax:
//
//	$1, $12   group reference (all following digits are consumed)
//	${1}      group reference, for use before a literal digit
//	$$        a literal dollar sign
//
// Any other use of '$' is an error. Groups that did not participate in a
// match expand to the empty string.
type Template struct {
	source   string
	segments []segment
	maxGroup int
}

// 🏭 ParseTemplate parses src and checks every group reference against the
// number of capture groups available in the pattern it will be used with.
func ParseTemplate(src string, groups int) (Template, error) {
	t := Template{source: src}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '$' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(src) {
			return Template{}, errors.Errorf("template %q: trailing '$' at offset %d", src, i)
		}

		var digits string
		switch next := src[i+1]; {
		case next == '$':
			lit.WriteByte('$')
			i++
			continue
		case next == '{':
			end := strings.IndexByte(src[i+2:], '}')
			if end < 0 {
				return Template{}, errors.Errorf("template %q: unterminated '${' at offset %d", src, i)
			}
			digits = src[i+2 : i+2+end]
			i += 2 + end
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			digits = src[i+1 : j]
			i = j - 1
		default:
			return Template{}, errors.Errorf("template %q: invalid group reference at offset %d", src, i)
		}

		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 {
			return Template{}, errors.Errorf("template %q: invalid group reference %q", src, digits)
		}
		if n > groups {
			return Template{}, errors.Errorf("template %q: references group %d but pattern has %d", src, n, groups)
		}

		flush()
		t.segments = append(t.segments, segment{group: n})
		if n > t.maxGroup {
			t.maxGroup = n
		}
	}
	flush()

	return t, nil
}

// 🏭 LiteralTemplate returns a template that always expands to s verbatim
func LiteralTemplate(s string) Template {
	t := Template{source: s}
	if s != "" {
		t.segments = []segment{{literal: s, group: -1}}
	}
	return t
}

// String returns the template as it was written
func (t Template) String() string {
	return t.source
}

// IsLiteral reports whether the template contains no group references
func (t Template) IsLiteral() bool {
	for _, s := range t.segments {
		if s.group >= 0 {
			return false
		}
	}
	return true
}

// expanded returns the text of a literal template, with $$ already resolved
func (t Template) expanded() string {
	var b strings.Builder
	for _, s := range t.segments {
		b.WriteString(s.literal)
	}
	return b.String()
}

// expand appends the template to b, resolving group references against a
// submatch index slice as returned by regexp.FindAllStringSubmatchIndex.
func (t Template) expand(b *strings.Builder, text string, match []int) {
	for _, s := range t.segments {
		if s.group < 0 {
			b.WriteString(s.literal)
			continue
		}
		start, end := match[2*s.group], match[2*s.group+1]
		if start < 0 {
			continue
		}
		b.WriteString(text[start:end])
	}
}
