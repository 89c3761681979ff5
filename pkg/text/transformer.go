package text

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/walteh/viewmigrate/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidUTF8 is returned when input is not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// Change records that a rule fired and how many times
type Change struct {
	Description string
	Count       int
}

// String renders the change the way it appears in reports
func (c Change) String() string {
	return fmt.Sprintf("%s (%d occurrences)", c.Description, c.Count)
}

// Manifest lists the rules that fired on one input, in rule order
type Manifest []Change

// Strings renders every change
func (m Manifest) Strings() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.String()
	}
	return out
}

// Occurrences returns the sum of all match counts
func (m Manifest) Occurrences() int {
	total := 0
	for _, c := range m {
		total += c.Count
	}
	return total
}

// Result contains the outcome of transforming one input
type Result struct {
	Original string
	Modified string
	Manifest Manifest
}

// WasModified reports whether any rule fired
func (r *Result) WasModified() bool {
	return len(r.Manifest) > 0
}

// Transformer applies a rule set to text
type Transformer struct {
	rules *rules.Set
}

// NewTransformer creates a transformer for set
func NewTransformer(set *rules.Set) *Transformer {
	return &Transformer{rules: set}
}

// Transform applies every rule in order to the current text. Each rule
// replaces all of its matches before the next rule runs. The context is
// checked between rules so a deadline bounds the work on large inputs.
func (t *Transformer) Transform(ctx context.Context, text string) (*Result, error) {
	result := &Result{Original: text, Modified: text}

	current := text
	for i := 0; i < t.rules.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("transform interrupted before rule %d: %w", i, err)
		}

		rule := t.rules.At(i)
		next, n := rule.Apply(current)
		if n == 0 {
			continue
		}

		result.Manifest = append(result.Manifest, Change{Description: rule.Description(), Count: n})
		current = next
	}

	result.Modified = current
	return result, nil
}

// TransformReader reads all of content, checks that it is UTF-8 and transforms it
func (t *Transformer) TransformReader(ctx context.Context, content io.Reader) (*Result, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}
	return t.TransformBytes(ctx, data)
}

// TransformBytes checks that data is UTF-8 and transforms it
func (t *Transformer) TransformBytes(ctx context.Context, data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, errors.Errorf("decoding content: %w", ErrInvalidUTF8)
	}
	return t.Transform(ctx, string(data))
}

// Transform is a convenience wrapper around NewTransformer(set).Transform
func Transform(ctx context.Context, text string, set *rules.Set) (*Result, error) {
	return NewTransformer(set).Transform(ctx, text)
}
