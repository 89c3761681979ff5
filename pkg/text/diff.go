package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the lines that differ between original and modified, removed
// lines prefixed with "- " and added lines with "+ ". Unchanged lines are
// omitted. Returns the empty string when the inputs are equal.
func Diff(original, modified string) string {
	if original == modified {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, modified)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out.WriteString(prefix)
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	return out.String()
}
