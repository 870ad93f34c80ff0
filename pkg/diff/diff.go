// Package diff renders line diffs of document edits.
package diff

import (
	"strings"

	"github.com/kylelemons/godebug/diff"
)

// Lines returns a marked line diff turning before into after, or "" when
// they are equal.
func Lines(before, after string) string {
	if before == after {
		return ""
	}

	out := diff.Diff(before, after)

	var b strings.Builder
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString("➕" + line[1:])
		case strings.HasPrefix(line, "-"):
			b.WriteString("➖" + line[1:])
		default:
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
