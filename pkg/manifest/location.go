package manifest

import (
	"regexp"
	"strconv"

	"github.com/walteh/tagsense/pkg/position"
)

var locationPattern = regexp.MustCompile(`^(.*):(\d+):(\d+)::(\d+):(\d+)$`)

// Location is a declaration site reported by the compiler.
type Location struct {
	Path  string         `json:"path" yaml:"path"`
	Range position.Range `json:"range" yaml:"range"`
}

// ParseLocation reads "path:row:col::row:col". A zero end row or column falls
// back to the start.
func ParseLocation(s string) (Location, bool) {
	m := locationPattern.FindStringSubmatch(s)
	if m == nil {
		return Location{}, false
	}

	num := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}

	start := position.Place{Line: num(m[2]), Character: num(m[3])}
	end := position.Place{Line: num(m[4]), Character: num(m[5])}
	if end.Line == 0 {
		end.Line = start.Line
	}
	if end.Character == 0 {
		end.Character = start.Character
	}

	return Location{Path: m[1], Range: position.Range{Start: start, End: end}}, true
}

var sourcePattern = regexp.MustCompile(`^(.*?)(?::(\d+))?(?::(\d+))?$`)

// ParseSource reads a compiler diagnostic source "path[:row][:col]" where row
// and column are one-based. The returned place is zero-based.
func ParseSource(s string) (string, position.Place) {
	m := sourcePattern.FindStringSubmatch(s)
	if m == nil {
		return s, position.Place{}
	}

	var p position.Place
	if m[2] != "" {
		n, _ := strconv.Atoi(m[2])
		p.Line = max(n-1, 0)
	}
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		p.Character = max(n-1, 0)
	}
	return m[1], p
}
