// Package folding turns multi-line attribute values into fold regions.
package folding

import (
	"github.com/walteh/tagsense/pkg/scanner"
)

// Region is a foldable line interval, both ends included.
type Region struct {
	StartLine int          `json:"startLine" yaml:"startLine"`
	EndLine   int          `json:"endLine" yaml:"endLine"`
	Kind      scanner.Kind `json:"kind" yaml:"kind"`
}

// Ranges returns one region per multi-line declaration, watched or comment
// value, tag by tag.
func Ranges(res *scanner.Result) []Region {
	regions := []Region{}
	if res == nil {
		return regions
	}
	for _, tag := range res.Tags {
		for _, tr := range tag.Tracks(scanner.KindDeclaration, scanner.KindWatched, scanner.KindComment) {
			if !tr.MultiLine {
				continue
			}
			regions = append(regions, Region{
				StartLine: tr.ValueSpan.Start.Line,
				EndLine:   tr.ValueSpan.End.Line,
				Kind:      tr.Kind,
			})
		}
	}
	return regions
}
