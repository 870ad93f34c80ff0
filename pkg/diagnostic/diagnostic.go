package diagnostic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/position"
	"github.com/walteh/tagsense/pkg/scanner"
)

// Generator is responsible for generating diagnostics from a scan result
type Generator interface {
	// Generate generates diagnostics from the tags of one document
	Generate(ctx context.Context, res *scanner.Result) (*Diagnostics, error)
}

// Diagnostics represents diagnostic information that can be formatted in different ways
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors" yaml:"errors"`
	Warnings []Diagnostic `json:"warnings" yaml:"warnings"`
	Hints    []Diagnostic `json:"hints" yaml:"hints"`
}

// Diagnostic represents a single diagnostic message
type Diagnostic struct {
	Message  string             `json:"message" yaml:"message"`
	Range    position.Range     `json:"range" yaml:"range"`
	Severity DiagnosticSeverity `json:"severity" yaml:"severity"`
}

// DiagnosticSeverity represents the severity level of a diagnostic
type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Info    DiagnosticSeverity = "info"
	Hint    DiagnosticSeverity = "hint"
)

const (
	MessageInvalidHashrule    = "Invalid Hashrule."
	MessageMultipleLocations  = "Definitions in multiple locations."
	MessageAssignableReused   = "Assignable rule cannot be reused for declaration."
	MessageTripleDash         = "Symclass identifier shouldn't start with '---'."
	MessageSymclassMissing    = "Symclass missing in declaration scope."
	MessageMultipleSymclasses = "Multiple Symclasses found in declaration scope."
)

func (d *Diagnostics) add(severity DiagnosticSeverity, rng position.Range, message string) {
	diag := Diagnostic{Message: message, Range: rng, Severity: severity}
	switch severity {
	case Error:
		d.Errors = append(d.Errors, diag)
	case Warning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Hints = append(d.Hints, diag)
	}
}

// Len returns the number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Hints)
}

// All returns errors, then warnings, then hints.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, d.Len())
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)
	return append(out, d.Hints...)
}

// Merge appends other to d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Hints = append(d.Hints, other.Hints...)
}

// DefaultGenerator checks tags against the manifests
type DefaultGenerator struct {
	file  *manifest.FileManifest
	index *manifest.Index
}

// NewDefaultGenerator creates a new DefaultGenerator
func NewDefaultGenerator(file *manifest.FileManifest, index *manifest.Index) *DefaultGenerator {
	if file == nil {
		file = &manifest.FileManifest{}
	}
	return &DefaultGenerator{file: file, index: index}
}

// Generate implements Generator
func (g *DefaultGenerator) Generate(ctx context.Context, res *scanner.Result) (*Diagnostics, error) {
	if res == nil {
		return nil, errors.Errorf("scan result is nil")
	}

	diagnostics := &Diagnostics{
		Errors:   make([]Diagnostic, 0),
		Warnings: make([]Diagnostic, 0),
	}

	for _, tag := range res.Tags {
		for _, h := range tag.Cache.Hashrules {
			if _, ok := g.file.Hashrules[h.Attribute]; !ok {
				diagnostics.add(Error, h.AttributeSpan.Range, MessageInvalidHashrule)
			}
		}

		var symclasses []scanner.Track
		for _, decl := range tag.Cache.Declarations {
			if !strings.HasSuffix(decl.Attribute, "&") {
				symclasses = append(symclasses, decl)
			}
		}

		for _, sym := range symclasses {
			rng := sym.AttributeSpan.Range
			if data, ok := g.index.Attachable(sym.Attribute); ok && len(data.Declarations) > 1 {
				diagnostics.add(Error, rng, MessageMultipleLocations)
			}
			if _, ok := g.index.Assignable(sym.Attribute); ok {
				diagnostics.add(Error, rng, MessageAssignableReused)
			}
			if strings.Contains(sym.Attribute, "$---") {
				diagnostics.add(Warning, rng, MessageTripleDash)
			}
		}

		switch {
		case len(symclasses) == 0 && len(tag.Cache.Declarations) > 0:
			diagnostics.add(Error, tag.Span.Range, MessageSymclassMissing)
		case len(symclasses) > 1:
			for _, sym := range symclasses {
				diagnostics.add(Error, sym.AttributeSpan.Range, MessageMultipleSymclasses)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("tags", len(res.Tags)).
		Int("errors", len(diagnostics.Errors)).
		Int("warnings", len(diagnostics.Warnings)).
		Msg("generated diagnostics")

	return diagnostics, nil
}

// FromManifest returns the compiler-reported problems whose source is path.
// Each one marks the single character at its reported place.
func FromManifest(style *manifest.StyleManifest, path string) *Diagnostics {
	diagnostics := &Diagnostics{}
	if style == nil {
		return diagnostics
	}
	for _, d := range style.Diagnostics {
		for _, source := range d.Sources {
			file, start := manifest.ParseSource(source)
			if file != path {
				continue
			}
			end := position.Place{Line: start.Line, Character: start.Character + 1}
			diagnostics.add(Error, position.Range{Start: start, End: end}, d.Message)
		}
	}
	return diagnostics
}

// Formatter formats diagnostics into different output formats
type Formatter interface {
	// Format formats diagnostics into a specific output format
	Format(diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter formats diagnostics into VSCode-compatible format
type VSCodeFormatter struct {
	Source string
}

// NewVSCodeFormatter creates a new VSCodeFormatter
func NewVSCodeFormatter(source string) *VSCodeFormatter {
	return &VSCodeFormatter{Source: source}
}

// Format implements Formatter
func (f *VSCodeFormatter) Format(diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	type VSCodeDiagnostic struct {
		Severity int            `json:"severity"`
		Message  string         `json:"message"`
		Source   string         `json:"source,omitempty"`
		Range    position.Range `json:"range"`
	}

	result := make([]VSCodeDiagnostic, 0, diagnostics.Len())
	for _, d := range diagnostics.All() {
		result = append(result, VSCodeDiagnostic{
			Severity: d.Severity.Code(),
			Message:  d.Message,
			Source:   f.Source,
			Range:    d.Range,
		})
	}

	return json.Marshal(result)
}

// Code is the numeric severity editors use: error 1, warning 2, info 3, hint 4.
func (s DiagnosticSeverity) Code() int {
	switch s {
	case Error:
		return 1
	case Warning:
		return 2
	case Info:
		return 3
	default:
		return 4
	}
}
