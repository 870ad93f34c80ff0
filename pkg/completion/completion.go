// Package completion suggests symclasses, hashrules, variables and stylesheet
// symbols at a caret offset.
package completion

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/tagsense/pkg/completion/providers"
	"github.com/walteh/tagsense/pkg/cssdata"
	"github.com/walteh/tagsense/pkg/manifest"
	"github.com/walteh/tagsense/pkg/scanner"
	"github.com/walteh/tagsense/pkg/snippet"
)

// Triggers are the characters after which an editor should ask for
// completions.
var Triggers = []string{"@", " ", "=", "#", "~", "&", "$", "\t", "\n", "/", "_", "(", ")", ":", "{", "}"}

var symclassPrefix = regexp.MustCompile(`[=~][\w/$_-]*$`)

// Engine answers completion requests against one file manifest and symclass
// index.
type Engine struct {
	File  *manifest.FileManifest
	Index *manifest.Index

	symclasses *providers.SymclassProvider
	hashrules  *providers.HashruleProvider
	variables  *providers.VariableProvider
	stylesheet *providers.StylesheetProvider
}

// NewEngine creates an engine. Smart switches symclass completion to
// segment-at-a-time suggestions.
func NewEngine(file *manifest.FileManifest, index *manifest.Index, smart bool) *Engine {
	if file == nil {
		file = &manifest.FileManifest{}
	}
	return &Engine{
		File:       file,
		Index:      index,
		symclasses: providers.NewSymclassProvider(smart),
		hashrules:  providers.NewHashruleProvider(file.Hashrules),
		variables:  providers.NewVariableProvider(),
		stylesheet: providers.NewStylesheetProvider(cssdata.ForEnvironment(file.Environment)),
	}
}

func (e *Engine) attachables() map[string]manifest.Metadata {
	if e.Index == nil {
		return nil
	}
	return e.Index.Attachables
}

func (e *Engine) assignables() map[string]manifest.Metadata {
	if e.Index == nil {
		return nil
	}
	return e.Index.Assignables
}

// Complete returns the completions for a markup document at offset. res is
// the last scan of the document and provides the variables in scope of the
// enclosing tag; it may be nil.
func (e *Engine) Complete(ctx context.Context, content string, offset int, res *scanner.Result) []providers.CompletionItem {
	cc := NewCompletionContext(content, offset)

	var items []providers.CompletionItem
	switch {
	case cc.InValue():
		items = e.completeValue(cc, e.tagVariables(res, cc.Offset))
	case cc.InAttribute():
		items = e.hashrules.GetCompletions(cc.Cursor.Raw)
	}

	zerolog.Ctx(ctx).Debug().
		Str("attribute", cc.Cursor.Attribute).
		Str("fragment", cc.Fragment).
		Int("items", len(items)).
		Msg("completing markup")

	return items
}

func (e *Engine) completeValue(cc *CompletionContext, tagVars map[string]string) []providers.CompletionItem {
	attribute, fragment := cc.Cursor.Attribute, cc.Fragment

	switch cc.Kind(e.File.Attributes) {
	case scanner.KindWatched:
		if !strings.HasPrefix(fragment, "=") && !strings.HasPrefix(fragment, "~") {
			return nil
		}
		prefix := symclassPrefix.FindString(fragment)
		if prefix == "" {
			return nil
		}
		return e.symclasses.GetCompletions(prefix[1:], providers.SymclassKind(prefix), e.attachables())

	case scanner.KindDeclaration:
		if cc.EndsWithOperator() {
			return nil
		}
		return e.completeDeclaration(attribute, fragment, tagVars)
	}

	return nil
}

func (e *Engine) completeDeclaration(attribute, fragment string, tagVars map[string]string) []providers.CompletionItem {
	snip := snippet.Analyze(fragment)
	kind := providers.SymclassKind(snip.Fragment)

	switch snip.Type {
	case snippet.Rule:
		items := e.stylesheet.GetCustomAtRules(providers.KindFunction, "custom AtRule: ")
		for i := range items {
			items[i].Detail = "...symclasses"
		}
		return append(items, e.stylesheet.GetAtRules(snip.Fragment)...)

	case snippet.Pseudo:
		return e.stylesheet.GetPseudo(snip.Fragment, strings.HasSuffix(fragment, "::"))

	case snippet.Property:
		items := e.variables.GetCompletions(tagVars, e.declaredVariables(attribute))
		return append(items, e.stylesheet.GetProperties(snip.Fragment)...)

	case snippet.Value:
		return e.stylesheet.GetValues(snip.Property, snip.Fragment)

	case snippet.Variable, snippet.VarFetch:
		return e.variables.GetCompletions(tagVars, e.declaredVariables(attribute))

	case snippet.Constant:
		return e.variables.GetConstantCompletions(e.File.VarFilter(snip.Fragment, nil), "Variable")

	case snippet.Attach:
		return e.symclasses.GetCompletions(snip.Fragment, kind, e.attachables())

	case snippet.Assign:
		return e.symclasses.GetCompletions(snip.Fragment, kind, e.assignables())
	}

	return nil
}

// declaredVariables are the variables of the symclass a declaration attribute
// names, when the index already knows it.
func (e *Engine) declaredVariables(attribute string) map[string]string {
	data, ok := e.Index.Attachable(attribute)
	if !ok {
		return nil
	}
	return data.Variables
}

// tagVariables collects the variables in scope of the tag at offset: the ones
// already resolved onto the tag plus those of every symclass it declares or
// attaches.
func (e *Engine) tagVariables(res *scanner.Result, offset int) map[string]string {
	vars := map[string]string{}
	if res == nil {
		return vars
	}

	tag := res.TagAt(offset)
	if tag == nil {
		return vars
	}

	for k, v := range tag.Variables {
		vars[k] = v
	}
	for _, decl := range tag.Cache.Declarations {
		if data, ok := e.Index.Attachable(decl.Attribute); ok {
			for k, v := range data.Variables {
				vars[k] = v
			}
		}
	}
	for _, tr := range tag.Cache.Watched {
		for _, frag := range tr.Fragments {
			if len(frag) < 2 {
				continue
			}
			if data, ok := e.Index.Attachable(frag[1:]); ok {
				for k, v := range data.Variables {
					vars[k] = v
				}
			}
		}
	}
	return vars
}

// CompleteStylesheet returns the completions for a stylesheet document at
// offset.
func (e *Engine) CompleteStylesheet(ctx context.Context, content string, offset int) []providers.CompletionItem {
	offset = max(0, min(offset, len(content)))
	snip := snippet.Analyze(content[:offset])
	kind := providers.SymclassKind(snip.Fragment)

	var items []providers.CompletionItem
	switch snip.Type {
	case snippet.Attach:
		items = e.symclasses.GetCompletions(snip.Fragment, kind, e.attachables())
	case snippet.Assign:
		items = e.symclasses.GetCompletions(snip.Fragment, kind, e.assignables())
	case snippet.Constant, snippet.Variable, snippet.VarFetch:
		items = e.variables.GetConstantCompletions(e.File.VarFilter(snip.Fragment, nil), "Constant")
	case snippet.Rule:
		items = e.stylesheet.GetCustomAtRules(providers.KindProperty, "Custom AtRule: ")
	}

	zerolog.Ctx(ctx).Debug().
		Str("type", snip.Type.String()).
		Str("fragment", snip.Fragment).
		Int("items", len(items)).
		Msg("completing stylesheet")

	return items
}
