// Package snippet classifies the tail of a stylesheet-like fragment so that
// completion knows what kind of symbol the caret is about to type.
package snippet

import (
	"strings"
)

// Type is the kind of symbol expected at the end of a snippet.
type Type uint8

const (
	None Type = iota
	Property
	Value
	Pseudo
	Selector
	Rule
	Assign
	Attach
	Constant
	Variable
	VarFetch
)

func (t Type) String() string {
	switch t {
	case Property:
		return "property"
	case Value:
		return "value"
	case Pseudo:
		return "pseudo"
	case Selector:
		return "selector"
	case Rule:
		return "rule"
	case Assign:
		return "assign"
	case Attach:
		return "attach"
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case VarFetch:
		return "varfetch"
	default:
		return "none"
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Snippet describes the end of the analyzed text.
type Snippet struct {
	// Property is the property name when the caret sits in a value.
	Property string `json:"property" yaml:"property"`
	Type     Type   `json:"type" yaml:"type"`
	// Fragment is the partial word under the caret.
	Fragment string `json:"fragment" yaml:"fragment"`
}

func isFragmentChar(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	return strings.ContainsRune("(/$_-", ch)
}

// Analyze walks content and reports what is being typed at its end.
//
// Quoted strings reset the state. "&" starts a selector, ":" splits a
// property from its value (or a selector from a pseudo class), and the
// operators "@", "=" and "~" announce at-rules, assignments and attachments.
func Analyze(content string) Snippet {
	var (
		property string
		fragment strings.Builder
		line     strings.Builder
		current  = None
		pending  = Property
	)

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '\n' {
			line.Reset()
		} else {
			line.WriteRune(ch)
		}

		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			quote := ch
			i++
			for i < len(runes) && (runes[i] != quote || runes[i-1] == '\\') {
				i++
			}
			fragment.Reset()
			property = ""
			current = None
			pending = Property

		case ch == '&':
			current = Selector
			pending = Selector

		case ch == ':':
			property = strings.TrimSpace(fragment.String())
			fragment.Reset()
			if strings.HasPrefix(strings.TrimSpace(line.String()), "&") {
				current, pending = Pseudo, Pseudo
			} else {
				current, pending = Value, Value
			}

		case ch == ';' || ch == '{' || ch == '}':
			property = ""
			fragment.Reset()
			pending = Property

		case ch == '~' || ch == '=' || ch == '@':
			fragment.Reset()
			fragment.WriteRune(ch)
			if pending != Rule {
				current = operatorType(ch)
			}

		case isFragmentChar(ch):
			fragment.WriteRune(ch)

		default:
			if pending == Property {
				switch fragment.String() {
				case "=":
					pending = Assign
				case "@--assign":
					pending, current = current, Assign
				case "~":
					pending = Attach
				case "@--attach":
					pending, current = current, Attach
				}
			}
			if pending != Rule {
				current = pending
			}
			fragment.Reset()
		}
	}

	tail := fragment.String()
	switch current {
	case Property:
		switch {
		case strings.HasPrefix(tail, "---"):
			current = Constant
		case strings.HasPrefix(tail, "--"):
			current = Variable
		}
	case Value:
		switch {
		case strings.HasSuffix(tail, "var("):
			current = VarFetch
		case strings.HasSuffix(tail, "---"):
			current = Constant
		case strings.HasSuffix(tail, "--"):
			current = Variable
		}
		tail = tail[strings.Index(tail, "(")+1:]
	}

	return Snippet{Property: property, Type: current, Fragment: tail}
}

func operatorType(ch rune) Type {
	switch ch {
	case '@':
		return Rule
	case '=':
		return Assign
	default:
		return Attach
	}
}
