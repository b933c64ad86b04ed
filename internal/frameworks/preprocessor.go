package frameworks

import (
	"sort"
	"strings"
	"unicode"

	"structdiff/internal/errors"
)

// ScanSymbols collects every preprocessor symbol referenced in `#if`
// and `#elif` conditions across the given sources, sorted and deduped.
func ScanSymbols(sources ...string) []string {
	seen := map[string]bool{}
	for _, src := range sources {
		for _, line := range strings.Split(src, "\n") {
			trimmed := strings.TrimSpace(line)
			var cond string
			switch {
			case strings.HasPrefix(trimmed, "#if "):
				cond = trimmed[len("#if "):]
			case strings.HasPrefix(trimmed, "#elif "):
				cond = trimmed[len("#elif "):]
			default:
				continue
			}
			for _, tok := range tokenizeCondition(cond) {
				if tok.kind == tokSymbol && tok.text != "true" && tok.text != "false" {
					seen[tok.text] = true
				}
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Filter resolves `#if`/`#elif`/`#else`/`#endif` directives against the
// defined symbol set. Directive lines and lines in inactive regions are
// replaced with blank lines so every surviving declaration keeps its
// original line number.
func Filter(source string, defined map[string]bool) (string, error) {
	type frame struct {
		parentActive bool
		taken        bool // some branch of this group already emitted
		active       bool // current branch emits
	}

	var stack []frame
	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))

	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#if"):
			cond := strings.TrimSpace(strings.TrimPrefix(trimmed, "#if"))
			value, err := EvaluateCondition(cond, defined)
			if err != nil {
				return "", err
			}
			parent := active()
			stack = append(stack, frame{
				parentActive: parent,
				taken:        parent && value,
				active:       parent && value,
			})
			out[i] = ""

		case strings.HasPrefix(trimmed, "#elif"):
			if len(stack) == 0 {
				return "", errors.Newf(errors.InvalidArgument, "line %d: #elif without #if", i+1)
			}
			cond := strings.TrimSpace(strings.TrimPrefix(trimmed, "#elif"))
			value, err := EvaluateCondition(cond, defined)
			if err != nil {
				return "", err
			}
			top := &stack[len(stack)-1]
			top.active = top.parentActive && !top.taken && value
			if top.active {
				top.taken = true
			}
			out[i] = ""

		case strings.HasPrefix(trimmed, "#else"):
			if len(stack) == 0 {
				return "", errors.Newf(errors.InvalidArgument, "line %d: #else without #if", i+1)
			}
			top := &stack[len(stack)-1]
			top.active = top.parentActive && !top.taken
			top.taken = true
			out[i] = ""

		case strings.HasPrefix(trimmed, "#endif"):
			if len(stack) == 0 {
				return "", errors.Newf(errors.InvalidArgument, "line %d: #endif without #if", i+1)
			}
			stack = stack[:len(stack)-1]
			out[i] = ""

		default:
			if active() {
				out[i] = line
			} else {
				out[i] = ""
			}
		}
	}

	if len(stack) != 0 {
		return "", errors.New(errors.InvalidArgument, "unterminated #if region", nil)
	}
	return strings.Join(out, "\n"), nil
}

// EvaluateCondition evaluates a C# preprocessor condition over the
// defined symbol set. Supported grammar: symbols, `true`, `false`, `!`,
// `&&`, `||`, and parentheses.
func EvaluateCondition(cond string, defined map[string]bool) (bool, error) {
	p := condParser{tokens: tokenizeCondition(cond), defined: defined}
	value, err := p.parseOr()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.tokens) {
		return false, errors.Newf(errors.InvalidArgument, "trailing input in condition %q", cond)
	}
	return value, nil
}

type tokenKind int

const (
	tokSymbol tokenKind = iota
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func tokenizeCondition(cond string) []token {
	var tokens []token
	runes := []rune(cond)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '!':
			tokens = append(tokens, token{kind: tokNot})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen})
			i++
		case r == '&' && i+1 < len(runes) && runes[i+1] == '&':
			tokens = append(tokens, token{kind: tokAnd})
			i += 2
		case r == '|' && i+1 < len(runes) && runes[i+1] == '|':
			tokens = append(tokens, token{kind: tokOr})
			i += 2
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokSymbol, text: string(runes[start:i])})
		default:
			// Unknown character; emit it as a symbol so the parser
			// reports a sensible error with context.
			tokens = append(tokens, token{kind: tokSymbol, text: string(r)})
			i++
		}
	}
	return tokens
}

type condParser struct {
	tokens  []token
	defined map[string]bool
	pos     int
}

func (p *condParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *condParser) parseOr() (bool, error) {
	value, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOr {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		value = value || rhs
	}
}

func (p *condParser) parseAnd() (bool, error) {
	value, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokAnd {
			return value, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		value = value && rhs
	}
}

func (p *condParser) parseUnary() (bool, error) {
	tok, ok := p.peek()
	if !ok {
		return false, errors.New(errors.InvalidArgument, "unexpected end of preprocessor condition", nil)
	}
	switch tok.kind {
	case tokNot:
		p.pos++
		value, err := p.parseUnary()
		return !value, err
	case tokLParen:
		p.pos++
		value, err := p.parseOr()
		if err != nil {
			return false, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return false, errors.New(errors.InvalidArgument, "missing ')' in preprocessor condition", nil)
		}
		p.pos++
		return value, nil
	case tokSymbol:
		p.pos++
		switch tok.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return p.defined[tok.text], nil
	default:
		return false, errors.New(errors.InvalidArgument, "unexpected token in preprocessor condition", nil)
	}
}
