package prettytrace

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

// Node is an element of a TokenStream: either Text or *Token.
type Node interface {
	// Len is the length in UTF-16 code units, the unit of V8 columns.
	Len() int
	String() string
	isNode()
}

// Text is a plain, untyped source fragment.
type Text string

func (t Text) Len() int       { return jsLen(string(t)) }
func (t Text) String() string { return string(t) }
func (Text) isNode()          {}

// Token is a typed fragment whose content may nest further tokens, as
// template literals do with their interpolations.
type Token struct {
	Type    string
	Content TokenStream
}

func (t *Token) Len() int       { return t.Content.Len() }
func (t *Token) String() string { return t.Content.String() }
func (*Token) isNode()          {}

// TokenStream is an ordered sequence of nodes covering one source line.
type TokenStream []Node

// Len sums the UTF-16 lengths of the nodes.
func (s TokenStream) Len() int {
	n := 0
	for _, node := range s {
		n += node.Len()
	}
	return n
}

func (s TokenStream) String() string {
	var sb strings.Builder
	for _, node := range s {
		sb.WriteString(node.String())
	}
	return sb.String()
}

// jsLen counts UTF-16 code units so lengths agree with V8 column numbers.
func jsLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

const (
	languageDefault = "javascript"
	languageAuto    = "auto"
)

// resolveLexer picks the lexer for an excerpt. "auto" matches on the file
// name; unknown names and failed matches fall back to JavaScript.
func resolveLexer(language, filename string) chroma.Lexer {
	var lexer chroma.Lexer
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", languageDefault:
	case languageAuto:
		lexer = lexers.Match(filename)
	default:
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Get(languageDefault)
	}
	return lexer
}

// Tokenize lexes one source line into a TokenStream. The concatenated text
// of the result always equals line.
func Tokenize(line string, lexer chroma.Lexer) (stream TokenStream, err error) {
	if lexer == nil {
		lexer = lexers.Get(languageDefault)
	}
	defer func() {
		// chroma iterators report lexing failures by panicking.
		if r := recover(); r != nil {
			stream, err = nil, fmt.Errorf("prettytrace: tokenize: %v", r)
		}
	}()
	it, err := lexer.Tokenise(nil, line)
	if err != nil {
		return nil, fmt.Errorf("prettytrace: tokenize: %w", err)
	}
	tokens := trimTokens(it.Tokens(), len(line))

	b := &streamBuilder{}
	for i, tok := range tokens {
		b.add(tok, classify(tokens, i))
	}
	b.closeAll()
	return b.root, nil
}

// trimTokens drops the trailing newline some lexers append and any empty
// tokens, so the token text is exactly the input line.
func trimTokens(tokens []chroma.Token, want int) []chroma.Token {
	total := 0
	for _, t := range tokens {
		total += len(t.Value)
	}
	for extra := total - want; extra > 0 && len(tokens) > 0; {
		last := &tokens[len(tokens)-1]
		cut := min(extra, len(last.Value))
		last.Value = last.Value[:len(last.Value)-cut]
		extra -= cut
		if last.Value == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}
	out := tokens[:0]
	for _, t := range tokens {
		if t.Value != "" {
			out = append(out, t)
		}
	}
	return out
}

// classify maps a chroma token to the token-type vocabulary used by the
// palettes. An empty result marks plain text.
func classify(tokens []chroma.Token, i int) string {
	tok := tokens[i]
	t := tok.Type
	switch {
	case t == chroma.KeywordConstant:
		switch tok.Value {
		case "true", "false":
			return "boolean"
		case "NaN", "Infinity":
			return "number"
		}
		return "keyword"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		if isCapitalized(tok.Value) {
			return "class-name"
		}
		return "builtin"
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return "function"
	case t == chroma.NameClass || t == chroma.NameException:
		return "class-name"
	case t == chroma.NameConstant:
		return "constant"
	case t == chroma.NameProperty || t == chroma.NameAttribute:
		return "property"
	case t.InSubCategory(chroma.NameVariable):
		return "variable"
	case t == chroma.NameTag:
		return "keyword"
	case t == chroma.LiteralStringRegex:
		return "regex"
	case t == chroma.LiteralStringChar:
		return "char"
	case t == chroma.LiteralStringSymbol:
		return "symbol"
	case t == chroma.LiteralStringBacktick || t == chroma.LiteralStringInterpol:
		// handled structurally by streamBuilder
		return "string"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t.InCategory(chroma.Operator):
		return "operator"
	case t == chroma.Punctuation:
		if tok.Value == "=>" || tok.Value == "..." {
			return "operator"
		}
		return "punctuation"
	case t.InCategory(chroma.Comment):
		return "comment"
	case t.InCategory(chroma.Name):
		return classifyIdentifier(tokens, i)
	}
	return ""
}

// classifyIdentifier gives bare identifiers the contextual types a
// JavaScript grammar assigns: calls are functions, constructors and class
// heritage are class names, SCREAMING_CASE is a constant.
func classifyIdentifier(tokens []chroma.Token, i int) string {
	value := tokens[i].Value
	if next := nextSignificant(tokens, i); next >= 0 && tokens[next].Value == "(" {
		return "function"
	}
	if prev := prevSignificant(tokens, i); prev >= 0 && isCapitalized(value) {
		switch tokens[prev].Value {
		case "new", "class", "extends", "instanceof", "implements":
			return "class-name"
		}
	}
	if isConstantName(value) {
		return "constant"
	}
	return ""
}

func nextSignificant(tokens []chroma.Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if strings.TrimSpace(tokens[j].Value) != "" {
			return j
		}
	}
	return -1
}

func prevSignificant(tokens []chroma.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if strings.TrimSpace(tokens[j].Value) != "" {
			return j
		}
	}
	return -1
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isConstantName(s string) bool {
	if !isCapitalized(s) || len(s) < 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

const (
	typeTemplate         = "template-string"
	typeTemplatePunct    = "template-punctuation"
	typeInterpolation    = "interpolation"
	typeInterpolationPun = "interpolation-punctuation"
)

// streamBuilder assembles the token tree. Template literals open a
// template-string node, ${...} inside them opens an interpolation node.
type streamBuilder struct {
	root  TokenStream
	stack []*Token
}

func (b *streamBuilder) add(tok chroma.Token, typ string) {
	switch {
	case tok.Type == chroma.LiteralStringBacktick && tok.Value == "`":
		if b.top(typeTemplate) {
			b.emit(leaf(typeTemplatePunct, tok.Value))
			b.close()
			return
		}
		b.open(typeTemplate)
		b.emit(leaf(typeTemplatePunct, tok.Value))
	case tok.Type == chroma.LiteralStringInterpol && tok.Value == "${" && b.top(typeTemplate):
		b.open(typeInterpolation)
		b.emit(leaf(typeInterpolationPun, tok.Value))
	case tok.Type == chroma.LiteralStringInterpol && tok.Value == "}" && b.top(typeInterpolation):
		b.emit(leaf(typeInterpolationPun, tok.Value))
		b.close()
	case typ == "":
		b.emit(Text(tok.Value))
	default:
		b.emit(leaf(typ, tok.Value))
	}
}

func leaf(typ, value string) *Token {
	return &Token{Type: typ, Content: TokenStream{Text(value)}}
}

func (b *streamBuilder) top(typ string) bool {
	return len(b.stack) > 0 && b.stack[len(b.stack)-1].Type == typ
}

func (b *streamBuilder) open(typ string) {
	t := &Token{Type: typ}
	b.emit(t)
	b.stack = append(b.stack, t)
}

func (b *streamBuilder) close() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

// closeAll terminates groups left open by a literal spanning several lines.
func (b *streamBuilder) closeAll() {
	b.stack = b.stack[:0]
}

// mergeable types coalesce with an adjacent token of the same type; the
// lexer splits strings and comments at escapes and the pieces read as one.
var mergeable = map[string]bool{"string": true, "comment": true, "regex": true}

func (b *streamBuilder) emit(n Node) {
	target := &b.root
	if len(b.stack) > 0 {
		target = &b.stack[len(b.stack)-1].Content
	}
	if last := len(*target) - 1; last >= 0 {
		switch cur := n.(type) {
		case Text:
			if prev, ok := (*target)[last].(Text); ok {
				(*target)[last] = prev + cur
				return
			}
		case *Token:
			if prev, ok := (*target)[last].(*Token); ok && prev.Type == cur.Type && mergeable[cur.Type] {
				prev.Content = TokenStream{Text(prev.String() + cur.String())}
				return
			}
		}
	}
	*target = append(*target, n)
}

// Highlight colourises a token tree depth-first, preserving token order.
// Text inherits the style of its nearest enclosing token, so the text of a
// template string around an interpolation keeps the string colour.
func (p ColorPalette) Highlight(stream TokenStream) string {
	var sb strings.Builder
	p.highlight(&sb, stream, p.Plain)
	return sb.String()
}

func (p ColorPalette) highlight(sb *strings.Builder, stream TokenStream, style lipgloss.Style) {
	for _, node := range stream {
		switch n := node.(type) {
		case Text:
			sb.WriteString(style.Render(string(n)))
		case *Token:
			p.highlight(sb, n.Content, p.styleFor(n.Type))
		}
	}
}
