package css_parser

import (
	"fmt"

	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/css_lexer"
	"github.com/mosscss/moss/internal/logger"
)

// This parser turns source text into the selector AST consumed by the
// extension engine. Sass extensions to CSS selector syntax are supported:
// placeholder selectors ("%base"), parent selectors ("&", "&-suffix"), and
// selector arguments inside the usual pseudo-classes.

type parser struct {
	log       logger.Log
	source    logger.Source
	tokens    []css_lexer.Token
	tracker   logger.LineColumnTracker
	index     int
	prevError logger.Loc
}

// ParseSelectorList parses a comma-separated selector list.
func ParseSelectorList(log logger.Log, source logger.Source) (css_ast.SelectorList, bool) {
	p := parser{
		log:       log,
		source:    source,
		tokens:    css_lexer.Tokenize(log, source),
		tracker:   logger.MakeLineColumnTracker(&source),
		prevError: logger.Loc{Start: -1},
	}
	p.eat(css_lexer.TWhitespace)
	list, ok := p.parseSelectorList(parseSelectorOpts{})
	if ok && !p.peek(css_lexer.TEndOfFile) {
		p.unexpected()
		ok = false
	}
	return list, ok
}

func (p *parser) advance() {
	if p.index < len(p.tokens) {
		p.index++
	}
}

func (p *parser) at(index int) css_lexer.Token {
	if index < len(p.tokens) {
		return p.tokens[index]
	}
	return css_lexer.Token{
		Kind:  css_lexer.TEndOfFile,
		Range: logger.Range{Loc: logger.Loc{Start: int32(len(p.source.Contents))}},
	}
}

func (p *parser) current() css_lexer.Token {
	return p.at(p.index)
}

func (p *parser) next() css_lexer.Token {
	return p.at(p.index + 1)
}

func (p *parser) raw() string {
	t := p.current()
	return p.source.Contents[t.Range.Loc.Start:t.Range.End()]
}

func (p *parser) decoded() string {
	return p.current().DecodedText(p.source.Contents)
}

func (p *parser) peek(kind css_lexer.T) bool {
	return kind == p.current().Kind
}

func (p *parser) eat(kind css_lexer.T) bool {
	if p.peek(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind css_lexer.T) bool {
	if p.eat(kind) {
		return true
	}
	t := p.current()

	var text string
	switch t.Kind {
	case css_lexer.TEndOfFile, css_lexer.TWhitespace:
		text = fmt.Sprintf("Expected %s but found %s", kind.String(), t.Kind.String())
		t.Range.Len = 0
	default:
		text = fmt.Sprintf("Expected %s but found %q", kind.String(), p.raw())
	}

	if t.Range.Loc.Start > p.prevError.Start {
		p.log.Add(logger.Error, &p.tracker, t.Range, text)
		p.prevError = t.Range.Loc
	}
	return false
}

func (p *parser) unexpected() {
	if t := p.current(); t.Range.Loc.Start > p.prevError.Start {
		var text string
		switch t.Kind {
		case css_lexer.TEndOfFile, css_lexer.TWhitespace:
			text = fmt.Sprintf("Unexpected %s", t.Kind.String())
			t.Range.Len = 0
		default:
			text = fmt.Sprintf("Unexpected %q", p.raw())
		}
		p.log.Add(logger.Error, &p.tracker, t.Range, text)
		p.prevError = t.Range.Loc
	}
}
