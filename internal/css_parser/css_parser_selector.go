package css_parser

import (
	"strings"

	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/css_lexer"
)

type parseSelectorOpts struct {
	stopOnCloseParen bool
}

func (p *parser) parseSelectorList(opts parseSelectorOpts) (list css_ast.SelectorList, ok bool) {
	list.Loc = p.current().Range.Loc

	// Parse the first selector
	sel, good := p.parseComplexSelector(opts)
	if !good {
		return
	}
	list.Selectors = append(list.Selectors, sel)

	// Parse the remaining selectors
	for {
		p.eat(css_lexer.TWhitespace)
		if !p.eat(css_lexer.TComma) {
			break
		}
		lineBreak := p.eatWhitespaceWithNewline()
		sel, good := p.parseComplexSelector(opts)
		if !good {
			return
		}
		sel.LineBreak = lineBreak
		list.Selectors = append(list.Selectors, sel)
	}

	ok = true
	return
}

// Whitespace tokens are skipped during selector parsing, but a newline
// between a comma and the next complex selector is remembered so the printer
// can reproduce the line break.
func (p *parser) eatWhitespaceWithNewline() bool {
	if !p.peek(css_lexer.TWhitespace) {
		return false
	}
	text := p.raw()
	p.advance()
	return strings.ContainsAny(text, "\r\n\f")
}

func (p *parser) parseCombinator() (css_ast.Combinator, bool) {
	switch p.current().Kind {
	case css_lexer.TDelimGreaterThan:
		p.advance()
		return css_ast.CombinatorChild, true

	case css_lexer.TDelimPlus:
		p.advance()
		return css_ast.CombinatorNextSibling, true

	case css_lexer.TDelimTilde:
		p.advance()
		return css_ast.CombinatorFollowingSibling, true

	default:
		return 0, false
	}
}

func (p *parser) parseComplexSelector(opts parseSelectorOpts) (result css_ast.ComplexSelector, ok bool) {
	// A leading combinator is allowed inside selector pseudo-classes, e.g.
	// ":has(> img)"
	if combinator, found := p.parseCombinator(); found {
		p.eat(css_lexer.TWhitespace)
		result.Components = append(result.Components, combinator)
	}

	sel, good := p.parseCompoundSelector(opts)
	if !good {
		return
	}
	result.Components = append(result.Components, sel)

	for {
		p.eat(css_lexer.TWhitespace)
		if p.peek(css_lexer.TEndOfFile) || p.peek(css_lexer.TComma) {
			break
		}
		if opts.stopOnCloseParen && p.peek(css_lexer.TCloseParen) {
			break
		}

		// Optional combinator; two adjacent compound selectors imply a
		// descendant combinator
		if combinator, found := p.parseCombinator(); found {
			p.eat(css_lexer.TWhitespace)
			result.Components = append(result.Components, combinator)
		}

		sel, good := p.parseCompoundSelector(opts)
		if !good {
			return
		}
		result.Components = append(result.Components, sel)
	}

	ok = true
	return
}

func (p *parser) parseCompoundSelector(opts parseSelectorOpts) (sel css_ast.CompoundSelector, ok bool) {
	// Parse the parent selector
	if p.peek(css_lexer.TDelimAmpersand) {
		ampersand := p.current()
		p.advance()

		// An identifier immediately following "&" is a Sass suffix: "&-icon"
		suffix := ""
		if t := p.current(); t.Kind == css_lexer.TIdent && t.Range.Loc.Start == ampersand.Range.End() {
			suffix = p.decoded()
			p.advance()
		}
		sel.Selectors = append(sel.Selectors, css_ast.SParent{Suffix: suffix})
	}

	// Parse the type selector
	switch p.current().Kind {
	case css_lexer.TDelimBar, css_lexer.TIdent, css_lexer.TDelimAsterisk:
		name := ""
		isUniversal := false
		var namespace *string
		if !p.peek(css_lexer.TDelimBar) {
			if p.peek(css_lexer.TDelimAsterisk) {
				isUniversal = true
			} else {
				name = p.decoded()
			}
			p.advance()
		}
		if p.eat(css_lexer.TDelimBar) {
			prefix := name
			if isUniversal {
				prefix = "*"
			}
			namespace = &prefix
			if p.peek(css_lexer.TIdent) {
				name = p.decoded()
				isUniversal = false
			} else if p.peek(css_lexer.TDelimAsterisk) {
				isUniversal = true
			} else {
				p.expect(css_lexer.TIdent)
				return
			}
			p.advance()
		}
		if isUniversal {
			sel.Selectors = append(sel.Selectors, css_ast.SUniversal{Namespace: namespace})
		} else {
			sel.Selectors = append(sel.Selectors, css_ast.SType{Namespace: namespace, Name: name})
		}
	}

	// Parse the subclass selectors
subclassSelectors:
	for {
		switch p.current().Kind {
		case css_lexer.THash:
			if !p.current().IsID {
				break subclassSelectors
			}
			sel.Selectors = append(sel.Selectors, css_ast.SID{Name: p.decoded()})
			p.advance()

		case css_lexer.TDelimDot:
			p.advance()
			name := p.decoded()
			if !p.expect(css_lexer.TIdent) {
				return
			}
			sel.Selectors = append(sel.Selectors, css_ast.SClass{Name: name})

		case css_lexer.TDelimPercent:
			p.advance()
			name := p.decoded()
			if !p.expect(css_lexer.TIdent) {
				return
			}
			sel.Selectors = append(sel.Selectors, css_ast.SPlaceholder{Name: name})

		case css_lexer.TOpenBracket:
			attr, good := p.parseAttributeSelector()
			if !good {
				return
			}
			sel.Selectors = append(sel.Selectors, attr)

		case css_lexer.TColon:
			isElement := p.next().Kind == css_lexer.TColon
			if isElement {
				p.advance()
			}
			p.advance()
			pseudo, good := p.parsePseudoSelector(isElement)
			if !good {
				return
			}
			sel.Selectors = append(sel.Selectors, pseudo)

		default:
			break subclassSelectors
		}
	}

	// The compound selector must be non-empty
	if len(sel.Selectors) == 0 {
		p.unexpected()
		return
	}

	// The type selector must always come first
	switch p.current().Kind {
	case css_lexer.TDelimBar, css_lexer.TIdent, css_lexer.TDelimAsterisk:
		p.unexpected()
		return
	}

	ok = true
	return
}

func (p *parser) parseAttributeSelector() (attr css_ast.SAttribute, ok bool) {
	p.advance()

	// Parse the namespaced name
	switch p.current().Kind {
	case css_lexer.TDelimBar, css_lexer.TDelimAsterisk:
		// "[|x]"
		// "[*|x]"
		if p.peek(css_lexer.TDelimAsterisk) {
			prefix := "*"
			attr.Namespace = &prefix
			p.advance()
		} else {
			// "[|attr]" is equivalent to "[attr]". Default namespaces do not
			// apply to attributes.
		}
		if !p.expect(css_lexer.TDelimBar) {
			return
		}
		attr.Name = p.decoded()
		if !p.expect(css_lexer.TIdent) {
			return
		}

	default:
		// "[x]"
		// "[x|y]"
		attr.Name = p.decoded()
		if !p.expect(css_lexer.TIdent) {
			return
		}
		if p.next().Kind != css_lexer.TDelimEquals && p.eat(css_lexer.TDelimBar) {
			prefix := attr.Name
			attr.Namespace = &prefix
			attr.Name = p.decoded()
			if !p.expect(css_lexer.TIdent) {
				return
			}
		}
	}

	// Parse the optional matcher operator
	p.eat(css_lexer.TWhitespace)
	if p.eat(css_lexer.TDelimEquals) {
		attr.MatcherOp = "="
	} else {
		switch p.current().Kind {
		case css_lexer.TDelimTilde:
			attr.MatcherOp = "~="
		case css_lexer.TDelimBar:
			attr.MatcherOp = "|="
		case css_lexer.TDelimCaret:
			attr.MatcherOp = "^="
		case css_lexer.TDelimDollar:
			attr.MatcherOp = "$="
		case css_lexer.TDelimAsterisk:
			attr.MatcherOp = "*="
		}
		if attr.MatcherOp != "" {
			p.advance()
			if !p.expect(css_lexer.TDelimEquals) {
				return
			}
		}
	}

	// Parse the optional matcher value
	if attr.MatcherOp != "" {
		p.eat(css_lexer.TWhitespace)
		if !p.peek(css_lexer.TString) && !p.peek(css_lexer.TIdent) {
			p.unexpected()
			return
		}
		attr.MatcherValue = p.decoded()
		p.advance()
		p.eat(css_lexer.TWhitespace)
		if p.peek(css_lexer.TIdent) {
			if modifier := p.decoded(); len(modifier) == 1 {
				if c := modifier[0]; c == 'i' || c == 'I' || c == 's' || c == 'S' {
					attr.MatcherModifier = c
					p.advance()
				}
			}
		}
	}

	if !p.expect(css_lexer.TCloseBracket) {
		return
	}
	ok = true
	return
}

// The pseudos that take a selector list as their argument. Their contents
// participate in extension. "slotted" is the one pseudo-element among them.
func pseudoTakesSelector(normalizedName string, isElement bool) bool {
	if isElement {
		return normalizedName == "slotted"
	}
	switch normalizedName {
	case "not", "matches", "is", "any", "where", "current", "has", "host", "host-context":
		return true
	}
	return false
}

func pseudoTakesNthIndex(normalizedName string) bool {
	switch normalizedName {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		return true
	}
	return false
}

func (p *parser) parsePseudoSelector(isElement bool) (pseudo css_ast.SPseudo, ok bool) {
	if p.peek(css_lexer.TFunction) {
		text := p.decoded()
		p.advance()
		p.eat(css_lexer.TWhitespace)
		pseudo = css_ast.NewPseudo(text, !isElement)

		switch {
		case pseudoTakesSelector(pseudo.NormalizedName, isElement):
			list, good := p.parseSelectorList(parseSelectorOpts{stopOnCloseParen: true})
			if !good {
				return
			}
			pseudo.Selector = &list

		case !isElement && pseudoTakesNthIndex(pseudo.NormalizedName):
			argument, good := p.parseNthIndex()
			if !good {
				return
			}
			pseudo.Argument = argument
			pseudo.HasArgument = true

			// Parse the optional "of" clause. The keyword stays part of the
			// argument so the pseudo serializes back as written.
			if (pseudo.NormalizedName == "nth-child" || pseudo.NormalizedName == "nth-last-child") &&
				p.peek(css_lexer.TIdent) && strings.EqualFold(p.decoded(), "of") {
				p.advance()
				p.eat(css_lexer.TWhitespace)
				list, good := p.parseSelectorList(parseSelectorOpts{stopOnCloseParen: true})
				if !good {
					return
				}
				pseudo.Argument += " of"
				pseudo.Selector = &list
			}

		default:
			pseudo.Argument = strings.TrimSpace(p.rawArgumentValue())
			pseudo.HasArgument = true
		}

		p.eat(css_lexer.TWhitespace)
		if !p.expect(css_lexer.TCloseParen) {
			return
		}
		ok = true
		return
	}

	name := p.decoded()
	if !p.expect(css_lexer.TIdent) {
		return
	}
	pseudo = css_ast.NewPseudo(name, !isElement)
	ok = true
	return
}

// rawArgumentValue consumes tokens until the matching ")" and returns their
// source text, used for pseudo arguments the parser doesn't model.
func (p *parser) rawArgumentValue() string {
	start := p.current().Range.Loc.Start
	end := start
	depth := 0
	for {
		switch p.current().Kind {
		case css_lexer.TCloseParen:
			if depth == 0 {
				return p.source.Contents[start:end]
			}
			depth--

		case css_lexer.TOpenParen, css_lexer.TFunction:
			depth++

		case css_lexer.TEndOfFile:
			return p.source.Contents[start:end]
		}
		end = p.current().Range.End()
		p.advance()
	}
}

// parseNthIndex accepts the "An+B" microsyntax in the loose form the lexer
// gives us: "even", "odd", a number, or a dimension/identifier containing
// "n" with an optional trailing "+ B" / "- B".
func (p *parser) parseNthIndex() (string, bool) {
	sb := strings.Builder{}

	appendCurrent := func() {
		sb.WriteString(p.raw())
		p.advance()
	}

	switch p.current().Kind {
	case css_lexer.TIdent:
		text := p.decoded()
		if text == "even" || text == "odd" {
			appendCurrent()
			p.eat(css_lexer.TWhitespace)
			return sb.String(), true
		}
		if !strings.ContainsRune(strings.ToLower(text), 'n') {
			p.unexpected()
			return "", false
		}
		appendCurrent()

	case css_lexer.TNumber:
		appendCurrent()
		p.eat(css_lexer.TWhitespace)
		return sb.String(), true

	case css_lexer.TDimension:
		appendCurrent()

	case css_lexer.TDelimPlus:
		appendCurrent()
		if !p.peek(css_lexer.TIdent) {
			p.unexpected()
			return "", false
		}
		appendCurrent()

	default:
		p.unexpected()
		return "", false
	}

	// Parse the optional "+ B" / "- B" part
	p.eat(css_lexer.TWhitespace)
	switch p.current().Kind {
	case css_lexer.TDelimPlus, css_lexer.TDelimMinus:
		sb.WriteString(p.raw())
		p.advance()
		p.eat(css_lexer.TWhitespace)
		if !p.peek(css_lexer.TNumber) {
			p.expect(css_lexer.TNumber)
			return "", false
		}
		appendCurrent()

	case css_lexer.TNumber:
		// The sign is part of the number itself here, as in "2n+1" or "2n -1"
		appendCurrent()
	}

	p.eat(css_lexer.TWhitespace)
	return sb.String(), true
}
