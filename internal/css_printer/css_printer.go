package css_printer

import (
	"strings"

	"github.com/mosscss/moss/internal/css_ast"
)

type Options struct {
	// Remove optional whitespace from the output
	MinifyWhitespace bool
}

type printer struct {
	options Options
	sb      strings.Builder
}

// Print serializes a selector list back to CSS text. Line breaks recorded on
// complex selectors during parsing are reproduced unless minifying.
func Print(list css_ast.SelectorList, options Options) string {
	p := printer{options: options}
	p.printSelectorList(list)
	return p.sb.String()
}

func (p *printer) print(text string) {
	p.sb.WriteString(text)
}

func (p *printer) printSelectorList(list css_ast.SelectorList) {
	for i, complex := range list.Selectors {
		if i > 0 {
			p.print(",")
			if !p.options.MinifyWhitespace {
				if complex.LineBreak {
					p.print("\n")
				} else {
					p.print(" ")
				}
			}
		}
		p.printComplexSelector(complex)
	}
}

func (p *printer) printComplexSelector(complex css_ast.ComplexSelector) {
	afterCombinator := false
	for i, component := range complex.Components {
		switch component := component.(type) {
		case css_ast.CompoundSelector:
			if i > 0 && (!afterCombinator || !p.options.MinifyWhitespace) {
				// A space is required in between compound selectors if there is
				// no combinator in the middle. It's fine to convert "a + b" into
				// "a+b" but not to convert "a b" into "ab".
				p.print(" ")
			}
			p.printCompoundSelector(component)
			afterCombinator = false

		case css_ast.Combinator:
			if i > 0 && !p.options.MinifyWhitespace {
				p.print(" ")
			}
			p.print(component.String())
			afterCombinator = true

		default:
			panic("Internal error")
		}
	}
}

func (p *printer) printCompoundSelector(compound css_ast.CompoundSelector) {
	for _, simple := range compound.Selectors {
		p.print(simple.String())
	}
}
