package css_ast

import (
	"testing"

	"github.com/mosscss/moss/internal/test"
)

func class(name string) SimpleSelector   { return SClass{Name: name} }
func id(name string) SimpleSelector      { return SID{Name: name} }
func typeSel(name string) SimpleSelector { return SType{Name: name} }

func compound(simples ...SimpleSelector) CompoundSelector {
	return CompoundSelector{Selectors: simples}
}

func complex(components ...ComplexSelectorComponent) ComplexSelector {
	return ComplexSelector{Components: components}
}

func TestSimpleSelectorStrings(t *testing.T) {
	ns := "svg"
	any := "*"

	test.AssertEqual(t, SType{Name: "div"}.String(), "div")
	test.AssertEqual(t, SType{Namespace: &ns, Name: "circle"}.String(), "svg|circle")
	test.AssertEqual(t, SUniversal{}.String(), "*")
	test.AssertEqual(t, SUniversal{Namespace: &any}.String(), "*|*")
	test.AssertEqual(t, SID{Name: "main"}.String(), "#main")
	test.AssertEqual(t, SClass{Name: "card"}.String(), ".card")
	test.AssertEqual(t, SPlaceholder{Name: "base"}.String(), "%base")
	test.AssertEqual(t, SParent{}.String(), "&")
	test.AssertEqual(t, SParent{Suffix: "-icon"}.String(), "&-icon")
	test.AssertEqual(t, SAttribute{Name: "href"}.String(), "[href]")
	test.AssertEqual(t, SAttribute{Name: "href", MatcherOp: "^=", MatcherValue: "ftp"}.String(), "[href^=ftp]")
	test.AssertEqual(t, SAttribute{Name: "a", MatcherOp: "=", MatcherValue: "b c", MatcherModifier: 'i'}.String(), "[a=\"b c\" i]")
	test.AssertEqual(t, NewPseudo("hover", true).String(), ":hover")
	test.AssertEqual(t, NewPseudo("before", false).String(), "::before")
}

func TestPseudoWithSelectorString(t *testing.T) {
	inner := SelectorList{Selectors: []ComplexSelector{complex(compound(class("a"))), complex(compound(class("b")))}}
	pseudo := NewPseudo("not", true).WithSelector(&inner)
	test.AssertEqual(t, pseudo.String(), ":not(.a, .b)")

	nth := NewPseudo("nth-child", true)
	nth.Argument = "2n of"
	nth.HasArgument = true
	nth.Selector = &SelectorList{Selectors: []ComplexSelector{complex(compound(class("x")))}}
	test.AssertEqual(t, nth.String(), ":nth-child(2n of .x)")
}

func TestComplexSelectorString(t *testing.T) {
	test.AssertEqual(t, complex(compound(class("a")), compound(class("b"))).String(), ".a .b")
	test.AssertEqual(t, complex(compound(class("a")), CombinatorChild, compound(class("b"))).String(), ".a > .b")
}

func TestStructuralEquality(t *testing.T) {
	test.AssertEqual(t, SimpleSelectorsEqual(class("a"), class("a")), true)
	test.AssertEqual(t, SimpleSelectorsEqual(class("a"), id("a")), false)
	test.AssertEqual(t, SimpleSelectorsEqual(class("a"), typeSel("a")), false)
	test.AssertEqual(t, ComplexSelectorsEqual(
		complex(compound(class("a")), compound(class("b"))),
		complex(compound(class("a")), compound(class("b")))), true)
	test.AssertEqual(t, ComplexSelectorsEqual(
		complex(compound(class("a")), compound(class("b"))),
		complex(compound(class("a")), CombinatorChild, compound(class("b")))), false)
}

func TestSpecificity(t *testing.T) {
	test.AssertEqual(t, SimpleMaxSpecificity(typeSel("div")), int32(1))
	test.AssertEqual(t, SimpleMaxSpecificity(class("a")), int32(1000))
	test.AssertEqual(t, SimpleMaxSpecificity(id("a")), int32(1000000))
	test.AssertEqual(t, SimpleMaxSpecificity(SUniversal{}), int32(0))
	test.AssertEqual(t, SimpleMaxSpecificity(SAttribute{Name: "href"}), int32(1000))
	test.AssertEqual(t, SimpleMaxSpecificity(NewPseudo("hover", true)), int32(1000))
	test.AssertEqual(t, SimpleMaxSpecificity(NewPseudo("before", false)), int32(1))

	// A pseudo with an inner selector takes the specificity of whichever
	// inner selector ends up matching: the maximum is the most specific
	// alternative and the minimum is the least specific one
	inner := SelectorList{Selectors: []ComplexSelector{
		complex(compound(class("a"))),
		complex(compound(id("b"))),
	}}
	test.AssertEqual(t, SimpleMaxSpecificity(NewPseudo("not", true).WithSelector(&inner)), int32(1000000))
	test.AssertEqual(t, SimpleMinSpecificity(NewPseudo("not", true).WithSelector(&inner)), int32(1000))

	matches := SelectorList{Selectors: []ComplexSelector{
		complex(compound(class("a"))),
		complex(compound(class("b"), class("c"))),
	}}
	test.AssertEqual(t, SimpleMaxSpecificity(NewPseudo("matches", true).WithSelector(&matches)), int32(2000))
	test.AssertEqual(t, SimpleMinSpecificity(NewPseudo("matches", true).WithSelector(&matches)), int32(1000))
	test.AssertEqual(t, SimpleMinSpecificity(NewPseudo("hover", true)), int32(1000))
	test.AssertEqual(t, SimpleMinSpecificity(NewPseudo("before", false)), int32(1))

	test.AssertEqual(t, complex(compound(class("a"), class("b")), compound(typeSel("i"))).MaxSpecificity(), int32(2001))
}

func TestInvisibility(t *testing.T) {
	visible := SelectorList{Selectors: []ComplexSelector{complex(compound(class("a")))}}
	test.AssertEqual(t, visible.IsInvisible(), false)

	placeholder := SelectorList{Selectors: []ComplexSelector{complex(compound(SPlaceholder{Name: "x"}))}}
	test.AssertEqual(t, placeholder.IsInvisible(), true)

	mixed := SelectorList{Selectors: []ComplexSelector{
		complex(compound(SPlaceholder{Name: "x"})),
		complex(compound(class("a"))),
	}}
	test.AssertEqual(t, mixed.IsInvisible(), false)

	// ":not(%x)" matches everything "%x" doesn't, so it stays visible
	inner := SelectorList{Selectors: []ComplexSelector{complex(compound(SPlaceholder{Name: "x"}))}}
	not := SelectorList{Selectors: []ComplexSelector{complex(compound(NewPseudo("not", true).WithSelector(&inner)))}}
	test.AssertEqual(t, not.IsInvisible(), false)
}

func TestMediaQueryEquality(t *testing.T) {
	a := []MediaQuery{{Type: "screen", Features: []string{"(min-width: 100px)"}}}
	b := []MediaQuery{{Type: "screen", Features: []string{"(min-width: 100px)"}}}
	c := []MediaQuery{{Type: "print"}}
	test.AssertEqual(t, MediaQueriesEqual(a, b), true)
	test.AssertEqual(t, MediaQueriesEqual(a, c), false)
	test.AssertEqual(t, MediaQueriesEqual(nil, nil), true)
}
