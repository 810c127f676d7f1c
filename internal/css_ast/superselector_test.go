package css_ast

import (
	"testing"

	"github.com/mosscss/moss/internal/test"
)

func expectSuperselector(t *testing.T, super ComplexSelector, sub ComplexSelector, expected bool) {
	t.Helper()
	t.Run(super.String()+" vs "+sub.String(), func(t *testing.T) {
		t.Helper()
		test.AssertEqual(t, super.IsSuperselector(sub), expected)
	})
}

func TestCompoundSuperselector(t *testing.T) {
	a := complex(compound(class("a")))
	ab := complex(compound(class("a"), class("b")))

	expectSuperselector(t, a, a, true)
	expectSuperselector(t, a, ab, true)
	expectSuperselector(t, ab, a, false)

	divA := complex(compound(typeSel("div"), class("a")))
	expectSuperselector(t, a, divA, true)
	expectSuperselector(t, divA, a, false)
}

func TestComplexSuperselector(t *testing.T) {
	aThenB := complex(compound(class("a")), compound(class("b")))
	aChildB := complex(compound(class("a")), CombinatorChild, compound(class("b")))
	b := complex(compound(class("b")))

	// Descendant chains relax; child chains are strict
	expectSuperselector(t, aThenB, aChildB, true)
	expectSuperselector(t, aChildB, aThenB, false)
	expectSuperselector(t, b, aThenB, true)
	expectSuperselector(t, aThenB, b, false)

	xaThenB := complex(compound(class("x")), compound(class("a")), compound(class("b")))
	expectSuperselector(t, aThenB, xaThenB, true)
	expectSuperselector(t, xaThenB, aThenB, false)
}

func TestSiblingCombinatorSuperselector(t *testing.T) {
	following := complex(compound(class("a")), CombinatorFollowingSibling, compound(class("b")))
	next := complex(compound(class("a")), CombinatorNextSibling, compound(class("b")))

	// ".a ~ .b" matches everything ".a + .b" matches
	expectSuperselector(t, following, next, true)
	expectSuperselector(t, next, following, false)
}

func TestSelectorPseudoSuperselector(t *testing.T) {
	innerAB := SelectorList{Selectors: []ComplexSelector{
		complex(compound(class("a"))),
		complex(compound(class("b"))),
	}}
	innerA := SelectorList{Selectors: []ComplexSelector{complex(compound(class("a")))}}

	matchesAB := complex(compound(NewPseudo("matches", true).WithSelector(&innerAB)))
	matchesA := complex(compound(NewPseudo("matches", true).WithSelector(&innerA)))

	// ":matches(.a, .b)" matches a superset of ":matches(.a)"
	expectSuperselector(t, matchesAB, matchesA, true)
	expectSuperselector(t, matchesA, matchesAB, false)

	// ":matches(.a, .b)" also covers a bare ".a"
	expectSuperselector(t, matchesAB, complex(compound(class("a"))), true)

	// ":not(div)" covers "span" because no element is both, but it doesn't
	// cover "div" itself
	innerDiv := SelectorList{Selectors: []ComplexSelector{complex(compound(typeSel("div")))}}
	notDiv := complex(compound(NewPseudo("not", true).WithSelector(&innerDiv)))
	expectSuperselector(t, notDiv, complex(compound(typeSel("span"))), true)
	expectSuperselector(t, notDiv, complex(compound(typeSel("div"))), false)

	innerIDA := SelectorList{Selectors: []ComplexSelector{complex(compound(id("a")))}}
	notIDA := complex(compound(NewPseudo("not", true).WithSelector(&innerIDA)))
	expectSuperselector(t, notIDA, complex(compound(id("b"))), true)

	notA := complex(compound(NewPseudo("not", true).WithSelector(&innerA)))
	expectSuperselector(t, notA, notA, true)
	expectSuperselector(t, notA, complex(compound(class("x"))), false)
}

func TestListIsSuperselector(t *testing.T) {
	ab := []ComplexSelector{complex(compound(class("a"))), complex(compound(class("b")))}
	a := []ComplexSelector{complex(compound(class("a")))}
	test.AssertEqual(t, ListIsSuperselector(ab, a), true)
	test.AssertEqual(t, ListIsSuperselector(a, ab), false)
}

func TestUnifyCompoundSimple(t *testing.T) {
	result, ok := UnifyCompound([]SimpleSelector{class("a")}, []SimpleSelector{class("b")})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), ".b.a")

	// Unifying a compound with itself is the identity
	result, ok = UnifyCompound([]SimpleSelector{class("a")}, []SimpleSelector{class("a")})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), ".a")
}

func TestUnifyCompoundTypeSelectors(t *testing.T) {
	_, ok := UnifyCompound([]SimpleSelector{typeSel("div")}, []SimpleSelector{typeSel("span")})
	test.AssertEqual(t, ok, false)

	result, ok := UnifyCompound([]SimpleSelector{SUniversal{}}, []SimpleSelector{typeSel("div")})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), "div")

	// The type selector stays at the front of the compound
	result, ok = UnifyCompound([]SimpleSelector{typeSel("div")}, []SimpleSelector{class("a")})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), "div.a")
}

func TestUnifyCompoundIDConflict(t *testing.T) {
	_, ok := UnifyCompound([]SimpleSelector{id("a")}, []SimpleSelector{id("b")})
	test.AssertEqual(t, ok, false)

	result, ok := UnifyCompound([]SimpleSelector{id("a")}, []SimpleSelector{id("a")})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), "#a")
}

func TestUnifyCompoundPseudoOrdering(t *testing.T) {
	// Pseudo selectors stay at the end of the compound
	before := NewPseudo("before", false)
	result, ok := UnifyCompound([]SimpleSelector{class("a")}, []SimpleSelector{before})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), ".a::before")

	// A compound selector can only contain one pseudo-element
	_, ok = UnifyCompound([]SimpleSelector{NewPseudo("after", false)}, []SimpleSelector{before})
	test.AssertEqual(t, ok, false)
}

func TestUnifyCompoundNamespaces(t *testing.T) {
	svg := "svg"
	html := "html"
	any := "*"

	_, ok := UnifyCompound([]SimpleSelector{SType{Namespace: &svg, Name: "a"}}, []SimpleSelector{SType{Namespace: &html, Name: "a"}})
	test.AssertEqual(t, ok, false)

	result, ok := UnifyCompound([]SimpleSelector{SType{Namespace: &any, Name: "a"}}, []SimpleSelector{SType{Namespace: &svg, Name: "a"}})
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, CompoundSelector{Selectors: result}.String(), "svg|a")
}
