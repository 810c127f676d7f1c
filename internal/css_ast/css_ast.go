package css_ast

import (
	"strings"

	"github.com/mosscss/moss/internal/css_lexer"
	"github.com/mosscss/moss/internal/helpers"
	"github.com/mosscss/moss/internal/logger"
)

// The selector AST is a tree of value types with structural equality. The
// extension engine indexes selectors by their canonical serialization (the
// "String" methods below), so two selectors are interchangeable exactly when
// they print the same. Nodes are never mutated after construction; rewrites
// build new nodes and share unchanged children.

// A comma-separated list of complex selectors.
type SelectorList struct {
	Selectors []ComplexSelector
	Loc       logger.Loc
}

// A chain of compound selectors and combinators. Two adjacent compound
// selectors imply a descendant combinator in between. A complex selector
// starts and ends with a compound selector except transiently inside the
// weave algorithm.
type ComplexSelector struct {
	Components []ComplexSelectorComponent

	// A line break before this selector in the source, preserved for output
	LineBreak bool
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type ComplexSelectorComponent interface {
	isComplexSelectorComponent()
	String() string
}

func (CompoundSelector) isComplexSelectorComponent() {}
func (Combinator) isComplexSelectorComponent()       {}

// A non-empty ordered sequence of simple selectors that all apply to a single
// element. Pseudo-elements must trail, which the unification rules maintain.
type CompoundSelector struct {
	Selectors []SimpleSelector
}

type Combinator uint8

const (
	CombinatorChild            Combinator = iota + 1 // ">"
	CombinatorNextSibling                            // "+"
	CombinatorFollowingSibling                       // "~"
)

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type SimpleSelector interface {
	isSimpleSelector()
	String() string
}

func (SType) isSimpleSelector()        {}
func (SUniversal) isSimpleSelector()   {}
func (SID) isSimpleSelector()          {}
func (SClass) isSimpleSelector()       {}
func (SAttribute) isSimpleSelector()   {}
func (SPlaceholder) isSimpleSelector() {}
func (SParent) isSimpleSelector()      {}
func (SPseudo) isSimpleSelector()      {}

// "div", "ns|div"
type SType struct {
	// If non-nil, this is an identifier or "*" followed by a "|" character
	Namespace *string
	Name      string
}

// "*", "ns|*"
type SUniversal struct {
	Namespace *string
}

// "#main"
type SID struct {
	Name string
}

// ".card"
type SClass struct {
	Name string
}

// "%button-base", a Sass placeholder selector
type SPlaceholder struct {
	Name string
}

// "&", "&-suffix", the Sass parent selector
type SParent struct {
	Suffix string
}

// "[href]", "[href^=ftp i]"
type SAttribute struct {
	Namespace       *string
	Name            string
	MatcherOp       string // Either "" or one of: "=" "~=" "|=" "^=" "$=" "*="
	MatcherValue    string
	MatcherModifier byte // Either 0 or one of: 'i' 'I' 's' 'S'
}

// ":hover", "::before", ":not(a, b)", ":nth-child(2n of .x)"
type SPseudo struct {
	Name string

	// The lowercased name with any vendor prefix removed, used to key
	// behavior that must survive prefixing
	NormalizedName string

	// A pseudo-class (":hover") as opposed to a pseudo-element ("::before")
	IsClass bool

	// The argument text, e.g. the "2n of" of ":nth-child(2n of .x)"
	Argument    string
	HasArgument bool

	// The inner selector, e.g. the ".x" of ":nth-child(2n of .x)". Selectors
	// inside pseudo-classes participate recursively in extension.
	Selector *SelectorList
}

func NewPseudo(name string, isClass bool) SPseudo {
	return SPseudo{
		Name:           name,
		NormalizedName: helpers.Unvendor(strings.ToLower(name)),
		IsClass:        isClass,
	}
}

func (p SPseudo) IsElement() bool {
	return !p.IsClass
}

// WithSelector returns a copy of this pseudo wrapping "selector" instead.
func (p SPseudo) WithSelector(selector *SelectorList) SPseudo {
	p.Selector = selector
	return p
}

func (p SPseudo) isHostLike() bool {
	return p.IsClass && (p.NormalizedName == "host" || p.NormalizedName == "host-context")
}

////////////////////////////////////////////////////////////////////////////////
// Canonical serialization. This doubles as the structural identity used by
// the extension engine's indices.

func (l SelectorList) String() string {
	sb := strings.Builder{}
	for i, complex := range l.Selectors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(complex.String())
	}
	return sb.String()
}

func (c ComplexSelector) String() string {
	sb := strings.Builder{}
	for i, component := range c.Components {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(component.String())
	}
	return sb.String()
}

func (c CompoundSelector) String() string {
	sb := strings.Builder{}
	for _, simple := range c.Selectors {
		sb.WriteString(simple.String())
	}
	return sb.String()
}

func (c Combinator) String() string {
	switch c {
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorFollowingSibling:
		return "~"
	default:
		panic("Internal error")
	}
}

func (s SType) String() string {
	if s.Namespace != nil {
		return *s.Namespace + "|" + s.Name
	}
	return s.Name
}

func (s SUniversal) String() string {
	if s.Namespace != nil {
		return *s.Namespace + "|*"
	}
	return "*"
}

func (s SID) String() string {
	return "#" + s.Name
}

func (s SClass) String() string {
	return "." + s.Name
}

func (s SPlaceholder) String() string {
	return "%" + s.Name
}

func (s SParent) String() string {
	return "&" + s.Suffix
}

func (s SAttribute) String() string {
	sb := strings.Builder{}
	sb.WriteByte('[')
	if s.Namespace != nil {
		sb.WriteString(*s.Namespace)
		sb.WriteByte('|')
	}
	sb.WriteString(s.Name)
	if s.MatcherOp != "" {
		sb.WriteString(s.MatcherOp)
		printAsIdent := css_lexer.WouldStartIdentifierWithoutEscapes(s.MatcherValue)
		if printAsIdent {
			for _, c := range s.MatcherValue {
				if !css_lexer.IsNameContinue(c) {
					printAsIdent = false
					break
				}
			}
		}
		if printAsIdent {
			sb.WriteString(s.MatcherValue)
		} else {
			sb.WriteByte('"')
			sb.WriteString(s.MatcherValue)
			sb.WriteByte('"')
		}
		if s.MatcherModifier != 0 {
			sb.WriteByte(' ')
			sb.WriteByte(s.MatcherModifier)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (s SPseudo) String() string {
	sb := strings.Builder{}
	sb.WriteByte(':')
	if !s.IsClass {
		sb.WriteByte(':')
	}
	sb.WriteString(s.Name)
	if s.HasArgument || s.Selector != nil {
		sb.WriteByte('(')
		if s.HasArgument {
			sb.WriteString(s.Argument)
			if s.Selector != nil {
				sb.WriteByte(' ')
			}
		}
		if s.Selector != nil {
			sb.WriteString(s.Selector.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

////////////////////////////////////////////////////////////////////////////////
// Structural equality. Delegates to the canonical serialization so the
// definition can never drift from the index keys.

func SimpleSelectorsEqual(a SimpleSelector, b SimpleSelector) bool {
	return a.String() == b.String()
}

func CompoundSelectorsEqual(a CompoundSelector, b CompoundSelector) bool {
	return a.String() == b.String()
}

func ComplexSelectorsEqual(a ComplexSelector, b ComplexSelector) bool {
	if len(a.Components) != len(b.Components) {
		return false
	}
	return a.String() == b.String()
}

func SelectorListsEqual(a SelectorList, b SelectorList) bool {
	if len(a.Selectors) != len(b.Selectors) {
		return false
	}
	return a.String() == b.String()
}

////////////////////////////////////////////////////////////////////////////////
// Visibility. A selector containing a placeholder matches nothing on its own.
// The printer still prints such selectors; visibility only decides which
// selectors the extender records as originals.

func (s SelectorList) IsInvisible() bool {
	for _, complex := range s.Selectors {
		if !complex.IsInvisible() {
			return false
		}
	}
	return true
}

func (c ComplexSelector) IsInvisible() bool {
	for _, component := range c.Components {
		if compound, ok := component.(CompoundSelector); ok && compound.IsInvisible() {
			return true
		}
	}
	return false
}

func (c CompoundSelector) IsInvisible() bool {
	for _, simple := range c.Selectors {
		if simpleIsInvisible(simple) {
			return true
		}
	}
	return false
}

func simpleIsInvisible(s SimpleSelector) bool {
	switch s := s.(type) {
	case SPlaceholder:
		return true
	case SPseudo:
		// A :not() is visible even when its contents aren't: it matches
		// everything the inner selector doesn't.
		return s.Selector != nil && s.NormalizedName != "not" && s.Selector.IsInvisible()
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////

// LastCompound returns the trailing compound selector, which exists for any
// well-formed complex selector.
func (c ComplexSelector) LastCompound() CompoundSelector {
	if compound, ok := c.Components[len(c.Components)-1].(CompoundSelector); ok {
		return compound
	}
	panic("Internal error")
}

// OneComponent wraps a single component as a complex selector.
func OneComponent(component ComplexSelectorComponent) ComplexSelector {
	return ComplexSelector{Components: []ComplexSelectorComponent{component}}
}

// OneCompound wraps a single simple selector as a complex selector.
func OneCompound(simples ...SimpleSelector) ComplexSelector {
	return OneComponent(CompoundSelector{Selectors: simples})
}

// A media query is opaque to the extension engine: queries are only ever
// compared for equality to decide whether an @extend may cross a scope.
type MediaQuery struct {
	Modifier string
	Type     string
	Features []string
}

func (q MediaQuery) Equal(other MediaQuery) bool {
	if q.Modifier != other.Modifier || q.Type != other.Type || len(q.Features) != len(other.Features) {
		return false
	}
	for i, feature := range q.Features {
		if feature != other.Features[i] {
			return false
		}
	}
	return true
}

func MediaQueriesEqual(a []MediaQuery, b []MediaQuery) bool {
	if len(a) != len(b) {
		return false
	}
	for i, query := range a {
		if !query.Equal(b[i]) {
			return false
		}
	}
	return true
}
