package css_extend

import (
	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/logger"
)

// extendList rewrites each complex selector in "list" using "extensions" and
// trims the result. If nothing in the list is affected, "list" is returned
// unchanged without allocating.
func (e *Extender) extendList(list css_ast.SelectorList, extensions map[string]*extensionMap, mediaQueryContext []css_ast.MediaQuery) css_ast.SelectorList {
	var extended []css_ast.ComplexSelector
	sawExtension := false
	for i, complex := range list.Selectors {
		if result, ok := e.extendComplex(complex, extensions, mediaQueryContext); ok {
			if !sawExtension {
				sawExtension = true
				if i != 0 {
					extended = append(extended, list.Selectors[:i]...)
				}
			}
			extended = append(extended, result...)
		} else if sawExtension {
			extended = append(extended, complex)
		}
	}

	if !sawExtension {
		return list
	}

	return css_ast.SelectorList{
		Selectors: e.trim(extended, func(complex css_ast.ComplexSelector) bool {
			return e.originals[complex.String()]
		}),
		Loc: e.loc,
	}
}

// extendComplex rewrites one complex selector, returning the selectors it
// expands to. Reports false when no compound in the selector was affected.
func (e *Extender) extendComplex(complex css_ast.ComplexSelector, extensions map[string]*extensionMap, mediaQueryContext []css_ast.MediaQuery) ([]css_ast.ComplexSelector, bool) {
	// The complex selectors that each component of "complex" can expand to.
	// For example, given
	//
	//     .a .b {...}
	//     .x .y {@extend .b}
	//
	// this will contain
	//
	//     [
	//       [.a],
	//       [.b, .x .y]
	//     ]
	var extendedNotExpanded [][]css_ast.ComplexSelector
	sawExtension := false

	for i, component := range complex.Components {
		compound, isCompound := component.(css_ast.CompoundSelector)
		if isCompound {
			if extended, ok := e.extendCompound(compound, extensions, mediaQueryContext); ok {
				if !sawExtension {
					sawExtension = true
					for _, prior := range complex.Components[:i] {
						extendedNotExpanded = append(extendedNotExpanded, []css_ast.ComplexSelector{{
							Components: componentList{prior},
							LineBreak:  complex.LineBreak,
						}})
					}
				}
				extendedNotExpanded = append(extendedNotExpanded, extended)
				continue
			}
		}
		if sawExtension {
			extendedNotExpanded = append(extendedNotExpanded, []css_ast.ComplexSelector{
				css_ast.OneComponent(component),
			})
		}
	}

	if !sawExtension {
		return nil, false
	}

	first := true
	var result []css_ast.ComplexSelector
	for _, path := range paths(extendedNotExpanded) {
		componentsOfPath := make([]componentList, len(path))
		for i, pathComplex := range path {
			componentsOfPath[i] = pathComplex.Components
		}

		for _, components := range weave(componentsOfPath) {
			lineBreak := complex.LineBreak
			for _, pathComplex := range path {
				lineBreak = lineBreak || pathComplex.LineBreak
			}
			outputComplex := css_ast.ComplexSelector{
				Components: components,
				LineBreak:  lineBreak,
			}

			// Make sure that copies of "complex" retain their status as
			// original selectors. This includes selectors that are modified
			// because a :not() was extended into.
			if first && e.originals[complex.String()] {
				e.originals[outputComplex.String()] = true
			}
			first = false

			result = append(result, outputComplex)
		}
	}
	return result, true
}

// extendCompound rewrites one compound selector. Each simple selector in the
// compound contributes a set of candidate extensions; every path through
// those sets is unified into output selectors. Reports false when no simple
// selector was affected, or when the mode requires every target to match and
// one didn't.
func (e *Extender) extendCompound(compound css_ast.CompoundSelector, extensions map[string]*extensionMap, mediaQueryContext []css_ast.MediaQuery) ([]css_ast.ComplexSelector, bool) {
	// If there's more than one target and they all need to match, track which
	// targets were actually extended
	targetsUsed := make(map[string]bool)

	var options [][]*Extension
	sawExtension := false

	for i, simple := range compound.Selectors {
		extended, ok := e.extendSimple(simple, extensions, mediaQueryContext, targetsUsed)
		if !ok {
			if sawExtension {
				options = append(options, []*Extension{e.extensionForSimple(simple)})
			}
			continue
		}
		if !sawExtension {
			sawExtension = true
			if i != 0 {
				options = append(options, []*Extension{e.extensionForCompound(compound.Selectors[:i])})
			}
		}
		options = append(options, extended...)
	}

	if !sawExtension {
		return nil, false
	}

	// If the mode requires every target to match and some didn't, this
	// compound is not rewritten
	if e.mode != ExtendModeNormal && len(targetsUsed) != len(extensions) {
		return nil, false
	}

	// Optimize for the simple case of a single simple selector that doesn't
	// need any unification
	if len(options) == 1 {
		var result []css_ast.ComplexSelector
		for _, state := range options[0] {
			if !e.checkMediaContext(state, mediaQueryContext) {
				return nil, false
			}
			result = append(result, state.Extender)
		}
		return result, true
	}

	// Find all paths through "options". Each path represents a different
	// unification of the base selector. For example, if we have
	//
	//     .a.b {...}
	//     .w .x {@extend .a}
	//     .y .z {@extend .b}
	//
	// then "options" is [[.a, .w .x], [.b, .y .z]] and the paths are
	//
	//     [.a, .b], [.w .x, .b], [.a, .y .z], [.w .x, .y .z]
	//
	// Each path is then unified into a list of complex selectors:
	//
	//     [.a.b], [.w .b.x], [.y .a.z], [.w .y .x.z, .y .w .x.z]
	first := e.mode != ExtendModeReplace
	var result []css_ast.ComplexSelector

	for _, path := range paths(options) {
		var complexes []componentList

		if first {
			// The first path is always the original selector. We can't just
			// return "compound" directly because pseudo selectors may have been
			// modified, but we don't have to do any unification.
			first = false

			var simples []css_ast.SimpleSelector
			for _, state := range path {
				simples = append(simples, state.Extender.LastCompound().Selectors...)
			}
			complexes = []componentList{{css_ast.CompoundSelector{Selectors: simples}}}
		} else {
			// The extenders that are original go into a single compound at the
			// front of the unification; everything else is unified as-is
			var originals []css_ast.SimpleSelector
			var toUnify []componentList
			for _, state := range path {
				if state.IsOriginal {
					originals = append(originals, state.Extender.LastCompound().Selectors...)
				} else {
					toUnify = append(toUnify, state.Extender.Components)
				}
			}
			if len(originals) > 0 {
				toUnify = append([]componentList{{css_ast.CompoundSelector{Selectors: originals}}}, toUnify...)
			}

			var ok bool
			complexes, ok = unifyComplex(toUnify)
			if !ok {
				continue
			}
		}

		lineBreak := false
		for _, state := range path {
			if !e.checkMediaContext(state, mediaQueryContext) {
				return nil, false
			}
			lineBreak = lineBreak || state.Extender.LineBreak
		}

		for _, components := range complexes {
			result = append(result, css_ast.ComplexSelector{
				Components: components,
				LineBreak:  lineBreak,
			})
		}
	}

	return result, true
}

func (e *Extender) checkMediaContext(state *Extension, mediaQueryContext []css_ast.MediaQuery) bool {
	if state.compatibleWithMediaContext(mediaQueryContext) {
		return true
	}
	msg := logger.Msg{Kind: logger.Error, Data: logger.MsgData{
		Text: "You may not @extend selectors across media queries.",
	}}
	e.log.AddMsg(msg)
	return false
}

// extendSimple rewrites one simple selector. Each returned set of extensions
// is one independent option group for path assembly. Reports false when
// nothing applies to "simple".
func (e *Extender) extendSimple(simple css_ast.SimpleSelector, extensions map[string]*extensionMap, mediaQueryContext []css_ast.MediaQuery, targetsUsed map[string]bool) ([][]*Extension, bool) {
	if pseudo, ok := simple.(css_ast.SPseudo); ok && pseudo.Selector != nil {
		if extended, ok := e.extendPseudo(pseudo, extensions, mediaQueryContext); ok {
			result := make([][]*Extension, 0, len(extended))
			for _, resultPseudo := range extended {
				if withoutPseudo, ok := e.withoutPseudo(resultPseudo, extensions, targetsUsed); ok {
					result = append(result, withoutPseudo)
				} else {
					result = append(result, []*Extension{e.extensionForSimple(resultPseudo)})
				}
			}
			return result, true
		}
	}

	if withoutPseudo, ok := e.withoutPseudo(simple, extensions, targetsUsed); ok {
		return [][]*Extension{withoutPseudo}, true
	}
	return nil, false
}

// withoutPseudo extends "simple" without extending the contents of any
// selector pseudos it contains.
func (e *Extender) withoutPseudo(simple css_ast.SimpleSelector, extensions map[string]*extensionMap, targetsUsed map[string]bool) ([]*Extension, bool) {
	extenders, ok := extensions[simple.String()]
	if !ok {
		return nil, false
	}

	targetsUsed[simple.String()] = true

	if e.mode == ExtendModeReplace {
		return extenders.values(), true
	}

	result := make([]*Extension, 0, extenders.len()+1)
	result = append(result, e.extensionForSimple(simple))
	result = append(result, extenders.values()...)
	return result, true
}

// extendPseudo extends the selector inside a pseudo-class and returns the
// resulting pseudos. Reports false when the inner selector is unchanged.
func (e *Extender) extendPseudo(pseudo css_ast.SPseudo, extensions map[string]*extensionMap, mediaQueryContext []css_ast.MediaQuery) ([]css_ast.SPseudo, bool) {
	extended := e.extendList(*pseudo.Selector, extensions, mediaQueryContext)
	if css_ast.SelectorListsEqual(extended, *pseudo.Selector) {
		return nil, false
	}

	// For :not(), we usually want to get rid of any complex selectors because
	// that will cause the selector to fail to parse on all browsers at time of
	// writing. We can keep them if either the original selector had a complex
	// selector, or the result of extending has only complex selectors, because
	// either way we aren't breaking anything that isn't already broken.
	complexes := extended.Selectors
	if pseudo.NormalizedName == "not" &&
		!anyComplexHasMultipleComponents(pseudo.Selector.Selectors) &&
		anyComplexHasOneComponent(extended.Selectors) {
		complexes = nil
		for _, complex := range extended.Selectors {
			if len(complex.Components) <= 1 {
				complexes = append(complexes, complex)
			}
		}
	}

	var flattened []css_ast.ComplexSelector
	for _, complex := range complexes {
		flattened = append(flattened, e.flattenNestedPseudo(pseudo, complex)...)
	}
	complexes = flattened

	// Older browsers support :not(), but only with a single complex selector.
	// In order to support those browsers, we break up the contents of a :not()
	// unless it originally contained a selector list.
	if pseudo.NormalizedName == "not" && len(pseudo.Selector.Selectors) == 1 {
		var result []css_ast.SPseudo
		for _, complex := range complexes {
			result = append(result, pseudo.WithSelector(&css_ast.SelectorList{
				Selectors: []css_ast.ComplexSelector{complex},
				Loc:       e.loc,
			}))
		}
		if len(result) == 0 {
			return nil, false
		}
		return result, true
	}

	return []css_ast.SPseudo{pseudo.WithSelector(&css_ast.SelectorList{
		Selectors: complexes,
		Loc:       e.loc,
	})}, true
}

// flattenNestedPseudo flattens a pseudo selector that ended up directly
// inside another pseudo selector of a kind that can absorb it. Pseudos that
// can't be flattened are dropped, except for the kinds where each layer of
// nesting adds a layer of semantics.
func (e *Extender) flattenNestedPseudo(pseudo css_ast.SPseudo, complex css_ast.ComplexSelector) []css_ast.ComplexSelector {
	keep := []css_ast.ComplexSelector{complex}

	if len(complex.Components) != 1 {
		return keep
	}
	compound, ok := complex.Components[0].(css_ast.CompoundSelector)
	if !ok || len(compound.Selectors) != 1 {
		return keep
	}
	innerPseudo, ok := compound.Selectors[0].(css_ast.SPseudo)
	if !ok || innerPseudo.Selector == nil {
		return keep
	}

	switch pseudo.NormalizedName {
	case "not":
		// In theory, if there's a :not() nested within another :not(), the
		// inner :not()'s contents should be unified with the return value. For
		// example, if :not(.foo) extends .bar, :not(.bar) should become
		// .foo:not(.bar). However, this is a narrow edge case and supporting it
		// properly would make this code a lot more complicated, so it's not
		// supported for now.
		if innerPseudo.NormalizedName == "matches" {
			return innerPseudo.Selector.Selectors
		}
		return nil

	case "matches", "any", "current", "nth-child", "nth-last-child":
		// As above, we could try to support :not() within :matches(), but
		// doing so would require this method and its callers to handle much
		// more complex cases that likely aren't worth the pain.
		if innerPseudo.Name != pseudo.Name || innerPseudo.Argument != pseudo.Argument {
			return nil
		}
		return innerPseudo.Selector.Selectors

	case "has", "host", "host-context", "slotted":
		// We can't expand nested selectors here, because each layer adds an
		// additional layer of semantics. For example, ":has(:has(img))"
		// doesn't match "<div><img></div>" but ":has(img)" does.
		return keep

	default:
		return nil
	}
}

func anyComplexHasMultipleComponents(complexes []css_ast.ComplexSelector) bool {
	for _, complex := range complexes {
		if len(complex.Components) > 1 {
			return true
		}
	}
	return false
}

func anyComplexHasOneComponent(complexes []css_ast.ComplexSelector) bool {
	for _, complex := range complexes {
		if len(complex.Components) == 1 {
			return true
		}
	}
	return false
}

// extensionForSimple returns a one-off extension whose extender is composed
// solely of "simple".
func (e *Extender) extensionForSimple(simple css_ast.SimpleSelector) *Extension {
	specificity := e.sourceSpecificity[simple.String()]
	return oneOff(css_ast.OneCompound(simple), specificity, true, true)
}

// extensionForCompound returns a one-off extension whose extender is a
// compound selector containing "simples".
func (e *Extender) extensionForCompound(simples []css_ast.SimpleSelector) *Extension {
	compound := css_ast.CompoundSelector{Selectors: simples}
	return oneOff(css_ast.OneComponent(compound), e.sourceSpecificityFor(compound), true, true)
}

// sourceSpecificityFor returns the maximum specificity of the sources that
// went into producing "compound".
func (e *Extender) sourceSpecificityFor(compound css_ast.CompoundSelector) int32 {
	specificity := int32(0)
	for _, simple := range compound.Selectors {
		if s := e.sourceSpecificity[simple.String()]; s > specificity {
			specificity = s
		}
	}
	return specificity
}

// trim removes selectors that are subselectors of other selectors with
// greater or equal specificity. The "isOriginal" callback reports which
// selectors are original to the document and thus must never be trimmed.
func (e *Extender) trim(selectors []css_ast.ComplexSelector, isOriginal func(css_ast.ComplexSelector) bool) []css_ast.ComplexSelector {
	// Avoid truly horrific quadratic behavior
	if len(selectors) > 100 {
		return selectors
	}

	// This is n² in the number of selectors, which the threshold above keeps
	// bounded. Iterate from last to first, pushing to the front of the result,
	// so that if two selectors are identical the first one is kept.
	var result []css_ast.ComplexSelector
	numOriginals := 0

outer:
	for i := len(selectors) - 1; i >= 0; i-- {
		complex1 := selectors[i]

		if isOriginal(complex1) {
			// Make sure we don't include duplicate originals, which could
			// happen if a style rule extends a component of its own selector
			for j := 0; j < numOriginals; j++ {
				if css_ast.ComplexSelectorsEqual(result[j], complex1) {
					rotateSlice(result, 0, j+1)
					continue outer
				}
			}
			numOriginals++
			result = append([]css_ast.ComplexSelector{complex1}, result...)
			continue
		}

		// The maximum specificity of the sources that caused "complex1" to be
		// generated. For "complex1" to be removed, there must be another
		// selector that's a superselector of it and has at least this much
		// specificity.
		maxSpecificity := int32(0)
		for _, component := range complex1.Components {
			if compound, ok := component.(css_ast.CompoundSelector); ok {
				if specificity := e.sourceSpecificityFor(compound); specificity > maxSpecificity {
					maxSpecificity = specificity
				}
			}
		}

		// Look in "result" rather than "selectors" for selectors after "i".
		// This ensures that we aren't comparing against a selector that's
		// already been trimmed, and thus that if there are two identical
		// selectors only one is trimmed.
		for _, complex2 := range result {
			if complex2.MinSpecificity() >= maxSpecificity && complex2.IsSuperselector(complex1) {
				continue outer
			}
		}
		for _, complex2 := range selectors[:i] {
			if complex2.MinSpecificity() >= maxSpecificity && complex2.IsSuperselector(complex1) {
				continue outer
			}
		}

		result = append([]css_ast.ComplexSelector{complex1}, result...)
	}

	return result
}

// rotateSlice rotates the elements from "start" (inclusive) to "end"
// (exclusive) one index higher, looping the final element back to "start".
func rotateSlice(list []css_ast.ComplexSelector, start int, end int) {
	element := list[end-1]
	for i := start; i < end; i++ {
		next := list[i]
		list[i] = element
		element = next
	}
}
