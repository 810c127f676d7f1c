package css_extend

// The combinatoric algorithms behind @extend: Cartesian paths, weaving
// descendant chains together, and unifying complex selectors that share a
// trailing compound. These operate on raw component sequences; a well-formed
// complex selector enters and leaves as a sequence that starts and ends with
// a compound selector.

import (
	"github.com/mosscss/moss/internal/css_ast"
)

// A complex selector's components as a plain sequence.
type componentList = []css_ast.ComplexSelectorComponent

// paths returns the Cartesian product of the given choices. Each choice
// contributes one option per path. The first choice varies fastest, so
// paths([[1, 2], [3, 4]]) returns [[1, 3], [2, 3], [1, 4], [2, 4]]. This
// ordering determines the order of emitted selectors and must not change.
func paths[T any](choices [][]T) [][]T {
	result := [][]T{nil}
	for _, choice := range choices {
		expanded := make([][]T, 0, len(result)*len(choice))
		for _, option := range choice {
			for _, path := range result {
				newPath := make([]T, len(path), len(path)+1)
				copy(newPath, path)
				expanded = append(expanded, append(newPath, option))
			}
		}
		result = expanded
	}
	return result
}

// weave interleaves the given complex selectors so that the result matches
// everything the last selector matches in the context of all the others,
// respecting each input's relative order. The first input's components seed
// the result; each subsequent input's parent prefix is merged into every
// viable position, and its trailing compound is appended.
func weave(complexes []componentList) []componentList {
	prefixes := []componentList{append(componentList(nil), complexes[0]...)}

	for _, complex := range complexes[1:] {
		if len(complex) == 0 {
			continue
		}

		target := complex[len(complex)-1]
		if len(complex) == 1 {
			for i := range prefixes {
				prefixes[i] = append(prefixes[i], target)
			}
			continue
		}

		parents := complex[:len(complex)-1]
		var newPrefixes []componentList
		for _, prefix := range prefixes {
			parentPrefixes, ok := weaveParents(prefix, parents)
			if !ok {
				continue
			}
			for _, parentPrefix := range parentPrefixes {
				newPrefixes = append(newPrefixes, append(parentPrefix, target))
			}
		}
		prefixes = newPrefixes
	}

	return prefixes
}

// weaveParents merges two parent prefixes into all sequences that match
// everything both prefixes match. Shared leading/trailing combinator runs are
// merged first, then the longest common subsequence of compound groups pins
// the shared structure and the remaining chunks are emitted in both orders.
func weaveParents(parents1 componentList, parents2 componentList) ([]componentList, bool) {
	queue1 := append(componentList(nil), parents1...)
	queue2 := append(componentList(nil), parents2...)

	initialCombinators, ok := mergeInitialCombinators(&queue1, &queue2)
	if !ok {
		return nil, false
	}
	finalCombinators, ok := mergeFinalCombinators(&queue1, &queue2, nil)
	if !ok {
		return nil, false
	}

	// Make sure there's at most one ":root" in the output
	root1, found1 := firstIfRoot(&queue1)
	root2, found2 := firstIfRoot(&queue2)
	switch {
	case found1 && found2:
		unified, ok := css_ast.UnifyCompound(root1.Selectors, root2.Selectors)
		if !ok {
			return nil, false
		}
		root := css_ast.CompoundSelector{Selectors: unified}
		queue1 = append(componentList{root}, queue1...)
		queue2 = append(componentList{root}, queue2...)
	case found1:
		queue2 = append(componentList{root1}, queue2...)
	case found2:
		queue1 = append(componentList{root2}, queue1...)
	}

	groups1 := groupSelectors(queue1)
	groups2 := groupSelectors(queue2)
	lcs := longestCommonSubsequence(groups2, groups1, func(group1 componentList, group2 componentList) (componentList, bool) {
		if componentListsEqual(group1, group2) {
			return group1, true
		}
		if !startsWithCompound(group1) || !startsWithCompound(group2) {
			return nil, false
		}
		if css_ast.ComplexIsParentSuperselector(group1, group2) {
			return group2, true
		}
		if css_ast.ComplexIsParentSuperselector(group2, group1) {
			return group1, true
		}
		if !mustUnify(group1, group2) {
			return nil, false
		}
		unified, ok := unifyComplex([]componentList{group1, group2})
		if !ok || len(unified) > 1 {
			return nil, false
		}
		return unified[0], true
	})

	var choices [][]componentList
	choices = append(choices, []componentList{combinatorComponents(initialCombinators)})
	for _, group := range lcs {
		group := group
		choices = append(choices, chunkOptions(chunks(&groups1, &groups2, func(sequence []componentList) bool {
			return css_ast.ComplexIsParentSuperselector(sequence[0], group)
		})))
		choices = append(choices, []componentList{group})
		if len(groups1) > 0 {
			groups1 = groups1[1:]
		}
		if len(groups2) > 0 {
			groups2 = groups2[1:]
		}
	}
	choices = append(choices, chunkOptions(chunks(&groups1, &groups2, func(sequence []componentList) bool {
		return len(sequence) == 0
	})))
	choices = append(choices, finalCombinators...)

	// Drop choices with no options so they don't zero out the product
	filtered := make([][]componentList, 0, len(choices))
	for _, choice := range choices {
		if len(choice) > 0 {
			filtered = append(filtered, choice)
		}
	}

	var result []componentList
	for _, path := range paths(filtered) {
		var components componentList
		for _, group := range path {
			components = append(components, group...)
		}
		result = append(result, components)
	}
	return result, true
}

// chunks splits the remaining fronts of both queues into the pieces before
// "done" becomes true, and returns the distinct orderings of those pieces.
func chunks(queue1 *[]componentList, queue2 *[]componentList, done func([]componentList) bool) [][]componentList {
	var chunk1 []componentList
	for len(*queue1) > 0 && !done(*queue1) {
		chunk1 = append(chunk1, (*queue1)[0])
		*queue1 = (*queue1)[1:]
	}
	var chunk2 []componentList
	for len(*queue2) > 0 && !done(*queue2) {
		chunk2 = append(chunk2, (*queue2)[0])
		*queue2 = (*queue2)[1:]
	}

	switch {
	case len(chunk1) == 0 && len(chunk2) == 0:
		return nil
	case len(chunk1) == 0:
		return [][]componentList{chunk2}
	case len(chunk2) == 0:
		return [][]componentList{chunk1}
	}

	order1 := append(append([]componentList{}, chunk1...), chunk2...)
	order2 := append(append([]componentList{}, chunk2...), chunk1...)
	return [][]componentList{order1, order2}
}

// chunkOptions flattens each chunk of groups into a single component
// sequence, producing the options for one choice.
func chunkOptions(chunked [][]componentList) []componentList {
	var options []componentList
	for _, chunk := range chunked {
		var flat componentList
		for _, group := range chunk {
			flat = append(flat, group...)
		}
		options = append(options, flat)
	}
	return options
}

// mergeInitialCombinators pops the leading combinator runs off both queues
// and merges them. One run must be a subsequence of the other; the longer
// run wins.
func mergeInitialCombinators(components1 *componentList, components2 *componentList) ([]css_ast.Combinator, bool) {
	var combinators1 []css_ast.Combinator
	for len(*components1) > 0 {
		combinator, ok := (*components1)[0].(css_ast.Combinator)
		if !ok {
			break
		}
		combinators1 = append(combinators1, combinator)
		*components1 = (*components1)[1:]
	}

	var combinators2 []css_ast.Combinator
	for len(*components2) > 0 {
		combinator, ok := (*components2)[0].(css_ast.Combinator)
		if !ok {
			break
		}
		combinators2 = append(combinators2, combinator)
		*components2 = (*components2)[1:]
	}

	lcs := longestCommonSubsequence(combinators1, combinators2, combinatorsMatch)
	if combinatorsEqual(lcs, combinators1) {
		return combinators2, true
	}
	if combinatorsEqual(lcs, combinators2) {
		return combinators1, true
	}
	return nil, false
}

// mergeFinalCombinators pops the trailing combinators (and the compounds they
// apply to) off both queues and merges them into a sequence of choices, each
// a set of alternative component runs for the merged tail.
func mergeFinalCombinators(components1 *componentList, components2 *componentList, result [][]componentList) ([][]componentList, bool) {
	if (len(*components1) == 0 || !isCombinator(last(*components1))) &&
		(len(*components2) == 0 || !isCombinator(last(*components2))) {
		return result, true
	}

	var combinators1 []css_ast.Combinator
	for len(*components1) > 0 {
		combinator, ok := last(*components1).(css_ast.Combinator)
		if !ok {
			break
		}
		combinators1 = append(combinators1, combinator)
		*components1 = (*components1)[:len(*components1)-1]
	}
	var combinators2 []css_ast.Combinator
	for len(*components2) > 0 {
		combinator, ok := last(*components2).(css_ast.Combinator)
		if !ok {
			break
		}
		combinators2 = append(combinators2, combinator)
		*components2 = (*components2)[:len(*components2)-1]
	}

	if len(combinators1) > 1 || len(combinators2) > 1 {
		// If there are multiple combinators, something hacky is going on. Merge
		// only if one run is a subsequence of the other, keeping the longer one.
		lcs := longestCommonSubsequence(combinators1, combinators2, combinatorsMatch)
		switch {
		case combinatorsEqual(lcs, combinators1):
			option := append(append(componentList(nil), *components2...), combinatorComponents(reverseCombinators(combinators2))...)
			result = prependChoice(result, []componentList{option})
			*components2 = nil
		case combinatorsEqual(lcs, combinators2):
			option := append(append(componentList(nil), *components1...), combinatorComponents(reverseCombinators(combinators1))...)
			result = prependChoice(result, []componentList{option})
			*components1 = nil
		default:
			return nil, false
		}
		return result, true
	}

	if len(combinators1) > 0 && len(combinators2) > 0 {
		combinator1 := combinators1[0]
		combinator2 := combinators2[0]
		compound1, ok1 := popCompound(components1)
		compound2, ok2 := popCompound(components2)
		if !ok1 || !ok2 {
			return nil, false
		}

		switch {
		case combinator1 == css_ast.CombinatorFollowingSibling && combinator2 == css_ast.CombinatorFollowingSibling:
			if compound1.IsSuperselectorOf(compound2) {
				result = prependChoice(result, []componentList{{compound2, combinator2}})
			} else if compound2.IsSuperselectorOf(compound1) {
				result = prependChoice(result, []componentList{{compound1, combinator1}})
			} else {
				choices := []componentList{
					{compound1, css_ast.CombinatorFollowingSibling, compound2, css_ast.CombinatorFollowingSibling},
					{compound2, css_ast.CombinatorFollowingSibling, compound1, css_ast.CombinatorFollowingSibling},
				}
				if unified, ok := css_ast.UnifyCompound(compound1.Selectors, compound2.Selectors); ok {
					choices = append(choices, componentList{css_ast.CompoundSelector{Selectors: unified}, css_ast.CombinatorFollowingSibling})
				}
				result = prependChoice(result, choices)
			}

		case (combinator1 == css_ast.CombinatorFollowingSibling && combinator2 == css_ast.CombinatorNextSibling) ||
			(combinator1 == css_ast.CombinatorNextSibling && combinator2 == css_ast.CombinatorFollowingSibling):
			followingSiblingSelector := compound1
			nextSiblingSelector := compound2
			if combinator1 == css_ast.CombinatorNextSibling {
				followingSiblingSelector = compound2
				nextSiblingSelector = compound1
			}

			if followingSiblingSelector.IsSuperselectorOf(nextSiblingSelector) {
				result = prependChoice(result, []componentList{{nextSiblingSelector, css_ast.CombinatorNextSibling}})
			} else {
				choices := []componentList{
					{followingSiblingSelector, css_ast.CombinatorFollowingSibling, nextSiblingSelector, css_ast.CombinatorNextSibling},
				}
				if unified, ok := css_ast.UnifyCompound(compound1.Selectors, compound2.Selectors); ok {
					choices = append(choices, componentList{css_ast.CompoundSelector{Selectors: unified}, css_ast.CombinatorNextSibling})
				}
				result = prependChoice(result, choices)
			}

		case combinator1 == css_ast.CombinatorChild &&
			(combinator2 == css_ast.CombinatorNextSibling || combinator2 == css_ast.CombinatorFollowingSibling):
			result = prependChoice(result, []componentList{{compound2, combinator2}})
			*components1 = append(*components1, compound1, css_ast.CombinatorChild)

		case combinator2 == css_ast.CombinatorChild &&
			(combinator1 == css_ast.CombinatorNextSibling || combinator1 == css_ast.CombinatorFollowingSibling):
			result = prependChoice(result, []componentList{{compound1, combinator1}})
			*components2 = append(*components2, compound2, css_ast.CombinatorChild)

		case combinator1 == combinator2:
			unified, ok := css_ast.UnifyCompound(compound1.Selectors, compound2.Selectors)
			if !ok {
				return nil, false
			}
			result = prependChoice(result, []componentList{{css_ast.CompoundSelector{Selectors: unified}, combinator1}})

		default:
			return nil, false
		}

		return mergeFinalCombinators(components1, components2, result)
	}

	if len(combinators1) > 0 {
		combinator1 := combinators1[0]
		if combinator1 == css_ast.CombinatorChild && len(*components2) > 0 {
			if compound2, ok := last(*components2).(css_ast.CompoundSelector); ok && len(*components1) > 0 {
				if compound1, ok := last(*components1).(css_ast.CompoundSelector); ok && compound2.IsSuperselectorOf(compound1) {
					*components2 = (*components2)[:len(*components2)-1]
				}
			}
		}
		component := last(*components1)
		*components1 = (*components1)[:len(*components1)-1]
		result = prependChoice(result, []componentList{{component, combinator1}})
		return mergeFinalCombinators(components1, components2, result)
	}

	combinator2 := combinators2[0]
	if combinator2 == css_ast.CombinatorChild && len(*components1) > 0 {
		if compound1, ok := last(*components1).(css_ast.CompoundSelector); ok && len(*components2) > 0 {
			if compound2, ok := last(*components2).(css_ast.CompoundSelector); ok && compound1.IsSuperselectorOf(compound2) {
				*components1 = (*components1)[:len(*components1)-1]
			}
		}
	}
	component := last(*components2)
	*components2 = (*components2)[:len(*components2)-1]
	result = prependChoice(result, []componentList{{component, combinator2}})
	return mergeFinalCombinators(components1, components2, result)
}

// unifyComplex unifies multiple complex selectors that are known to end at
// the same element into a minimal set of selectors matching the
// intersection. Returns false when the trailing compounds conflict.
func unifyComplex(complexes []componentList) ([]componentList, bool) {
	if len(complexes) == 1 {
		return complexes, true
	}

	var unifiedBase []css_ast.SimpleSelector
	for _, complex := range complexes {
		base, ok := complex[len(complex)-1].(css_ast.CompoundSelector)
		if !ok {
			return nil, false
		}
		if unifiedBase == nil {
			unifiedBase = base.Selectors
		} else {
			unifiedBase, ok = css_ast.UnifyCompound(base.Selectors, unifiedBase)
			if !ok {
				return nil, false
			}
		}
	}

	complexesWithoutBases := make([]componentList, 0, len(complexes))
	for _, complex := range complexes {
		complexesWithoutBases = append(complexesWithoutBases, append(componentList(nil), complex[:len(complex)-1]...))
	}
	lastIndex := len(complexesWithoutBases) - 1
	complexesWithoutBases[lastIndex] = append(complexesWithoutBases[lastIndex], css_ast.CompoundSelector{Selectors: unifiedBase})
	return weave(complexesWithoutBases), true
}

// mustUnify reports whether merging the two selectors into one compound is
// required for correctness: they share a simple selector that can only
// appear once on an element (an ID or a pseudo-element).
func mustUnify(complex1 componentList, complex2 componentList) bool {
	uniqueSelectors := make(map[string]bool)
	for _, component := range complex1 {
		if compound, ok := component.(css_ast.CompoundSelector); ok {
			for _, simple := range compound.Selectors {
				if isUniqueSimple(simple) {
					uniqueSelectors[simple.String()] = true
				}
			}
		}
	}
	if len(uniqueSelectors) == 0 {
		return false
	}

	for _, component := range complex2 {
		if compound, ok := component.(css_ast.CompoundSelector); ok {
			for _, simple := range compound.Selectors {
				if isUniqueSimple(simple) && uniqueSelectors[simple.String()] {
					return true
				}
			}
		}
	}
	return false
}

func isUniqueSimple(simple css_ast.SimpleSelector) bool {
	switch s := simple.(type) {
	case css_ast.SID:
		return true
	case css_ast.SPseudo:
		return s.IsElement()
	}
	return false
}

// groupSelectors splits the components into groups of compound selectors
// joined by explicit combinators (".a > .b .c" gives ".a > .b" and ".c"), so a
// group boundary only falls between two adjacent compound selectors.
func groupSelectors(complex componentList) []componentList {
	var groups []componentList
	if len(complex) == 0 {
		return groups
	}

	group := componentList{complex[0]}
	for _, component := range complex[1:] {
		if isCombinator(group[len(group)-1]) || isCombinator(component) {
			group = append(group, component)
		} else {
			groups = append(groups, group)
			group = componentList{component}
		}
	}
	groups = append(groups, group)
	return groups
}

// firstIfRoot pops and returns the leading compound if it contains ":root".
func firstIfRoot(queue *componentList) (css_ast.CompoundSelector, bool) {
	if len(*queue) == 0 {
		return css_ast.CompoundSelector{}, false
	}
	compound, ok := (*queue)[0].(css_ast.CompoundSelector)
	if !ok || !hasRoot(compound) {
		return css_ast.CompoundSelector{}, false
	}
	*queue = (*queue)[1:]
	return compound, true
}

func hasRoot(compound css_ast.CompoundSelector) bool {
	for _, simple := range compound.Selectors {
		if pseudo, ok := simple.(css_ast.SPseudo); ok && pseudo.IsClass && pseudo.NormalizedName == "root" {
			return true
		}
	}
	return false
}

// longestCommonSubsequence computes the longest common subsequence of the two
// lists under "selectFn", which reports whether two elements match and which
// value represents the match in the result.
func longestCommonSubsequence[T any](list1 []T, list2 []T, selectFn func(T, T) (T, bool)) []T {
	type selection struct {
		value T
		ok    bool
	}

	lengths := make([][]int, len(list1)+1)
	for i := range lengths {
		lengths[i] = make([]int, len(list2)+1)
	}
	selections := make([][]selection, len(list1))
	for i := range selections {
		selections[i] = make([]selection, len(list2))
	}

	for i := 0; i < len(list1); i++ {
		for j := 0; j < len(list2); j++ {
			value, ok := selectFn(list1[i], list2[j])
			selections[i][j] = selection{value: value, ok: ok}
			if ok {
				lengths[i+1][j+1] = lengths[i][j] + 1
			} else {
				lengths[i+1][j+1] = max(lengths[i+1][j], lengths[i][j+1])
			}
		}
	}

	var backtrack func(i int, j int) []T
	backtrack = func(i int, j int) []T {
		if i == -1 || j == -1 {
			return nil
		}
		if s := selections[i][j]; s.ok {
			return append(backtrack(i-1, j-1), s.value)
		}
		if lengths[i+1][j] > lengths[i][j+1] {
			return backtrack(i, j-1)
		}
		return backtrack(i-1, j)
	}
	return backtrack(len(list1)-1, len(list2)-1)
}

// prependChoice adds a choice at the front of the merged-tail sequence,
// since the tails are merged from the back forward.
func prependChoice(result [][]componentList, choice []componentList) [][]componentList {
	return append([][]componentList{choice}, result...)
}

func isCombinator(component css_ast.ComplexSelectorComponent) bool {
	_, ok := component.(css_ast.Combinator)
	return ok
}

func last(components componentList) css_ast.ComplexSelectorComponent {
	return components[len(components)-1]
}

func popCompound(components *componentList) (css_ast.CompoundSelector, bool) {
	if len(*components) == 0 {
		return css_ast.CompoundSelector{}, false
	}
	compound, ok := last(*components).(css_ast.CompoundSelector)
	if !ok {
		return css_ast.CompoundSelector{}, false
	}
	*components = (*components)[:len(*components)-1]
	return compound, true
}

func startsWithCompound(components componentList) bool {
	if len(components) == 0 {
		return false
	}
	_, ok := components[0].(css_ast.CompoundSelector)
	return ok
}

func combinatorComponents(combinators []css_ast.Combinator) componentList {
	components := make(componentList, len(combinators))
	for i, combinator := range combinators {
		components[i] = combinator
	}
	return components
}

func reverseCombinators(combinators []css_ast.Combinator) []css_ast.Combinator {
	result := make([]css_ast.Combinator, len(combinators))
	for i, combinator := range combinators {
		result[len(combinators)-1-i] = combinator
	}
	return result
}

func combinatorsMatch(a css_ast.Combinator, b css_ast.Combinator) (css_ast.Combinator, bool) {
	if a == b {
		return a, true
	}
	return 0, false
}

func combinatorsEqual(a []css_ast.Combinator, b []css_ast.Combinator) bool {
	if len(a) != len(b) {
		return false
	}
	for i, combinator := range a {
		if combinator != b[i] {
			return false
		}
	}
	return true
}

func componentListsEqual(a componentList, b componentList) bool {
	if len(a) != len(b) {
		return false
	}
	for i, component := range a {
		if component.String() != b[i].String() {
			return false
		}
	}
	return true
}
