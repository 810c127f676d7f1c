package css_ast

// Whether one selector is guaranteed to match every element another selector
// matches. This predicate is what lets the trim pass drop redundant selectors
// without changing which elements a style rule applies to.

// ListIsSuperselector returns true if "list1" is a superselector of "list2":
// every element matched by any selector in "list2" is also matched by some
// selector in "list1".
func ListIsSuperselector(list1 []ComplexSelector, list2 []ComplexSelector) bool {
	for _, complex2 := range list2 {
		found := false
		for _, complex1 := range list1 {
			if ComplexIsSuperselector(complex1.Components, complex2.Components) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsSuperselector returns whether this complex selector matches a superset of
// the elements "other" matches.
func (c ComplexSelector) IsSuperselector(other ComplexSelector) bool {
	return ComplexIsSuperselector(c.Components, other.Components)
}

func ComplexIsSuperselector(complex1 []ComplexSelectorComponent, complex2 []ComplexSelectorComponent) bool {
	if len(complex1) == 0 || len(complex2) == 0 {
		return false
	}

	// Selectors with trailing combinators are neither superselectors nor
	// subselectors
	if _, ok := complex1[len(complex1)-1].(Combinator); ok {
		return false
	}
	if _, ok := complex2[len(complex2)-1].(Combinator); ok {
		return false
	}

	i1 := 0
	i2 := 0
	for {
		remaining1 := len(complex1) - i1
		remaining2 := len(complex2) - i2
		if remaining1 == 0 || remaining2 == 0 {
			return false
		}

		// More selectors are always more narrowly matching than fewer selectors
		if remaining1 > remaining2 {
			return false
		}

		compound1, ok := complex1[i1].(CompoundSelector)
		if !ok {
			return false
		}
		if remaining1 == 1 {
			return CompoundIsSuperselector(compound1, lastCompoundOf(complex2), complex2[i2:len(complex2)-1])
		}

		// Find the first compound selector in "complex2" that "compound1" is a
		// superselector of, stopping before the last component so something is
		// left over to match the rest of "complex1"
		endOfSubselector := i2
		for {
			component2 := complex2[endOfSubselector]
			if compound2, ok := component2.(CompoundSelector); ok {
				if CompoundIsSuperselector(compound1, compound2, complex2[i2:endOfSubselector]) {
					break
				}
			}
			endOfSubselector++
			if endOfSubselector == len(complex2)-1 {
				return false
			}
		}

		combinator1 := complex1[i1+1]
		combinator2 := complex2[endOfSubselector+1]
		if c1, ok := combinator1.(Combinator); ok {
			c2, ok := combinator2.(Combinator)
			if !ok {
				return false
			}

			// ".a ~ .b" is a superselector of ".a + .b", but otherwise the
			// combinators must match exactly
			if c1 == CombinatorFollowingSibling {
				if c2 == CombinatorChild {
					return false
				}
			} else if c2 != c1 {
				return false
			}

			// ".a > .b" is not a superselector of ".x .a > .b", since the latter
			// is not guaranteed to put ".a" directly above ".b"
			if remaining1 == 3 && remaining2 > 3 {
				return false
			}

			i1 += 2
			i2 = endOfSubselector + 2
		} else if c2, ok := combinator2.(Combinator); ok {
			if c2 != CombinatorChild {
				return false
			}
			i1++
			i2 = endOfSubselector + 2
		} else {
			i1++
			i2 = endOfSubselector + 1
		}
	}
}

func lastCompoundOf(complex []ComplexSelectorComponent) CompoundSelector {
	if compound, ok := complex[len(complex)-1].(CompoundSelector); ok {
		return compound
	}
	panic("Internal error")
}

// ComplexIsParentSuperselector returns whether "complex1" is a superselector
// of "complex2" when both are appended with some identical trailing
// selector. This is what the weave algorithm uses to decide whether one
// prefix subsumes another.
func ComplexIsParentSuperselector(complex1 []ComplexSelectorComponent, complex2 []ComplexSelectorComponent) bool {
	if len(complex1) == 0 || len(complex2) == 0 {
		return false
	}
	if _, ok := complex1[0].(Combinator); ok {
		return false
	}
	if _, ok := complex2[0].(Combinator); ok {
		return false
	}
	if len(complex1) > len(complex2) {
		return false
	}

	// Add a bogus trailing compound so that the trailing-compound logic of
	// ComplexIsSuperselector applies to the real components
	bogus := CompoundSelector{Selectors: []SimpleSelector{SPlaceholder{Name: "<temp>"}}}
	base1 := make([]ComplexSelectorComponent, 0, len(complex1)+1)
	base2 := make([]ComplexSelectorComponent, 0, len(complex2)+1)
	base1 = append(append(base1, complex1...), bogus)
	base2 = append(append(base2, complex2...), bogus)
	return ComplexIsSuperselector(base1, base2)
}

// IsSuperselectorOf returns whether every element matched by "other" is also
// matched by this compound selector.
func (c CompoundSelector) IsSuperselectorOf(other CompoundSelector) bool {
	return CompoundIsSuperselector(c, other, nil)
}

// CompoundIsSuperselector implements the compound-selector subset check. The
// "parents" are the components of the containing complex selector before
// "compound2"; they only matter for selector pseudo-classes like ":matches"
// whose arguments can reach above the element itself.
func CompoundIsSuperselector(compound1 CompoundSelector, compound2 CompoundSelector, parents []ComplexSelectorComponent) bool {
	// Every selector in "compound1" must match something in "compound2"
	for _, simple1 := range compound1.Selectors {
		if pseudo1, ok := simple1.(SPseudo); ok && pseudo1.Selector != nil {
			if !selectorPseudoIsSuperselector(pseudo1, compound2, parents) {
				return false
			}
		} else if !simpleIsSuperselectorOfCompound(simple1, compound2) {
			return false
		}
	}

	// "compound1" can't be a superselector if it's missing a pseudo-element
	// that "compound2" has
	for _, simple2 := range compound2.Selectors {
		if pseudo2, ok := simple2.(SPseudo); ok && pseudo2.IsElement() && pseudo2.Selector == nil {
			if !simpleIsSuperselectorOfCompound(pseudo2, compound1) {
				return false
			}
		}
	}

	return true
}

// The selector pseudo-classes whose single-compound arguments are implied by
// containing one of the argument's selectors directly.
func isSubselectorPseudo(normalizedName string) bool {
	switch normalizedName {
	case "matches", "is", "any", "nth-child", "nth-last-child":
		return true
	}
	return false
}

func simpleIsSuperselectorOfCompound(simple SimpleSelector, compound CompoundSelector) bool {
	for _, theirSimple := range compound.Selectors {
		if SimpleSelectorsEqual(simple, theirSimple) {
			return true
		}

		// "simple" is also a superselector of a pseudo like ":matches(...)" if
		// it appears in every one of that pseudo's single-compound selectors
		pseudo, ok := theirSimple.(SPseudo)
		if !ok || pseudo.Selector == nil || !isSubselectorPseudo(pseudo.NormalizedName) {
			continue
		}
		if len(pseudo.Selector.Selectors) == 0 {
			continue
		}
		all := true
		for _, complex := range pseudo.Selector.Selectors {
			if len(complex.Components) != 1 {
				all = false
				break
			}
			compound, ok := complex.Components[0].(CompoundSelector)
			if !ok || !compoundContains(compound, simple) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func compoundContains(compound CompoundSelector, simple SimpleSelector) bool {
	for _, other := range compound.Selectors {
		if SimpleSelectorsEqual(simple, other) {
			return true
		}
	}
	return false
}

// pseudosNamed returns the selector pseudos in "compound" with the given name
// and the given class-ness.
func pseudosNamed(compound CompoundSelector, name string, isClass bool) []SPseudo {
	var result []SPseudo
	for _, simple := range compound.Selectors {
		if pseudo, ok := simple.(SPseudo); ok && pseudo.IsClass == isClass && pseudo.Selector != nil && pseudo.Name == name {
			result = append(result, pseudo)
		}
	}
	return result
}

func selectorPseudoIsSuperselector(pseudo1 SPseudo, compound2 CompoundSelector, parents []ComplexSelectorComponent) bool {
	switch pseudo1.NormalizedName {
	case "matches", "is", "any":
		for _, pseudo2 := range pseudosNamed(compound2, pseudo1.Name, true) {
			if ListIsSuperselector(pseudo1.Selector.Selectors, pseudo2.Selector.Selectors) {
				return true
			}
		}
		for _, complex1 := range pseudo1.Selector.Selectors {
			var complex2 []ComplexSelectorComponent
			complex2 = append(complex2, parents...)
			complex2 = append(complex2, compound2)
			if ComplexIsSuperselector(complex1.Components, complex2) {
				return true
			}
		}
		return false

	case "has", "host", "host-context":
		for _, pseudo2 := range pseudosNamed(compound2, pseudo1.Name, true) {
			if ListIsSuperselector(pseudo1.Selector.Selectors, pseudo2.Selector.Selectors) {
				return true
			}
		}
		return false

	case "slotted":
		for _, pseudo2 := range pseudosNamed(compound2, pseudo1.Name, false) {
			if ListIsSuperselector(pseudo1.Selector.Selectors, pseudo2.Selector.Selectors) {
				return true
			}
		}
		return false

	case "not":
		for _, complex := range pseudo1.Selector.Selectors {
			ok := false
			for _, simple2 := range compound2.Selectors {
				switch simple2 := simple2.(type) {
				case SType:
					// ":not(a)" matches everything "b" matches
					last := complex.LastCompound()
					for _, simple1 := range last.Selectors {
						if type1, isType := simple1.(SType); isType && type1.String() != simple2.String() {
							ok = true
						}
					}

				case SID:
					last := complex.LastCompound()
					for _, simple1 := range last.Selectors {
						if id1, isID := simple1.(SID); isID && id1.Name != simple2.Name {
							ok = true
						}
					}

				case SPseudo:
					if simple2.Name == pseudo1.Name && simple2.Selector != nil {
						if ListIsSuperselector(simple2.Selector.Selectors, []ComplexSelector{complex}) {
							ok = true
						}
					}
				}
				if ok {
					break
				}
			}
			if !ok {
				return false
			}
		}
		return true

	case "current":
		for _, pseudo2 := range pseudosNamed(compound2, pseudo1.Name, true) {
			if SelectorListsEqual(*pseudo1.Selector, *pseudo2.Selector) {
				return true
			}
		}
		return false

	case "nth-child", "nth-last-child":
		for _, simple2 := range compound2.Selectors {
			pseudo2, ok := simple2.(SPseudo)
			if ok && pseudo2.Name == pseudo1.Name && pseudo2.Argument == pseudo1.Argument && pseudo2.Selector != nil &&
				ListIsSuperselector(pseudo1.Selector.Selectors, pseudo2.Selector.Selectors) {
				return true
			}
		}
		return false
	}

	return false
}
