package css_ast

// Compound unification produces the smallest compound selector that matches
// exactly the elements matched by both inputs, or reports that no element can
// match both (e.g. "div" and "span"). The rules come from CSS semantics: at
// most one type selector survives, at most one ID, and pseudo-elements stay
// at the end of the compound.

// UnifyCompound unifies two sequences of simple selectors. The returned
// sequence contains each distinct input selector once, except that type and
// universal selectors are merged into a single leading one (so "*" and "div"
// become "div"), ordered so that pseudo selectors trail. Returns false when
// the intersection is empty.
func UnifyCompound(compound1 []SimpleSelector, compound2 []SimpleSelector) ([]SimpleSelector, bool) {
	result := compound2
	for _, simple := range compound1 {
		var ok bool
		result, ok = unifySimple(simple, result)
		if !ok {
			return nil, false
		}
	}
	return result, true
}

func unifySimple(simple SimpleSelector, compound []SimpleSelector) ([]SimpleSelector, bool) {
	switch s := simple.(type) {
	case SType:
		return unifyTypeOrUniversal(s, compound)

	case SUniversal:
		return unifyTypeOrUniversal(s, compound)

	case SID:
		for _, other := range compound {
			if id, ok := other.(SID); ok && id.Name != s.Name {
				// A compound with two different IDs matches nothing
				return nil, false
			}
		}
		return unifyDefault(simple, compound)

	case SPseudo:
		return unifyPseudo(s, compound)
	}

	return unifyDefault(simple, compound)
}

// The base rule: add "simple" to the compound unless it's already there,
// keeping it ahead of any pseudo selectors.
func unifyDefault(simple SimpleSelector, compound []SimpleSelector) ([]SimpleSelector, bool) {
	for _, other := range compound {
		if SimpleSelectorsEqual(simple, other) {
			return compound, true
		}
	}

	result := make([]SimpleSelector, 0, len(compound)+1)
	addedSimple := false
	for _, other := range compound {
		if _, ok := other.(SPseudo); ok && !addedSimple {
			result = append(result, simple)
			addedSimple = true
		}
		result = append(result, other)
	}
	if !addedSimple {
		result = append(result, simple)
	}
	return result, true
}

func unifyTypeOrUniversal(simple SimpleSelector, compound []SimpleSelector) ([]SimpleSelector, bool) {
	if len(compound) > 0 {
		switch compound[0].(type) {
		case SType, SUniversal:
			unified, ok := unifyUniversalAndElement(simple, compound[0])
			if !ok {
				return nil, false
			}
			return append([]SimpleSelector{unified}, compound[1:]...), true
		}
	}

	if universal, ok := simple.(SUniversal); ok && (universal.Namespace == nil || *universal.Namespace == "*") {
		// A bare "*" adds nothing to a non-empty compound
		if len(compound) > 0 {
			return compound, true
		}
	}

	return append([]SimpleSelector{simple}, compound...), true
}

// unifyUniversalAndElement unifies two type or universal selectors. Each
// argument must be either an SType or an SUniversal.
func unifyUniversalAndElement(selector1 SimpleSelector, selector2 SimpleSelector) (SimpleSelector, bool) {
	namespace1, name1 := namespaceAndName(selector1)
	namespace2, name2 := namespaceAndName(selector2)

	var namespace *string
	switch {
	case namespacesEqual(namespace1, namespace2), namespaceIsAny(namespace2):
		namespace = namespace1
	case namespaceIsAny(namespace1):
		namespace = namespace2
	default:
		return nil, false
	}

	var name string
	switch {
	case name1 == name2, name2 == "":
		name = name1
	case name1 == "":
		name = name2
	default:
		return nil, false
	}

	if name == "" {
		return SUniversal{Namespace: namespace}, true
	}
	return SType{Namespace: namespace, Name: name}, true
}

// namespaceAndName splits a type or universal selector; the universal name is
// reported as "".
func namespaceAndName(simple SimpleSelector) (*string, string) {
	switch s := simple.(type) {
	case SType:
		return s.Namespace, s.Name
	case SUniversal:
		return s.Namespace, ""
	}
	panic("Internal error")
}

func namespacesEqual(a *string, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func namespaceIsAny(ns *string) bool {
	return ns != nil && *ns == "*"
}

func unifyPseudo(pseudo SPseudo, compound []SimpleSelector) ([]SimpleSelector, bool) {
	if pseudo.isHostLike() {
		// ":host" can only be combined with other host or selector pseudos
		for _, other := range compound {
			otherPseudo, ok := other.(SPseudo)
			if !ok || (!otherPseudo.isHostLike() && otherPseudo.Selector == nil) {
				return nil, false
			}
		}
	}

	for _, other := range compound {
		if SimpleSelectorsEqual(pseudo, other) {
			return compound, true
		}
	}

	result := make([]SimpleSelector, 0, len(compound)+1)
	addedPseudo := false
	for _, other := range compound {
		if otherPseudo, ok := other.(SPseudo); ok && otherPseudo.IsElement() {
			// A compound selector may only contain one pseudo-element
			if pseudo.IsElement() {
				return nil, false
			}

			// Pseudo-classes go before pseudo-elements
			result = append(result, pseudo)
			addedPseudo = true
		}
		result = append(result, other)
	}
	if !addedPseudo {
		result = append(result, pseudo)
	}
	return result, true
}
