package css_extend

import (
	"fmt"

	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/logger"
)

type ExtendMode uint8

const (
	// Normal mode, used with the @extend rule. Preserves existing selectors
	// and extends each target individually.
	ExtendModeNormal ExtendMode = iota

	// Replace mode, used by the selector-replace() function. Replaces
	// existing selectors and requires every target to match to rewrite a
	// given compound selector.
	ExtendModeReplace

	// All-targets mode, used by the selector-extend() function. Preserves
	// existing selectors but requires every target to match to rewrite a
	// given compound selector.
	ExtendModeAllTargets
)

// A RuleSelector is the live selector list of one style rule. The extender
// updates "Value" in place as later @extend rules arrive, so drivers can hold
// the handle until the end of the compilation before serializing.
type RuleSelector struct {
	Value css_ast.SelectorList
}

// An Extender tracks the style rules and @extend rules seen so far during a
// single compilation and rewrites selectors as they interact. It is created
// empty, mutated by AddSelector and AddExtension, and then discarded. All
// indices are keyed by the canonical text of the selector node.
type Extender struct {
	// A map from all simple selectors in the stylesheet to the style rules
	// that contain them. This is used to find which rules an @extend applies
	// to and adjust them.
	selectors map[string][]*RuleSelector

	// A map from all extended simple selectors to the sources of those
	// extensions, in registration order.
	extensions map[string]*extensionMap

	// The extension targets in first-registration order, so reports about
	// extensions are deterministic.
	extensionOrder []string

	// A map from all simple selectors in extenders to the extensions that
	// those extenders define.
	extensionsByExtender map[string][]*Extension

	// A map from style rules to the media query contexts they're defined in.
	// Rules defined at the top level of the document have no entry.
	mediaContexts map[*RuleSelector][]css_ast.MediaQuery

	// A map from simple selectors to the maximum specificity of the complex
	// selector that originally contained them. This prevents the trimmer from
	// dropping a selector that's needed to satisfy the second law of extend.
	sourceSpecificity map[string]int32

	// The complex selectors that appeared in the source document, as opposed
	// to being added by @extend. The first law of extend protects these from
	// trimming.
	originals map[string]bool

	mode ExtendMode
	loc  logger.Loc
	log  logger.Log
}

func NewExtender(log logger.Log, loc logger.Loc) *Extender {
	return newExtenderWithMode(ExtendModeNormal, log, loc)
}

func newExtenderWithMode(mode ExtendMode, log logger.Log, loc logger.Loc) *Extender {
	return &Extender{
		selectors:            make(map[string][]*RuleSelector),
		extensions:           make(map[string]*extensionMap),
		extensionsByExtender: make(map[string][]*Extension),
		mediaContexts:        make(map[*RuleSelector][]css_ast.MediaQuery),
		sourceSpecificity:    make(map[string]int32),
		originals:            make(map[string]bool),
		mode:                 mode,
		loc:                  loc,
		log:                  log,
	}
}

// IsEmpty reports whether any extensions have been registered.
func (e *Extender) IsEmpty() bool {
	return len(e.extensions) == 0
}

// Extend returns "selector" with each selector in "source" added wherever
// "targets" matches, the engine behind the selector-extend() function. Every
// target must be a single compound selector.
func Extend(selector css_ast.SelectorList, source css_ast.SelectorList, targets css_ast.SelectorList, log logger.Log, loc logger.Loc) (css_ast.SelectorList, error) {
	return extendOrReplace(selector, source, targets, ExtendModeAllTargets, log, loc)
}

// Replace is like Extend except matches of "targets" are replaced instead of
// added to, the engine behind the selector-replace() function.
func Replace(selector css_ast.SelectorList, source css_ast.SelectorList, targets css_ast.SelectorList, log logger.Log, loc logger.Loc) (css_ast.SelectorList, error) {
	return extendOrReplace(selector, source, targets, ExtendModeReplace, log, loc)
}

func extendOrReplace(selector css_ast.SelectorList, source css_ast.SelectorList, targets css_ast.SelectorList, mode ExtendMode, log logger.Log, loc logger.Loc) (css_ast.SelectorList, error) {
	extenders := newExtensionMap()
	for _, complex := range source.Selectors {
		extenders.put(oneOff(complex, 0, false, false))
	}

	extensions := make(map[string]*extensionMap)
	for _, complex := range targets.Selectors {
		if len(complex.Components) != 1 {
			return css_ast.SelectorList{}, fmt.Errorf("Can't extend complex selector %s.", complex.String())
		}
		compound, ok := complex.Components[0].(css_ast.CompoundSelector)
		if !ok {
			return css_ast.SelectorList{}, fmt.Errorf("Can't extend complex selector %s.", complex.String())
		}
		for _, simple := range compound.Selectors {
			extensions[simple.String()] = extenders
		}
	}

	extender := newExtenderWithMode(mode, log, loc)
	if !selector.IsInvisible() {
		for _, complex := range selector.Selectors {
			extender.originals[complex.String()] = true
		}
	}
	return extender.extendList(selector, extensions, nil), nil
}

// AddSelector registers the selector list of a style rule, extends it using
// any registered extensions, and returns a handle whose value is
// automatically updated if more relevant extensions are added later.
//
// The "mediaQueryContext" is the media query context the rule was defined in,
// or nil at the top level of the document.
func (e *Extender) AddSelector(selector css_ast.SelectorList, mediaQueryContext []css_ast.MediaQuery) *RuleSelector {
	originalSelector := selector
	if !originalSelector.IsInvisible() {
		for _, complex := range originalSelector.Selectors {
			e.originals[complex.String()] = true
		}
	}

	if len(e.extensions) > 0 {
		selector = e.extendList(originalSelector, e.extensions, mediaQueryContext)
	}

	rule := &RuleSelector{Value: selector}
	if mediaQueryContext != nil {
		e.mediaContexts[rule] = mediaQueryContext
	}
	e.registerSelector(selector, rule)
	return rule
}

// registerSelector records every simple selector in "list" as belonging to
// "rule", recursing into the selectors of pseudo-classes.
func (e *Extender) registerSelector(list css_ast.SelectorList, rule *RuleSelector) {
	for _, complex := range list.Selectors {
		for _, component := range complex.Components {
			compound, ok := component.(css_ast.CompoundSelector)
			if !ok {
				continue
			}
			for _, simple := range compound.Selectors {
				key := simple.String()
				if !containsRule(e.selectors[key], rule) {
					e.selectors[key] = append(e.selectors[key], rule)
				}

				if pseudo, ok := simple.(css_ast.SPseudo); ok && pseudo.Selector != nil {
					e.registerSelector(*pseudo.Selector, rule)
				}
			}
		}
	}
}

func containsRule(rules []*RuleSelector, rule *RuleSelector) bool {
	for _, existing := range rules {
		if existing == rule {
			return true
		}
	}
	return false
}

// AddExtension registers an @extend rule. "extender" is the selector of the
// style rule the @extend appeared in and "target" is the selector being
// extended. Any previously-registered selectors or extensions that involve
// "target" are updated to match.
func (e *Extender) AddExtension(extender css_ast.SelectorList, target css_ast.SimpleSelector, rule ExtendRule, mediaContext []css_ast.MediaQuery, span *logger.Range) {
	targetKey := target.String()
	selectors := e.selectors[targetKey]
	existingExtensions := e.extensionsByExtender[targetKey]

	sources := e.extensions[targetKey]
	if sources == nil {
		sources = newExtensionMap()
		e.extensions[targetKey] = sources
		e.extensionOrder = append(e.extensionOrder, targetKey)
	}

	var newExtensions *extensionMap

	for _, complex := range extender.Selectors {
		state := &Extension{
			Extender:     complex,
			Target:       target,
			MediaContext: mediaContext,
			Span:         span,
			Specificity:  complex.MaxSpecificity(),
			IsOptional:   rule.IsOptional,
		}

		if existingState, ok := sources.get(complex.String()); ok {
			// If there's already an extend from "extender" to "target", we don't
			// need to re-run the extension. We may need to mark the extension as
			// mandatory, though.
			sources.put(e.mergeExtensions(existingState, state))
			continue
		}

		sources.put(state)

		for _, component := range complex.Components {
			compound, ok := component.(css_ast.CompoundSelector)
			if !ok {
				continue
			}
			for _, simple := range compound.Selectors {
				key := simple.String()
				e.extensionsByExtender[key] = append(e.extensionsByExtender[key], state)
				if _, ok := e.sourceSpecificity[key]; !ok {
					// Only the original selector's specificity is relevant;
					// selectors generated by @extend don't gain specificity
					e.sourceSpecificity[key] = complex.MaxSpecificity()
				}
			}
		}

		if selectors != nil || existingExtensions != nil {
			if newExtensions == nil {
				newExtensions = newExtensionMap()
			}
			newExtensions.put(state)
		}
	}

	if newExtensions == nil {
		return
	}

	newExtensionsByTarget := map[string]*extensionMap{targetKey: newExtensions}
	if existingExtensions != nil {
		additionalExtensions := e.extendExistingExtensions(existingExtensions, newExtensionsByTarget)
		if additionalExtensions != nil {
			mapAddAll2(newExtensionsByTarget, additionalExtensions)
		}
	}
	if selectors != nil {
		e.extendExistingSelectors(selectors, newExtensionsByTarget)
	}
}

func (e *Extender) mergeExtensions(left *Extension, right *Extension) *Extension {
	if left.MediaContext != nil && right.MediaContext != nil && !css_ast.MediaQueriesEqual(left.MediaContext, right.MediaContext) {
		e.log.AddMsg(logger.Msg{Kind: logger.Error, Data: logger.MsgData{
			Text: "You may not @extend the same selector from within different media queries.",
		}})
		return left
	}

	// If one extension is optional and doesn't add a special media context, it
	// doesn't need to be merged
	if right.IsOptional && right.MediaContext == nil {
		return left
	}
	if left.IsOptional && left.MediaContext == nil {
		return right
	}

	mediaContext := left.MediaContext
	if mediaContext == nil {
		mediaContext = right.MediaContext
	}
	return &Extension{
		Extender:     left.Extender,
		Target:       left.Target,
		MediaContext: mediaContext,
		Left:         left,
		Right:        right,
		Span:         left.Span,
		Specificity:  left.Specificity,
		IsOptional:   left.IsOptional && right.IsOptional,
		IsOriginal:   left.IsOriginal || right.IsOriginal,
	}
}

// extendExistingExtensions re-runs extension for every known extension whose
// extender mentions the target of a new extension. This does duplicate some
// of the work done by extendExistingSelectors, but expanding each extension's
// extender separately from the full selector lists keeps relevant results
// from being trimmed too early.
//
// Returns extensions that must be added to "newExtensions" before extending
// selectors, which is what makes extension loops like
//
//	.c {@extend .a}
//	.x.y.a {@extend .b}
//	.z.b {@extend .c}
//
// converge.
func (e *Extender) extendExistingExtensions(extensions []*Extension, newExtensions map[string]*extensionMap) map[string]*extensionMap {
	var additionalExtensions map[string]*extensionMap

	for _, extension := range extensions {
		targetKey := extension.Target.String()
		sources := e.extensions[targetKey]

		selectors, ok := e.extendComplex(extension.Extender, newExtensions, extension.MediaContext)
		if !ok {
			continue
		}

		containsExtension := len(selectors) > 0 && css_ast.ComplexSelectorsEqual(selectors[0], extension.Extender)
		first := true
		for _, complex := range selectors {
			// If the output contains the original complex selector, there's no
			// need to recreate it
			if containsExtension && first {
				first = false
				continue
			}

			withExtender := extension.withExtender(complex)
			if existingExtension, ok := sources.get(complex.String()); ok {
				sources.put(e.mergeExtensions(existingExtension, withExtender))
				continue
			}

			sources.put(withExtender)
			for _, component := range complex.Components {
				compound, ok := component.(css_ast.CompoundSelector)
				if !ok {
					continue
				}
				for _, simple := range compound.Selectors {
					key := simple.String()
					e.extensionsByExtender[key] = append(e.extensionsByExtender[key], withExtender)
				}
			}

			if _, ok := newExtensions[targetKey]; ok {
				if additionalExtensions == nil {
					additionalExtensions = make(map[string]*extensionMap)
				}
				additional := additionalExtensions[targetKey]
				if additional == nil {
					additional = newExtensionMap()
					additionalExtensions[targetKey] = additional
				}
				additional.put(withExtender)
			}
		}

		// If the output doesn't contain "extension.Extender", for example
		// because it was replaced due to :not() expansion, get rid of the old
		// version
		if !containsExtension {
			sources.delete(extension.Extender.String())
		}
	}

	return additionalExtensions
}

// extendExistingSelectors re-extends every registered style rule whose
// selector contains the target of a new extension, updating the rule handles
// in place.
func (e *Extender) extendExistingSelectors(selectors []*RuleSelector, newExtensions map[string]*extensionMap) {
	for _, rule := range selectors {
		oldValue := rule.Value
		rule.Value = e.extendList(oldValue, newExtensions, e.mediaContexts[rule])

		// If no extends actually happened (for example because unification
		// failed), we don't need to re-register the selector
		if css_ast.SelectorListsEqual(oldValue, rule.Value) {
			continue
		}
		e.registerSelector(rule.Value, rule)
	}
}

// UnsatisfiedExtensions returns the non-optional extensions whose target
// never appeared in any registered selector, so the driver can report them
// at the end of the compilation.
func (e *Extender) UnsatisfiedExtensions() []*Extension {
	var result []*Extension
	for _, targetKey := range e.extensionOrder {
		if _, ok := e.selectors[targetKey]; ok {
			continue
		}
		for _, extension := range e.extensions[targetKey].values() {
			for _, unmerged := range extension.unmerge() {
				if !unmerged.IsOptional {
					result = append(result, unmerged)
				}
			}
		}
	}
	return result
}
