// Package api is the public entry point for the selector extension engine.
// It works on selector text: input selectors are parsed, run through the
// engine, and serialized back to CSS.
package api

import (
	"fmt"

	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/css_extend"
	"github.com/mosscss/moss/internal/css_parser"
	"github.com/mosscss/moss/internal/css_printer"
	"github.com/mosscss/moss/internal/logger"
)

type Options struct {
	// Remove optional whitespace from the output
	MinifyWhitespace bool
}

// ExtendSelector returns "selector" with "source" added wherever "targets"
// matches, the behavior of the Sass function selector-extend().
func ExtendSelector(selector string, source string, targets string, options Options) (string, error) {
	return extendOrReplace(selector, source, targets, options, css_extend.Extend)
}

// ReplaceSelector returns "selector" with matches of "targets" replaced by
// "source", the behavior of the Sass function selector-replace().
func ReplaceSelector(selector string, source string, targets string, options Options) (string, error) {
	return extendOrReplace(selector, source, targets, options, css_extend.Replace)
}

type extendFn = func(css_ast.SelectorList, css_ast.SelectorList, css_ast.SelectorList, logger.Log, logger.Loc) (css_ast.SelectorList, error)

func extendOrReplace(selector string, source string, targets string, options Options, fn extendFn) (string, error) {
	log := logger.NewDeferLog()

	selectorList, err := parseSelector(log, selector)
	if err != nil {
		return "", err
	}
	sourceList, err := parseSelector(log, source)
	if err != nil {
		return "", err
	}
	targetList, err := parseSelector(log, targets)
	if err != nil {
		return "", err
	}

	result, err := fn(selectorList, sourceList, targetList, log, selectorList.Loc)
	if err != nil {
		return "", err
	}
	if err := firstError(log); err != nil {
		return "", err
	}
	return css_printer.Print(result, css_printer.Options{MinifyWhitespace: options.MinifyWhitespace}), nil
}

func parseSelector(log logger.Log, text string) (css_ast.SelectorList, error) {
	source := logger.Source{
		KeyPath:    logger.Path{Text: "<selector>"},
		PrettyPath: "<selector>",
		Contents:   text,
	}
	list, ok := css_parser.ParseSelectorList(log, source)
	if !ok {
		if err := firstError(log); err != nil {
			return css_ast.SelectorList{}, err
		}
		return css_ast.SelectorList{}, fmt.Errorf("Invalid selector %q.", text)
	}
	return list, nil
}

func firstError(log logger.Log) error {
	if !log.HasErrors() {
		return nil
	}
	for _, msg := range log.Done() {
		if msg.Kind == logger.Error {
			return fmt.Errorf("%s", msg.Data.Text)
		}
	}
	return fmt.Errorf("Invalid selector.")
}

// An Extender incrementally tracks style rules and @extend rules the way a
// stylesheet driver does: call AddSelector once per style rule and
// AddExtension once per @extend, then read each rule's final selector from
// its handle.
type Extender struct {
	inner *css_extend.Extender
	log   logger.Log
}

// A Rule is the handle for one registered style rule. Its selector reflects
// all extensions registered so far and keeps updating as more arrive.
type Rule struct {
	inner *css_extend.RuleSelector
}

// Selector returns the rule's current selector as CSS text.
func (r *Rule) Selector() string {
	return css_printer.Print(r.inner.Value, css_printer.Options{})
}

func NewExtender() *Extender {
	log := logger.NewDeferLog()
	return &Extender{
		inner: css_extend.NewExtender(log, logger.Loc{}),
		log:   log,
	}
}

// AddSelector registers a style rule's selector and returns its handle.
func (e *Extender) AddSelector(selector string) (*Rule, error) {
	list, err := parseSelector(e.log, selector)
	if err != nil {
		return nil, err
	}
	return &Rule{inner: e.inner.AddSelector(list, nil)}, nil
}

// AddExtension registers "@extend target" appearing in a rule whose selector
// is "extender". The target must be a single simple selector.
func (e *Extender) AddExtension(extender string, target string, optional bool) error {
	extenderList, err := parseSelector(e.log, extender)
	if err != nil {
		return err
	}
	targetList, err := parseSelector(e.log, target)
	if err != nil {
		return err
	}

	simple, err := singleSimpleSelector(targetList, target)
	if err != nil {
		return err
	}

	e.inner.AddExtension(extenderList, simple, css_extend.ExtendRule{IsOptional: optional}, nil, nil)
	return nil
}

// UnsatisfiedExtensions returns an error message for each non-optional
// extension whose target matched nothing, in registration order.
func (e *Extender) UnsatisfiedExtensions() []string {
	var result []string
	for _, extension := range e.inner.UnsatisfiedExtensions() {
		result = append(result, fmt.Sprintf(
			"The target selector was not found.\nUse \"@extend %s !optional\" to avoid this error.",
			extension.Target.String()))
	}
	return result
}

func singleSimpleSelector(list css_ast.SelectorList, text string) (css_ast.SimpleSelector, error) {
	if len(list.Selectors) != 1 || len(list.Selectors[0].Components) != 1 {
		return nil, fmt.Errorf("Can't extend complex selector %s.", text)
	}
	compound, ok := list.Selectors[0].Components[0].(css_ast.CompoundSelector)
	if !ok {
		return nil, fmt.Errorf("Can't extend complex selector %s.", text)
	}
	if len(compound.Selectors) != 1 {
		return nil, fmt.Errorf("Compound selectors may no longer be extended. Consider extending each simple selector in %s separately.", text)
	}
	return compound.Selectors[0], nil
}
