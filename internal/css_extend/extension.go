package css_extend

import (
	"github.com/mosscss/moss/internal/css_ast"
	"github.com/mosscss/moss/internal/logger"
)

// ExtendRule carries the properties of an "@extend" at-rule that matter to
// the engine.
type ExtendRule struct {
	// An optional extension ("@extend x !optional") is allowed to match no
	// selectors without it being an error
	IsOptional bool
}

// An Extension is one edge of the extension graph: "Extender" will be added
// wherever "Target" matches.
type Extension struct {
	// The selector of the style rule the @extend appeared in
	Extender css_ast.ComplexSelector

	// The simple selector being extended, nil for one-off extensions that
	// only exist to carry a selector through path assembly
	Target css_ast.SimpleSelector

	// The media query context the @extend appeared in, nil for the top level
	MediaContext []css_ast.MediaQuery

	// The source extensions if this extension was created by merging two
	// extensions for the same extender and target
	Left  *Extension
	Right *Extension

	// Where the @extend appeared, when known
	Span *logger.Range

	// The maximum specificity of "Extender", computed on creation, except for
	// one-off extensions created with an explicit specificity
	Specificity int32

	IsOptional bool

	// Whether "Extender" appeared in the source document rather than being
	// produced by another extension
	IsOriginal bool
}

// oneOff returns an extension with no target whose extender is "complex",
// used to carry unextended selectors through path assembly.
func oneOff(complex css_ast.ComplexSelector, specificity int32, hasSpecificity bool, isOriginal bool) *Extension {
	if !hasSpecificity {
		specificity = complex.MaxSpecificity()
	}
	return &Extension{
		Extender:    complex,
		Specificity: specificity,
		IsOptional:  true,
		IsOriginal:  isOriginal,
	}
}

// withExtender returns a copy of this extension whose extender is "complex".
func (e *Extension) withExtender(complex css_ast.ComplexSelector) *Extension {
	copied := *e
	copied.Extender = complex
	copied.Specificity = complex.MaxSpecificity()
	return &copied
}

// compatibleWithMediaContext reports whether this extension may be applied
// within "mediaQueryContext". An extension declared inside a media query can
// only extend selectors in an equal context.
func (e *Extension) compatibleWithMediaContext(mediaQueryContext []css_ast.MediaQuery) bool {
	if e.MediaContext == nil {
		return true
	}
	return mediaQueryContext != nil && css_ast.MediaQueriesEqual(e.MediaContext, mediaQueryContext)
}

// unmerge expands a merged extension back into the extensions it was built
// from, in declaration order.
func (e *Extension) unmerge() []*Extension {
	if e.Left == nil && e.Right == nil {
		return []*Extension{e}
	}
	return append(e.Left.unmerge(), e.Right.unmerge()...)
}

// An insertion-ordered map from extender complex selectors (by canonical
// text) to extensions. Iteration order feeds directly into the order of
// emitted selectors, so it must be deterministic.
type extensionMap struct {
	keys    []string
	entries map[string]*Extension
}

func newExtensionMap() *extensionMap {
	return &extensionMap{entries: make(map[string]*Extension)}
}

func (m *extensionMap) len() int {
	return len(m.keys)
}

func (m *extensionMap) get(key string) (*Extension, bool) {
	extension, ok := m.entries[key]
	return extension, ok
}

// put inserts or replaces the extension under its extender's key. A replaced
// entry keeps its original position.
func (m *extensionMap) put(extension *Extension) {
	key := extension.Extender.String()
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = extension
}

func (m *extensionMap) delete(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, existing := range m.keys {
		if existing == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *extensionMap) values() []*Extension {
	result := make([]*Extension, len(m.keys))
	for i, key := range m.keys {
		result[i] = m.entries[key]
	}
	return result
}

func (m *extensionMap) addAll(other *extensionMap) {
	for _, key := range other.keys {
		m.put(other.entries[key])
	}
}

// mapAddAll2 merges a two-layer map of new extensions into "destination",
// reusing inner maps from "source" where possible.
func mapAddAll2(destination map[string]*extensionMap, source map[string]*extensionMap) {
	for key, inner := range source {
		if existing, ok := destination[key]; ok {
			existing.addAll(inner)
		} else {
			destination[key] = inner
		}
	}
}
