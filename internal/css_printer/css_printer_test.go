package css_printer

import (
	"testing"

	"github.com/mosscss/moss/internal/css_parser"
	"github.com/mosscss/moss/internal/logger"
	"github.com/mosscss/moss/internal/test"
)

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		list, ok := css_parser.ParseSelectorList(log, test.SourceForTest(contents))
		if !ok || log.HasErrors() {
			t.Fatalf("Failed to parse %q", contents)
		}
		test.AssertEqualWithDiff(t, Print(list, options), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [minify]", contents, expected, Options{MinifyWhitespace: true})
}

func TestPrintSelectorList(t *testing.T) {
	expectPrinted(t, ".a,.b", ".a, .b")
	expectPrintedMinify(t, ".a, .b", ".a,.b")
}

func TestPrintCombinators(t *testing.T) {
	expectPrinted(t, ".a>.b", ".a > .b")
	expectPrinted(t, ".a .b", ".a .b")
	expectPrinted(t, ".a~.b+.c", ".a ~ .b + .c")
	expectPrintedMinify(t, ".a > .b", ".a>.b")
	expectPrintedMinify(t, ".a .b", ".a .b")
}

func TestPrintLineBreaks(t *testing.T) {
	expectPrinted(t, ".a,\n.b, .c", ".a,\n.b, .c")
	expectPrintedMinify(t, ".a,\n.b", ".a,.b")
}

func TestPrintPseudoSelectors(t *testing.T) {
	expectPrinted(t, ":not(.a,.b)", ":not(.a, .b)")
	expectPrinted(t, ":has(>.a)", ":has(> .a)")

	// The contents of a pseudo-class always use the canonical serialization
	expectPrintedMinify(t, ":has(> .a)", ":has(> .a)")
}
