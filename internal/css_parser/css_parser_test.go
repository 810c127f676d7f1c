package css_parser

import (
	"testing"

	"github.com/mosscss/moss/internal/css_printer"
	"github.com/mosscss/moss/internal/logger"
	"github.com/mosscss/moss/internal/test"
)

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		list, ok := ParseSelectorList(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			if msg.Kind == logger.Error {
				text += msg.Data.Text + "\n"
			}
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatalf("Failed to parse %q", contents)
		}
		test.AssertEqualWithDiff(t, css_printer.Print(list, css_printer.Options{}), expected)
	})
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := ParseSelectorList(log, test.SourceForTest(contents))
		if ok && !log.HasErrors() {
			t.Fatalf("Expected a parse error for %q", contents)
		}
		text := ""
		for _, msg := range log.Done() {
			if msg.Kind == logger.Error {
				text += msg.Data.Text + "\n"
			}
		}
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func TestSelectorList(t *testing.T) {
	expectPrinted(t, ".a", ".a")
	expectPrinted(t, ".a , .b", ".a, .b")
	expectPrinted(t, "  .a  ,  .b  ", ".a, .b")
	expectPrinted(t, ".a,.b,.c", ".a, .b, .c")
}

func TestCompoundSelector(t *testing.T) {
	expectPrinted(t, "div.a#b", "div.a#b")
	expectPrinted(t, "*.a", "*.a")
	expectPrinted(t, ".a.b.c", ".a.b.c")
	expectPrinted(t, "a[href]", "a[href]")
	expectPrinted(t, "#main", "#main")
}

func TestCombinators(t *testing.T) {
	expectPrinted(t, ".a .b", ".a .b")
	expectPrinted(t, ".a>.b", ".a > .b")
	expectPrinted(t, ".a > .b", ".a > .b")
	expectPrinted(t, ".a+.b~.c", ".a + .b ~ .c")
	expectPrinted(t, ".a   .b", ".a .b")
}

func TestNamespaces(t *testing.T) {
	expectPrinted(t, "svg|circle", "svg|circle")
	expectPrinted(t, "*|a", "*|a")
	expectPrinted(t, "svg|*", "svg|*")
}

func TestAttributeSelectors(t *testing.T) {
	expectPrinted(t, "[a]", "[a]")
	expectPrinted(t, "[a=b]", "[a=b]")
	expectPrinted(t, "[a~=b]", "[a~=b]")
	expectPrinted(t, "[a^=b]", "[a^=b]")
	expectPrinted(t, "[a$=b]", "[a$=b]")
	expectPrinted(t, "[a*=b]", "[a*=b]")
	expectPrinted(t, "[a|=b]", "[a|=b]")
	expectPrinted(t, "[a = b]", "[a=b]")
	expectPrinted(t, "[a=\"b c\"]", "[a=\"b c\"]")
	expectPrinted(t, "[a=b i]", "[a=b i]")
	expectPrinted(t, "[a=b S]", "[a=b S]")
	expectPrinted(t, "[*|a]", "[*|a]")
	expectPrinted(t, "[a|b]", "[a|b]")
}

func TestPseudoSelectors(t *testing.T) {
	expectPrinted(t, ":hover", ":hover")
	expectPrinted(t, "::before", "::before")
	expectPrinted(t, "a::first-line", "a::first-line")
	expectPrinted(t, ":not(.a)", ":not(.a)")
	expectPrinted(t, ":not( .a , .b )", ":not(.a, .b)")
	expectPrinted(t, ":matches(.a .b)", ":matches(.a .b)")
	expectPrinted(t, ":is(.a, .b)", ":is(.a, .b)")
	expectPrinted(t, ":has(> .a)", ":has(> .a)")
	expectPrinted(t, ":host-context(.a)", ":host-context(.a)")
	expectPrinted(t, "::slotted(.a)", "::slotted(.a)")
	expectPrinted(t, ":lang(en)", ":lang(en)")
}

func TestNthChild(t *testing.T) {
	expectPrinted(t, ":nth-child(2n)", ":nth-child(2n)")
	expectPrinted(t, ":nth-child(2n+1)", ":nth-child(2n+1)")
	expectPrinted(t, ":nth-child( 2n + 1 )", ":nth-child(2n+1)")
	expectPrinted(t, ":nth-child(even)", ":nth-child(even)")
	expectPrinted(t, ":nth-child(odd)", ":nth-child(odd)")
	expectPrinted(t, ":nth-child(3)", ":nth-child(3)")
	expectPrinted(t, ":nth-child(2n of .a)", ":nth-child(2n of .a)")
	expectPrinted(t, ":nth-child(2n of .a, .b)", ":nth-child(2n of .a, .b)")
	expectPrinted(t, ":nth-last-child(2n of .a)", ":nth-last-child(2n of .a)")
}

func TestSassSelectors(t *testing.T) {
	expectPrinted(t, "%base", "%base")
	expectPrinted(t, "%base.a", "%base.a")
	expectPrinted(t, "&", "&")
	expectPrinted(t, "&-icon", "&-icon")
	expectPrinted(t, "&.a", "&.a")
	expectPrinted(t, "& .a", "& .a")
}

func TestLineBreaksBetweenSelectors(t *testing.T) {
	expectPrinted(t, ".a,\n.b", ".a,\n.b")
	expectPrinted(t, ".a, .b", ".a, .b")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, ".", "Expected identifier but found end of file\n")
	expectParseError(t, ".a,", "Unexpected end of file\n")
	expectParseError(t, "< .a", "Unexpected \"<\"\n")
	expectParseError(t, ".a {", "Unexpected \"{\"\n")
	expectParseError(t, ":not(.a", "Expected \")\" but found end of file\n")
	expectParseError(t, "[a", "Expected \"]\" but found end of file\n")
}
