package css_lexer

import (
	"testing"

	"github.com/mosscss/moss/internal/logger"
	"github.com/mosscss/moss/internal/test"
)

func lexToken(contents string) T {
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest(contents))
	if len(tokens) > 0 {
		return tokens[0].Kind
	}
	return TEndOfFile
}

func lexerError(contents string) string {
	log := logger.NewDeferLog()
	Tokenize(log, test.SourceForTest(contents))
	text := ""
	for _, msg := range log.Done() {
		if msg.Kind == logger.Error {
			text += msg.Data.Text + "\n"
		}
	}
	return text
}

func TestTokens(t *testing.T) {
	expected := []struct {
		contents string
		token    T
	}{
		{"", TEndOfFile},
		{"@media", TAtKeyword},
		{"}", TCloseBrace},
		{"]", TCloseBracket},
		{")", TCloseParen},
		{":", TColon},
		{",", TComma},
		{"&", TDelimAmpersand},
		{"*", TDelimAsterisk},
		{"|", TDelimBar},
		{"^", TDelimCaret},
		{"$", TDelimDollar},
		{".", TDelimDot},
		{"=", TDelimEquals},
		{"!", TDelimExclamation},
		{">", TDelimGreaterThan},
		{"-", TDelimMinus},
		{"%", TDelimPercent},
		{"+", TDelimPlus},
		{"/", TDelimSlash},
		{"~", TDelimTilde},
		{"10px", TDimension},
		{"fn(", TFunction},
		{"#id", THash},
		{"ident", TIdent},
		{"123", TNumber},
		{"{", TOpenBrace},
		{"[", TOpenBracket},
		{"(", TOpenParen},
		{"50%", TPercentage},
		{";", TSemicolon},
		{"'string'", TString},
		{"\"string\"", TString},
		{" ", TWhitespace},
	}

	for _, it := range expected {
		contents := it.contents
		token := it.token
		t.Run(contents, func(t *testing.T) {
			test.AssertEqual(t, lexToken(contents), token)
		})
	}
}

func TestHashIDFlag(t *testing.T) {
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest("#main #123"))
	test.AssertEqual(t, tokens[0].Kind, THash)
	test.AssertEqual(t, tokens[0].IsID, true)
	test.AssertEqual(t, tokens[2].Kind, THash)
	test.AssertEqual(t, tokens[2].IsID, false)
}

func TestDecodedText(t *testing.T) {
	contents := "a\\62 c"
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest(contents))
	test.AssertEqual(t, tokens[0].Kind, TIdent)
	test.AssertEqual(t, tokens[0].DecodedText(contents), "abc")

	contents = "'a b'"
	tokens = Tokenize(log, test.SourceForTest(contents))
	test.AssertEqual(t, tokens[0].DecodedText(contents), "a b")

	contents = "#\\61 bc"
	tokens = Tokenize(log, test.SourceForTest(contents))
	test.AssertEqual(t, tokens[0].Kind, THash)
	test.AssertEqual(t, tokens[0].DecodedText(contents), "abc")
}

func TestWhitespaceCoalescing(t *testing.T) {
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest(".a  \t\n .b"))
	kinds := make([]T, len(tokens))
	for i, token := range tokens {
		kinds[i] = token.Kind
	}
	test.AssertEqual(t, len(kinds), 5)
	test.AssertEqual(t, kinds[0], TDelimDot)
	test.AssertEqual(t, kinds[1], TIdent)
	test.AssertEqual(t, kinds[2], TWhitespace)
	test.AssertEqual(t, kinds[3], TDelimDot)
	test.AssertEqual(t, kinds[4], TIdent)
}

func TestComments(t *testing.T) {
	test.AssertEqual(t, lexerError("/* unterminated"), "Expected \"*/\" to terminate multi-line comment\n")
	test.AssertEqual(t, lexerError("/* ok */"), "")
	test.AssertEqual(t, lexerError("'unterminated"), "Unterminated string token\n")
}

func TestBOMIsSkipped(t *testing.T) {
	log := logger.NewDeferLog()
	tokens := Tokenize(log, test.SourceForTest("\xEF\xBB\xBF.a"))
	test.AssertEqual(t, tokens[0].Kind, TDelimDot)
}
