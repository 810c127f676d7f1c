package api

import (
	"testing"

	"github.com/mosscss/moss/internal/test"
)

func expectExtended(t *testing.T, selector string, source string, targets string, expected string) {
	t.Helper()
	t.Run(selector+" / "+source+" / "+targets, func(t *testing.T) {
		t.Helper()
		result, err := ExtendSelector(selector, source, targets, Options{})
		if err != nil {
			t.Fatal(err)
		}
		test.AssertEqualWithDiff(t, result, expected)
	})
}

func expectReplaced(t *testing.T, selector string, source string, targets string, expected string) {
	t.Helper()
	t.Run(selector+" / "+source+" / "+targets, func(t *testing.T) {
		t.Helper()
		result, err := ReplaceSelector(selector, source, targets, Options{})
		if err != nil {
			t.Fatal(err)
		}
		test.AssertEqualWithDiff(t, result, expected)
	})
}

func TestExtendSelector(t *testing.T) {
	expectExtended(t, ".a", ".b", ".a", ".a, .b")
	expectExtended(t, ".a.b", ".x", ".a.b", ".a.b, .x")
	expectExtended(t, ".a .b", ".x .y", ".b", ".a .b, .a .x .y, .x .a .y")
	expectExtended(t, ".a", ".b", ".c", ".a")
}

func TestReplaceSelector(t *testing.T) {
	expectReplaced(t, ".a", ".x", ".a", ".x")
	expectReplaced(t, ".a", ".x", ".a.b", ".a")
	expectReplaced(t, ".a.b", ".x", ".a", ".b.x")
}

func TestExtendComplexTargetError(t *testing.T) {
	_, err := ExtendSelector(".a", ".x", ".a .b", Options{})
	if err == nil {
		t.Fatal("Expected an error")
	}
	test.AssertEqual(t, err.Error(), "Can't extend complex selector .a .b.")
}

func TestParseError(t *testing.T) {
	_, err := ExtendSelector(".a{", ".x", ".a", Options{})
	if err == nil {
		t.Fatal("Expected an error")
	}
}

func TestIncrementalExtender(t *testing.T) {
	e := NewExtender()

	ruleA, err := e.AddSelector(".a")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.AddExtension(".b", ".a", false); err != nil {
		t.Fatal(err)
	}

	test.AssertEqual(t, ruleA.Selector(), ".a, .b")
	test.AssertEqual(t, len(e.UnsatisfiedExtensions()), 0)
}

func TestIncrementalUnsatisfied(t *testing.T) {
	e := NewExtender()
	if err := e.AddExtension(".b", ".missing", false); err != nil {
		t.Fatal(err)
	}
	messages := e.UnsatisfiedExtensions()
	test.AssertEqual(t, len(messages), 1)
	test.AssertEqual(t, messages[0],
		"The target selector was not found.\nUse \"@extend .missing !optional\" to avoid this error.")
}

func TestCompoundTargetError(t *testing.T) {
	e := NewExtender()
	err := e.AddExtension(".b", ".a.c", false)
	if err == nil {
		t.Fatal("Expected an error")
	}
}
