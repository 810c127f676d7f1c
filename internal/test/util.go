package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mosscss/moss/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		if strings.Contains(stringA, "\n") {
			t.Fatal(diff(stringB, stringA, logger.SupportsColorEscapes))
		} else {
			t.Fatalf("%s != %s", observed, expected)
		}
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		KeyPath:    logger.Path{Text: "<stdin>"},
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
