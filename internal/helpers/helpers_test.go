package helpers

import "testing"

func TestUnvendor(t *testing.T) {
	expectUnvendor := func(input string, expected string) {
		t.Helper()
		if observed := Unvendor(input); observed != expected {
			t.Fatalf("Unvendor(%q) == %q, expected %q", input, observed, expected)
		}
	}

	expectUnvendor("any", "any")
	expectUnvendor("-moz-any", "any")
	expectUnvendor("-webkit-matches", "matches")
	expectUnvendor("--custom", "--custom")
	expectUnvendor("-", "-")
	expectUnvendor("-moz-", "-moz-")
	expectUnvendor("-x", "-x")
}
