package test

import (
	"strings"

	"github.com/mosscss/moss/internal/logger"
)

// diff renders a line diff of two strings. It recursively splits both sides
// around the longest run of lines they share, which is plenty for the short
// fixtures these tests compare.
func diff(old string, new string, color bool) string {
	var out []string
	out = appendDiff(out, strings.Split(old, "\n"), strings.Split(new, "\n"), color)
	return strings.Join(out, "\n")
}

func appendDiff(out []string, old []string, new []string, color bool) []string {
	oldStart, newStart, n := longestCommonRun(old, new)

	if n == 0 {
		// Nothing in common, everything changed
		for _, line := range old {
			out = append(out, markLine("-", line, logger.TerminalColors.Red, color))
		}
		for _, line := range new {
			out = append(out, markLine("+", line, logger.TerminalColors.Green, color))
		}
		return out
	}

	out = appendDiff(out, old[:oldStart], new[:newStart], color)
	for _, line := range old[oldStart : oldStart+n] {
		out = append(out, markLine(" ", line, logger.TerminalColors.Dim, color))
	}
	return appendDiff(out, old[oldStart+n:], new[newStart+n:], color)
}

func markLine(marker string, line string, color string, useColor bool) string {
	if !useColor {
		return marker + line
	}
	return color + marker + line + logger.TerminalColors.Reset
}

// longestCommonRun finds the longest run of consecutive lines present in
// both "a" and "b", returning where the run starts on each side and its
// length.
func longestCommonRun(a []string, b []string) (aStart int, bStart int, n int) {
	// runs[j+1] is the length of the common run ending at a[i] and b[j] for
	// the row of "a" currently being scanned
	runs := make([]int, len(b)+1)

	for i, lineA := range a {
		// Walk backwards so runs[j] still holds the previous row's value when
		// runs[j+1] is computed
		for j := len(b) - 1; j >= 0; j-- {
			if lineA != b[j] {
				runs[j+1] = 0
				continue
			}
			runs[j+1] = runs[j] + 1
			if runs[j+1] > n {
				n = runs[j+1]
				aStart = i + 1 - n
				bStart = j + 1 - n
			}
		}
	}
	return
}
