package util

import "strings"

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// indentation returns the number of leading tabs or spaces in line
func indentation(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// Markdown turns an indented multi-line string literal into markdown. Leading
// and trailing blank lines are dropped, the indentation common to all
// non-blank lines is removed and ' is replaced with `, so schema descriptions
// can be written inline without escaping backticks.
func Markdown(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	common := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if i := indentation(line); common == -1 || i < common {
			common = i
		}
	}

	for i, line := range lines {
		if isBlank(line) {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimRight(line[common:], " \t")
	}

	return strings.Replace(strings.Join(lines, "\n"), "'", "`", -1)
}
