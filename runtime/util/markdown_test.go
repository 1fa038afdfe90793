package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownStripsTabIndentation(t *testing.T) {
	assert.Equal(t, strings.Join([]string{
		"Reclaims workers idle for longer than `idleTimeout`",
		"minutes:",
		"\t- nested",
		"",
		"The end.",
	}, "\n"), Markdown(`
		Reclaims workers idle for longer than 'idleTimeout'
		minutes:
			- nested
			
		The end.
	`))
}

func TestMarkdownStripsSpaceIndentation(t *testing.T) {
	assert.Equal(t, "first\n  second", Markdown("\n    first  \n      second\n  "))
}

func TestMarkdownBlank(t *testing.T) {
	assert.Equal(t, "", Markdown("\n\t\t\n"))
	assert.Equal(t, "single line", Markdown("single line"))
}
