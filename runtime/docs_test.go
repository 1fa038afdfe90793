package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDocument(t *testing.T) {
	doc := RenderDocument("Strategies", []Section{
		{Title: "idle", Content: "Reclaims idle workers.\n"},
		{Title: "empty", Content: "  \n"},
		{Title: "always", Content: "Keeps every worker."},
	})
	assert.Equal(t, "# Strategies\n"+
		"\n## always\n\nKeeps every worker.\n"+
		"\n## idle\n\nReclaims idle workers.\n", doc)
}
