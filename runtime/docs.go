package runtime

import (
	"sort"
	"strings"
)

// A Section represents a section of markdown documentation.
type Section struct {
	Title   string // Title of section rendered as headline level 2
	Content string // Section contents, maybe contains headline level 3 and higher
}

// RenderDocument creates a markdown document with given title from a list of
// sections ordered by title. Sections without content are left out.
func RenderDocument(title string, sections []Section) string {
	sections = append([]Section{}, sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Title < sections[j].Title
	})

	var b strings.Builder
	b.WriteString("# " + title + "\n")
	for _, section := range sections {
		content := strings.TrimSpace(section.Content)
		if content == "" {
			continue
		}
		b.WriteString("\n## " + section.Title + "\n\n")
		b.WriteString(content + "\n")
	}
	return b.String()
}
