// Package llmstxt generates an llms.txt-style overview of a corpus: one
// master index with a section per stack and a bullet per skill, in the
// format AI assistants expect at the root of a documentation set.
package llmstxt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skilldex/skilldex/pkg/corpus"
)

// Options configures the generated overview
type Options struct {
	Title       string
	Description string
}

// Generate renders the corpus as an llms.txt document. Skills are grouped
// by their applies_to tag; agent templates get their own section.
func Generate(c *corpus.Corpus, opts Options) string {
	title := opts.Title
	if title == "" {
		title = "Skills"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)
	if opts.Description != "" {
		fmt.Fprintf(&sb, "\n> %s\n", opts.Description)
	}

	groups := make(map[string][]*corpus.Document)
	for _, doc := range c.Skills() {
		if doc.IsStackIndex() {
			continue
		}
		tag := doc.AppliesTo
		if tag == "" {
			tag = "general"
		}
		groups[tag] = append(groups[tag], doc)
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		fmt.Fprintf(&sb, "\n## %s\n\n", tag)
		for _, doc := range groups[tag] {
			fmt.Fprintf(&sb, "- [%s](%s): %s\n", doc.Name, doc.Path, doc.Description)
		}
	}

	if agents := c.Agents(); len(agents) > 0 {
		sb.WriteString("\n## agents\n\n")
		for _, agent := range agents {
			fmt.Fprintf(&sb, "- [%s](%s): %s\n", agent.Name, agent.Path, agent.Description)
		}
	}

	return sb.String()
}
