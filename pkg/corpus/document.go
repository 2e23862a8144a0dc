// Package corpus provides the document model for markdown skill corpora:
// skill files and agent prompt templates with YAML frontmatter, plus the
// stack index files that link them together. Documents are static content
// authored once and read many times by an external assistant harness; this
// package only parses and organizes them.
package corpus

import "strings"

// Kind classifies a corpus document
type Kind string

// Document kinds
const (
	KindSkill Kind = "skill"
	KindAgent Kind = "agent"
	KindIndex Kind = "index"
)

// Metadata represents the YAML frontmatter shared by all corpus documents.
// Only name and description are required; the remaining keys are optional
// hints for the consuming harness.
type Metadata struct {
	Name          string   `json:"name" mapstructure:"name" yaml:"name"`
	Description   string   `json:"description" mapstructure:"description" yaml:"description"`
	Category      string   `json:"category,omitempty" mapstructure:"category" yaml:"category,omitempty"`
	AppliesTo     string   `json:"applies_to,omitempty" mapstructure:"applies_to" yaml:"applies_to,omitempty"`
	AllowedTools  []string `json:"allowed-tools,omitempty" mapstructure:"allowed-tools" yaml:"allowed-tools,omitempty"`
	UserInvocable bool     `json:"user-invocable,omitempty" mapstructure:"user-invocable" yaml:"user-invocable,omitempty"`
	Context       string   `json:"context,omitempty" mapstructure:"context" yaml:"context,omitempty"`
}

// Link is a markdown link found in a document body
type Link struct {
	Target string // Raw link destination as written
	Line   int    // 1-based line number, 0 if unknown
}

// Fence is a fenced code block found in a document body
type Fence struct {
	Language string // Info string language tag, empty for untagged fences
	Line     int    // 1-based line number of the opening fence, 0 if unknown
}

// Document represents a single parsed corpus file
type Document struct {
	Metadata

	Kind   Kind    // skill, agent, or index
	Path   string  // Corpus-relative path, slash-separated
	Root   string  // Absolute path of the corpus root the file was found under
	Body   string  // Markdown content after the frontmatter
	Links  []Link  // Relative and absolute link destinations in the body
	Fences []Fence // Fenced code blocks in the body

	rawMeta map[string]interface{}
}

// AgentTemplate is the agent-specific view of a document's frontmatter:
// activation triggers, described capabilities, expected inputs, and the
// shape of the output the agent is asked to produce.
type AgentTemplate struct {
	Document

	Purpose      string       `json:"purpose,omitempty"`
	Activation   []string     `json:"activation,omitempty"`
	Capabilities []string     `json:"capabilities,omitempty"`
	Inputs       []AgentInput `json:"inputs,omitempty"`
	OutputFormat string       `json:"output_format,omitempty"`
}

// AgentInput describes one expected parameter of an agent template
type AgentInput struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Required    bool   `json:"required,omitempty" mapstructure:"required"`
}

// IsStackIndex reports whether the document is a stack index: a skill file
// that enumerates and links the sub-skills of a technology stack.
func (d *Document) IsStackIndex() bool {
	if d.Kind == KindIndex {
		return true
	}
	return d.Category == "index" || strings.HasSuffix(d.Name, "-skills")
}

// RelativeLinks returns the body links that point at files in the corpus,
// excluding external URLs and fragment-only anchors.
func (d *Document) RelativeLinks() []Link {
	var links []Link
	for _, l := range d.Links {
		if isExternalLink(l.Target) || strings.HasPrefix(l.Target, "#") {
			continue
		}
		links = append(links, l)
	}
	return links
}

func isExternalLink(target string) bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "ftp://"} {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}
