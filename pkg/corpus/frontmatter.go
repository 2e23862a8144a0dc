package corpus

import (
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Parse parses a single corpus file. The path is the corpus-relative path
// (slash-separated) and is used to derive the document kind and the default
// category. Parse fails when the frontmatter is missing, malformed, or lacks
// the required name and description fields.
func Parse(path string, source []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	var metadata Metadata
	if err := decodeMetadata(metaData, &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}

	if metadata.Name == "" {
		return nil, errors.New("name is required in frontmatter")
	}
	if metadata.Description == "" {
		return nil, errors.New("description is required in frontmatter")
	}

	doc := &Document{
		Metadata: metadata,
		Kind:     kindForPath(path, metadata),
		Path:     path,
		Body:     extractBody(string(source)),
		rawMeta:  metaData,
	}

	if doc.Category == "" {
		doc.Category = defaultCategory(path)
	}

	lines := newLineIndex(source)
	if err := collectBodyElements(root, source, lines, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// AsAgentTemplate decodes the agent-specific frontmatter keys of an agent
// document: purpose, activation triggers, capabilities, input requirements,
// and the expected output format.
func (d *Document) AsAgentTemplate() (*AgentTemplate, error) {
	if d.Kind != KindAgent {
		return nil, errors.Errorf("document '%s' is not an agent template", d.Name)
	}

	tmpl := &AgentTemplate{Document: *d}

	raw := struct {
		Purpose      string       `mapstructure:"purpose"`
		Activation   []string     `mapstructure:"activation"`
		Capabilities []string     `mapstructure:"capabilities"`
		Inputs       []AgentInput `mapstructure:"inputs"`
		OutputFormat string       `mapstructure:"output_format"`
	}{}

	if err := decodeMetadata(d.rawMeta, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode agent template '%s'", d.Name)
	}

	tmpl.Purpose = raw.Purpose
	tmpl.Activation = raw.Activation
	tmpl.Capabilities = raw.Capabilities
	tmpl.Inputs = raw.Inputs
	tmpl.OutputFormat = raw.OutputFormat

	if tmpl.Purpose == "" {
		tmpl.Purpose = d.Description
	}

	return tmpl, nil
}

// decodeMetadata decodes a frontmatter map into a tagged struct. Weak typing
// handles the formats seen in the wild: booleans written as strings, and
// list-valued keys written as comma-separated scalars.
func decodeMetadata(raw map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(normalizeMeta(raw))
}

// normalizeMeta converts yaml.v2 style map[interface{}]interface{} values
// (which goldmark-meta produces for nested mappings) into string-keyed maps
// that mapstructure can walk.
func normalizeMeta(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			if s, ok := key.(string); ok {
				result[s] = normalizeMeta(val)
			}
		}
		return result
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			result[key] = normalizeMeta(val)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = normalizeMeta(val)
		}
		return result
	default:
		return value
	}
}

// kindForPath derives the document kind from its location and metadata.
// Files under an agents/ directory are agent templates; stack index files
// are recognized by category or naming convention.
func kindForPath(path string, metadata Metadata) Kind {
	for _, segment := range strings.Split(path, "/") {
		if segment == "agents" {
			return KindAgent
		}
	}
	if metadata.Category == "index" || strings.HasSuffix(metadata.Name, "-skills") {
		return KindIndex
	}
	return KindSkill
}

// defaultCategory falls back to the parent directory name when frontmatter
// omits the category key, so .../laravel/performance/eager-loading.md lands
// in "performance".
func defaultCategory(path string) string {
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}

// extractBody removes YAML frontmatter and returns the markdown body
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// collectBodyElements walks the parsed AST and records link destinations and
// fenced code block info strings together with their source line numbers.
func collectBodyElements(root ast.Node, source []byte, lines *lineIndex, doc *Document) error {
	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			doc.Links = append(doc.Links, Link{
				Target: string(node.Destination),
				Line:   lines.lineFor(nodeOffset(n)),
			})
		case *ast.Image:
			doc.Links = append(doc.Links, Link{
				Target: string(node.Destination),
				Line:   lines.lineFor(nodeOffset(n)),
			})
		case *ast.FencedCodeBlock:
			fence := Fence{Language: string(node.Language(source))}
			if node.Info != nil {
				fence.Line = lines.lineFor(node.Info.Segment.Start)
			} else if node.Lines().Len() > 0 {
				fence.Line = lines.lineFor(node.Lines().At(0).Start)
			}
			doc.Fences = append(doc.Fences, fence)
		}

		return ast.WalkContinue, nil
	})
}

// nodeOffset returns the byte offset of the first text segment under a node,
// or -1 when the node has no textual content.
func nodeOffset(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if offset := nodeOffset(child); offset >= 0 {
			return offset
		}
	}
	return -1
}

// lineIndex maps byte offsets in the raw source to 1-based line numbers
type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) lineFor(offset int) int {
	if offset < 0 {
		return 0
	}
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
}
