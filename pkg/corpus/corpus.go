package corpus

import (
	"path"
	"sort"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Problem records a file that could not be loaded as a corpus document
type Problem struct {
	Path string
	Err  error
}

// Corpus holds a loaded set of skill documents, agent templates, and stack
// indexes, together with the load problems encountered on the way.
type Corpus struct {
	byName   map[string]*Document
	byPath   map[string]*Document
	files    map[string]bool
	problems []Problem
}

func newCorpus() *Corpus {
	return &Corpus{
		byName: make(map[string]*Document),
		byPath: make(map[string]*Document),
		files:  make(map[string]bool),
	}
}

func (c *Corpus) add(doc *Document) {
	// First root wins on both path and name collisions, matching the
	// precedence order of the discovery roots.
	if _, exists := c.byPath[doc.Path]; exists {
		return
	}
	c.byPath[doc.Path] = doc
	if _, exists := c.byName[doc.Name]; !exists {
		c.byName[doc.Name] = doc
	}
}

func (c *Corpus) addFile(relPath string) {
	c.files[relPath] = true
}

func (c *Corpus) addProblem(relPath string, err error) {
	c.problems = append(c.problems, Problem{Path: relPath, Err: err})
}

// Problems returns the files that failed to load, in walk order
func (c *Corpus) Problems() []Problem {
	return c.problems
}

// Len returns the number of loaded documents
func (c *Corpus) Len() int {
	return len(c.byPath)
}

// Get returns a document by its frontmatter name
func (c *Corpus) Get(name string) (*Document, error) {
	doc, exists := c.byName[name]
	if !exists {
		return nil, errors.Errorf("document '%s' not found in corpus", name)
	}
	return doc, nil
}

// Documents returns all loaded documents sorted by corpus path
func (c *Corpus) Documents() []*Document {
	docs := make([]*Document, 0, len(c.byPath))
	for _, doc := range c.byPath {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

// Skills returns the skill documents, including stack indexes
func (c *Corpus) Skills() []*Document {
	return c.filter(func(doc *Document) bool { return doc.Kind != KindAgent })
}

// StackIndexes returns the documents that enumerate a stack's sub-skills
func (c *Corpus) StackIndexes() []*Document {
	return c.filter(func(doc *Document) bool { return doc.IsStackIndex() })
}

// Agents returns the agent template views of all agent documents.
// Templates whose agent-specific keys fail to decode are skipped; the
// linter reports those separately.
func (c *Corpus) Agents() []*AgentTemplate {
	var agents []*AgentTemplate
	for _, doc := range c.filter(func(doc *Document) bool { return doc.Kind == KindAgent }) {
		tmpl, err := doc.AsAgentTemplate()
		if err != nil {
			continue
		}
		agents = append(agents, tmpl)
	}
	return agents
}

// FilterByPattern returns documents whose name matches a glob pattern,
// e.g. "laravel-*" or "docker-*".
func (c *Corpus) FilterByPattern(pattern string) ([]*Document, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid filter pattern %q", pattern)
	}
	return c.filter(func(doc *Document) bool { return matcher.Match(doc.Name) }), nil
}

// FilterByAppliesTo returns documents tagged for a given framework
func (c *Corpus) FilterByAppliesTo(appliesTo string) []*Document {
	return c.filter(func(doc *Document) bool { return doc.AppliesTo == appliesTo })
}

// AppliesToValues returns the distinct applies_to tags in the corpus, sorted
func (c *Corpus) AppliesToValues() []string {
	seen := make(map[string]bool)
	for _, doc := range c.byPath {
		if doc.AppliesTo != "" {
			seen[doc.AppliesTo] = true
		}
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// ResolveLink reports whether a relative link written in doc resolves to a
// file present in the corpus tree. Fragments and query strings are ignored;
// a target that escapes the corpus root does not resolve.
func (c *Corpus) ResolveLink(doc *Document, target string) bool {
	clean := stripFragment(target)
	if clean == "" {
		return true
	}

	resolved := path.Join(path.Dir(doc.Path), clean)
	if resolved == ".." || len(resolved) >= 3 && resolved[:3] == "../" {
		return false
	}

	if c.files[resolved] {
		return true
	}
	// Directory links resolve when the directory holds a corpus file
	prefix := resolved + "/"
	for file := range c.files {
		if len(file) > len(prefix) && file[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (c *Corpus) filter(keep func(*Document) bool) []*Document {
	var docs []*Document
	for _, doc := range c.Documents() {
		if keep(doc) {
			docs = append(docs, doc)
		}
	}
	return docs
}

func stripFragment(target string) string {
	for i, r := range target {
		if r == '#' || r == '?' {
			return target[:i]
		}
	}
	return target
}
