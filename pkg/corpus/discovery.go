package corpus

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

var defaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
}

// Discovery handles corpus discovery from configured root directories
type Discovery struct {
	roots    []string
	includes []string
	excludes []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets custom corpus root directories. Earlier roots take
// precedence when the same relative path exists under several roots.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one corpus root must be specified")
		}
		d.roots = roots
		return nil
	}
}

// WithDefaultRoots initializes with the default corpus locations:
// repo-local ./skills first, then the user-global ~/.skilldex/skills.
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.roots = []string{
			"./skills",
			filepath.Join(homeDir, ".skilldex", "skills"),
		}
		return nil
	}
}

// WithInclude sets doublestar patterns selecting which files are parsed
// as corpus documents. Defaults to every markdown file.
func WithInclude(patterns ...string) Option {
	return func(d *Discovery) error {
		d.includes = patterns
		return nil
	}
}

// WithExclude adds doublestar patterns for paths that are skipped entirely
func WithExclude(patterns ...string) Option {
	return func(d *Discovery) error {
		d.excludes = append(d.excludes, patterns...)
		return nil
	}
}

// NewDiscovery creates a new corpus discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{
		includes: []string{"**/*.md"},
		excludes: append([]string{}, defaultExcludes...),
	}

	if len(opts) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if len(d.roots) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Load walks the configured roots and parses every matching document.
// Files that fail to parse do not abort the walk: they are recorded as
// problems on the returned corpus so the linter can surface them.
func (d *Discovery) Load() (*Corpus, error) {
	c := newCorpus()

	for _, root := range d.roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve corpus root %s", root)
		}
		if _, err := os.Stat(absRoot); err != nil {
			continue
		}
		if err := d.loadRoot(absRoot, c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (d *Discovery) loadRoot(root string, c *Corpus) error {
	return filepath.WalkDir(root, func(fullPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, fullPath)
		if err != nil {
			return nil
		}
		relPath := filepath.ToSlash(rel)
		if relPath == "." {
			return nil
		}

		if entry.IsDir() {
			if d.excluded(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.excluded(relPath) {
			return nil
		}

		// Every regular file participates in link resolution, even
		// non-markdown assets referenced from skill bodies.
		c.addFile(relPath)

		if !d.included(relPath) {
			return nil
		}

		source, err := os.ReadFile(fullPath)
		if err != nil {
			c.addProblem(relPath, errors.Wrap(err, "failed to read file"))
			return nil
		}

		doc, err := Parse(relPath, source)
		if err != nil {
			c.addProblem(relPath, err)
			return nil
		}

		doc.Root = root
		c.add(doc)
		return nil
	})
}

func (d *Discovery) included(relPath string) bool {
	for _, pattern := range d.includes {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func (d *Discovery) excluded(relPath string) bool {
	for _, pattern := range d.excludes {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		// A directory pattern like ".git/**" should also drop the
		// directory itself, not just its children.
		if ok, _ := doublestar.Match(pattern, path.Join(relPath, "_")); ok {
			return true
		}
	}
	return false
}
