// Package lint implements structural validation for skill corpora. The
// rules cover the content-integrity properties a corpus maintainer can
// verify without executing anything: frontmatter completeness, identifier
// uniqueness, link resolution, and code fence sanity.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skilldex/skilldex/pkg/corpus"
)

// Severity of a lint finding
type Severity string

// Finding severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers
const (
	RuleFrontmatter   = "frontmatter"
	RuleDuplicateName = "duplicate-name"
	RuleDeadLink      = "dead-link"
	RuleFenceLanguage = "fence-language"
	RuleAppliesTo     = "applies-to"
)

// Finding is a single lint diagnostic
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	location := f.Path
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", f.Path, f.Line)
	}
	return fmt.Sprintf("%s: %s: %s: %s", location, f.Severity, f.Rule, f.Message)
}

// Result holds the findings of a lint run
type Result struct {
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding has error severity
func (r *Result) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// AsError aggregates the error-severity findings into a single error, or
// returns nil when the corpus is clean.
func (r *Result) AsError() error {
	var result *multierror.Error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			result = multierror.Append(result, errors.New(f.String()))
		}
	}
	return result.ErrorOrNil()
}

// Linter validates a loaded corpus against the configured rules
type Linter struct {
	config Config
	fences map[string]bool
}

// New creates a linter with the given configuration
func New(config Config) *Linter {
	fences := make(map[string]bool, len(knownFenceLanguages)+len(config.FenceLanguages))
	for _, lang := range knownFenceLanguages {
		fences[lang] = true
	}
	for _, lang := range config.FenceLanguages {
		fences[strings.ToLower(lang)] = true
	}
	return &Linter{config: config, fences: fences}
}

// Run lints the corpus and returns all findings sorted by file and line
func (l *Linter) Run(c *corpus.Corpus) *Result {
	result := &Result{}

	l.checkProblems(c, result)
	l.checkDuplicateNames(c, result)
	l.checkLinks(c, result)
	l.checkFences(c, result)
	l.checkAppliesTo(c, result)

	sort.SliceStable(result.Findings, func(i, j int) bool {
		if result.Findings[i].Path != result.Findings[j].Path {
			return result.Findings[i].Path < result.Findings[j].Path
		}
		return result.Findings[i].Line < result.Findings[j].Line
	})

	return result
}

// checkProblems converts corpus load failures into frontmatter findings
func (l *Linter) checkProblems(c *corpus.Corpus, result *Result) {
	if !l.config.enabled(RuleFrontmatter) {
		return
	}
	for _, problem := range c.Problems() {
		l.report(result, Finding{
			Rule:     RuleFrontmatter,
			Severity: SeverityError,
			Path:     problem.Path,
			Message:  problem.Err.Error(),
		})
	}
}

// checkDuplicateNames flags documents under the same category sharing a name
func (l *Linter) checkDuplicateNames(c *corpus.Corpus, result *Result) {
	if !l.config.enabled(RuleDuplicateName) {
		return
	}

	type key struct{ category, name string }
	seen := make(map[key][]*corpus.Document)
	for _, doc := range c.Documents() {
		k := key{doc.Category, doc.Name}
		seen[k] = append(seen[k], doc)
	}

	for k, docs := range seen {
		if len(docs) < 2 {
			continue
		}
		var paths []string
		for _, doc := range docs {
			paths = append(paths, doc.Path)
		}
		sort.Strings(paths)
		for _, doc := range docs {
			l.report(result, Finding{
				Rule:     RuleDuplicateName,
				Severity: SeverityError,
				Path:     doc.Path,
				Message: fmt.Sprintf("name '%s' is used by %d files under category '%s' (%s)",
					k.name, len(docs), k.category, strings.Join(paths, ", ")),
			})
		}
	}
}

// checkLinks verifies that relative link targets resolve inside the corpus
func (l *Linter) checkLinks(c *corpus.Corpus, result *Result) {
	if !l.config.enabled(RuleDeadLink) {
		return
	}
	for _, doc := range c.Documents() {
		for _, link := range doc.RelativeLinks() {
			if c.ResolveLink(doc, link.Target) {
				continue
			}
			l.report(result, Finding{
				Rule:     RuleDeadLink,
				Severity: SeverityError,
				Path:     doc.Path,
				Line:     link.Line,
				Message:  fmt.Sprintf("link target '%s' does not resolve to a file in the corpus", link.Target),
			})
		}
	}
}

// checkFences verifies that tagged code fences use recognized language ids
func (l *Linter) checkFences(c *corpus.Corpus, result *Result) {
	if !l.config.enabled(RuleFenceLanguage) {
		return
	}
	for _, doc := range c.Documents() {
		for _, fence := range doc.Fences {
			if fence.Language == "" {
				continue
			}
			if l.fences[strings.ToLower(fence.Language)] {
				continue
			}
			l.report(result, Finding{
				Rule:     RuleFenceLanguage,
				Severity: SeverityWarning,
				Path:     doc.Path,
				Line:     fence.Line,
				Message:  fmt.Sprintf("unrecognized code fence language '%s'", fence.Language),
			})
		}
	}
}

// checkAppliesTo warns on skill files missing the applies_to tag. The
// convention is "should", not "must", so this never fails a run.
func (l *Linter) checkAppliesTo(c *corpus.Corpus, result *Result) {
	if !l.config.enabled(RuleAppliesTo) {
		return
	}
	for _, doc := range c.Skills() {
		if doc.AppliesTo != "" || doc.IsStackIndex() {
			continue
		}
		l.report(result, Finding{
			Rule:     RuleAppliesTo,
			Severity: SeverityWarning,
			Path:     doc.Path,
			Message:  "skill file has no applies_to tag in frontmatter",
		})
	}
}

// report applies configured severity downgrades before recording a finding
func (l *Linter) report(result *Result, finding Finding) {
	if l.config.warnOnly(finding.Rule) {
		finding.Severity = SeverityWarning
	}
	result.Findings = append(result.Findings, finding)
}

// knownFenceLanguages covers the stacks the corpus documents plus the usual
// config and shell formats that appear in illustrative snippets.
var knownFenceLanguages = []string{
	"bash", "blade", "c", "console", "cpp", "csharp", "css", "csv", "diff",
	"docker", "dockerfile", "dotenv", "env", "go", "golang", "gradle",
	"graphql", "groovy", "hcl", "html", "http", "ini", "java", "javascript",
	"js", "json", "jsonc", "jsx", "kotlin", "makefile", "markdown", "md",
	"mermaid", "nginx", "php", "plaintext", "properties", "proto", "py",
	"python", "rb", "ruby", "rust", "scss", "sh", "shell", "sql", "svelte",
	"swift", "terraform", "text", "toml", "ts", "tsx", "twig", "txt",
	"typescript", "vue", "xml", "yaml", "yml", "zsh",
}
