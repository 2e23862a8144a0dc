package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skilldex/skilldex/pkg/corpus"
)

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

func loadCorpus(t *testing.T, root string) *corpus.Corpus {
	t.Helper()
	discovery, err := corpus.NewDiscovery(corpus.WithRoots(root))
	require.NoError(t, err)
	c, err := discovery.Load()
	require.NoError(t, err)
	return c
}

func findingsForRule(result *Result, rule string) []Finding {
	var findings []Finding
	for _, f := range result.Findings {
		if f.Rule == rule {
			findings = append(findings, f)
		}
	}
	return findings
}

func TestLintCleanCorpus(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "go/patterns/worker-pool.md", `---
name: go-worker-pool
description: Bounded concurrency with worker pools
applies_to: go
---

# Worker Pool

`+"```go"+`
for i := 0; i < n; i++ {
	go worker(jobs)
}
`+"```"+`
`)

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))
	assert.Empty(t, result.Findings)
	assert.False(t, result.HasErrors())
	assert.NoError(t, result.AsError())
}

func TestLintFrontmatterRule(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "broken.md", "# No frontmatter\n")
	writeDoc(t, tmpDir, "unnamed.md", "---\ndescription: no name here\n---\nbody\n")

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleFrontmatter)
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, SeverityError, f.Severity)
	}
	assert.True(t, result.HasErrors())
	assert.Error(t, result.AsError())
}

func TestLintDuplicateNames(t *testing.T) {
	tmpDir := t.TempDir()
	duplicate := `---
name: caching
description: Caching strategies
applies_to: laravel
category: performance
---
body
`
	writeDoc(t, tmpDir, "laravel/performance/caching.md", duplicate)
	writeDoc(t, tmpDir, "laravel/performance/caching-redux.md", duplicate)
	writeDoc(t, tmpDir, "vue/performance/caching.md", `---
name: caching
description: Caching strategies
applies_to: vue
category: rendering
---
body
`)

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleDuplicateName)
	// Both files in the colliding (performance, caching) pair are flagged;
	// the vue file has a different category and is not.
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Contains(t, f.Message, "caching")
		assert.NotContains(t, f.Path, "vue/")
	}
}

func TestLintDeadLinks(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "docker/docker-skills.md", `---
name: docker-skills
description: Docker skill index
---

- [multi-stage.md](dockerfile/multi-stage.md)
- [gone.md](dockerfile/gone.md)
- [external](https://docs.docker.com/)
`)
	writeDoc(t, tmpDir, "docker/dockerfile/multi-stage.md", `---
name: docker-multi-stage
description: Multi-stage builds
applies_to: docker
---
body
`)

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleDeadLink)
	require.Len(t, findings, 1)
	assert.Equal(t, "docker/docker-skills.md", findings[0].Path)
	assert.Contains(t, findings[0].Message, "dockerfile/gone.md")
	assert.Greater(t, findings[0].Line, 0)
}

func TestLintFenceLanguages(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "misc/snippets.md", `---
name: snippets
description: Assorted snippets
applies_to: go
---

`+"```go"+`
package main
`+"```"+`

`+"```klingon"+`
nuqneH
`+"```"+`

`+"```"+`
untagged fences are fine
`+"```"+`
`)

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleFenceLanguage)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "klingon")
	assert.False(t, result.HasErrors())
}

func TestLintFenceLanguageAllowlistExtension(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "misc/snippets.md", `---
name: snippets
description: Assorted snippets
applies_to: go
---

`+"```klingon"+`
nuqneH
`+"```"+`
`)

	config := Config{FenceLanguages: []string{"klingon"}}
	result := New(config).Run(loadCorpus(t, tmpDir))
	assert.Empty(t, findingsForRule(result, RuleFenceLanguage))
}

func TestLintAppliesToWarning(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "misc/untagged.md", `---
name: untagged
description: Skill without applies_to
---
body
`)

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleAppliesTo)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.False(t, result.HasErrors())

	// The rule honors config like the others: disable drops it, and a
	// warn_only entry keeps it at warning severity.
	result = New(Config{Disable: []string{RuleAppliesTo}}).Run(loadCorpus(t, tmpDir))
	assert.Empty(t, findingsForRule(result, RuleAppliesTo))

	result = New(Config{WarnOnly: []string{RuleAppliesTo}}).Run(loadCorpus(t, tmpDir))
	findings = findingsForRule(result, RuleAppliesTo)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
}

func TestLintDisableRule(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "broken.md", "# No frontmatter\n")

	config := Config{Disable: []string{RuleFrontmatter}}
	result := New(config).Run(loadCorpus(t, tmpDir))
	assert.Empty(t, result.Findings)
}

func TestLintWarnOnly(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "index.md", `---
name: stack-skills
description: Index with a dead link
---

[gone](missing.md)
`)

	config := Config{WarnOnly: []string{RuleDeadLink}}
	result := New(config).Run(loadCorpus(t, tmpDir))

	findings := findingsForRule(result, RuleDeadLink)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.False(t, result.HasErrors())
}

func TestLintFindingsSorted(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "b.md", "# No frontmatter\n")
	writeDoc(t, tmpDir, "a.md", "# No frontmatter\n")

	result := New(DefaultConfig()).Run(loadCorpus(t, tmpDir))
	require.Len(t, result.Findings, 2)
	assert.Equal(t, "a.md", result.Findings[0].Path)
	assert.Equal(t, "b.md", result.Findings[1].Path)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, config.Disable)
	})

	t.Run("reads lint section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".skilldex.yaml")
		content := `lint:
  disable:
    - applies-to
  warn_only:
    - dead-link
  fence_languages:
    - klingon
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"applies-to"}, config.Disable)
		assert.Equal(t, []string{"dead-link"}, config.WarnOnly)
		assert.Equal(t, []string{"klingon"}, config.FenceLanguages)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".skilldex.yaml")
		require.NoError(t, os.WriteFile(path, []byte("lint: [broken"), 0o644))
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}
