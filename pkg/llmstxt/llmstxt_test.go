package llmstxt

import (
	"os"
	"path/filepath"
	"strings"
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

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	tmpDir := t.TempDir()

	writeDoc(t, tmpDir, "laravel/laravel-skills.md", `---
name: laravel-skills
description: Laravel skill index
---
index body
`)
	writeDoc(t, tmpDir, "laravel/performance/eager-loading.md", `---
name: laravel-eager-loading
description: Avoid N+1 queries
applies_to: laravel
---
body
`)
	writeDoc(t, tmpDir, "docker/dockerfile/multi-stage.md", `---
name: docker-multi-stage
description: Smaller images
applies_to: docker
---
body
`)
	writeDoc(t, tmpDir, "misc/untagged.md", `---
name: untagged
description: No applies_to tag
---
body
`)
	writeDoc(t, tmpDir, "docker/agents/compose-generator.md", `---
name: compose-generator
description: Generates docker-compose files
applies_to: docker
---
body
`)

	discovery, err := corpus.NewDiscovery(corpus.WithRoots(tmpDir))
	require.NoError(t, err)
	c, err := discovery.Load()
	require.NoError(t, err)
	return c
}

func TestGenerate(t *testing.T) {
	output := Generate(testCorpus(t), Options{
		Title:       "Acme Skills",
		Description: "Curated skills for the Acme stacks",
	})

	assert.True(t, strings.HasPrefix(output, "# Acme Skills\n"))
	assert.Contains(t, output, "> Curated skills for the Acme stacks")

	// Groups appear in sorted tag order, untagged skills under "general".
	dockerIdx := strings.Index(output, "## docker")
	generalIdx := strings.Index(output, "## general")
	laravelIdx := strings.Index(output, "## laravel")
	require.Greater(t, dockerIdx, 0)
	assert.Less(t, dockerIdx, generalIdx)
	assert.Less(t, generalIdx, laravelIdx)

	assert.Contains(t, output,
		"- [laravel-eager-loading](laravel/performance/eager-loading.md): Avoid N+1 queries")
	assert.Contains(t, output, "- [untagged](misc/untagged.md)")

	// Stack indexes are navigation, not content.
	assert.NotContains(t, output, "laravel-skills.md")

	assert.Contains(t, output, "## agents")
	assert.Contains(t, output, "- [compose-generator](docker/agents/compose-generator.md)")
}

func TestGenerateDefaults(t *testing.T) {
	output := Generate(testCorpus(t), Options{})

	assert.True(t, strings.HasPrefix(output, "# Skills\n"))
	assert.NotContains(t, output, ">")
}
