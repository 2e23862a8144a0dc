package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	source := `---
name: laravel-eager-loading
description: Avoid N+1 queries with eager loading
applies_to: laravel
category: performance
---

# Eager Loading

Use ` + "`with()`" + ` to load relations up front.

` + "```php" + `
$posts = Post::with('comments')->get();
` + "```" + `

See [query-optimization.md](query-optimization.md) for more.
`

	doc, err := Parse("laravel/performance/eager-loading.md", []byte(source))
	require.NoError(t, err)

	assert.Equal(t, "laravel-eager-loading", doc.Name)
	assert.Equal(t, "Avoid N+1 queries with eager loading", doc.Description)
	assert.Equal(t, "laravel", doc.AppliesTo)
	assert.Equal(t, "performance", doc.Category)
	assert.Equal(t, KindSkill, doc.Kind)
	assert.Contains(t, doc.Body, "# Eager Loading")
	assert.NotContains(t, doc.Body, "applies_to")

	require.Len(t, doc.Fences, 1)
	assert.Equal(t, "php", doc.Fences[0].Language)
	assert.Greater(t, doc.Fences[0].Line, 0)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, "query-optimization.md", doc.Links[0].Target)
}

func TestParseMissingFrontmatter(t *testing.T) {
	_, err := Parse("skill.md", []byte("# Just a heading\n\nNo frontmatter here.\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing frontmatter")
}

func TestParseRequiredFields(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		_, err := Parse("skill.md", []byte("---\ndescription: something\n---\nbody\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := Parse("skill.md", []byte("---\nname: something\n---\nbody\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description is required")
	})
}

func TestParseDefaultCategory(t *testing.T) {
	source := `---
name: multi-stage
description: Multi-stage docker builds
applies_to: docker
---
body
`
	doc, err := Parse("docker/dockerfile/multi-stage.md", []byte(source))
	require.NoError(t, err)
	assert.Equal(t, "dockerfile", doc.Category)

	rootDoc, err := Parse("multi-stage.md", []byte(source))
	require.NoError(t, err)
	assert.Equal(t, "", rootDoc.Category)
}

func TestParseAllowedToolsFormats(t *testing.T) {
	t.Run("yaml list", func(t *testing.T) {
		source := `---
name: scanner
description: Security scanner skill
allowed-tools:
  - bash
  - grep
---
body
`
		doc, err := Parse("skill.md", []byte(source))
		require.NoError(t, err)
		assert.Equal(t, []string{"bash", "grep"}, doc.AllowedTools)
	})

	t.Run("comma separated", func(t *testing.T) {
		source := `---
name: scanner
description: Security scanner skill
allowed-tools: bash,grep
---
body
`
		doc, err := Parse("skill.md", []byte(source))
		require.NoError(t, err)
		assert.Equal(t, []string{"bash", "grep"}, doc.AllowedTools)
	})
}

func TestParseKindDetection(t *testing.T) {
	agentSource := `---
name: compose-generator
description: Generates docker-compose files
---
body
`
	doc, err := Parse("docker/agents/compose-generator.md", []byte(agentSource))
	require.NoError(t, err)
	assert.Equal(t, KindAgent, doc.Kind)

	indexSource := `---
name: docker-skills
description: Docker skill index
---
body
`
	doc, err = Parse("docker/docker-skills.md", []byte(indexSource))
	require.NoError(t, err)
	assert.Equal(t, KindIndex, doc.Kind)
	assert.True(t, doc.IsStackIndex())
}

func TestAsAgentTemplate(t *testing.T) {
	source := `---
name: compose-generator
description: Generates docker-compose files from project requirements
purpose: Generate a docker-compose.yml for a described stack
activation:
  - generate compose
  - create docker-compose
capabilities:
  - service definitions
  - volume mounts
inputs:
  - name: services
    description: List of services to include
    required: true
  - name: network_mode
    description: Optional network mode
output_format: A complete docker-compose.yml file
---

# Compose Generator

Instructions for the agent.
`
	doc, err := Parse("docker/agents/compose-generator.md", []byte(source))
	require.NoError(t, err)
	require.Equal(t, KindAgent, doc.Kind)

	tmpl, err := doc.AsAgentTemplate()
	require.NoError(t, err)

	assert.Equal(t, "Generate a docker-compose.yml for a described stack", tmpl.Purpose)
	assert.Equal(t, []string{"generate compose", "create docker-compose"}, tmpl.Activation)
	assert.Equal(t, []string{"service definitions", "volume mounts"}, tmpl.Capabilities)
	assert.Equal(t, "A complete docker-compose.yml file", tmpl.OutputFormat)

	require.Len(t, tmpl.Inputs, 2)
	assert.Equal(t, "services", tmpl.Inputs[0].Name)
	assert.True(t, tmpl.Inputs[0].Required)
	assert.Equal(t, "network_mode", tmpl.Inputs[1].Name)
	assert.False(t, tmpl.Inputs[1].Required)
}

func TestAsAgentTemplateDefaultsPurpose(t *testing.T) {
	source := `---
name: debugger
description: Walks through a failing test
---
body
`
	doc, err := Parse("agents/debugger.md", []byte(source))
	require.NoError(t, err)

	tmpl, err := doc.AsAgentTemplate()
	require.NoError(t, err)
	assert.Equal(t, "Walks through a failing test", tmpl.Purpose)
}

func TestAsAgentTemplateRejectsSkills(t *testing.T) {
	source := `---
name: some-skill
description: Not an agent
---
body
`
	doc, err := Parse("laravel/some-skill.md", []byte(source))
	require.NoError(t, err)

	_, err = doc.AsAgentTemplate()
	require.Error(t, err)
}

func TestRelativeLinks(t *testing.T) {
	source := `---
name: docker-skills
description: Docker skill index
---

- [multi-stage.md](dockerfile/multi-stage.md)
- [external](https://docs.docker.com/)
- [anchor](#section)
- [compose](compose/basics.md#services)
`
	doc, err := Parse("docker/docker-skills.md", []byte(source))
	require.NoError(t, err)

	links := doc.RelativeLinks()
	require.Len(t, links, 2)
	assert.Equal(t, "dockerfile/multi-stage.md", links[0].Target)
	assert.Equal(t, "compose/basics.md#services", links[1].Target)
}
