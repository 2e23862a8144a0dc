// Package mcptool exposes a loaded corpus to AI assistants over the Model
// Context Protocol. Assistants list skills, fetch full skill bodies, and
// run keyword searches without loading the whole corpus into context.
package mcptool

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/index"
	"github.com/skilldex/skilldex/pkg/version"
)

// Server wraps the corpus behind MCP tool access
type Server struct {
	corpus *corpus.Corpus
	index  *index.Index
	server *server.MCPServer
}

// NewServer creates an MCP server over the given corpus. The index is
// optional: without it the search_skills tool reports an error.
func NewServer(c *corpus.Corpus, ix *index.Index) *Server {
	s := &Server{
		corpus: c,
		index:  ix,
	}

	mcpServer := server.NewMCPServer(
		"skilldex",
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_skills",
			mcp.WithDescription("List available skill documents with their names and descriptions. Optionally filter by framework tag."),
			mcp.WithString("applies_to",
				mcp.Description("Filter by framework tag (e.g. 'laravel', 'docker', 'go')"),
			),
		),
		s.handleListSkills,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_skill",
			mcp.WithDescription("Fetch the full markdown body of a skill document by name."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Skill name from frontmatter (e.g. 'laravel-eager-loading')"),
			),
		),
		s.handleGetSkill,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_skills",
			mcp.WithDescription("Keyword search over skill names, descriptions, and bodies."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search query (e.g. 'eager loading', 'multi-stage build')"),
			),
			mcp.WithString("applies_to",
				mcp.Description("Filter by framework tag"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default: 10)"),
			),
		),
		s.handleSearchSkills,
	)
}

// handleListSkills handles the list_skills tool
func (s *Server) handleListSkills(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appliesTo := stringArg(request, "applies_to")

	docs := s.corpus.Skills()
	if appliesTo != "" {
		docs = s.corpus.FilterByAppliesTo(appliesTo)
	}

	if len(docs) == 0 {
		return mcp.NewToolResultText("No skills found."), nil
	}

	var sb strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&sb, "- %s: %s", doc.Name, doc.Description)
		if doc.AppliesTo != "" {
			fmt.Fprintf(&sb, " [%s]", doc.AppliesTo)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetSkill handles the get_skill tool
func (s *Server) handleGetSkill(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	doc, err := s.corpus.Get(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("skill '%s' not found", name)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", doc.Name, doc.Description)
	sb.WriteString(doc.Body)
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchSkills handles the search_skills tool
func (s *Server) handleSearchSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.index == nil {
		return mcp.NewToolResultError("search index not available; run 'skilldex index' first"), nil
	}

	query := stringArg(request, "query")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	opts := index.SearchOptions{
		AppliesTo: stringArg(request, "applies_to"),
		Limit:     intArg(request, "limit"),
	}

	entries, err := s.index.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText("No matching skills."), nil
	}

	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", entry.Name, entry.Path, entry.Description)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}

func stringArg(request mcp.CallToolRequest, key string) string {
	if value, ok := request.Params.Arguments[key].(string); ok {
		return value
	}
	return ""
}

func intArg(request mcp.CallToolRequest, key string) int {
	switch value := request.Params.Arguments[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return 0
	}
}
