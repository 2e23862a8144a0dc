package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/index"
)

// DocumentSummary is the listing view of a corpus document
type DocumentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	AppliesTo   string `json:"applies_to,omitempty"`
	Kind        string `json:"kind"`
	Path        string `json:"path"`
}

// DocumentResponse is the full view of a corpus document
type DocumentResponse struct {
	DocumentSummary
	AllowedTools  []string `json:"allowed-tools,omitempty"`
	UserInvocable bool     `json:"user-invocable,omitempty"`
	Context       string   `json:"context,omitempty"`
	Body          string   `json:"body"`
}

func summarize(doc *corpus.Document) DocumentSummary {
	return DocumentSummary{
		Name:        doc.Name,
		Description: doc.Description,
		Category:    doc.Category,
		AppliesTo:   doc.AppliesTo,
		Kind:        string(doc.Kind),
		Path:        doc.Path,
	}
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	docs := s.corpus.Skills()
	if appliesTo := r.URL.Query().Get("applies_to"); appliesTo != "" {
		filtered := docs[:0:0]
		for _, doc := range docs {
			if doc.AppliesTo == appliesTo {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}

	summaries := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, summarize(doc))
	}

	s.writeJSONResponse(w, map[string]any{"skills": summaries})
}

// handleGetSkill handles GET /api/skills/{name}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	doc, err := s.corpus.Get(name)
	if err != nil {
		s.writeErrorResponse(w, http.StatusNotFound, "skill not found", nil)
		return
	}

	s.writeJSONResponse(w, DocumentResponse{
		DocumentSummary: summarize(doc),
		AllowedTools:    doc.AllowedTools,
		UserInvocable:   doc.UserInvocable,
		Context:         doc.Context,
		Body:            doc.Body,
	})
}

// handleListAgents handles GET /api/agents
func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.corpus.Agents()

	type agentSummary struct {
		DocumentSummary
		Purpose    string   `json:"purpose,omitempty"`
		Activation []string `json:"activation,omitempty"`
	}

	summaries := make([]agentSummary, 0, len(agents))
	for _, agent := range agents {
		summaries = append(summaries, agentSummary{
			DocumentSummary: summarize(&agent.Document),
			Purpose:         agent.Purpose,
			Activation:      agent.Activation,
		})
	}

	s.writeJSONResponse(w, map[string]any{"agents": summaries})
}

// handleGetAgent handles GET /api/agents/{name}
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	doc, err := s.corpus.Get(name)
	if err != nil || doc.Kind != corpus.KindAgent {
		s.writeErrorResponse(w, http.StatusNotFound, "agent not found", nil)
		return
	}

	agent, err := doc.AsAgentTemplate()
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to decode agent template", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{
		"agent": agent,
		"body":  agent.Body,
	})
}

// handleListStacks handles GET /api/stacks
func (s *Server) handleListStacks(w http.ResponseWriter, _ *http.Request) {
	type stackResponse struct {
		DocumentSummary
		Links []string `json:"links"`
	}

	indexes := s.corpus.StackIndexes()
	stacks := make([]stackResponse, 0, len(indexes))
	for _, doc := range indexes {
		var links []string
		for _, link := range doc.RelativeLinks() {
			links = append(links, link.Target)
		}
		stacks = append(stacks, stackResponse{
			DocumentSummary: summarize(doc),
			Links:           links,
		})
	}

	s.writeJSONResponse(w, map[string]any{"stacks": stacks})
}

// handleSearch handles GET /api/search?q=...
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "search index not available", nil)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "query parameter 'q' is required", nil)
		return
	}

	opts := index.SearchOptions{
		AppliesTo: r.URL.Query().Get("applies_to"),
		Kind:      r.URL.Query().Get("kind"),
		Category:  r.URL.Query().Get("category"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 {
			s.writeErrorResponse(w, http.StatusBadRequest, "invalid limit parameter", nil)
			return
		}
		opts.Limit = parsed
	}

	entries, err := s.index.Search(r.Context(), query, opts)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "search failed", err)
		return
	}

	s.writeJSONResponse(w, map[string]any{
		"query":   query,
		"results": entries,
	})
}

// handleLint handles GET /api/lint
func (s *Server) handleLint(w http.ResponseWriter, _ *http.Request) {
	result := s.linter.Run(s.corpus)
	s.writeJSONResponse(w, map[string]any{
		"findings": result.Findings,
		"errors":   result.HasErrors(),
	})
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, map[string]any{
		"status":    "ok",
		"documents": s.corpus.Len(),
	})
}
