package index

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// SearchOptions narrows a search to a subset of the corpus
type SearchOptions struct {
	AppliesTo string
	Kind      string
	Category  string
	Limit     int
}

// DefaultSearchLimit caps result sets when no explicit limit is given
const DefaultSearchLimit = 10

// Search performs keyword matching over name, description, and body.
// Name hits rank above description hits, which rank above body hits.
func (ix *Index) Search(ctx context.Context, query string, opts SearchOptions) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query cannot be empty")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	pattern := "%" + escapeLike(query) + "%"

	sql := `
		SELECT path, name, description, category, applies_to, kind, body
		FROM documents
		WHERE (name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')
	`
	args := []interface{}{pattern, pattern, pattern}

	if opts.AppliesTo != "" {
		sql += " AND applies_to = ?"
		args = append(args, opts.AppliesTo)
	}
	if opts.Kind != "" {
		sql += " AND kind = ?"
		args = append(args, opts.Kind)
	}
	if opts.Category != "" {
		sql += " AND category = ?"
		args = append(args, opts.Category)
	}

	sql += `
		ORDER BY
			CASE
				WHEN name LIKE ? ESCAPE '\' THEN 0
				WHEN description LIKE ? ESCAPE '\' THEN 1
				ELSE 2
			END,
			name
		LIMIT ?
	`
	args = append(args, pattern, pattern, limit)

	var entries []Entry
	if err := ix.db.SelectContext(ctx, &entries, sql, args...); err != nil {
		return nil, errors.Wrap(err, "failed to search index")
	}
	return entries, nil
}

// Stats summarizes the indexed corpus
type Stats struct {
	Total       int            `json:"total"`
	ByKind      map[string]int `json:"by_kind"`
	ByAppliesTo map[string]int `json:"by_applies_to"`
}

// Stats reports document counts by kind and applies_to tag
func (ix *Index) Stats(ctx context.Context) (*Stats, error) {
	total, err := ix.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:       total,
		ByKind:      make(map[string]int),
		ByAppliesTo: make(map[string]int),
	}

	rows := []struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}{}

	if err := ix.db.SelectContext(ctx, &rows,
		"SELECT kind AS key, COUNT(*) AS count FROM documents GROUP BY kind"); err != nil {
		return nil, errors.Wrap(err, "failed to count documents by kind")
	}
	for _, row := range rows {
		stats.ByKind[row.Key] = row.Count
	}

	rows = rows[:0]
	if err := ix.db.SelectContext(ctx, &rows,
		"SELECT applies_to AS key, COUNT(*) AS count FROM documents WHERE applies_to != '' GROUP BY applies_to"); err != nil {
		return nil, errors.Wrap(err, "failed to count documents by applies_to")
	}
	for _, row := range rows {
		stats.ByAppliesTo[row.Key] = row.Count
	}

	return stats, nil
}

// escapeLike escapes SQL LIKE metacharacters in user queries
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
