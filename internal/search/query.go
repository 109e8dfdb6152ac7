package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit caps the number of hits when the caller passes zero.
const DefaultLimit = 50

// Search returns the IDs of books matching q, most relevant first.
// A blank query returns no hits.
func (s *BookIndex) Search(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "-created_at"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// buildSearchQuery matches the text against title and author.
// Title matches rank above author matches. Each word also matches as a
// prefix so partial input finds results while typing.
func buildSearchQuery(q string) query.Query {
	var textQueries []query.Query

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	textQueries = append(textQueries, titleMatch)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)
	textQueries = append(textQueries, authorMatch)

	for _, term := range strings.Fields(strings.ToLower(q)) {
		if utf8.RuneCountInString(term) < 2 {
			continue
		}
		for _, field := range []string{"title", "author"} {
			prefix := bleve.NewPrefixQuery(term)
			prefix.SetField(field)
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		// Typo tolerance on longer title words.
		if utf8.RuneCountInString(term) >= 4 {
			fuzzy := bleve.NewFuzzyQuery(term)
			fuzzy.SetFuzziness(1)
			fuzzy.SetField("title")
			fuzzy.SetBoost(0.8)
			textQueries = append(textQueries, fuzzy)
		}
	}

	return bleve.NewDisjunctionQuery(textQueries...)
}
