package search

import (
	"context"

	"backend/internal/query"
)

// ResultSet holds the retained rows for one category.
type ResultSet struct {
	Results    []Row  `json:"results"`
	SearchType string `json:"searchType"`
	Total      int    `json:"total"`
}

// Aggregated is the joined outcome of every eligible category lookup for a
// single request. TablesSearched lists only categories that returned rows, in
// the fixed aggregation order.
type Aggregated struct {
	TablesSearched []string               `json:"tablesSearched"`
	TotalResults   int                    `json:"totalResults"`
	Sets           map[Category]ResultSet `json:"sets"`
	SearchQuery    string                 `json:"searchQuery"`
	QueryAnalysis  query.Analysis         `json:"queryAnalysis"`
}

// Set returns the retained result set for a category, if any.
func (a *Aggregated) Set(c Category) (ResultSet, bool) {
	rs, ok := a.Sets[c]
	return rs, ok
}

// Aggregate issues one filtered lookup per enabled category and joins the
// non-empty results. A store failure on any category aborts the aggregation.
// If every enabled category comes back empty, a single broad fallback re-runs
// the projects and item-code lookups regardless of their flags; the fallback
// never runs twice.
func Aggregate(ctx context.Context, store RowStore, a query.Analysis) (*Aggregated, error) {
	agg := &Aggregated{
		Sets:          map[Category]ResultSet{},
		SearchQuery:   a.OriginalQuery,
		QueryAnalysis: a,
	}

	keywords := searchKeywords(a)

	for _, spec := range Categories {
		if !spec.Enabled(a) {
			continue
		}
		if err := runCategory(ctx, store, spec, keywords, a.CSICodes, agg); err != nil {
			return nil, err
		}
	}

	if agg.TotalResults == 0 {
		// Broad last-resort pass over the two widest tables.
		agg.TablesSearched = nil
		agg.Sets = map[Category]ResultSet{}
		for _, spec := range Categories {
			if spec.Name != CategoryProjects && spec.Name != CategoryItemCodes {
				continue
			}
			if err := runCategory(ctx, store, spec, keywords, a.CSICodes, agg); err != nil {
				return nil, err
			}
		}
	}

	return agg, nil
}

func runCategory(ctx context.Context, store RowStore, spec CategorySpec, keywords, codes []string, agg *Aggregated) error {
	q := CategoryQuery{
		Table:    spec.Table,
		Columns:  spec.Columns,
		Keywords: keywords,
		OrderBy:  spec.OrderBy,
		Limit:    spec.Limit,
	}
	if spec.Name == CategoryProjects {
		q.CodeColumns = spec.CodeCols
		q.Codes = codes
	}

	rows, err := store.Search(ctx, q)
	if err != nil {
		return &StoreError{Category: string(spec.Name), Err: err}
	}
	if len(rows) == 0 {
		return nil
	}

	agg.Sets[spec.Name] = ResultSet{
		Results:    rows,
		SearchType: string(spec.Name),
		Total:      len(rows),
	}
	agg.TablesSearched = append(agg.TablesSearched, string(spec.Name))
	agg.TotalResults += len(rows)
	return nil
}

// searchKeywords picks the filter terms for every category query: matched
// material tokens when present, otherwise the first three search terms.
func searchKeywords(a query.Analysis) []string {
	if len(a.Materials) > 0 {
		return a.Materials
	}
	if len(a.SearchTerms) > 3 {
		return a.SearchTerms[:3]
	}
	return a.SearchTerms
}
