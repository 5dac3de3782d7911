package search

import (
	"context"
	"fmt"

	"backend/internal/query"
)

// Row is one record returned by the row store, keyed by column name.
type Row map[string]any

// CategoryQuery describes one filtered lookup against a single category table.
// Keywords match case-insensitively as substrings, OR-combined across Columns
// and across keywords. Codes match exactly against CodeColumns (projects only).
type CategoryQuery struct {
	Table       string
	Columns     []string
	Keywords    []string
	CodeColumns []string
	Codes       []string
	OrderBy     string // empty means no ordering
	Limit       int
}

// RowStore is the abstract relational backend queried per category.
type RowStore interface {
	Search(ctx context.Context, q CategoryQuery) ([]Row, error)
}

// StoreError wraps a failed category lookup. A single StoreError aborts the
// whole aggregation for the request; partial results are never returned.
type StoreError struct {
	Category string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("row store query failed for %s: %v", e.Category, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Category identifies one searchable subject area.
type Category string

const (
	CategoryProjects      Category = "projects"
	CategoryItemCodes     Category = "item_codes"
	CategoryUsers         Category = "users"
	CategoryRequests      Category = "requests"
	CategoryManufacturers Category = "manufacturers"
	CategoryAttributes    Category = "attributes"
	CategoryReviews       Category = "reviews"
)

// CategorySpec drives the aggregator and keeps the per-category differences
// (table, searchable columns, limit, enablement) in one declarative table
// instead of repeated branches.
type CategorySpec struct {
	Name     Category
	Table    string
	Columns  []string
	CodeCols []string
	OrderBy  string
	Limit    int
	Enabled  func(a query.Analysis) bool
}

// Categories lists every searchable category in the fixed aggregation order.
// The prompt builder renders blocks in this same order.
var Categories = []CategorySpec{
	{
		Name:    CategoryProjects,
		Table:   "projects",
		Columns: []string{"name", "division_description", "section_description", "detailed_section_description", "item_description"},
		CodeCols: []string{
			"division_code", "section_code", "detailed_section_code",
		},
		OrderBy: "created_at",
		Limit:   15,
		Enabled: func(a query.Analysis) bool { return a.SearchProjects },
	},
	{
		Name:    CategoryItemCodes,
		Table:   "item_codes",
		Columns: []string{"code", "description_1", "description_2", "manufacturer"},
		OrderBy: "created_at",
		Limit:   15,
		Enabled: func(a query.Analysis) bool { return a.SearchItemCodes },
	},
	{
		Name:    CategoryUsers,
		Table:   "users",
		Columns: []string{"username", "email", "role"},
		OrderBy: "created_at",
		Limit:   10,
		Enabled: func(a query.Analysis) bool { return a.SearchUsers },
	},
	{
		Name:    CategoryRequests,
		Table:   "attribute_change_requests",
		Columns: []string{"attribute_name", "new_value", "reason", "status"},
		OrderBy: "created_at",
		Limit:   10,
		Enabled: func(a query.Analysis) bool { return a.SearchRequests },
	},
	{
		Name:    CategoryManufacturers,
		Table:   "project_manufacturers",
		Columns: []string{"name", "project_name"},
		OrderBy: "added_at",
		Limit:   10,
		Enabled: func(a query.Analysis) bool { return a.SearchManufacturers },
	},
	{
		Name:    CategoryAttributes,
		Table:   "project_attributes",
		Columns: []string{"name", "standard_values"},
		OrderBy: "created_at",
		Limit:   10,
		Enabled: func(a query.Analysis) bool { return a.SearchAttributes },
	},
	{
		Name:    CategoryReviews,
		Table:   "project_reviews",
		Columns: []string{"action", "comments", "project_name", "reviewer"},
		OrderBy: "created_at",
		Limit:   10,
		Enabled: func(a query.Analysis) bool { return a.SearchReviews || a.SearchStatus },
	},
}
