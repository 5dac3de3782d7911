package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/query"
)

type fakeStore struct {
	rows    map[string][]Row
	failOn  map[string]error
	queries []CategoryQuery
}

func (f *fakeStore) Search(ctx context.Context, q CategoryQuery) ([]Row, error) {
	f.queries = append(f.queries, q)
	if err, ok := f.failOn[q.Table]; ok {
		return nil, err
	}
	return f.rows[q.Table], nil
}

func projectRow(id int, name string) Row {
	return Row{"id": id, "name": name, "status": "approved"}
}

func TestAggregateDropsEmptyCategories(t *testing.T) {
	store := &fakeStore{rows: map[string][]Row{
		"projects": {projectRow(1, "UPVC Distribution Upgrade")},
	}}
	a := query.Analyze("find upvc pipe projects")

	agg, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	// item_codes was enabled but returned nothing; it must not appear.
	assert.Equal(t, []string{"projects"}, agg.TablesSearched)
	assert.Equal(t, 1, agg.TotalResults)
	_, ok := agg.Set(CategoryItemCodes)
	assert.False(t, ok)

	rs, ok := agg.Set(CategoryProjects)
	require.True(t, ok)
	assert.Equal(t, 1, rs.Total)
	assert.Equal(t, "projects", rs.SearchType)
}

func TestAggregateIdempotent(t *testing.T) {
	store := &fakeStore{rows: map[string][]Row{
		"projects":   {projectRow(1, "A"), projectRow(2, "B")},
		"item_codes": {{"code": "IC-100"}},
	}}
	a := query.Analyze("find upvc pipe projects")

	first, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)
	second, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateKeywordsPreferMaterials(t *testing.T) {
	store := &fakeStore{}
	a := query.Analyze("find upvc pipe projects quickly please")

	_, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)
	require.NotEmpty(t, store.queries)

	assert.Equal(t, []string{"upvc", "pipe"}, store.queries[0].Keywords)
}

func TestAggregateKeywordsFallBackToFirstThreeTerms(t *testing.T) {
	store := &fakeStore{}
	a := query.Analyze("project alpha bravo charlie delta")

	_, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)
	require.NotEmpty(t, store.queries)

	assert.Equal(t, []string{"project", "alpha", "bravo"}, store.queries[0].Keywords)
}

func TestAggregateCodesOnlyOnProjects(t *testing.T) {
	store := &fakeStore{}
	a := query.Analyze("item codes for 22 05 00")

	_, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	for _, q := range store.queries {
		if q.Table == "projects" {
			assert.Equal(t, []string{"22 05 00"}, q.Codes)
			assert.NotEmpty(t, q.CodeColumns)
		} else {
			assert.Empty(t, q.Codes)
			assert.Empty(t, q.CodeColumns)
		}
	}
}

func TestBroadFallbackBounds(t *testing.T) {
	// Users search enabled, nothing anywhere: the broad pass may populate at
	// most projects and item_codes, and runs exactly once.
	store := &fakeStore{rows: map[string][]Row{
		"item_codes": {{"code": "IC-7"}},
	}}
	a := query.Analyze("which users touched this")
	require.True(t, a.SearchUsers)

	agg, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"item_codes"}, agg.TablesSearched)
	assert.Equal(t, 1, agg.TotalResults)

	// users (enabled pass) + projects + item_codes (broad pass).
	assert.Len(t, store.queries, 3)
}

func TestBroadFallbackRunsOnlyOnce(t *testing.T) {
	store := &fakeStore{}
	a := query.Analyze("which users touched this")

	agg, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	assert.Empty(t, agg.TablesSearched)
	assert.Zero(t, agg.TotalResults)
	// One enabled lookup plus one broad pass; no second round.
	assert.Len(t, store.queries, 3)
}

func TestNoEnabledCategoriesStillFallsBack(t *testing.T) {
	store := &fakeStore{rows: map[string][]Row{
		"projects": {projectRow(9, "Tower")},
	}}
	a := query.Analyze("hello there everyone")
	require.False(t, a.SearchProjects)

	agg, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"projects"}, agg.TablesSearched)
}

func TestStoreErrorAbortsAggregation(t *testing.T) {
	boom := errors.New("connection refused")
	store := &fakeStore{failOn: map[string]error{"projects": boom}}
	a := query.Analyze("find upvc pipe projects")

	agg, err := Aggregate(context.Background(), store, a)
	require.Error(t, err)
	assert.Nil(t, agg)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "projects", storeErr.Category)
	assert.ErrorIs(t, err, boom)
}

func TestAggregateCarriesQueryAndAnalysis(t *testing.T) {
	store := &fakeStore{rows: map[string][]Row{
		"projects": {projectRow(1, "A")},
	}}
	a := query.Analyze("find upvc pipe projects")

	agg, err := Aggregate(context.Background(), store, a)
	require.NoError(t, err)

	assert.Equal(t, "find upvc pipe projects", agg.SearchQuery)
	assert.Equal(t, a, agg.QueryAnalysis)
}
