package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeEmptyMessage(t *testing.T) {
	a := Analyze("")

	assert.Empty(t, a.Materials)
	assert.Empty(t, a.CSICodes)
	assert.Empty(t, a.SearchTerms)
	assert.False(t, a.SearchProjects)
	assert.False(t, a.SearchItemCodes)
	assert.False(t, a.SearchUsers)
	assert.False(t, a.SearchRequests)
	assert.False(t, a.SearchManufacturers)
	assert.False(t, a.SearchAttributes)
	assert.False(t, a.SearchReviews)
	assert.False(t, a.SearchStatus)
	assert.Equal(t, IntentGeneral, a.Intent)
	assert.Equal(t, "simple", a.Complexity)
}

func TestAnalyzeStopWordsOnly(t *testing.T) {
	a := Analyze("the and for are with any all can you")

	assert.Empty(t, a.SearchTerms)
	assert.False(t, a.SearchProjects)
	assert.False(t, a.SearchItemCodes)
	assert.False(t, a.SearchUsers)
	assert.False(t, a.SearchStatus)
}

func TestMaterialForcesProjectsAndItemCodes(t *testing.T) {
	a := Analyze("steel")

	assert.Equal(t, []string{"steel"}, a.Materials)
	assert.True(t, a.SearchProjects)
	assert.True(t, a.SearchItemCodes)
	assert.False(t, a.SearchUsers)
}

// Material keywords deliberately trigger both the projects and item-codes
// flags even without explicit category keywords. The double-triggering is
// preserved as observed behavior, not narrowed.
func TestMaterialDoubleTriggerQuirk(t *testing.T) {
	a := Analyze("upvc deliveries")

	assert.True(t, a.SearchProjects)
	assert.True(t, a.SearchItemCodes)
}

func TestUpvcPipeScenario(t *testing.T) {
	a := Analyze("find upvc pipe projects")

	assert.Equal(t, []string{"upvc", "pipe"}, a.Materials)
	assert.True(t, a.SearchProjects)
	assert.True(t, a.SearchItemCodes)
	assert.Equal(t, IntentSearch, a.Intent)
}

func TestMaterialsDeduplicatedCaseFolded(t *testing.T) {
	a := Analyze("Steel beams and STEEL plates")

	assert.Equal(t, []string{"steel"}, a.Materials)
}

func TestCSICodeExtraction(t *testing.T) {
	a := Analyze("what about 22 05 00 and 099123")

	assert.Equal(t, []string{"22 05 00", "099123"}, a.CSICodes)
	assert.True(t, a.SearchProjects)
	assert.True(t, a.SearchItemCodes)
}

func TestCSICodeRejectsOddDigitRuns(t *testing.T) {
	a := Analyze("order 12345")

	assert.Empty(t, a.CSICodes)
}

func TestSearchTermsFiltering(t *testing.T) {
	a := Analyze("show all pending change requests for projects")

	// "show", "all", "for" are stop words; everything kept is lowercase and
	// longer than two characters.
	assert.Equal(t, []string{"pending", "change", "requests", "projects"}, a.SearchTerms)
	assert.Equal(t, "complex", a.Complexity)
}

func TestComplexitySimple(t *testing.T) {
	a := Analyze("pending requests today")

	assert.Equal(t, "simple", a.Complexity)
}

func TestPendingApprovalsIntentPriority(t *testing.T) {
	a := Analyze("show me pending approvals")

	// The search verb outranks the later status-word pattern.
	assert.Equal(t, IntentSearch, a.Intent)
	assert.True(t, a.SearchStatus)
	assert.True(t, a.SearchReviews)
}

func TestIntentOrder(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"how many item codes do we have", IntentCount},
		{"who approved this project", IntentWho},
		{"when was the project created", IntentWhen},
		{"why was the request rejected", IntentWhy},
		{"compare upvc and pvc prices", IntentCompare},
		{"status of the concrete works", IntentStatus},
		{"hello there", IntentGeneral},
	}
	for _, tc := range cases {
		a := Analyze(tc.message)
		assert.Equal(t, tc.want, a.Intent, "message: %q", tc.message)
	}
}

func TestCategoryFlags(t *testing.T) {
	cases := []struct {
		message string
		check   func(t *testing.T, a Analysis)
	}{
		{"which users have admin role", func(t *testing.T, a Analysis) {
			assert.True(t, a.SearchUsers)
		}},
		{"any change requests", func(t *testing.T, a Analysis) {
			assert.True(t, a.SearchRequests)
		}},
		{"approved manufacturers", func(t *testing.T, a Analysis) {
			assert.True(t, a.SearchManufacturers)
			assert.True(t, a.SearchStatus)
		}},
		{"mandatory attributes", func(t *testing.T, a Analysis) {
			assert.True(t, a.SearchAttributes)
		}},
		{"reviewer comments", func(t *testing.T, a Analysis) {
			assert.True(t, a.SearchReviews)
		}},
	}
	for _, tc := range cases {
		tc.check(t, Analyze(tc.message))
	}
}

func TestPriceAndDateContext(t *testing.T) {
	a := Analyze("unit price changes this month")

	assert.True(t, a.HasPriceContext)
	assert.True(t, a.HasDateContext)
}

func TestAnalyzeDeterministic(t *testing.T) {
	msg := "find upvc pipe projects with pending approvals 22 05 00"

	assert.Equal(t, Analyze(msg), Analyze(msg))
}
