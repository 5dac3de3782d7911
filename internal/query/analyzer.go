package query

import (
	"regexp"
	"strings"
)

// Intent is the coarse question type derived from the message.
type Intent string

const (
	IntentSearch  Intent = "search"
	IntentCount   Intent = "count"
	IntentWho     Intent = "who"
	IntentWhen    Intent = "when"
	IntentWhy     Intent = "why"
	IntentCompare Intent = "compare"
	IntentStatus  Intent = "status"
	IntentGeneral Intent = "general"
)

// Analysis is the per-request classification of a user message. Every field is
// a pure function of OriginalQuery; nothing mutates it after Analyze returns.
type Analysis struct {
	OriginalQuery string   `json:"originalQuery"`
	Materials     []string `json:"materials"`
	CSICodes      []string `json:"csiCodes"`
	SearchTerms   []string `json:"searchTerms"`

	SearchProjects      bool `json:"searchProjects"`
	SearchItemCodes     bool `json:"searchItemCodes"`
	SearchUsers         bool `json:"searchUsers"`
	SearchRequests      bool `json:"searchRequests"`
	SearchManufacturers bool `json:"searchManufacturers"`
	SearchAttributes    bool `json:"searchAttributes"`
	SearchReviews       bool `json:"searchReviews"`
	SearchStatus        bool `json:"searchStatus"`

	HasPriceContext bool `json:"hasPriceContext"`
	HasDateContext  bool `json:"hasDateContext"`

	Intent     Intent `json:"intent"`
	Complexity string `json:"complexity"`
}

var (
	materialRe = regexp.MustCompile(`\b(upvc|pvc|cpvc|hdpe|gi|pipe|pipes|steel|concrete|cement|rebar|copper|aluminum|aluminium|gypsum|tile|tiles|marble|granite|paint|wood|timber|glass|insulation|cable|cables|wire|wires|duct|ducts|valve|valves|fitting|fittings|brick|bricks|asphalt|bitumen|membrane|sealant)\b`)
	projectRe  = regexp.MustCompile(`\b(project|projects|division|divisions|section|sections|spec|specs|specification|specifications|boq)\b`)
	itemCodeRe = regexp.MustCompile(`\b(item|items|code|codes|price|prices|unit|rate|rates|cost|costs|erp)\b`)
	userRe     = regexp.MustCompile(`\b(user|users|member|members|account|accounts|email|role|roles)\b`)
	statusRe   = regexp.MustCompile(`\b(status|pending|approved|rejected|draft|active|inactive|progress)\b`)
	mfrRe      = regexp.MustCompile(`\b(manufacturer|manufacturers|supplier|suppliers|vendor|vendors|brand|brands)\b`)
	attrRe     = regexp.MustCompile(`\b(attribute|attributes|property|properties|mandatory|field|fields)\b`)
	requestRe  = regexp.MustCompile(`\b(request|requests|change|changes|modification|modifications)\b`)
	reviewRe   = regexp.MustCompile(`\b(review|reviews|reviewer|reviewers|approval|approvals|approve|comment|comments|feedback)\b`)
	priceRe    = regexp.MustCompile(`\b(price|prices|cost|costs|expensive|cheap|budget|aed|usd)\b`)
	dateRe     = regexp.MustCompile(`\b(today|yesterday|week|month|year|recent|recently|latest|created|date|dates)\b`)

	// CSI-style classification codes: groups of 2, 4 or 6 digits, optionally
	// split into digit pairs by whitespace (e.g. "09 91 23").
	csiCodeRe = regexp.MustCompile(`\b\d{2}(?:\s?\d{2}){0,2}\b`)

	wordRe = regexp.MustCompile(`[a-z0-9]+`)

	searchIntentRe  = regexp.MustCompile(`\b(find|search|show|list|get|display|fetch|give)\b`)
	countIntentRe   = regexp.MustCompile(`\b(how many|count|number of|total)\b`)
	whoIntentRe     = regexp.MustCompile(`\bwho\b`)
	whenIntentRe    = regexp.MustCompile(`\bwhen\b`)
	whyIntentRe     = regexp.MustCompile(`\bwhy\b`)
	compareIntentRe = regexp.MustCompile(`\b(compare|comparison|versus|vs|difference|differences)\b`)
	statusIntentRe  = regexp.MustCompile(`\b(status|state|progress)\b`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "with": true,
	"any": true, "all": true, "can": true, "you": true, "show": true,
	"find": true, "get": true, "list": true,
}

// Analyze classifies a free-text message into category flags, extracted
// keywords and an intent. It never fails: a message with no matches yields
// empty collections, false flags and the general intent.
func Analyze(message string) Analysis {
	low := strings.ToLower(message)

	a := Analysis{
		OriginalQuery: message,
		Materials:     extractMaterials(low),
		CSICodes:      extractCSICodes(low),
		SearchTerms:   extractSearchTerms(low),
	}

	hasMaterialOrCode := len(a.Materials) > 0 || len(a.CSICodes) > 0

	a.SearchProjects = projectRe.MatchString(low) || hasMaterialOrCode
	a.SearchItemCodes = itemCodeRe.MatchString(low) || hasMaterialOrCode
	a.SearchUsers = userRe.MatchString(low)
	a.SearchRequests = requestRe.MatchString(low)
	a.SearchManufacturers = mfrRe.MatchString(low)
	a.SearchAttributes = attrRe.MatchString(low)
	a.SearchReviews = reviewRe.MatchString(low)
	a.SearchStatus = statusRe.MatchString(low)

	a.HasPriceContext = priceRe.MatchString(low)
	a.HasDateContext = dateRe.MatchString(low)

	a.Intent = detectIntent(low)

	if len(a.SearchTerms) > 3 {
		a.Complexity = "complex"
	} else {
		a.Complexity = "simple"
	}

	return a
}

func extractMaterials(low string) []string {
	matches := materialRe.FindAllString(low, -1)
	seen := map[string]bool{}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func extractCSICodes(low string) []string {
	matches := csiCodeRe.FindAllString(low, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.Join(strings.Fields(m), " "))
	}
	return out
}

func extractSearchTerms(low string) []string {
	words := wordRe.FindAllString(low, -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// detectIntent tests the fixed phrase patterns in strict priority order; the
// first match wins, so "show me pending approvals" is a search, not a status
// question.
func detectIntent(low string) Intent {
	switch {
	case searchIntentRe.MatchString(low):
		return IntentSearch
	case countIntentRe.MatchString(low):
		return IntentCount
	case whoIntentRe.MatchString(low):
		return IntentWho
	case whenIntentRe.MatchString(low):
		return IntentWhen
	case whyIntentRe.MatchString(low):
		return IntentWhy
	case compareIntentRe.MatchString(low):
		return IntentCompare
	case statusIntentRe.MatchString(low):
		return IntentStatus
	default:
		return IntentGeneral
	}
}
