package prompt

import (
	"fmt"
	"strings"

	"backend/internal/search"
)

// Build serializes the aggregated search results into the data block appended
// to the user's question. The per-field enumeration is load-bearing: it is the
// only thing keeping the downstream completion from inventing records, so each
// category renders its full fixed field template rather than a generic dump.
func Build(userMessage string, agg *search.Aggregated) string {
	var b strings.Builder

	b.WriteString("You are the data assistant for a construction specification management platform. ")
	b.WriteString("You have direct read access to the platform database and the search results below were retrieved for this question.\n\n")

	b.WriteString("USER QUESTION:\n")
	b.WriteString(userMessage)
	b.WriteString("\n\n")

	if agg == nil || agg.TotalResults == 0 {
		b.WriteString("DATABASE SEARCH SUMMARY: no matching records were found in any searched table.\n\n")
		writeDirectives(&b)
		return b.String()
	}

	b.WriteString(fmt.Sprintf("DATABASE SEARCH SUMMARY: searched %s; found %d result(s) in total.\n\n",
		strings.Join(agg.TablesSearched, ", "), agg.TotalResults))

	for _, spec := range search.Categories {
		rs, ok := agg.Set(spec.Name)
		if !ok {
			continue
		}
		writeCategoryBlock(&b, spec.Name, rs)
	}

	writeDirectives(&b)
	return b.String()
}

func writeCategoryBlock(b *strings.Builder, cat search.Category, rs search.ResultSet) {
	b.WriteString(fmt.Sprintf("%s (%d found):\n", blockTitle(cat), rs.Total))
	for i, r := range rs.Results {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, renderRow(cat, r)))
	}
	b.WriteString("\n")
}

func blockTitle(cat search.Category) string {
	switch cat {
	case search.CategoryItemCodes:
		return "ITEM CODES"
	default:
		return strings.ToUpper(strings.ReplaceAll(string(cat), "_", " "))
	}
}

func renderRow(cat search.Category, r search.Row) string {
	switch cat {
	case search.CategoryProjects:
		return join(
			kv("ID", r, "id"),
			kv("Name", r, "name"),
			pair("Division", r, "division_code", "division_description"),
			pair("Section", r, "section_code", "section_description"),
			pair("Detailed Section", r, "detailed_section_code", "detailed_section_description"),
			pair("Item", r, "item_code", "item_description"),
			kv("Status", r, "status"),
			kv("Created", r, "created_at"),
			kv("Created By", r, "created_by"),
		)
	case search.CategoryItemCodes:
		return join(
			kv("Code", r, "code"),
			kv("Description 1", r, "description_1"),
			kv("Description 2", r, "description_2"),
			pair("Unit Price", r, "unit_price", "currency"),
			kv("Manufacturer", r, "manufacturer"),
			kv("UOM", r, "unit_of_measure"),
			kv("Status", r, "status"),
			kv("ERP Integrated", r, "erp_integrated"),
			kv("Project", r, "project_name"),
			kv("Created By", r, "created_by"),
			kv("Created", r, "created_at"),
		)
	case search.CategoryUsers:
		return join(
			kv("Username", r, "username"),
			kv("Email", r, "email"),
			kv("Role", r, "role"),
			kv("Status", r, "status"),
			kv("Created", r, "created_at"),
		)
	case search.CategoryRequests:
		return join(
			kv("Attribute", r, "attribute_name"),
			kv("New Value", r, "new_value"),
			kv("Reason", r, "reason"),
			kv("Status", r, "status"),
			kv("Project", r, "project_name"),
			kv("Created By", r, "created_by"),
			kv("Created", r, "created_at"),
		)
	case search.CategoryManufacturers:
		return join(
			kv("Name", r, "name"),
			kv("Project", r, "project_name"),
			kv("Added By", r, "added_by"),
			kv("Added", r, "added_at"),
		)
	case search.CategoryAttributes:
		return join(
			kv("Name", r, "name"),
			kv("Mandatory", r, "mandatory"),
			kv("Standard Values", r, "standard_values"),
			kv("Project", r, "project_name"),
			kv("Created", r, "created_at"),
		)
	case search.CategoryReviews:
		return join(
			kv("Action", r, "action"),
			kv("Comments", r, "comments"),
			kv("Project", r, "project_name"),
			kv("Reviewer", r, "reviewer"),
			kv("Created", r, "created_at"),
		)
	default:
		return fmt.Sprintf("%v", map[string]any(r))
	}
}

func writeDirectives(b *strings.Builder) {
	b.WriteString("STRICT RESPONSE RULES:\n")
	b.WriteString("- Answer using ONLY the data supplied above.\n")
	b.WriteString("- Never fabricate IDs, codes, names, prices or any other values.\n")
	b.WriteString("- If a table returned zero rows, state that explicitly instead of guessing.\n")
	b.WriteString("- Prefer structured formatting: short headings, bullet lists, and emoji markers (\U0001F4CB for records, ✅ for approved/active, ⚠️ for pending or missing data).\n")
}

func kv(label string, r search.Row, key string) string {
	return fmt.Sprintf("%s: %s", label, fieldValue(r, key))
}

// pair renders a code/description couple, e.g. "Division: 22 - Plumbing".
func pair(label string, r search.Row, codeKey, descKey string) string {
	return fmt.Sprintf("%s: %s - %s", label, fieldValue(r, codeKey), fieldValue(r, descKey))
}

func join(parts ...string) string {
	return strings.Join(parts, " | ")
}

func fieldValue(r search.Row, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return "N/A"
	}
	s := fmt.Sprintf("%v", v)
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
