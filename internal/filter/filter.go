package filter

import (
	"strings"

	"github.com/amishk599/skillmap/internal/model"
)

// Ensure RoleAndCityFilter implements model.RecordFilter.
var _ model.RecordFilter = (*RoleAndCityFilter)(nil)

// RoleAndCityFilter matches postings whose title contains any of the role
// keywords and whose city contains any of the city keywords.
// Matching is case-insensitive. Empty keyword lists are treated as "match all".
type RoleAndCityFilter struct {
	roles  []string
	cities []string
}

// NewRoleAndCityFilter returns a filter that requires both a role keyword
// match and a city keyword match (case-insensitive substring).
func NewRoleAndCityFilter(roles []string, cities []string) *RoleAndCityFilter {
	return &RoleAndCityFilter{
		roles:  lowerAll(roles),
		cities: lowerAll(cities),
	}
}

// Match returns true if the record passes both keyword lists.
func (f *RoleAndCityFilter) Match(rec model.JobRecord) bool {
	return containsAny(strings.ToLower(rec.Title), f.roles) &&
		containsAny(strings.ToLower(rec.City), f.cities)
}

// Apply returns the records that match, preserving input order.
func (f *RoleAndCityFilter) Apply(recs []model.JobRecord) []model.JobRecord {
	if len(f.roles) == 0 && len(f.cities) == 0 {
		return recs
	}
	out := make([]model.JobRecord, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
