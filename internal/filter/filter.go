// Package filter narrows a list of match records by team, status, or free text.
//
// Filters are usually built from a short query string:
//
//	f, err := filter.Parse("team:pakistan status:live")
//	if err != nil {
//		return err
//	}
//	live := f.Apply(records)
//
// Every criterion is a case-insensitive substring match. Values within one criterion
// are alternatives; separate criteria must all match.
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/cricket-schedules/internal/match"
)

// Filter represents match filtering criteria
type Filter struct {
	// Teams matches when any team name contains one of the values
	Teams []string `json:"teams,omitempty"`

	// Statuses matches when the status contains one of the values
	Statuses []string `json:"statuses,omitempty"`

	// Terms must all appear in the title, teams, or time text
	Terms []string `json:"terms,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Teams:    []string{},
		Statuses: []string{},
		Terms:    []string{},
	}
}

// IsEmpty returns true if the filter has no active criteria
func (f *Filter) IsEmpty() bool {
	return len(f.Teams) == 0 && len(f.Statuses) == 0 && len(f.Terms) == 0
}

// Matches returns true if the record satisfies all filter criteria
func (f *Filter) Matches(rec *match.Record) bool {
	if rec == nil {
		return false
	}

	if len(f.Teams) > 0 {
		found := false
		for _, team := range rec.Teams {
			if containsAny(team, f.Teams) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Statuses) > 0 && !containsAny(rec.Status, f.Statuses) {
		return false
	}

	if len(f.Terms) > 0 {
		haystack := strings.ToLower(strings.Join([]string{rec.Title, rec.Versus(), rec.Time}, " "))
		for _, term := range f.Terms {
			if !strings.Contains(haystack, strings.ToLower(term)) {
				return false
			}
		}
	}

	return true
}

// Apply filters a list of records, returning only those that match.
// Order is preserved and the result is never nil.
func (f *Filter) Apply(records []*match.Record) []*match.Record {
	if f.IsEmpty() && records != nil {
		return records
	}

	filtered := make([]*match.Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}

	return filtered
}

// String returns a human-readable description of the filter
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No filters active"
	}

	var parts []string
	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}
	if len(f.Statuses) > 0 {
		parts = append(parts, fmt.Sprintf("Status: %s", strings.Join(f.Statuses, ", ")))
	}
	if len(f.Terms) > 0 {
		parts = append(parts, fmt.Sprintf("Text: %s", strings.Join(f.Terms, " ")))
	}

	return strings.Join(parts, "\n")
}

func containsAny(s string, values []string) bool {
	s = strings.ToLower(s)
	for _, v := range values {
		if strings.Contains(s, strings.ToLower(v)) {
			return true
		}
	}
	return false
}
