package match

import "strings"

// Record represents one scheduled match as shown on the schedules page
type Record struct {
	Title  string   `json:"title"`
	Status string   `json:"status"`
	Teams  []string `json:"teams"`
	Time   string   `json:"time"`
	Link   *string  `json:"link"`
}

// MaxTeams is the number of team names kept per record
const MaxTeams = 2

// NewRecord creates a Record, trimming text fields and capping teams at MaxTeams.
// An empty link is stored as nil.
func NewRecord(title, status string, teams []string, timeText, link string) *Record {
	names := make([]string, 0, MaxTeams)
	for _, t := range teams {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if len(names) == MaxTeams {
			break
		}
		names = append(names, t)
	}

	rec := &Record{
		Title:  strings.TrimSpace(title),
		Status: strings.TrimSpace(status),
		Teams:  names,
		Time:   strings.TrimSpace(timeText),
	}

	if link = strings.TrimSpace(link); link != "" {
		rec.Link = &link
	}

	return rec
}

// IsEmpty reports whether the record carries no title, teams, or time
func (r *Record) IsEmpty() bool {
	return r.Title == "" && len(r.Teams) == 0 && r.Time == ""
}

// LinkString returns the link or an empty string when absent
func (r *Record) LinkString() string {
	if r.Link == nil {
		return ""
	}
	return *r.Link
}

// Versus joins the team names the way the upstream page titles matches
func (r *Record) Versus() string {
	return strings.Join(r.Teams, " vs ")
}
