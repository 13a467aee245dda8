package scraper

import (
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/cricket-schedules/internal/match"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestExtract_TwoBlocks(t *testing.T) {
	records := Extract(loadFixture(t, "schedules_two_blocks.html"))

	if len(records) != 2 {
		t.Fatalf("Extract() returned %d records, want 2", len(records))
	}

	link := "/match/1"
	want := []*match.Record{
		{Title: "India vs Australia", Status: "Live", Teams: []string{"India", "Australia"}, Time: "14:00 GMT", Link: &link},
		{Title: "England vs Pakistan", Status: "Upcoming", Teams: []string{"England", "Pakistan"}, Time: "18:00 GMT", Link: nil},
	}

	for i, w := range want {
		assertRecord(t, i, records[i], w)
	}
}

func TestExtract_Page(t *testing.T) {
	records := Extract(loadFixture(t, "schedules_page.html"))

	if len(records) != 3 {
		t.Fatalf("Extract() returned %d records, want 3", len(records))
	}

	sl := "/cricket/scorecard/sl-vs-ban-2nd-odi"
	nz := "https://hamariweb.com/cricket/scorecard/nz-vs-sa-1st-test"
	want := []*match.Record{
		{
			Title:  "Sri Lanka vs Bangladesh, 2nd ODI",
			Status: "Result",
			Teams:  []string{"Sri Lanka", "Bangladesh"},
			Time:   "Sri Lanka won by 47 runs",
			Link:   &sl,
		},
		{
			Title:  "New Zealand vs South Africa, 1st Test",
			Status: "Live",
			Teams:  []string{"New Zealand", "South Africa"},
			Time:   "Day 2 - Session 1",
			Link:   &nz,
		},
		{
			Title:  "West Indies vs Ireland, 3rd T20I",
			Status: "Upcoming",
			Teams:  []string{"West Indies", "Ireland"},
			Time:   "Sat, 24 Oct 2026 07:00 PM PST",
		},
	}

	for i, w := range want {
		assertRecord(t, i, records[i], w)
	}
}

func TestExtract_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
		check     func(*testing.T, []*match.Record)
	}{
		{
			name:      "empty string",
			html:      "",
			wantCount: 0,
		},
		{
			name:      "no match blocks",
			html:      `<html><body><h1>Schedules</h1><p>No matches today</p></body></html>`,
			wantCount: 0,
		},
		{
			name:      "not html at all",
			html:      `{"matches": []}`,
			wantCount: 0,
		},
		{
			name: "missing status",
			html: `<div class="match_update"><p>Nepal vs Oman</p><div class="match_result">TBC</div></div>`,
			wantCount: 1,
			check: func(t *testing.T, records []*match.Record) {
				if records[0].Status != "" {
					t.Errorf("Status = %q, want empty", records[0].Status)
				}
				if records[0].Title != "Nepal vs Oman" {
					t.Errorf("Title = %q, want Nepal vs Oman", records[0].Title)
				}
			},
		},
		{
			name: "missing link does not affect neighbours",
			html: `
				<div class="match_update"><p>A vs B</p><a href="/a">x</a></div>
				<div class="match_update"><p>C vs D</p></div>
				<div class="match_update"><p>E vs F</p><a href="/e">x</a></div>
			`,
			wantCount: 3,
			check: func(t *testing.T, records []*match.Record) {
				if records[0].LinkString() != "/a" || records[2].LinkString() != "/e" {
					t.Errorf("links = %q, %q, want /a, /e", records[0].LinkString(), records[2].LinkString())
				}
				if records[1].Link != nil {
					t.Errorf("Link = %q, want nil", *records[1].Link)
				}
			},
		},
		{
			name: "duplicates preserved",
			html: `
				<div class="match_update"><p>A vs B</p></div>
				<div class="match_update"><p>A vs B</p></div>
			`,
			wantCount: 2,
		},
		{
			name: "blocks with nothing in them skipped",
			html: `
				<div class="match_update"><p></p></div>
				<div class="match_update"><p>A vs B</p></div>
			`,
			wantCount: 1,
		},
		{
			name: "more than two teams capped",
			html: `<div class="match_update">
				<div class="teamname"><span>A</span></div>
				<div class="teamname"><span>B</span></div>
				<div class="teamname"><span>C</span></div>
			</div>`,
			wantCount: 1,
			check: func(t *testing.T, records []*match.Record) {
				if len(records[0].Teams) != 2 {
					t.Errorf("Teams = %v, want 2 names", records[0].Teams)
				}
			},
		},
		{
			name: "score span skipped",
			html: `<div class="match_update">
				<div class="teamname"><span class="score">120/2</span><span>Kenya</span></div>
			</div>`,
			wantCount: 1,
			check: func(t *testing.T, records []*match.Record) {
				if records[0].Teams[0] != "Kenya" {
					t.Errorf("Teams[0] = %q, want Kenya", records[0].Teams[0])
				}
			},
		},
		{
			name: "class marker among other classes",
			html: `<div class="card match_update highlighted"><p>A vs B</p></div>`,
			wantCount: 1,
		},
		{
			name: "html entities decoded",
			html: `<div class="match_update"><p>Trinbago &amp; Tobago vs Jamaica</p></div>`,
			wantCount: 1,
			check: func(t *testing.T, records []*match.Record) {
				if strings.Contains(records[0].Title, "&amp;") {
					t.Errorf("Title = %q contains unescaped entity", records[0].Title)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Extract(tt.html)

			if records == nil {
				t.Fatal("Extract() returned nil, want empty slice")
			}
			if len(records) != tt.wantCount {
				t.Fatalf("Extract() returned %d records, want %d", len(records), tt.wantCount)
			}
			if tt.check != nil {
				tt.check(t, records)
			}
		})
	}
}

func TestExtract_ContentRootExcludesChrome(t *testing.T) {
	records := Extract(loadFixture(t, "schedules_page.html"))

	for _, rec := range records {
		if strings.Contains(rec.Title, "Ticker") {
			t.Errorf("record %q from outside the content root was extracted", rec.Title)
		}
	}
}

func TestExtract_DocumentOrder(t *testing.T) {
	var b strings.Builder
	titles := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	for _, title := range titles {
		b.WriteString(`<div class="match_update"><p>` + title + `</p></div>`)
	}

	records := Extract(b.String())

	if len(records) != len(titles) {
		t.Fatalf("Extract() returned %d records, want %d", len(records), len(titles))
	}
	for i, title := range titles {
		if records[i].Title != title {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, title)
		}
	}
}

func assertRecord(t *testing.T, i int, got, want *match.Record) {
	t.Helper()

	if got.Title != want.Title {
		t.Errorf("records[%d].Title = %q, want %q", i, got.Title, want.Title)
	}
	if got.Status != want.Status {
		t.Errorf("records[%d].Status = %q, want %q", i, got.Status, want.Status)
	}
	if strings.Join(got.Teams, "|") != strings.Join(want.Teams, "|") {
		t.Errorf("records[%d].Teams = %v, want %v", i, got.Teams, want.Teams)
	}
	if got.Time != want.Time {
		t.Errorf("records[%d].Time = %q, want %q", i, got.Time, want.Time)
	}
	if (got.Link == nil) != (want.Link == nil) {
		t.Fatalf("records[%d].Link = %v, want %v", i, got.Link, want.Link)
	}
	if got.Link != nil && *got.Link != *want.Link {
		t.Errorf("records[%d].Link = %q, want %q", i, *got.Link, *want.Link)
	}
}
