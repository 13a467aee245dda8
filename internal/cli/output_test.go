package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/pfrederiksen/cricket-schedules/internal/match"
)

func testResult() *OutputResult {
	records := []*match.Record{
		match.NewRecord("India vs Australia", "Live", []string{"India", "Australia"}, "14:00 GMT", "/match/1"),
		match.NewRecord("2nd T20I", "Upcoming", []string{"England", "Pakistan"}, "18:00 GMT", ""),
	}
	return &OutputResult{
		FetchedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:     "https://hamariweb.com/cricket/schedules.aspx",
		Matches:    records,
		MatchCount: len(records),
	}
}

func TestWriteOutput_Text(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:    "default",
			verbose: false,
			contains: []string{
				"India vs Australia [Live]",
				"2nd T20I [Upcoming]",
				"  England vs Pakistan\n",
				"  14:00 GMT\n",
				"Total: 2 matches",
			},
			excludes: []string{"/match/1", "  India vs Australia\n"},
		},
		{
			name:     "verbose shows links",
			verbose:  true,
			contains: []string{"  /match/1\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOutput(&buf, testResult(), FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteOutput() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestWriteOutput_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := &OutputResult{Matches: []*match.Record{}}
	if err := WriteOutput(&buf, result, FormatText, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	if buf.String() != "No matches found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	var decoded struct {
		Source     string `json:"source"`
		MatchCount int    `json:"match_count"`
		Matches    []struct {
			Title string   `json:"title"`
			Teams []string `json:"teams"`
			Link  *string  `json:"link"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if decoded.MatchCount != 2 || len(decoded.Matches) != 2 {
		t.Fatalf("match_count = %d, matches = %d", decoded.MatchCount, len(decoded.Matches))
	}
	if decoded.Matches[0].Link == nil || *decoded.Matches[0].Link != "/match/1" {
		t.Errorf("first link = %v", decoded.Matches[0].Link)
	}
	if decoded.Matches[1].Link != nil {
		t.Errorf("second link = %v, want null", *decoded.Matches[1].Link)
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(), OutputFormat("xml"), false); err == nil {
		t.Error("WriteOutput() with unknown format should fail")
	}
}
