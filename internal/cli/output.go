package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/pfrederiksen/cricket-schedules/internal/match"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	FetchedAt  time.Time       `json:"fetched_at"`
	Source     string          `json:"source"`
	Filter     string          `json:"filter,omitempty"`
	Matches    []*match.Record `json:"matches"`
	MatchCount int             `json:"match_count"`
}

var (
	titleColor  = color.New(color.Bold)
	liveColor   = color.New(color.FgRed, color.Bold)
	statusColor = color.New(color.FgCyan)
	faintColor  = color.New(color.Faint)
)

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeMetrics prints a metrics snapshot as indented JSON
func writeMetrics(w io.Writer, snapshot map[string]interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{"metrics": snapshot})
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.MatchCount == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	for _, rec := range result.Matches {
		title := rec.Title
		if title == "" {
			title = rec.Versus()
		}
		titleColor.Fprint(w, title)

		if rec.Status != "" {
			c := statusColor
			if strings.EqualFold(rec.Status, "live") {
				c = liveColor
			}
			fmt.Fprint(w, " ")
			c.Fprintf(w, "[%s]", rec.Status)
		}
		fmt.Fprintln(w)

		if len(rec.Teams) > 0 && rec.Versus() != title {
			fmt.Fprintf(w, "  %s\n", rec.Versus())
		}
		if rec.Time != "" {
			fmt.Fprintf(w, "  %s\n", rec.Time)
		}
		if verbose && rec.Link != nil {
			faintColor.Fprintf(w, "  %s\n", *rec.Link)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d matches\n", result.MatchCount)
	if result.Filter != "" {
		faintColor.Fprintf(w, "Filter: %s\n", strings.ReplaceAll(result.Filter, "\n", "; "))
	}
	return nil
}
