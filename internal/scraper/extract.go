package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cricket-schedules/internal/match"
)

// MatchBlockSelector selects the repeated per-match container on the schedules page
const MatchBlockSelector = ".match_update"

// contentRootIDs are tried in order to narrow parsing to the page's main column
var contentRootIDs = []string{"main", "content", "mainContent", "ContentPlaceHolder1"}

// Extract parses schedules HTML into match records in document order.
// It never fails: unparseable input or a page without match blocks yields an empty slice,
// and a block missing a sub-field yields a record with that field empty.
func Extract(html string) []*match.Record {
	records := make([]*match.Record, 0)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return records
	}

	findContentRoot(doc).Find(MatchBlockSelector).Each(func(i int, block *goquery.Selection) {
		rec := extractBlock(block)
		if rec.IsEmpty() {
			return
		}
		records = append(records, rec)
	})

	return records
}

// findContentRoot returns the main content element, falling back to <main>, <body>,
// then the whole document
func findContentRoot(doc *goquery.Document) *goquery.Selection {
	for _, id := range contentRootIDs {
		if sel := doc.Find("#" + id).First(); sel.Length() > 0 {
			return sel
		}
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("body").First(); sel.Length() > 0 {
		return sel
	}
	return doc.Selection
}

// extractBlock pulls title, status, teams, time and link out of one match block
func extractBlock(block *goquery.Selection) *match.Record {
	// The first paragraph holds the title with the status in a nested <small>
	p := block.Find("p").First()
	status := cleanText(p.Find("small").First())

	heading := p.Clone()
	heading.Find("small").Remove()
	title := cleanText(heading)

	teams := make([]string, 0, match.MaxTeams)
	block.Find(".teamname").Each(func(i int, tn *goquery.Selection) {
		name := cleanText(teamNameSpan(tn))
		if name == "" {
			bare := tn.Clone()
			bare.Find(".score").Remove()
			name = cleanText(bare)
		}
		if name != "" {
			teams = append(teams, name)
		}
	})

	link, _ := block.Find("a[href]").First().Attr("href")
	timeText := cleanText(block.Find(".match_result").First())

	return match.NewRecord(title, status, teams, timeText, link)
}

// teamNameSpan returns the first span in a team cell that is not a score
func teamNameSpan(tn *goquery.Selection) *goquery.Selection {
	return tn.Find("span").FilterFunction(func(i int, s *goquery.Selection) bool {
		return !s.HasClass("score")
	}).First()
}

// cleanText returns the selection's text with runs of whitespace collapsed
func cleanText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
