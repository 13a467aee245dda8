package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Batter is one row of a batting table
type Batter struct {
	Name       string `json:"name"`
	Dismissal  string `json:"dismissal,omitempty"`
	Runs       string `json:"runs"`
	Balls      string `json:"balls"`
	Fours      string `json:"fours"`
	Sixes      string `json:"sixes"`
	StrikeRate string `json:"sr"`
}

// Bowler is one row of a bowling table
type Bowler struct {
	Name    string `json:"name"`
	Overs   string `json:"ov"`
	Maidens string `json:"m"`
	Runs    string `json:"r"`
	Wickets string `json:"w"`
	Economy string `json:"econ"`
}

// Innings pairs a batting table with the bowling table that follows it
type Innings struct {
	Team    string   `json:"team,omitempty"`
	Batting []Batter `json:"batting"`
	Extras  string   `json:"extras,omitempty"`
	Total   string   `json:"total,omitempty"`
	Bowling []Bowler `json:"bowling,omitempty"`
}

// ScorecardSource records how many tables of each kind were recognized
type ScorecardSource struct {
	BattingTables int `json:"batting_count"`
	BowlingTables int `json:"bowling_count"`
}

// Scorecard is the parsed content of a match scorecard page
type Scorecard struct {
	Title   string            `json:"title"`
	Teams   []string          `json:"teams"`
	Info    map[string]string `json:"info"`
	Innings []Innings         `json:"innings"`
	Source  ScorecardSource   `json:"source"`
}

// ParseScorecard extracts innings, match information and teams from a scorecard page.
// Like Extract it never fails; unrecognized markup gives empty sections.
func ParseScorecard(html string) *Scorecard {
	card := &Scorecard{
		Teams:   make([]string, 0),
		Info:    make(map[string]string),
		Innings: make([]Innings, 0),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return card
	}

	card.Title, card.Teams = titleAndTeams(doc)

	var batting, bowling []*goquery.Selection
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		thead := table.Find("thead").First()
		if thead.Length() == 0 {
			return
		}
		head := strings.ToLower(cleanText(thead))
		switch {
		case strings.Contains(head, "batting"):
			batting = append(batting, table)
		case strings.Contains(head, "bowling"):
			bowling = append(bowling, table)
		}
	})

	for idx, bt := range batting {
		inn := parseBattingTable(bt)
		if idx < len(bowling) {
			inn.Bowling = parseBowlingTable(bowling[idx])
		}
		if len(card.Teams) > 0 {
			inn.Team = card.Teams[idx%len(card.Teams)]
		}
		card.Innings = append(card.Innings, inn)
	}

	card.Info = parseMatchInfo(doc)
	card.Source = ScorecardSource{
		BattingTables: len(batting),
		BowlingTables: len(bowling),
	}

	return card
}

// titleAndTeams reads "Home VS Away, Match details" style page titles
func titleAndTeams(doc *goquery.Document) (string, []string) {
	title := cleanText(doc.Find("title").First())
	teams := make([]string, 0, 2)

	left, rest, ok := strings.Cut(title, " VS ")
	if !ok {
		return title, teams
	}
	right, _, _ := strings.Cut(rest, ",")

	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	if left != "" && right != "" {
		teams = append(teams, left, right)
	}
	return title, teams
}

// tableRows returns the rows of the table body, or of the table when it has none
func tableRows(table *goquery.Selection) *goquery.Selection {
	if tbody := table.Find("tbody").First(); tbody.Length() > 0 {
		return tbody.Find("tr")
	}
	return table.Find("tr")
}

func parseBattingTable(table *goquery.Selection) Innings {
	inn := Innings{Batting: make([]Batter, 0)}

	tableRows(table).Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		first := tds.Eq(0)
		label := strings.ToLower(cleanText(first))

		switch {
		case strings.HasPrefix(label, "extras"):
			inn.Extras = joinCells(tds.Slice(1, tds.Length()))
			return
		case strings.HasPrefix(label, "total"):
			inn.Total = joinCells(tds.Slice(1, tds.Length()))
			return
		case strings.HasPrefix(label, "did not bat"):
			return
		}

		name := cleanText(first.Find("b").First())
		if name == "" {
			name = cleanText(first)
		}

		b := Batter{
			Name:       name,
			Dismissal:  cleanText(first.Find("small").First()),
			Runs:       cleanText(tds.Eq(1)),
			Balls:      cleanText(tds.Eq(2)),
			Fours:      cleanText(tds.Eq(3)),
			Sixes:      cleanText(tds.Eq(4)),
			StrikeRate: cleanText(tds.Eq(5)),
		}
		hasStats := b.Runs != "" || b.Balls != "" || b.Fours != "" || b.Sixes != "" || b.StrikeRate != ""
		if name != "" && hasStats {
			inn.Batting = append(inn.Batting, b)
		}
	})

	return inn
}

func parseBowlingTable(table *goquery.Selection) []Bowler {
	bowlers := make([]Bowler, 0)

	tableRows(table).Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 6 {
			return
		}
		name := cleanText(tds.Eq(0))
		if name == "" {
			return
		}
		bowlers = append(bowlers, Bowler{
			Name:    name,
			Overs:   cleanText(tds.Eq(1)),
			Maidens: cleanText(tds.Eq(2)),
			Runs:    cleanText(tds.Eq(3)),
			Wickets: cleanText(tds.Eq(4)),
			Economy: cleanText(tds.Eq(5)),
		})
	})

	return bowlers
}

// parseMatchInfo reads the key/value table under the "Match Information" heading,
// falling back to the first table on the page
func parseMatchInfo(doc *goquery.Document) map[string]string {
	info := make(map[string]string)

	var table *goquery.Selection
	doc.Find(".section_title .title, .section_title h1, .section_title h2").EachWithBreak(func(i int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(cleanText(heading)), "match information") {
			return true
		}
		if wrap := findNext(doc, heading.Parent(), "div[class*='table-responsive']"); wrap != nil {
			if t := wrap.Find("table").First(); t.Length() > 0 {
				table = t
			}
		}
		return false
	})
	if table == nil {
		table = doc.Find("table").First()
	}

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		key := cleanText(tr.Find("th").First())
		val := cleanText(tr.Find("td").First())
		if key != "" && val != "" {
			info[key] = val
		}
	})

	return info
}

// findNext returns the first element matching selector that follows from in document
// order, at any depth, or nil
func findNext(doc *goquery.Document, from *goquery.Selection, selector string) *goquery.Selection {
	if from.Length() == 0 {
		return nil
	}
	start := from.Get(0)

	var found *goquery.Selection
	passed := false
	doc.Find("*").EachWithBreak(func(i int, el *goquery.Selection) bool {
		if el.Get(0) == start {
			passed = true
			return true
		}
		if passed && el.Is(selector) {
			found = el
			return false
		}
		return true
	})
	return found
}

// joinCells joins the non-empty text of each cell with a space
func joinCells(cells *goquery.Selection) string {
	parts := make([]string, 0, cells.Length())
	cells.Each(func(i int, td *goquery.Selection) {
		if t := cleanText(td); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}
