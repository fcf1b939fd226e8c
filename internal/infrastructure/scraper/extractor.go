package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/textparse"
)

const (
	maxUpcomingMatches = 5
	maxPointsTableRows = 10

	defaultMatchTime  = "19:30 IST"
	defaultMatchVenue = "TBD"
)

// ExtractResult holds whatever the cascades managed to pull out of one
// document. Empty sections stay empty; extraction never fails.
type ExtractResult struct {
	LiveMatch       *cricket.Match
	UpcomingMatches []cricket.Match
	PointsTable     []cricket.PointsTableEntry
}

// Extractor pulls the live match, upcoming fixtures and standings out of a
// parsed document. Each section runs its own priority-ordered cascade of
// selector strategies: the strategies are data, tried most-specific first,
// and the first one that yields at least one structurally valid result wins
// so a brittle selector cannot poison the output with partial garbage.
type Extractor struct {
	now func() time.Time

	// onStrategy is invoked before each strategy is evaluated; tests use it
	// to assert that later strategies are skipped once one wins.
	onStrategy func(section, strategyName string)
}

func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

func (e *Extractor) Extract(doc *goquery.Document) ExtractResult {
	if doc == nil {
		return ExtractResult{}
	}

	return ExtractResult{
		LiveMatch:       e.extractLiveMatch(doc),
		UpcomingMatches: e.extractUpcomingMatches(doc),
		PointsTable:     e.extractPointsTable(doc),
	}
}

// strategy is one selector pattern plus the code that maps selected nodes to
// results.
type strategy[T any] struct {
	name    string
	collect func(doc *goquery.Document) []T
}

// firstValid runs strategies in order and returns the first non-empty result
// set, skipping every later strategy.
func firstValid[T any](doc *goquery.Document, strategies []strategy[T], observe func(string)) []T {
	for _, s := range strategies {
		if observe != nil {
			observe(s.name)
		}
		if out := s.collect(doc); len(out) > 0 {
			return out
		}
	}
	return nil
}

func (e *Extractor) observer(section string) func(string) {
	if e.onStrategy == nil {
		return nil
	}
	return func(name string) { e.onStrategy(section, name) }
}

// --- live match ---

var liveContainerSelectors = []string{
	".live-match", ".match-live", ".live", `[class*="live"]`,
	`.match[class*="live"]`, `.fixture[class*="live"]`,
	".live-score", ".live-update", ".live-indicator",
	".matchCenter", ".matches-main", ".matches-container",
}

func (e *Extractor) extractLiveMatch(doc *goquery.Document) *cricket.Match {
	strategies := make([]strategy[cricket.Match], 0, len(liveContainerSelectors)+2)
	for _, selector := range liveContainerSelectors {
		strategies = append(strategies, strategy[cricket.Match]{
			name: selector,
			collect: func(doc *goquery.Document) []cricket.Match {
				return e.liveFromContainer(doc.Find(selector).First())
			},
		})
	}
	// Selector engines have no :contains(); scan element text directly.
	strategies = append(strategies,
		strategy[cricket.Match]{
			name: `div:contains("LIVE")`,
			collect: func(doc *goquery.Document) []cricket.Match {
				return e.liveFromContainer(firstContaining(doc, "div", "LIVE"))
			},
		},
		strategy[cricket.Match]{
			name: `span:contains("Live")`,
			collect: func(doc *goquery.Document) []cricket.Match {
				return e.liveFromContainer(firstContaining(doc, "span", "Live"))
			},
		},
	)

	matches := firstValid(doc, strategies, e.observer("live"))
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func (e *Extractor) liveFromContainer(container *goquery.Selection) []cricket.Match {
	if container == nil || container.Length() == 0 {
		return nil
	}

	team1 := pickTeamName(container, true)
	team2 := pickTeamName(container, false)
	if !validTeamPair(team1, team2) {
		return nil
	}

	now := e.now()
	return []cricket.Match{{
		ID:     fmt.Sprintf("live-%d", now.UnixMilli()),
		Team1:  cricket.NewTeam(team1),
		Team2:  cricket.NewTeam(team2),
		Date:   now.Format("2006-01-02"),
		Time:   "Live",
		Venue:  "Live Match",
		Status: cricket.StatusLive,
		Score1: "N/A",
		Score2: "N/A",
	}}
}

// --- upcoming fixtures ---

var fixtureSelectors = []string{
	".match-item", ".fixture", ".match", ".game",
	"table tbody tr", ".matches-container .match",
	".schedule-item", ".fixture-item",
}

func (e *Extractor) extractUpcomingMatches(doc *goquery.Document) []cricket.Match {
	strategies := make([]strategy[cricket.Match], 0, len(fixtureSelectors))
	for _, selector := range fixtureSelectors {
		strategies = append(strategies, strategy[cricket.Match]{
			name: selector,
			collect: func(doc *goquery.Document) []cricket.Match {
				return e.fixturesFromSelection(doc.Find(selector))
			},
		})
	}

	matches := firstValid(doc, strategies, e.observer("upcoming"))
	if len(matches) > maxUpcomingMatches {
		matches = matches[:maxUpcomingMatches]
	}
	return matches
}

func (e *Extractor) fixturesFromSelection(rows *goquery.Selection) []cricket.Match {
	now := e.now()
	var matches []cricket.Match
	seen := make(map[string]struct{})

	rows.Each(func(index int, row *goquery.Selection) {
		team1 := firstText(row, ".team1", ".team-1", ".team-a", "td:first-child")
		if team1 == "" {
			team1 = strings.TrimSpace(row.Find(".team-name").First().Text())
		}
		team2 := firstText(row, ".team2", ".team-2", ".team-b", "td:nth-child(2)")
		if team2 == "" {
			team2 = strings.TrimSpace(row.Find(".team-name").Last().Text())
		}
		if !validTeamPair(team1, team2) {
			return
		}

		pair := team1 + "|" + team2
		if _, dup := seen[pair]; dup {
			return
		}
		seen[pair] = struct{}{}

		// The source markup rarely carries machine-readable dates; synthesize
		// a placeholder one day out per row.
		matches = append(matches, cricket.Match{
			ID:     fmt.Sprintf("upcoming-%d", index),
			Team1:  cricket.NewTeam(team1),
			Team2:  cricket.NewTeam(team2),
			Date:   now.AddDate(0, 0, index+1).Format("2006-01-02"),
			Time:   defaultMatchTime,
			Venue:  defaultMatchVenue,
			Status: cricket.StatusUpcoming,
		})
	})

	return matches
}

// --- points table ---

var standingsSelectors = []string{
	"table tbody tr", ".points-table tr", ".standings-table tr",
	".table tbody tr", ".leaderboard tr", ".rankings tr",
}

func (e *Extractor) extractPointsTable(doc *goquery.Document) []cricket.PointsTableEntry {
	strategies := make([]strategy[cricket.PointsTableEntry], 0, len(standingsSelectors))
	for _, selector := range standingsSelectors {
		strategies = append(strategies, strategy[cricket.PointsTableEntry]{
			name: selector,
			collect: func(doc *goquery.Document) []cricket.PointsTableEntry {
				return standingsFromSelection(doc.Find(selector))
			},
		})
	}

	entries := firstValid(doc, strategies, e.observer("standings"))
	if len(entries) > maxPointsTableRows {
		entries = entries[:maxPointsTableRows]
	}
	return entries
}

func standingsFromSelection(rows *goquery.Selection) []cricket.PointsTableEntry {
	var entries []cricket.PointsTableEntry
	seen := make(map[string]struct{})

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		teamName := strings.TrimSpace(cells.Eq(1).Text())
		if teamName == "" {
			teamName = strings.TrimSpace(cells.Eq(0).Text())
		}
		if teamName == "" {
			teamName = strings.TrimSpace(row.Find(".team-name, .team").Text())
		}
		if len(teamName) < 3 || len(teamName) >= 50 {
			return
		}
		if _, dup := seen[teamName]; dup {
			return
		}
		seen[teamName] = struct{}{}

		entries = append(entries, cricket.PointsTableEntry{
			Team:       cricket.NewTeam(teamName),
			Played:     textparse.Int(cells.Eq(2).Text()),
			Won:        textparse.Int(cells.Eq(3).Text()),
			Lost:       textparse.Int(cells.Eq(4).Text()),
			Points:     textparse.Int(cells.Eq(5).Text()),
			NetRunRate: textparse.Float(cells.Eq(6).Text()),
			Position:   len(entries) + 1,
		})
	})

	return entries
}

// --- shared helpers ---

func firstText(root *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(root.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func pickTeamName(container *goquery.Selection, first bool) string {
	var name string
	if first {
		name = firstText(container, ".team1", ".team-1", ".team-a")
	} else {
		name = firstText(container, ".team2", ".team-2", ".team-b")
	}
	if name != "" {
		return name
	}

	candidates := container.Find(".team-name")
	if candidates.Length() == 0 {
		candidates = container.Find("h3")
	}
	if first {
		return strings.TrimSpace(candidates.First().Text())
	}
	return strings.TrimSpace(candidates.Last().Text())
}

func validTeamPair(team1, team2 string) bool {
	return len(team1) >= 3 && len(team2) >= 3 && team1 != team2
}

func firstContaining(doc *goquery.Document, tag, needle string) *goquery.Selection {
	found := doc.Find(tag).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.Text(), needle)
	})
	return found.First()
}
