package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func fixedExtractor(t *testing.T) (*Extractor, time.Time) {
	t.Helper()
	now := time.Date(2026, time.April, 10, 18, 0, 0, 0, time.UTC)
	e := NewExtractor()
	e.now = func() time.Time { return now }
	return e, now
}

func TestExtractor_LiveMatchFirstStrategyWins(t *testing.T) {
	t.Parallel()

	e, now := fixedExtractor(t)
	var evaluated []string
	e.onStrategy = func(section, name string) {
		if section == "live" {
			evaluated = append(evaluated, name)
		}
	}

	doc := mustDocument(t, `
		<div class="live-match">
			<span class="team1">Mumbai Indians</span>
			<span class="team2">Chennai Super Kings</span>
		</div>`)

	match := e.extractLiveMatch(doc)
	require.NotNil(t, match)
	assert.Equal(t, "MI", match.Team1.ShortName)
	assert.Equal(t, "CSK", match.Team2.ShortName)
	assert.Equal(t, "live", match.Status)
	assert.Equal(t, "Live Match", match.Venue)
	assert.Equal(t, "N/A", match.Score1)
	assert.Equal(t, now.Format("2006-01-02"), match.Date)

	// The winning strategy is the only one evaluated.
	assert.Equal(t, []string{".live-match"}, evaluated)
}

func TestExtractor_LiveMatchTextScanFallback(t *testing.T) {
	t.Parallel()

	e, _ := fixedExtractor(t)
	doc := mustDocument(t, `
		<section>
			<p>Nothing selectable by class here.</p>
			<div><b>LIVE</b>
				<h3>Rajasthan Royals</h3>
				<h3>Gujarat Titans</h3>
			</div>
		</section>`)

	match := e.extractLiveMatch(doc)
	require.NotNil(t, match)
	assert.Equal(t, "Rajasthan Royals", match.Team1.Name)
	assert.Equal(t, "Gujarat Titans", match.Team2.Name)
}

func TestExtractor_LiveMatchRejectsInvalidPairs(t *testing.T) {
	t.Parallel()

	e, _ := fixedExtractor(t)

	// Identical names and too-short names are both structural garbage.
	for name, html := range map[string]string{
		"same team twice": `<div class="live"><span class="team1">Mumbai Indians</span><span class="team2">Mumbai Indians</span></div>`,
		"short names":     `<div class="live"><span class="team1">MI</span><span class="team2">CS</span></div>`,
		"missing second":  `<div class="live"><span class="team1">Mumbai Indians</span></div>`,
	} {
		assert.Nil(t, e.extractLiveMatch(mustDocument(t, html)), name)
	}
}

func TestExtractor_UpcomingDedupAndCap(t *testing.T) {
	t.Parallel()

	e, now := fixedExtractor(t)

	var rows strings.Builder
	rows.WriteString(`<table><tbody>`)
	pairs := [][2]string{
		{"Mumbai Indians", "Chennai Super Kings"},
		{"Mumbai Indians", "Chennai Super Kings"}, // duplicate, dropped
		{"Royal Challengers", "Kolkata Knight Riders"},
		{"Delhi Capitals", "Punjab Kings"},
		{"Rajasthan Royals", "Sunrisers Hyderabad"},
		{"Gujarat Titans", "Lucknow Super Giants"},
		{"Punjab Kings", "Mumbai Indians"}, // over the cap
	}
	for _, p := range pairs {
		rows.WriteString(`<tr><td>` + p[0] + `</td><td>` + p[1] + `</td></tr>`)
	}
	rows.WriteString(`</tbody></table>`)

	matches := e.extractUpcomingMatches(mustDocument(t, rows.String()))
	require.Len(t, matches, maxUpcomingMatches)

	assert.Equal(t, "upcoming-0", matches[0].ID)
	assert.Equal(t, now.AddDate(0, 0, 1).Format("2006-01-02"), matches[0].Date)
	assert.Equal(t, "19:30 IST", matches[0].Time)
	assert.Equal(t, "TBD", matches[0].Venue)
	assert.Equal(t, "upcoming", matches[0].Status)

	// Row indexes survive dedup, so the duplicate leaves a gap.
	assert.Equal(t, "upcoming-2", matches[1].ID)
	assert.Equal(t, now.AddDate(0, 0, 3).Format("2006-01-02"), matches[1].Date)

	seen := make(map[string]bool)
	for _, m := range matches {
		pair := m.Team1.Name + "|" + m.Team2.Name
		assert.False(t, seen[pair], "duplicate pair %s", pair)
		seen[pair] = true
	}
}

func TestExtractor_PointsTableRow(t *testing.T) {
	t.Parallel()

	e, _ := fixedExtractor(t)
	doc := mustDocument(t, `
		<table><tbody>
			<tr><td>1</td><td>Mumbai Indians</td><td>14</td><td>10</td><td>4</td><td>20 pts</td><td>+1.234</td></tr>
		</tbody></table>`)

	entries := e.extractPointsTable(doc)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Mumbai Indians", entry.Team.Name)
	assert.Equal(t, "MI", entry.Team.ShortName)
	assert.Equal(t, 14, entry.Played)
	assert.Equal(t, 10, entry.Won)
	assert.Equal(t, 4, entry.Lost)
	assert.Equal(t, 20, entry.Points)
	assert.InDelta(t, 1.234, entry.NetRunRate, 1e-9)
	assert.Equal(t, 1, entry.Position)
}

func TestExtractor_PointsTableDedupCapAndValidity(t *testing.T) {
	t.Parallel()

	e, _ := fixedExtractor(t)

	var rows strings.Builder
	rows.WriteString(`<table><tbody>`)
	// Too-short name, then a valid run with one duplicate, 12 valid names total.
	rows.WriteString(`<tr><td>1</td><td>MI</td><td>14</td><td>10</td><td>4</td><td>20</td><td>0.5</td></tr>`)
	names := []string{
		"Mumbai Indians", "Chennai Super Kings", "Mumbai Indians", "Royal Challengers",
		"Kolkata Knight Riders", "Delhi Capitals", "Punjab Kings", "Rajasthan Royals",
		"Sunrisers Hyderabad", "Gujarat Titans", "Lucknow Super Giants", "Deccan Chargers",
		"Pune Warriors India",
	}
	for _, name := range names {
		rows.WriteString(`<tr><td>1</td><td>` + name + `</td><td>10</td><td>5</td><td>5</td><td>10</td><td>0.1</td></tr>`)
	}
	rows.WriteString(`</tbody></table>`)

	entries := e.extractPointsTable(mustDocument(t, rows.String()))
	require.Len(t, entries, maxPointsTableRows)

	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Position)
		assert.GreaterOrEqual(t, len(entry.Team.Name), 3)
	}
	assert.Equal(t, "Mumbai Indians", entries[0].Team.Name)
	assert.Equal(t, "Chennai Super Kings", entries[1].Team.Name)
	assert.Equal(t, "Royal Challengers", entries[2].Team.Name)
}

func TestExtractor_EmptyDocumentYieldsNothing(t *testing.T) {
	t.Parallel()

	e, _ := fixedExtractor(t)
	result := e.Extract(mustDocument(t, `<html><body><p>offseason</p></body></html>`))

	assert.Nil(t, result.LiveMatch)
	assert.Empty(t, result.UpcomingMatches)
	assert.Empty(t, result.PointsTable)
}
