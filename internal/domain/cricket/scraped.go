package cricket

// Origin of a dataset.
const (
	SourceOfficial = "official"
	SourceFallback = "fallback"
	SourceCache    = "cache"
)

// HistoricalMatch is a completed match summary used by the history views.
type HistoricalMatch struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Team1            string   `json:"team1"`
	Team2            string   `json:"team2"`
	Team1Score       string   `json:"team1Score"`
	Team2Score       string   `json:"team2Score"`
	Result           string   `json:"result"`
	Venue            string   `json:"venue"`
	PlayerOfTheMatch string   `json:"playerOfTheMatch,omitempty"`
	Highlights       []string `json:"highlights"`
}

// PlayerStats is a season stat line for one player.
type PlayerStats struct {
	Name       string   `json:"name"`
	Team       string   `json:"team"`
	Matches    int      `json:"matches"`
	Runs       int      `json:"runs"`
	Wickets    int      `json:"wickets"`
	Catches    int      `json:"catches"`
	StrikeRate float64  `json:"strikeRate"`
	Economy    float64  `json:"economy"`
	Form       []string `json:"form"`
}

// TeamHistory is one team's season record.
type TeamHistory struct {
	Team       string  `json:"team"`
	Season     string  `json:"season"`
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"netRunRate"`
	Position   int     `json:"position"`
	Playoffs   bool    `json:"playoffs"`
}

// PerformanceMetrics aggregates a team's season-level rates.
type PerformanceMetrics struct {
	Team           string   `json:"team"`
	BattingAverage float64  `json:"battingAverage"`
	BowlingAverage float64  `json:"bowlingAverage"`
	RunRate        float64  `json:"runRate"`
	WicketRate     float64  `json:"wicketRate"`
	WinPercentage  float64  `json:"winPercentage"`
	Form           []string `json:"form"`
}

// ScrapedData is the acquisition pipeline's unit of output. Schedule is a
// copy of UpcomingMatches taken at acquisition time. The analytics side
// tables are only populated by the fallback generator.
type ScrapedData struct {
	LiveMatch          *Match               `json:"liveMatch"`
	UpcomingMatches    []Match              `json:"upcomingMatches"`
	PointsTable        []PointsTableEntry   `json:"pointsTable"`
	Schedule           []Match              `json:"schedule"`
	LastUpdated        string               `json:"lastUpdated"`
	DataSource         string               `json:"dataSource"`
	HistoricalMatches  []HistoricalMatch    `json:"historicalMatches,omitempty"`
	PlayerStats        []PlayerStats        `json:"playerStats,omitempty"`
	TeamHistory        []TeamHistory        `json:"teamHistory,omitempty"`
	PerformanceMetrics []PerformanceMetrics `json:"performanceMetrics,omitempty"`
}

// HasContent reports whether at least one of the three scraped sections came
// back non-empty.
func (d ScrapedData) HasContent() bool {
	return d.LiveMatch != nil || len(d.UpcomingMatches) > 0 || len(d.PointsTable) > 0
}
