package cricket

// Match status values as served to consumers.
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// Match is one fixture, live game or result. Team1.Name and Team2.Name are
// always distinct; the extractor and the fallback generator both enforce it.
type Match struct {
	ID          string `json:"id"`
	Team1       Team   `json:"team1"`
	Team2       Team   `json:"team2"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Status      string `json:"status"`
	Result      string `json:"result,omitempty"`
	Score1      string `json:"score1,omitempty"`
	Score2      string `json:"score2,omitempty"`
	MatchNumber string `json:"matchNumber,omitempty"`
}

// PointsTableEntry is one standings row. Position is a dense 1-based rank in
// discovery order, unique within a table.
type PointsTableEntry struct {
	Team       Team    `json:"team"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Tied       int     `json:"tied"`
	NoResult   int     `json:"noResult"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"netRunRate"`
	Position   int     `json:"position"`
}
