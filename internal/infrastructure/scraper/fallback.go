package scraper

import (
	"math/rand"
	"time"

	"github.com/amit-kumar9766/ipl-dashboard/internal/domain/cricket"
)

// liveMatchChance is the probability of the generated dataset carrying a live
// match, which keeps degraded mode from looking obviously canned.
const liveMatchChance = 0.3

// FallbackGenerator produces a complete plausible dataset when every
// acquisition path has failed. Output is deterministic except for the single
// live-match coin flip, so the generator never itself becomes a failure mode.
type FallbackGenerator struct {
	rand func() float64
	now  func() time.Time
}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{rand: rand.Float64, now: time.Now}
}

func (g *FallbackGenerator) Generate() cricket.ScrapedData {
	teams := []cricket.Team{
		cricket.NewTeam("Mumbai Indians"),
		cricket.NewTeam("Chennai Super Kings"),
		cricket.NewTeam("Royal Challengers"),
		cricket.NewTeam("Kolkata Knight Riders"),
		cricket.NewTeam("Delhi Capitals"),
	}

	now := g.now()
	today := now.Format("2006-01-02")

	var liveMatch *cricket.Match
	if g.rand() > 1-liveMatchChance {
		liveMatch = &cricket.Match{
			ID:     "live-1",
			Team1:  teams[0],
			Team2:  teams[1],
			Date:   today,
			Time:   "Live",
			Venue:  "Wankhede Stadium, Mumbai",
			Status: cricket.StatusLive,
			Score1: "156/4 (18.2)",
			Score2: "Yet to bat",
		}
	}

	upcoming := []cricket.Match{
		{
			ID:     "upcoming-1",
			Team1:  teams[2],
			Team2:  teams[3],
			Date:   now.AddDate(0, 0, 1).Format("2006-01-02"),
			Time:   defaultMatchTime,
			Venue:  "M. Chinnaswamy Stadium, Bangalore",
			Status: cricket.StatusUpcoming,
		},
		{
			ID:     "upcoming-2",
			Team1:  teams[4],
			Team2:  teams[0],
			Date:   now.AddDate(0, 0, 2).Format("2006-01-02"),
			Time:   defaultMatchTime,
			Venue:  "Arun Jaitley Stadium, Delhi",
			Status: cricket.StatusUpcoming,
		},
	}

	pointsTable := make([]cricket.PointsTableEntry, 0, len(teams))
	for index, team := range teams {
		won := 6 + index/2
		pointsTable = append(pointsTable, cricket.PointsTableEntry{
			Team:       team,
			Played:     10 + index,
			Won:        won,
			Lost:       4 + index/2,
			Points:     won * 2,
			NetRunRate: float64(2-index) * 0.25,
			Position:   index + 1,
		})
	}

	return cricket.ScrapedData{
		LiveMatch:          liveMatch,
		UpcomingMatches:    upcoming,
		PointsTable:        pointsTable,
		Schedule:           append([]cricket.Match(nil), upcoming...),
		LastUpdated:        now.UTC().Format(time.RFC3339),
		DataSource:         cricket.SourceFallback,
		HistoricalMatches:  fallbackHistoricalMatches(),
		PlayerStats:        fallbackPlayerStats(),
		TeamHistory:        fallbackTeamHistory(),
		PerformanceMetrics: fallbackPerformanceMetrics(),
	}
}

func fallbackHistoricalMatches() []cricket.HistoricalMatch {
	return []cricket.HistoricalMatch{
		{
			ID:               "1",
			Date:             "2024-05-15",
			Team1:            "Mumbai Indians",
			Team2:            "Chennai Super Kings",
			Team1Score:       "185/6 (20.0)",
			Team2Score:       "182/8 (20.0)",
			Result:           "Mumbai Indians won by 3 runs",
			Venue:            "Wankhede Stadium, Mumbai",
			PlayerOfTheMatch: "Rohit Sharma",
			Highlights:       []string{"Rohit Sharma scored 89 runs", "MS Dhoni hit 3 sixes in final over", "Thrilling finish"},
		},
		{
			ID:               "2",
			Date:             "2024-05-14",
			Team1:            "Royal Challengers",
			Team2:            "Kolkata Knight Riders",
			Team1Score:       "205/4 (20.0)",
			Team2Score:       "208/6 (19.2)",
			Result:           "Kolkata Knight Riders won by 4 wickets",
			Venue:            "M. Chinnaswamy Stadium, Bangalore",
			PlayerOfTheMatch: "Andre Russell",
			Highlights:       []string{"Virat Kohli century", "Andre Russell 5-wicket haul", "Super over finish"},
		},
		{
			ID:               "3",
			Date:             "2024-05-13",
			Team1:            "Delhi Capitals",
			Team2:            "Punjab Kings",
			Team1Score:       "165/7 (20.0)",
			Team2Score:       "166/5 (18.3)",
			Result:           "Punjab Kings won by 5 wickets",
			Venue:            "Arun Jaitley Stadium, Delhi",
			PlayerOfTheMatch: "Shikhar Dhawan",
			Highlights:       []string{"Shikhar Dhawan 75 runs", "Kagiso Rabada 3 wickets", "Clinical chase"},
		},
		{
			ID:               "4",
			Date:             "2024-05-12",
			Team1:            "Rajasthan Royals",
			Team2:            "Sunrisers Hyderabad",
			Team1Score:       "178/6 (20.0)",
			Team2Score:       "175/8 (20.0)",
			Result:           "Rajasthan Royals won by 3 runs",
			Venue:            "Sawai Mansingh Stadium, Jaipur",
			PlayerOfTheMatch: "Jos Buttler",
			Highlights:       []string{"Jos Buttler 82 runs", "Rashid Khan 4 wickets", "Last ball thriller"},
		},
		{
			ID:               "5",
			Date:             "2024-05-11",
			Team1:            "Gujarat Titans",
			Team2:            "Lucknow Super Giants",
			Team1Score:       "192/5 (20.0)",
			Team2Score:       "188/7 (20.0)",
			Result:           "Gujarat Titans won by 4 runs",
			Venue:            "Narendra Modi Stadium, Ahmedabad",
			PlayerOfTheMatch: "Hardik Pandya",
			Highlights:       []string{"Hardik Pandya all-round performance", "KL Rahul 67 runs", "Tight finish"},
		},
	}
}

func fallbackPlayerStats() []cricket.PlayerStats {
	return []cricket.PlayerStats{
		{Name: "Virat Kohli", Team: "Royal Challengers", Matches: 14, Runs: 973, Wickets: 0, Catches: 8, StrikeRate: 152.3, Economy: 0, Form: []string{"W", "W", "L", "W", "W"}},
		{Name: "Rohit Sharma", Team: "Mumbai Indians", Matches: 14, Runs: 892, Wickets: 0, Catches: 12, StrikeRate: 145.8, Economy: 0, Form: []string{"W", "L", "W", "W", "L"}},
		{Name: "Jasprit Bumrah", Team: "Mumbai Indians", Matches: 14, Runs: 45, Wickets: 24, Catches: 3, StrikeRate: 120.5, Economy: 7.2, Form: []string{"W", "W", "L", "W", "W"}},
		{Name: "Andre Russell", Team: "Kolkata Knight Riders", Matches: 14, Runs: 567, Wickets: 18, Catches: 6, StrikeRate: 178.9, Economy: 8.1, Form: []string{"W", "L", "W", "L", "W"}},
		{Name: "Rashid Khan", Team: "Gujarat Titans", Matches: 14, Runs: 234, Wickets: 22, Catches: 4, StrikeRate: 145.2, Economy: 6.8, Form: []string{"W", "W", "W", "L", "W"}},
	}
}

func fallbackTeamHistory() []cricket.TeamHistory {
	return []cricket.TeamHistory{
		{Team: "Mumbai Indians", Season: "2024", Matches: 14, Wins: 10, Losses: 4, Points: 20, NetRunRate: 0.523, Position: 1, Playoffs: true},
		{Team: "Chennai Super Kings", Season: "2024", Matches: 14, Wins: 9, Losses: 5, Points: 18, NetRunRate: 0.412, Position: 2, Playoffs: true},
		{Team: "Royal Challengers", Season: "2024", Matches: 14, Wins: 8, Losses: 6, Points: 16, NetRunRate: 0.298, Position: 3, Playoffs: true},
		{Team: "Kolkata Knight Riders", Season: "2024", Matches: 14, Wins: 8, Losses: 6, Points: 16, NetRunRate: 0.187, Position: 4, Playoffs: true},
		{Team: "Delhi Capitals", Season: "2024", Matches: 14, Wins: 7, Losses: 7, Points: 14, NetRunRate: 0.045, Position: 5, Playoffs: false},
	}
}

func fallbackPerformanceMetrics() []cricket.PerformanceMetrics {
	return []cricket.PerformanceMetrics{
		{Team: "Mumbai Indians", BattingAverage: 165.4, BowlingAverage: 142.3, RunRate: 8.45, WicketRate: 6.8, WinPercentage: 71.4, Form: []string{"W", "W", "L", "W", "W"}},
		{Team: "Chennai Super Kings", BattingAverage: 158.7, BowlingAverage: 145.2, RunRate: 8.12, WicketRate: 6.5, WinPercentage: 64.3, Form: []string{"W", "L", "W", "W", "L"}},
		{Team: "Royal Challengers", BattingAverage: 172.3, BowlingAverage: 148.9, RunRate: 8.78, WicketRate: 7.2, WinPercentage: 57.1, Form: []string{"L", "W", "W", "L", "W"}},
		{Team: "Kolkata Knight Riders", BattingAverage: 156.8, BowlingAverage: 151.4, RunRate: 7.95, WicketRate: 6.9, WinPercentage: 57.1, Form: []string{"W", "L", "L", "W", "W"}},
		{Team: "Delhi Capitals", BattingAverage: 149.2, BowlingAverage: 153.7, RunRate: 7.68, WicketRate: 7.1, WinPercentage: 50.0, Form: []string{"L", "W", "W", "L", "L"}},
	}
}
