package models

import "time"

// Category is the playing role of a player
type Category string

const (
	CategoryBatsman    Category = "Batsman"
	CategoryBowler     Category = "Bowler"
	CategoryAllRounder Category = "All-Rounder"
)

// Categories lists every category in display order
var Categories = []Category{CategoryBatsman, CategoryBowler, CategoryAllRounder}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryBatsman, CategoryBowler, CategoryAllRounder:
		return true
	}
	return false
}

// DefaultBudget is the budget ceiling used when the backend reports none
const DefaultBudget = 9_000_000

// Player represents a cricketer in the tournament catalog
type Player struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	University    string   `json:"university"`
	Category      Category `json:"category"`
	TotalRuns     int      `json:"total_runs"`
	BallsFaced    int      `json:"balls_faced"`
	InningsPlayed int      `json:"innings_played"`
	Wickets       int      `json:"wickets"`
	OversBowled   float64  `json:"overs_bowled"`
	RunsConceded  int      `json:"runs_conceded"`
	Value         int      `json:"value"`

	// Computed by the backend; never sent on writes.
	Points            *int     `json:"points,omitempty"`
	BattingStrikeRate *float64 `json:"batting_strike_rate,omitempty"`
	BattingAverage    *float64 `json:"batting_average,omitempty"`
	BowlingStrikeRate *float64 `json:"bowling_strike_rate,omitempty"`
	EconomyRate       *float64 `json:"economy_rate,omitempty"`
}

// PlayerInput is the admin-editable subset of Player
type PlayerInput struct {
	Name          string   `json:"name"`
	University    string   `json:"university"`
	Category      Category `json:"category"`
	TotalRuns     int      `json:"total_runs"`
	BallsFaced    int      `json:"balls_faced"`
	InningsPlayed int      `json:"innings_played"`
	Wickets       int      `json:"wickets"`
	OversBowled   float64  `json:"overs_bowled"`
	RunsConceded  int      `json:"runs_conceded"`
}

// User is an account known to the backend
type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}

// Role values
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// LoginResponse is returned by the backend login endpoints
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Registration carries the sign-up form
type Registration struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// Profile is the caller's own account summary
type Profile struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Budget          int    `json:"budget"`
	AvailableBudget int    `json:"available_budget"`
	TeamName        string `json:"team_name"`
}

// MyTeam is the caller's team as the backend reports it
type MyTeam struct {
	TeamName string   `json:"team_name"`
	Players  []Player `json:"players"`
	IsFound  bool     `json:"is_found"`
	Value    int      `json:"value"`
	Points   int      `json:"points"`
}

// Team is a leaderboard row from the backend
type Team struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	UserID  uint     `json:"user_id"`
	User    *User    `json:"user,omitempty"`
	Players []Player `json:"players"`
	Points  int      `json:"points"`
	Value   int      `json:"value"`
}

// LeaderboardEntry is a ranked projection of Team
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	TeamID      uint   `json:"team_id"`
	TeamName    string `json:"team_name"`
	Owner       string `json:"owner"`
	UserID      uint   `json:"user_id"`
	Points      int    `json:"points"`
	PlayerCount int    `json:"player_count"`
}

// RunScorer is one of the tournament's top run scorers
type RunScorer struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Runs int    `json:"runs"`
}

// WicketTaker is one of the tournament's top wicket takers
type WicketTaker struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Wickets int    `json:"wickets"`
}

// TournamentSummary aggregates tournament-wide statistics
type TournamentSummary struct {
	OverallRuns         int           `json:"overall_runs"`
	OverallWickets      int           `json:"overall_wickets"`
	HighestRunScorers   []RunScorer   `json:"highest_run_scorers"`
	HighestWicketTakers []WicketTaker `json:"highest_wicket_takers"`
}

// Chat roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// PlayerCard is a compact player record attached to an assistant reply
type PlayerCard struct {
	Name       string   `json:"name"`
	University string   `json:"university"`
	Category   Category `json:"category"`
	Value      int      `json:"value"`
	TotalRuns  int      `json:"total_runs,omitempty"`
	Wickets    int      `json:"wickets,omitempty"`
}

// ChatReply is the decoded assistant answer
type ChatReply struct {
	Explanation string       `json:"explanation"`
	Cards       []PlayerCard `json:"cards,omitempty"`
}

// ChatMessage is one entry in a conversation transcript
type ChatMessage struct {
	ID        string       `json:"id"`
	SessionID string       `json:"-"`
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Cards     []PlayerCard `json:"cards,omitempty"`
	Failed    bool         `json:"failed,omitempty"`
	TS        time.Time    `json:"ts"`
}

// Notification is a change announcement from the backend push channel
type Notification struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     *uint  `json:"id"`
	UID    string `json:"uid"`
}
