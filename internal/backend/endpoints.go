package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Login authenticates a participant
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	return c.login(ctx, "/auth/login", username, password)
}

// AdminLogin authenticates an administrator
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	return c.login(ctx, "/auth/admin/login", username, password)
}

func (c *Client) login(ctx context.Context, path, username, password string) (*models.LoginResponse, error) {
	req := map[string]string{"username": username, "password": password}
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &resp, nil
}

// Register creates a participant account
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	req := models.Registration{Name: reg.Name, Username: reg.Username, Password: reg.Password}
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Profile returns the caller's account summary
func (a *AuthClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := a.do(ctx, http.MethodGet, "/v1/users/my", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns the full catalog (admin only)
func (a *AuthClient) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := a.do(ctx, http.MethodGet, "/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// FilterPlayers returns the participant view of the catalog. Empty arguments match everything.
func (a *AuthClient) FilterPlayers(ctx context.Context, university string, category models.Category) ([]models.Player, error) {
	q := url.Values{}
	if university != "" {
		q.Set("university", university)
	}
	if category != "" {
		q.Set("category", string(category))
	}
	path := "/v1/players/filter"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var players []models.Player
	if err := a.do(ctx, http.MethodGet, path, nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetPlayer returns one player's participant view
func (a *AuthClient) GetPlayer(ctx context.Context, id uint) (*models.Player, error) {
	var p models.Player
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf("/v1/players/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlayer adds a player to the catalog (admin only). The backend
// acknowledges without returning the new record.
func (a *AuthClient) CreatePlayer(ctx context.Context, in models.PlayerInput) error {
	return a.do(ctx, http.MethodPost, "/players/add", in, nil)
}

// UpdatePlayer replaces a player's editable fields (admin only)
func (a *AuthClient) UpdatePlayer(ctx context.Context, id uint, in models.PlayerInput) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/players/%d", id), in, nil)
}

// DeletePlayer removes a player (admin only)
func (a *AuthClient) DeletePlayer(ctx context.Context, id uint) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", id), nil, nil)
}

// MyTeam returns the caller's team
func (a *AuthClient) MyTeam(ctx context.Context) (*models.MyTeam, error) {
	var t models.MyTeam
	if err := a.do(ctx, http.MethodGet, "/v1/teams/my", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTeam registers a team for the session's user
func (a *AuthClient) CreateTeam(ctx context.Context, name string) error {
	req := struct {
		Name   string `json:"name"`
		UserID uint   `json:"user_id"`
	}{Name: name, UserID: a.sess.User.ID}
	return a.do(ctx, http.MethodPost, "/teams/add", req, nil)
}

// AssignPlayers replaces the caller's roster with ids in one request
func (a *AuthClient) AssignPlayers(ctx context.Context, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	req := struct {
		PlayerIDs []uint `json:"player_ids"`
	}{PlayerIDs: ids}
	return a.do(ctx, http.MethodPost, "/v1/teams/players/assign", req, nil)
}

// Leaderboard returns every team with its points
func (a *AuthClient) Leaderboard(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := a.do(ctx, http.MethodGet, "/v1/teams/leaderboard", nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// TournamentSummary returns tournament-wide statistics. Admin sessions use the admin route.
func (a *AuthClient) TournamentSummary(ctx context.Context) (*models.TournamentSummary, error) {
	path := "/v1/tournament/summary"
	if a.sess.IsAdmin() {
		path = "/tournament/summary"
	}
	var s models.TournamentSummary
	if err := a.do(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
