package mocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Seeded accounts
const (
	AdminUsername = "spiritadmin"
	AdminPassword = "Admin@1234"
	UserUsername  = "spirituser"
	UserPassword  = "User@1234"
)

// mockPlayerValue is the price given to players created through the admin API
const mockPlayerValue = 500_000

type mockAccount struct {
	user     models.User
	password string
}

type mockTeam struct {
	id        uint
	name      string
	userID    uint
	playerIDs []uint
}

type failure struct {
	status int
	body   map[string]string
}

// Backend is an in-memory stand-in for the Spirit11 REST backend and its push channel.
// The mock-backend command serves it for local development; tests wrap it in httptest.NewServer.
type Backend struct {
	mu       sync.RWMutex
	accounts map[string]*mockAccount // by username
	tokens   map[string]string       // token -> username
	players  map[uint]models.Player
	teams    map[uint]*mockTeam // by user id
	nextUser uint
	nextPlay uint
	nextTeam uint
	budget   int
	failures map[string]failure
	calls    map[string]int

	upgrader websocket.Upgrader
	connMu   sync.Mutex
	conns    map[*websocket.Conn]struct{}

	mux *http.ServeMux
}

// NewBackend returns a mock backend seeded with an admin, a participant and a small catalog
func NewBackend() *Backend {
	b := &Backend{
		accounts: make(map[string]*mockAccount),
		tokens:   make(map[string]string),
		players:  make(map[uint]models.Player),
		teams:    make(map[uint]*mockTeam),
		budget:   models.DefaultBudget,
		failures: make(map[string]failure),
		calls:    make(map[string]int),
		conns:    make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	b.AddAccount(AdminUsername, AdminPassword, "Spirit Admin", models.RoleAdmin)
	b.AddAccount(UserUsername, UserPassword, "Spirit User", models.RoleUser)
	for _, p := range defaultPlayers() {
		b.nextPlay++
		p.ID = b.nextPlay
		b.players[p.ID] = p
	}

	b.routes()
	return b
}

func (b *Backend) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.handleLogin(false))
	mux.HandleFunc("POST /auth/admin/login", b.handleLogin(true))
	mux.HandleFunc("POST /auth/register", b.handleRegister)
	mux.HandleFunc("GET /v1/users/my", b.user(b.handleProfile))
	mux.HandleFunc("GET /players", b.admin(b.handleListPlayers))
	mux.HandleFunc("POST /players/add", b.admin(b.handleAddPlayer))
	mux.HandleFunc("PUT /players/{id}", b.admin(b.handleUpdatePlayer))
	mux.HandleFunc("DELETE /players/{id}", b.admin(b.handleDeletePlayer))
	mux.HandleFunc("GET /v1/players/filter", b.user(b.handleFilterPlayers))
	mux.HandleFunc("GET /v1/players/{id}", b.user(b.handleGetPlayer))
	mux.HandleFunc("POST /teams/add", b.user(b.handleAddTeam))
	mux.HandleFunc("GET /v1/teams/my", b.user(b.handleMyTeam))
	mux.HandleFunc("POST /v1/teams/players/assign", b.user(b.handleAssign))
	mux.HandleFunc("GET /v1/teams/leaderboard", b.user(b.handleLeaderboard))
	mux.HandleFunc("GET /tournament/summary", b.admin(b.handleSummary))
	mux.HandleFunc("GET /v1/tournament/summary", b.user(b.handleSummary))
	mux.HandleFunc("POST /v1/ai/chat", b.user(b.handleChat))
	mux.HandleFunc("GET /socket/players", b.handleSocket)
	b.mux = mux
}

// ServeHTTP implements http.Handler
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.calls[key]++
	f, failing := b.failures[key]
	if failing {
		delete(b.failures, key)
	}
	b.mu.Unlock()

	if failing {
		writeJSON(w, f.status, f.body)
		return
	}
	b.mux.ServeHTTP(w, r)
}

// FailNext makes the next request to method+path answer with status
func (b *Backend) FailNext(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{
		status: status,
		body:   map[string]string{"error": http.StatusText(status), "details": message},
	}
}

// Calls returns how many requests hit method+path
func (b *Backend) Calls(method, path string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls[method+" "+path]
}

// AddAccount registers an account and returns its id
func (b *Backend) AddAccount(username, password, name, role string) uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextUser++
	b.accounts[username] = &mockAccount{
		user:     models.User{ID: b.nextUser, Name: name, Username: username, Role: role, Approved: true},
		password: password,
	}
	return b.nextUser
}

// SetTeam creates or replaces a team for username with the given roster
func (b *Backend) SetTeam(username, teamName string, playerIDs ...uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct := b.accounts[username]
	if acct == nil {
		return
	}
	t := b.teams[acct.user.ID]
	if t == nil {
		b.nextTeam++
		t = &mockTeam{id: b.nextTeam, userID: acct.user.ID}
		b.teams[acct.user.ID] = t
	}
	t.name = teamName
	t.playerIDs = append([]uint(nil), playerIDs...)
}

// SetPlayerPoints overrides a player's points
func (b *Backend) SetPlayerPoints(id uint, points int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[id]; ok {
		p.Points = &points
		b.players[id] = p
	}
}

// Players returns the catalog ordered by id
func (b *Backend) Players() []models.Player {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortedPlayersLocked()
}

// Notify pushes a notification to every connected socket client
func (b *Backend) Notify(n models.Notification) {
	if n.UID == "" {
		n.UID = uuid.New().String()
	}

	b.connMu.Lock()
	defer b.connMu.Unlock()
	for conn := range b.conns {
		if err := conn.WriteJSON(n); err != nil {
			logger.Debug("Mock backend: dropping socket client", "error", err)
			conn.Close()
			delete(b.conns, conn)
		}
	}
}

// CloseSockets drops every connected socket client
func (b *Backend) CloseSockets() {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	for conn := range b.conns {
		conn.Close()
		delete(b.conns, conn)
	}
}

func (b *Backend) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	b.connMu.Lock()
	b.conns[conn] = struct{}{}
	b.connMu.Unlock()

	// Drain until the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.connMu.Lock()
				delete(b.conns, conn)
				b.connMu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

type authedHandler func(w http.ResponseWriter, r *http.Request, acct *mockAccount)

func (b *Backend) user(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct := b.authenticate(r)
		if acct == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "details": "missing or invalid token"})
			return
		}
		next(w, r, acct)
	}
}

func (b *Backend) admin(next authedHandler) http.HandlerFunc {
	return b.user(func(w http.ResponseWriter, r *http.Request, acct *mockAccount) {
		if acct.user.Role != models.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden", "details": "admin access required"})
			return
		}
		next(w, r, acct)
	})
}

func (b *Backend) authenticate(r *http.Request) *mockAccount {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	username, ok := b.tokens[token]
	if !ok {
		return nil
	}
	return b.accounts[username]
}

func (b *Backend) handleLogin(admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request", "details": err.Error()})
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		acct, ok := b.accounts[req.Username]
		if !ok || acct.password != req.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "details": "Invalid username or password"})
			return
		}
		if admin && acct.user.Role != models.RoleAdmin {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "details": "Not an admin account"})
			return
		}

		token := uuid.New().String()
		b.tokens[token] = acct.user.Username
		writeJSON(w, http.StatusOK, models.LoginResponse{Message: "Login successful", Token: token, User: acct.user})
	}
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request", "details": err.Error()})
		return
	}

	b.mu.RLock()
	_, exists := b.accounts[req.Username]
	b.mu.RUnlock()
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Conflict", "details": "username already exists"})
		return
	}

	b.AddAccount(req.Username, req.Password, req.Name, models.RoleUser)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (b *Backend) handleProfile(w http.ResponseWriter, _ *http.Request, acct *mockAccount) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p := models.Profile{Name: acct.user.Name, Username: acct.user.Username, Budget: b.budget, AvailableBudget: b.budget}
	if t := b.teams[acct.user.ID]; t != nil {
		p.TeamName = t.name
		p.AvailableBudget -= b.teamValueLocked(t)
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) handleListPlayers(w http.ResponseWriter, _ *http.Request, _ *mockAccount) {
	writeJSON(w, http.StatusOK, b.Players())
}

func (b *Backend) handleAddPlayer(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	var in models.PlayerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	b.nextPlay++
	p := playerFromInput(b.nextPlay, in)
	b.players[p.ID] = p
	b.mu.Unlock()

	b.Notify(models.Notification{Entity: "player", Action: "create", ID: &p.ID})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Successfully added player"})
}

func (b *Backend) handleUpdatePlayer(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.PlayerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	old, exists := b.players[id]
	if !exists {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	p := playerFromInput(id, in)
	p.Value, p.Points = old.Value, old.Points
	b.players[id] = p
	b.mu.Unlock()

	b.Notify(models.Notification{Entity: "player", Action: "update", ID: &id})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully updated player"})
}

func (b *Backend) handleDeletePlayer(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	if _, exists := b.players[id]; !exists {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	delete(b.players, id)
	for _, t := range b.teams {
		t.playerIDs = without(t.playerIDs, id)
	}
	b.mu.Unlock()

	b.Notify(models.Notification{Entity: "player", Action: "delete", ID: &id})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted player"})
}

func (b *Backend) handleFilterPlayers(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	university := r.URL.Query().Get("university")
	category := r.URL.Query().Get("category")

	var out []models.Player
	for _, p := range b.Players() {
		if university != "" && !strings.EqualFold(p.University, university) {
			continue
		}
		if category != "" && !strings.EqualFold(string(p.Category), category) {
			continue
		}
		p.Points = nil
		out = append(out, p)
	}
	if out == nil {
		out = []models.Player{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleGetPlayer(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.RLock()
	p, exists := b.players[id]
	b.mu.RUnlock()
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	p.Points = nil
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) handleAddTeam(w http.ResponseWriter, r *http.Request, acct *mockAccount) {
	var req struct {
		Name   string `json:"name"`
		UserID uint   `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "team name is required"})
		return
	}
	if req.UserID != acct.user.ID && acct.user.Role != models.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden", "details": "cannot create a team for another user"})
		return
	}

	b.mu.Lock()
	if _, exists := b.teams[req.UserID]; exists {
		b.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"error": "user already has a team"})
		return
	}
	b.nextTeam++
	b.teams[req.UserID] = &mockTeam{id: b.nextTeam, name: req.Name, userID: req.UserID}
	id := b.nextTeam
	b.mu.Unlock()

	b.Notify(models.Notification{Entity: "team", Action: "create", ID: &id})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Successfully added team"})
}

func (b *Backend) handleMyTeam(w http.ResponseWriter, _ *http.Request, acct *mockAccount) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t := b.teams[acct.user.ID]
	if t == nil {
		writeJSON(w, http.StatusOK, models.MyTeam{IsFound: false})
		return
	}
	players := b.teamPlayersLocked(t)
	writeJSON(w, http.StatusOK, models.MyTeam{
		TeamName: t.name,
		Players:  players,
		IsFound:  true,
		Value:    b.teamValueLocked(t),
		Points:   b.teamPointsLocked(t),
	})
}

func (b *Backend) handleAssign(w http.ResponseWriter, r *http.Request, acct *mockAccount) {
	var req struct {
		PlayerIDs []uint `json:"player_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	t := b.teams[acct.user.ID]
	if t == nil {
		b.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}
	if len(req.PlayerIDs) > 11 {
		b.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "details": "a team can have at most 11 players"})
		return
	}
	total := 0
	for _, id := range req.PlayerIDs {
		p, ok := b.players[id]
		if !ok {
			b.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "details": fmt.Sprintf("player %d not found", id)})
			return
		}
		total += p.Value
	}
	if total > b.budget {
		b.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request", "details": "budget exceeded"})
		return
	}
	t.playerIDs = append([]uint(nil), req.PlayerIDs...)
	id := t.id
	b.mu.Unlock()

	b.Notify(models.Notification{Entity: "team", Action: "update", ID: &id})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Players assigned successfully"})
}

func (b *Backend) handleLeaderboard(w http.ResponseWriter, _ *http.Request, _ *mockAccount) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []models.Team
	for _, acct := range b.accounts {
		t := b.teams[acct.user.ID]
		if t == nil {
			continue
		}
		user := acct.user
		out = append(out, models.Team{
			ID:      t.id,
			Name:    t.name,
			UserID:  t.userID,
			User:    &user,
			Players: b.teamPlayersLocked(t),
			Points:  b.teamPointsLocked(t),
			Value:   b.teamValueLocked(t),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if out == nil {
		out = []models.Team{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleSummary(w http.ResponseWriter, _ *http.Request, _ *mockAccount) {
	var s models.TournamentSummary
	bestRuns, bestWickets := 0, 0
	for _, p := range b.Players() {
		s.OverallRuns += p.TotalRuns
		s.OverallWickets += p.Wickets

		switch {
		case p.TotalRuns > bestRuns:
			bestRuns = p.TotalRuns
			s.HighestRunScorers = []models.RunScorer{{ID: p.ID, Name: p.Name, Runs: p.TotalRuns}}
		case p.TotalRuns == bestRuns:
			s.HighestRunScorers = append(s.HighestRunScorers, models.RunScorer{ID: p.ID, Name: p.Name, Runs: p.TotalRuns})
		}
		switch {
		case p.Wickets > bestWickets:
			bestWickets = p.Wickets
			s.HighestWicketTakers = []models.WicketTaker{{ID: p.ID, Name: p.Name, Wickets: p.Wickets}}
		case p.Wickets == bestWickets:
			s.HighestWicketTakers = append(s.HighestWicketTakers, models.WicketTaker{ID: p.ID, Name: p.Name, Wickets: p.Wickets})
		}
	}
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request, _ *mockAccount) {
	var turns []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&turns); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(turns) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No messages provided."})
		return
	}

	question := strings.ToLower(turns[len(turns)-1].Content)
	results := []map[string]any{}
	var names []string
	for _, p := range b.Players() {
		if strings.Contains(question, strings.ToLower(p.Name)) {
			names = append(names, p.Name)
			results = append(results, map[string]any{
				"name":       p.Name,
				"university": p.University,
				"category":   string(p.Category),
				"value":      p.Value,
				"total_runs": p.TotalRuns,
				"wickets":    p.Wickets,
			})
		}
	}

	if len(names) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"query_results": []any{},
			"explanation":   "I don't have enough knowledge to answer that question.",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query_results": results,
		"is_player":     true,
		"explanation":   "Here is what I found about " + strings.Join(names, ", ") + ".",
	})
}

func (b *Backend) sortedPlayersLocked() []models.Player {
	out := make([]models.Player, 0, len(b.players))
	for _, p := range b.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) teamPlayersLocked(t *mockTeam) []models.Player {
	players := make([]models.Player, 0, len(t.playerIDs))
	for _, id := range t.playerIDs {
		if p, ok := b.players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (b *Backend) teamValueLocked(t *mockTeam) int {
	total := 0
	for _, p := range b.teamPlayersLocked(t) {
		total += p.Value
	}
	return total
}

func (b *Backend) teamPointsLocked(t *mockTeam) int {
	total := 0
	for _, p := range b.teamPlayersLocked(t) {
		if p.Points != nil {
			total += *p.Points
		}
	}
	return total
}

func playerFromInput(id uint, in models.PlayerInput) models.Player {
	points := 0
	return models.Player{
		ID:            id,
		Name:          in.Name,
		University:    in.University,
		Category:      in.Category,
		TotalRuns:     in.TotalRuns,
		BallsFaced:    in.BallsFaced,
		InningsPlayed: in.InningsPlayed,
		Wickets:       in.Wickets,
		OversBowled:   in.OversBowled,
		RunsConceded:  in.RunsConceded,
		Value:         mockPlayerValue,
		Points:        &points,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return uint(n), true
}

func without(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func seedPlayer(name, university string, category models.Category, runs, balls, innings, wickets int, overs float64, conceded, points, value int) models.Player {
	return models.Player{
		Name:          name,
		University:    university,
		Category:      category,
		TotalRuns:     runs,
		BallsFaced:    balls,
		InningsPlayed: innings,
		Wickets:       wickets,
		OversBowled:   overs,
		RunsConceded:  conceded,
		Points:        &points,
		Value:         value,
	}
}

func defaultPlayers() []models.Player {
	return []models.Player{
		seedPlayer("Chamika Chandimal", "University of the Visual & Performing Arts", models.CategoryBatsman, 530, 588, 10, 0, 3, 21, 161, 1_550_000),
		seedPlayer("Dimuth Dhananjaya", "University of the Visual & Performing Arts", models.CategoryAllRounder, 250, 208, 10, 8, 40, 240, 182, 1_750_000),
		seedPlayer("Avishka Mendis", "Eastern University", models.CategoryAllRounder, 210, 175, 7, 7, 35, 210, 176, 1_700_000),
		seedPlayer("Danushka Kumara", "University of the Visual & Performing Arts", models.CategoryBatsman, 780, 866, 15, 0, 1, 7, 199, 1_900_000),
		seedPlayer("Praveen Vandersay", "Eastern University", models.CategoryBatsman, 329, 365, 7, 0, 1, 8, 153, 1_500_000),
		seedPlayer("Niroshan Mathews", "University of the Visual & Performing Arts", models.CategoryBatsman, 275, 305, 5, 0, 0, 0, 145, 1_400_000),
		seedPlayer("Chaturanga Gunathilaka", "University of Moratuwa", models.CategoryBowler, 132, 264, 11, 29, 88, 528, 171, 1_650_000),
		seedPlayer("Lahiru Rathnayake", "University of Ruhuna", models.CategoryBatsman, 424, 471, 11, 0, 3, 21, 137, 1_350_000),
		seedPlayer("Jeffrey Samarawickrama", "University of Colombo", models.CategoryBowler, 50, 100, 5, 20, 58, 348, 145, 1_400_000),
		seedPlayer("Kamil Wickramasinghe", "University of Peradeniya", models.CategoryBowler, 70, 140, 11, 21, 80, 480, 134, 1_300_000),
		seedPlayer("Shiran Jayawardena", "University of Kelaniya", models.CategoryAllRounder, 310, 260, 9, 12, 42, 250, 168, 1_600_000),
		seedPlayer("Wanindu Silva", "University of Moratuwa", models.CategoryBowler, 40, 80, 6, 25, 60, 330, 158, 1_550_000),
		seedPlayer("Kusal Herath", "University of Colombo", models.CategoryBatsman, 610, 640, 12, 1, 5, 40, 174, 1_700_000),
		seedPlayer("Pathum Nissanka", "University of Ruhuna", models.CategoryAllRounder, 280, 240, 10, 10, 38, 230, 160, 1_550_000),
	}
}
