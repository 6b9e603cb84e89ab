package fuzz

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/auth"
	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	"github.com/Billy-Davies-2/spirit11-ui/internal/handlers"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/mocks"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

var (
	fixtureOnce sync.Once
	fixtureAPI  *handlers.API
	fixtureMgr  *auth.Manager
	adminSess   *session.Session
	userSess    *session.Session
)

// fixture starts one mock backend shared by every fuzz iteration
func fixture(t testing.TB) (*handlers.API, *auth.Manager) {
	fixtureOnce.Do(func() {
		srv := httptest.NewServer(mocks.NewBackend())
		fixtureMgr = auth.NewManager(backend.New(srv.URL, 5*time.Second), session.NewMemoryStore(), time.Hour, false)
		fixtureAPI = handlers.NewAPI(handlers.Options{
			Auth:       fixtureMgr,
			PubSub:     pubsub.New(),
			Workspaces: handlers.NewWorkspaces(dal.NewMemoryDAL(), models.DefaultBudget),
		})

		var err error
		if adminSess, err = fixtureMgr.AdminLogin(context.Background(), mocks.AdminUsername, mocks.AdminPassword); err != nil {
			panic(err)
		}
		if userSess, err = fixtureMgr.Login(context.Background(), mocks.UserUsername, mocks.UserPassword); err != nil {
			panic(err)
		}
	})
	return fixtureAPI, fixtureMgr
}

func serve(t *testing.T, h http.Handler, method, path string, s *session.Session, data string) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(data))
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: s.ID})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	// Should not panic; a body that is not JSON never reaches the backend
	var probe interface{}
	if json.NewDecoder(bytes.NewBufferString(data)).Decode(&probe) != nil && w.Code != http.StatusBadRequest {
		t.Errorf("%s %s answered %d for invalid JSON %q", method, path, w.Code, data)
	}
}

// FuzzHTTPLogin fuzzes the participant login endpoint
func FuzzHTTPLogin(f *testing.F) {
	f.Add(`{"username":"spirituser","password":"User@1234"}`)
	f.Add(`{"username":"","password":""}`)
	f.Add(`{"username":1}`)
	f.Add(`not json`)

	f.Fuzz(func(t *testing.T, data string) {
		api, _ := fixture(t)
		serve(t, api.Router(), http.MethodPost, "/api/auth/login", nil, data)
	})
}

// FuzzHTTPAdminCreatePlayer fuzzes the admin player form
func FuzzHTTPAdminCreatePlayer(f *testing.F) {
	f.Add(`{"name":"Test Player","university":"University of Colombo","category":"Bowler","wickets":3}`)
	f.Add(`{"name":"","category":"Keeper","total_runs":-5}`)
	f.Add(`{"overs_bowled":"NaN"}`)
	f.Add(`[]`)

	f.Fuzz(func(t *testing.T, data string) {
		api, _ := fixture(t)
		serve(t, api.Router(), http.MethodPost, "/admin/api/players", adminSess, data)
	})
}

// FuzzHTTPRosterAdd fuzzes adding players to a roster
func FuzzHTTPRosterAdd(f *testing.F) {
	f.Add(`{"player_id":1}`)
	f.Add(`{"player_id":0}`)
	f.Add(`{"player_id":-1}`)
	f.Add(`{"player_id":99999999999}`)

	f.Fuzz(func(t *testing.T, data string) {
		api, _ := fixture(t)
		serve(t, api.Router(), http.MethodPost, "/api/roster/players", userSess, data)
	})
}

// FuzzHTTPSendChat fuzzes the chat endpoint
func FuzzHTTPSendChat(f *testing.F) {
	f.Add(`{"message":"Who is Kusal Herath?"}`)
	f.Add(`{"message":""}`)
	f.Add(`{"message":"` + string(make([]byte, 10000)) + `"}`)

	f.Fuzz(func(t *testing.T, data string) {
		api, _ := fixture(t)
		serve(t, api.Router(), http.MethodPost, "/api/chat", userSess, data)
	})
}

// FuzzPlayerPath fuzzes path ids
func FuzzPlayerPath(f *testing.F) {
	f.Add("1")
	f.Add("0")
	f.Add("abc")
	f.Add("-7")

	f.Fuzz(func(t *testing.T, id string) {
		api, _ := fixture(t)
		req := httptest.NewRequest(http.MethodGet, "/api/players/x", nil)
		req.URL.Path = "/api/players/" + id
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: userSess.ID})
		api.Router().ServeHTTP(httptest.NewRecorder(), req)
	})
}

// FuzzJSONParsing fuzzes general JSON parsing
func FuzzJSONParsing(f *testing.F) {
	f.Add(`{"key":"value"}`)
	f.Add(`[1,2,3]`)
	f.Add(`null`)
	f.Add(`"string"`)

	f.Fuzz(func(t *testing.T, data string) {
		var result interface{}
		// Should not panic on any input
		json.Unmarshal([]byte(data), &result)
	})
}
