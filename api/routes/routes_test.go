package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/config"
	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/handlers"
	"github.com/ArowuTest/valera-classroom/internal/repositories/memory"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
	"github.com/gin-gonic/gin"
)

type testServer struct {
	router  *gin.Engine
	classes *services.ClassService
	auth    *services.AuthService
	token   string
}

func testRules() game.Rules {
	r := game.DefaultRules()
	r.Animation.TotalFrames = 3
	r.Animation.FPS = 500
	r.Animation.IdleMinDelay, r.Animation.IdleMaxDelay = time.Hour, time.Hour
	r.Lottery.HighlightInterval = time.Millisecond
	r.Lottery.HighlightDuration = 5 * time.Millisecond
	r.Lottery.SettleTimeout = time.Second
	return r
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	rules := testRules()
	tokens := jwt.NewTokenService("test-secret", time.Hour)
	auth := services.NewAuthService(store.Admins, tokens)
	classes := services.NewClassService(store.Classes, store.Transactions)
	catalog := services.NewCatalogService(store.Prizes, store.ShopItems, rules.Prizes)
	games := services.NewGameService(store.Classes, catalog, classes.Bridge, rules,
		game.Assets{StaticURL: "/static/"}, game.NewSeededRNG(3), nil)
	t.Cleanup(games.Close)

	cfg := &config.Config{Server: config.ServerConfig{AllowedHosts: []string{"http://localhost:5000"}}}
	router := SetupRouter(cfg, HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(auth),
		ClassHandler:   handlers.NewClassHandler(classes, games),
		CatalogHandler: handlers.NewCatalogHandler(catalog),
		GameHandler:    handlers.NewGameHandler(games),
		Tokens:         tokens,
	})

	ctx := context.Background()
	if err := auth.EnsureAdmin(ctx, "admin", "admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.CreateUser(ctx, "teacher", "teacher", false); err != nil {
		t.Fatal(err)
	}
	s := &testServer{router: router, classes: classes, auth: auth}
	s.token = s.login(t, "admin", "admin")
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func (s *testServer) createClass(t *testing.T, name string, students, valera int) int64 {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/classes", s.token, gin.H{
		"name": name, "students_balance": students, "valera_balance": valera,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create class: status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Class struct {
			ID int64 `json:"id"`
		} `json:"class"`
	}
	decode(t, w, &resp)
	return resp.Class.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	s := newTestServer(t)
	body := gin.H{"name": "6A"}

	if w := s.do(t, http.MethodPost, "/api/classes", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/classes", "garbage", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}
	teacher := s.login(t, "teacher", "teacher")
	if w := s.do(t, http.MethodPost, "/api/classes", teacher, body); w.Code != http.StatusForbidden {
		t.Fatalf("teacher: expected 403, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
}

func TestClassBalanceEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createClass(t, "7B", 10, 4)

	w := s.do(t, http.MethodPost, "/api/classes", s.token, gin.H{"name": "7B"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", w.Code)
	}
	var failed struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decode(t, w, &failed)
	if failed.Success || failed.Error == "" {
		t.Fatalf("unexpected duplicate body %s", w.Body.String())
	}

	if w := s.do(t, http.MethodGet, "/api/class/999/balance", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown class: expected 404, got %d", w.Code)
	}

	path := "/api/class/" + itoa(id) + "/balance"
	if w := s.do(t, http.MethodPost, path, "", gin.H{"valera_balance": 9}); w.Code != http.StatusOK {
		t.Fatalf("set balance: %d %s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, path+"/delta", "", gin.H{"students_delta": -3, "valera_delta": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("delta: %d %s", w.Code, w.Body.String())
	}
	var bal game.Balance
	decode(t, s.do(t, http.MethodGet, path, "", nil), &bal)
	if bal.Students != 7 || bal.Valera != 11 {
		t.Fatalf("unexpected balance %+v", bal)
	}

	w = s.do(t, http.MethodGet, "/api/class/"+itoa(id)+"/transactions", s.token, nil)
	var txs []map[string]interface{}
	decode(t, w, &txs)
	if len(txs) != 2 || txs[0]["reason"] != "manual" {
		t.Fatalf("unexpected ledger %s", w.Body.String())
	}
}

func TestRating(t *testing.T) {
	s := newTestServer(t)
	s.createClass(t, "small", 1, 1)
	s.createClass(t, "big", 20, 20)

	var rating []struct {
		Name  string `json:"name"`
		Total int    `json:"total_balance"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/classes/rating", "", nil), &rating)
	if len(rating) != 2 || rating[0].Name != "big" || rating[0].Total != 40 {
		t.Fatalf("unexpected rating %+v", rating)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/api/prizes?type=teacher", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown type: expected 400, got %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/shop-items", s.token, gin.H{"name": "Пятерка", "price": -5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative price: expected 400, got %d", w.Code)
	}
	for _, item := range []gin.H{{"name": "Пятерка", "price": 40}, {"name": "Жвачка", "price": 3}} {
		if w := s.do(t, http.MethodPost, "/api/shop-items", s.token, item); w.Code != http.StatusCreated {
			t.Fatalf("create item: %d %s", w.Code, w.Body.String())
		}
	}
	var items []struct {
		Name string `json:"name"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/shop-items", "", nil), &items)
	if len(items) != 2 || items[0].Name != "Жвачка" {
		t.Fatalf("expected items by price, got %+v", items)
	}
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.createClass(t, "8A", 0, 5)
	base := "/api/class/" + itoa(id) + "/game"

	var v game.View
	decode(t, s.do(t, http.MethodGet, base+"/state", "", nil), &v)
	if len(v.Signals) != 5 || v.GameOver {
		t.Fatalf("unexpected initial state %+v", v)
	}

	decode(t, s.do(t, http.MethodPost, base+"/signals/advance", "", nil), &v)
	if v.ActiveSignals != 1 {
		t.Fatalf("expected one lit circle, got %d", v.ActiveSignals)
	}

	var keyResp struct {
		Handled bool      `json:"handled"`
		State   game.View `json:"state"`
	}
	decode(t, s.do(t, http.MethodPost, base+"/keys", "", gin.H{"key": "р"}), &keyResp)
	if !keyResp.Handled || !keyResp.State.Modals[game.PanelPrice] {
		t.Fatalf("expected the price panel to open, got %+v", keyResp)
	}

	if w := s.do(t, http.MethodPost, base+"/modals/bogus/open", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown panel: expected 400, got %d", w.Code)
	}
	decode(t, s.do(t, http.MethodPost, base+"/modals/close-all", "", nil), &v)
	if v.Modals[game.PanelPrice] {
		t.Fatal("expected all panels closed")
	}

	// The students side has no coins for the students lottery.
	w := s.do(t, http.MethodPost, base+"/lottery/students/draw", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("insufficient balance: expected 400, got %d", w.Code)
	}

	if w := s.do(t, http.MethodPost, base+"/lottery/valera/draw", "", nil); w.Code != http.StatusAccepted {
		t.Fatalf("draw: expected 202, got %d: %s", w.Code, w.Body.String())
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		decode(t, s.do(t, http.MethodGet, base+"/state", "", nil), &v)
		if !v.Lotteries[game.LotteryValera].Drawing {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("draw did not settle")
		}
		time.Sleep(5 * time.Millisecond)
	}
	txs, err := s.classes.Transactions(context.Background(), id, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) == 0 || txs[0].Reason != "game" {
		t.Fatalf("expected the draw in the ledger, got %+v", txs)
	}
}

func TestSubmitCoins(t *testing.T) {
	s := newTestServer(t)
	id := s.createClass(t, "9A", 0, 0)
	base := "/api/class/" + itoa(id) + "/game"

	s.do(t, http.MethodPost, base+"/signals/advance", "", nil)
	s.do(t, http.MethodPost, base+"/signals/advance", "", nil)
	if w := s.do(t, http.MethodPost, base+"/coins/submit", "", nil); w.Code != http.StatusConflict {
		t.Fatalf("submit before show: expected 409, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, base+"/coins/show", "", nil); w.Code != http.StatusOK {
		t.Fatalf("show: %d %s", w.Code, w.Body.String())
	}
	w := s.do(t, http.MethodPost, base+"/coins/submit", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var bal game.Balance
	decode(t, s.do(t, http.MethodGet, "/api/class/"+itoa(id)+"/balance", "", nil), &bal)
	// Two lit circles out of five, bonus off: 3-1 for the students, 2 for Valera.
	if bal.Students != 2 || bal.Valera != 2 {
		t.Fatalf("unexpected balance %+v", bal)
	}
	if w := s.do(t, http.MethodPost, base+"/coins/submit", "", nil); w.Code != http.StatusConflict {
		t.Fatalf("second submit: expected 409, got %d", w.Code)
	}
}

func TestUpdateClassPartial(t *testing.T) {
	s := newTestServer(t)
	id := s.createClass(t, "5A", 12, 7)
	path := "/api/classes/" + itoa(id)

	var resp struct {
		Class struct {
			Name            string `json:"name"`
			StudentsBalance int    `json:"students_balance"`
			ValeraBalance   int    `json:"valera_balance"`
		} `json:"class"`
	}
	w := s.do(t, http.MethodPut, path, s.token, gin.H{"name": "5B"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &resp)
	if resp.Class.Name != "5B" || resp.Class.StudentsBalance != 12 || resp.Class.ValeraBalance != 7 {
		t.Fatalf("rename must keep the balances, got %+v", resp.Class)
	}

	w = s.do(t, http.MethodPut, path, s.token, gin.H{"students_balance": 30})
	if w.Code != http.StatusOK {
		t.Fatalf("set students: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &resp)
	if resp.Class.Name != "5B" || resp.Class.StudentsBalance != 30 || resp.Class.ValeraBalance != 7 {
		t.Fatalf("unexpected class %+v", resp.Class)
	}

	var txs []map[string]interface{}
	decode(t, s.do(t, http.MethodGet, "/api/class/"+itoa(id)+"/transactions", s.token, nil), &txs)
	if len(txs) != 1 || txs[0]["reason"] != "set" {
		t.Fatalf("expected one ledger entry, got %+v", txs)
	}
}

func TestGameUnknownClass(t *testing.T) {
	s := newTestServer(t)
	if w := s.do(t, http.MethodGet, "/api/class/77/game/state", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/class/abc/game/state", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestManifest(t *testing.T) {
	s := newTestServer(t)
	var resp struct {
		TotalFrames int      `json:"total_frames"`
		Images      []string `json:"images"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/assets/manifest", "", nil), &resp)
	if resp.TotalFrames != 3 || len(resp.Images) != 3*3+4 {
		t.Fatalf("unexpected manifest %+v", resp)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
