package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/ArowuTest/valera-classroom/internal/repositories/memory"
	"github.com/ArowuTest/valera-classroom/pkg/jwt"
)

func intPtr(v int) *int { return &v }

func newClassService(t *testing.T) (*ClassService, *repositories.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewClassService(store.Classes, store.Transactions), store
}

func TestCreateClassValidation(t *testing.T) {
	svc, _ := newClassService(t)
	ctx := context.Background()

	if _, err := svc.CreateClass(ctx, &models.ClassRequest{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateClass(ctx, &models.ClassRequest{Name: "7A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateClass(ctx, &models.ClassRequest{Name: "7A"}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestApplyDeltaWritesLedger(t *testing.T) {
	svc, _ := newClassService(t)
	ctx := context.Background()
	class, err := svc.CreateClass(ctx, &models.ClassRequest{Name: "8B", StudentsBalance: 10, ValeraBalance: 10})
	if err != nil {
		t.Fatal(err)
	}

	after, err := svc.ApplyDelta(ctx, class.ID, 3, -4, "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if after.StudentsBalance != 13 || after.ValeraBalance != 6 {
		t.Fatalf("unexpected balances %d/%d", after.StudentsBalance, after.ValeraBalance)
	}
	if _, err := svc.SetBalance(ctx, class.ID, &models.SetBalanceRequest{ValeraBalance: intPtr(20)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// A zero delta leaves no entry.
	if _, err := svc.ApplyDelta(ctx, class.ID, 0, 0, ""); err != nil {
		t.Fatal(err)
	}

	txs, err := svc.Transactions(ctx, class.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(txs))
	}
	if txs[0].Reason != models.ReasonSet || txs[0].ValeraDelta != 14 || txs[0].ValeraAfter != 20 {
		t.Fatalf("unexpected newest entry %+v", txs[0])
	}
	if txs[1].Reason != models.ReasonManual || txs[1].StudentsDelta != 3 {
		t.Fatalf("unexpected oldest entry %+v", txs[1])
	}
}

func strPtr(v string) *string { return &v }

func TestUpdateClassKeepsAbsentFields(t *testing.T) {
	svc, _ := newClassService(t)
	ctx := context.Background()
	class, err := svc.CreateClass(ctx, &models.ClassRequest{Name: "5A", StudentsBalance: 12, ValeraBalance: 7})
	if err != nil {
		t.Fatal(err)
	}

	renamed, err := svc.UpdateClass(ctx, class.ID, &models.ClassUpdateRequest{Name: strPtr(" 5B ")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "5B" || renamed.StudentsBalance != 12 || renamed.ValeraBalance != 7 {
		t.Fatalf("rename must keep the balances, got %+v", renamed)
	}

	updated, err := svc.UpdateClass(ctx, class.ID, &models.ClassUpdateRequest{StudentsBalance: intPtr(30)})
	if err != nil {
		t.Fatalf("set students: %v", err)
	}
	if updated.Name != "5B" || updated.StudentsBalance != 30 || updated.ValeraBalance != 7 {
		t.Fatalf("unexpected class %+v", updated)
	}

	txs, err := svc.Transactions(ctx, class.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 || txs[0].Reason != models.ReasonSet || txs[0].StudentsDelta != 18 {
		t.Fatalf("balance change should be in the ledger, got %+v", txs)
	}

	if _, err := svc.UpdateClass(ctx, class.ID, &models.ClassUpdateRequest{Name: strPtr(" ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateClass(ctx, 999, &models.ClassUpdateRequest{Name: strPtr("x")}); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRatingOrder(t *testing.T) {
	svc, _ := newClassService(t)
	ctx := context.Background()
	for _, req := range []models.ClassRequest{
		{Name: "poor", StudentsBalance: 1, ValeraBalance: 1},
		{Name: "rich", StudentsBalance: 30, ValeraBalance: 5},
		{Name: "middle", StudentsBalance: 5, ValeraBalance: 10},
	} {
		req := req
		if _, err := svc.CreateClass(ctx, &req); err != nil {
			t.Fatal(err)
		}
	}
	rating, err := svc.Rating(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rich", "middle", "poor"}
	for i, name := range want {
		if rating[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, rating[i].Name)
		}
	}
	if rating[0].TotalBalance != 35 {
		t.Fatalf("expected total 35, got %d", rating[0].TotalBalance)
	}
}

func TestClassBridge(t *testing.T) {
	svc, _ := newClassService(t)
	ctx := context.Background()
	class, _ := svc.CreateClass(ctx, &models.ClassRequest{Name: "9C", StudentsBalance: 8, ValeraBalance: 5})

	bridge := svc.Bridge(class.ID)
	if err := bridge.UpdateBalance(ctx, -8, 2); err != nil {
		t.Fatal(err)
	}
	bal, err := bridge.GetBalance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if bal != (game.Balance{Students: 0, Valera: 7}) {
		t.Fatalf("unexpected balance %+v", bal)
	}
	txs, _ := svc.Transactions(ctx, class.ID, 1)
	if len(txs) != 1 || txs[0].Reason != models.ReasonGame {
		t.Fatalf("expected one game entry, got %+v", txs)
	}

	if err := svc.Bridge(999).UpdateBalance(ctx, 1, 1); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogFallsBackToDefaults(t *testing.T) {
	store := memory.NewStore()
	defaults := game.DefaultRules().Prizes
	catalog := NewCatalogService(store.Prizes, store.ShopItems, defaults)
	ctx := context.Background()

	prizes, err := catalog.Prizes(ctx, game.LotteryValera)
	if err != nil {
		t.Fatal(err)
	}
	if len(prizes) != len(defaults.Valera) {
		t.Fatalf("expected default prizes, got %d", len(prizes))
	}

	stored := &models.Prize{
		Name:        "Бафф: +3 монеты",
		PrizeType:   models.PrizeTypeValera,
		Probability: "HIGH",
		CoinsMin:    intPtr(9),
		CoinsMax:    intPtr(2),
	}
	if err := catalog.CreatePrize(ctx, stored); err != nil {
		t.Fatal(err)
	}
	prizes, _ = catalog.Prizes(ctx, game.LotteryValera)
	if len(prizes) != 1 {
		t.Fatalf("expected the stored prize only, got %d", len(prizes))
	}
	p := prizes[0]
	if p.Probability != game.ProbabilityHigh {
		t.Fatalf("expected high probability, got %s", p.Probability)
	}
	if p.CoinsRange == nil || p.CoinsRange.Min != 2 || p.CoinsRange.Max != 9 {
		t.Fatalf("unexpected coins range %+v", p.CoinsRange)
	}

	students, _ := catalog.Prizes(ctx, game.LotteryStudents)
	if len(students) != len(defaults.Students) {
		t.Fatalf("students lottery should keep its defaults")
	}
}

func TestCatalogValidation(t *testing.T) {
	store := memory.NewStore()
	catalog := NewCatalogService(store.Prizes, store.ShopItems, game.PrizeLists{})
	ctx := context.Background()

	cases := []*models.Prize{
		{Name: "", PrizeType: models.PrizeTypeValera},
		{Name: "x", PrizeType: "teacher"},
		{Name: "x", PrizeType: models.PrizeTypeStudents, Probability: "sometimes"},
		{Name: "x", PrizeType: models.PrizeTypeStudents, CoinsMin: intPtr(1)},
	}
	for i, p := range cases {
		if err := catalog.CreatePrize(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if _, err := catalog.ListPrizes(ctx, "teacher"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}

	if err := catalog.CreateShopItem(ctx, &models.ShopItem{Name: "Пятерка", Price: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected negative price to be rejected, got %v", err)
	}
	item := &models.ShopItem{Name: "Пятерка", Price: 40}
	if err := catalog.CreateShopItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	got, err := catalog.ShopItem(ctx, item.ID)
	if err != nil || got.Price != 40 || got.Name != "Пятерка" {
		t.Fatalf("unexpected shop item %+v, %v", got, err)
	}
}

func TestCatalogPartialUpdates(t *testing.T) {
	store := memory.NewStore()
	catalog := NewCatalogService(store.Prizes, store.ShopItems, game.PrizeLists{})
	ctx := context.Background()

	prize := &models.Prize{
		Name:           "Бафф",
		PrizeType:      models.PrizeTypeStudents,
		StudentsChange: 3,
		Probability:    "high",
		CoinsMin:       intPtr(1),
		CoinsMax:       intPtr(4),
	}
	if err := catalog.CreatePrize(ctx, prize); err != nil {
		t.Fatal(err)
	}
	got, err := catalog.UpdatePrize(ctx, prize.ID, &models.PrizeUpdateRequest{ValeraChange: intPtr(-2)})
	if err != nil {
		t.Fatalf("update prize: %v", err)
	}
	if got.Name != "Бафф" || got.PrizeType != models.PrizeTypeStudents || got.StudentsChange != 3 ||
		got.ValeraChange != -2 || got.Probability != "high" || got.CoinsMin == nil || *got.CoinsMax != 4 {
		t.Fatalf("absent fields must be kept, got %+v", got)
	}
	if _, err := catalog.UpdatePrize(ctx, prize.ID, &models.PrizeUpdateRequest{PrizeType: strPtr("teacher")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := catalog.UpdatePrize(ctx, 999, &models.PrizeUpdateRequest{}); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	item := &models.ShopItem{Name: "Пятерка", Price: 40}
	if err := catalog.CreateShopItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	updated, err := catalog.UpdateShopItem(ctx, item.ID, &models.ShopItemUpdateRequest{Price: intPtr(35)})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Name != "Пятерка" || updated.Price != 35 {
		t.Fatalf("unexpected item %+v", updated)
	}
	stored, err := catalog.ShopItem(ctx, item.ID)
	if err != nil || stored.Price != 35 || stored.Name != "Пятерка" {
		t.Fatalf("unexpected stored item %+v, %v", stored, err)
	}
}

func TestCatalogShopItemNotFound(t *testing.T) {
	store := memory.NewStore()
	catalog := NewCatalogService(store.Prizes, store.ShopItems, game.PrizeLists{})
	_, err := catalog.ShopItem(context.Background(), 42)
	if !errors.Is(err, game.ErrUnknownItem) || !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected an unknown item error, got %v", err)
	}
}

func TestAuthLogin(t *testing.T) {
	store := memory.NewStore()
	tokens := jwt.NewTokenService("secret", time.Hour)
	auth := NewAuthService(store.Admins, tokens)
	ctx := context.Background()

	if err := auth.EnsureAdmin(ctx, "admin", "admin"); err != nil {
		t.Fatal(err)
	}
	// Second call keeps the existing account.
	if err := auth.EnsureAdmin(ctx, "admin", "other"); err != nil {
		t.Fatal(err)
	}

	if _, err := auth.Login(ctx, &models.LoginRequest{Username: "admin", Password: "other"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "admin"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	resp, err := auth.Login(ctx, &models.LoginRequest{Username: "admin", Password: "admin"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(resp.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != models.RoleAdmin || claims.Username != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestGameServiceSessions(t *testing.T) {
	svc, store := newClassService(t)
	ctx := context.Background()
	class, _ := svc.CreateClass(ctx, &models.ClassRequest{Name: "5A", StudentsBalance: 20, ValeraBalance: 20})

	rules := game.DefaultRules()
	catalog := NewCatalogService(store.Prizes, store.ShopItems, rules.Prizes)
	games := NewGameService(store.Classes, catalog, svc.Bridge, rules, game.Assets{StaticURL: "/static/"}, game.NewSeededRNG(1), nil)
	defer games.Close()

	if _, err := games.Session(ctx, 404); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown class, got %v", err)
	}
	first, err := games.Session(ctx, class.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := games.Session(ctx, class.ID)
	if first != second {
		t.Fatal("expected the same session for a class")
	}

	games.Close()
	if _, err := games.Session(ctx, class.ID); !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("expected ErrManagerClosed, got %v", err)
	}
}
