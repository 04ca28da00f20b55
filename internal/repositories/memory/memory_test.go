package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

func TestClassLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	a := &models.Class{Name: "7А", StudentsBalance: 10, ValeraBalance: 1}
	if err := store.Classes.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.Classes.Create(ctx, &models.Class{Name: "7А"}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	b := &models.Class{Name: "7Б", StudentsBalance: 3, ValeraBalance: 20}
	if err := store.Classes.Create(ctx, b); err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID || a.ID == 0 {
		t.Fatalf("ids must be distinct and non-zero: %d %d", a.ID, b.ID)
	}

	c, err := store.Classes.ApplyDelta(ctx, a.ID, -4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.StudentsBalance != 6 || c.ValeraBalance != 3 {
		t.Fatalf("unexpected balance %+v", c)
	}

	ten := 10
	c, err = store.Classes.SetBalance(ctx, a.ID, nil, &ten)
	if err != nil || c.StudentsBalance != 6 || c.ValeraBalance != 10 {
		t.Fatalf("set balance: %+v %v", c, err)
	}

	rating, _ := store.Classes.Rating(ctx)
	if len(rating) != 2 || rating[0].Name != "7Б" {
		t.Fatalf("7Б leads with 23 coins, got %+v", rating[0])
	}

	if err := store.Classes.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Classes.FindByID(ctx, a.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLedgerNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for i := 1; i <= 3; i++ {
		_ = store.Transactions.Create(ctx, &models.BalanceTransaction{ClassID: 1, StudentsDelta: i})
	}
	_ = store.Transactions.Create(ctx, &models.BalanceTransaction{ClassID: 2, StudentsDelta: 9})

	txs, _ := store.Transactions.FindByClassID(ctx, 1, 2)
	if len(txs) != 2 || txs[0].StudentsDelta != 3 || txs[1].StudentsDelta != 2 {
		t.Fatalf("unexpected ledger %+v", txs)
	}
}

func TestShopItemsByPrice(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, item := range []models.ShopItem{{Name: "b", Price: 30}, {Name: "a", Price: 5}, {Name: "c", Price: 12}} {
		item := item
		_ = store.ShopItems.Create(ctx, &item)
	}
	items, _ := store.ShopItems.FindAll(ctx)
	if items[0].Price != 5 || items[1].Price != 12 || items[2].Price != 30 {
		t.Fatalf("items not ordered by price")
	}
}
