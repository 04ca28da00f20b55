package game

import (
	"context"
	"errors"
)

// ErrUnknownItem is returned by a Catalog for an item that does not exist.
var ErrUnknownItem = errors.New("shop item not found")

// Balance is the coin state of one class.
type Balance struct {
	Students int `json:"students_balance"`
	Valera   int `json:"valera_balance"`
}

// For returns the side of the balance that pays for a lottery.
func (b Balance) For(kind LotteryKind) int {
	if kind == LotteryStudents {
		return b.Students
	}
	return b.Valera
}

// BalanceBridge is the only way the game touches coins. UpdateBalance
// applies both signed deltas in a single call.
type BalanceBridge interface {
	GetBalance(ctx context.Context) (Balance, error)
	UpdateBalance(ctx context.Context, studentsDelta, valeraDelta int) error
}

// ShopItem is something the students can buy from the price list.
type ShopItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Catalog supplies prize lists and shop items to a session.
type Catalog interface {
	Prizes(ctx context.Context, kind LotteryKind) ([]Prize, error)
	ShopItem(ctx context.Context, id int64) (ShopItem, error)
}

// PendingPurchase is the item waiting in the confirmation panel.
type PendingPurchase struct {
	ItemID    int64  `json:"item_id"`
	ItemPrice int    `json:"item_price"`
	ItemName  string `json:"item_name"`
}
