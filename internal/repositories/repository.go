package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/valera-classroom/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ClassRepository defines the interface for class data operations
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	FindByName(ctx context.Context, name string) (*models.Class, error)
	FindAll(ctx context.Context) ([]*models.Class, error)
	// Update saves the class name. Balances change only through
	// SetBalance and ApplyDelta.
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	// SetBalance overwrites the balances that are not nil.
	SetBalance(ctx context.Context, id int64, students, valera *int) (*models.Class, error)
	// ApplyDelta adds both deltas in one atomic update and returns the
	// class as stored afterwards.
	ApplyDelta(ctx context.Context, id int64, studentsDelta, valeraDelta int) (*models.Class, error)
	// Rating lists classes by total balance, highest first.
	Rating(ctx context.Context) ([]*models.Class, error)
}

// PrizeRepository defines the interface for lottery prize operations
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id int64) (*models.Prize, error)
	FindByType(ctx context.Context, prizeType string) ([]*models.Prize, error)
	FindAll(ctx context.Context) ([]*models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id int64) error
}

// ShopItemRepository defines the interface for price list operations
type ShopItemRepository interface {
	Create(ctx context.Context, item *models.ShopItem) error
	FindByID(ctx context.Context, id int64) (*models.ShopItem, error)
	// FindAll lists items by price, cheapest first.
	FindAll(ctx context.Context) ([]*models.ShopItem, error)
	Update(ctx context.Context, item *models.ShopItem) error
	Delete(ctx context.Context, id int64) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	Update(ctx context.Context, user *models.AdminUser) error
}

// TransactionRepository defines the interface for the balance ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.BalanceTransaction) error
	// FindByClassID returns the newest entries first; limit <= 0 means all.
	FindByClassID(ctx context.Context, classID int64, limit int) ([]*models.BalanceTransaction, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Classes      ClassRepository
	Prizes       PrizeRepository
	ShopItems    ShopItemRepository
	Admins       AdminUserRepository
	Transactions TransactionRepository

	close func(ctx context.Context) error
}

// NewStore assembles a store. closeFn releases the backend connection and
// may be nil.
func NewStore(classes ClassRepository, prizes PrizeRepository, items ShopItemRepository,
	admins AdminUserRepository, txs TransactionRepository, closeFn func(ctx context.Context) error) *Store {
	return &Store{
		Classes:      classes,
		Prizes:       prizes,
		ShopItems:    items,
		Admins:       admins,
		Transactions: txs,
		close:        closeFn,
	}
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
