// Package memory keeps every repository in process memory. It backs tests
// and single-machine classroom setups that run without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

type db struct {
	mu     sync.RWMutex
	seq    map[string]int64
	class  map[int64]models.Class
	prize  map[int64]models.Prize
	item   map[int64]models.ShopItem
	admin  map[int64]models.AdminUser
	ledger []models.BalanceTransaction
}

func (d *db) next(name string) int64 {
	d.seq[name]++
	return d.seq[name]
}

// NewStore returns an empty in-memory store.
func NewStore() *repositories.Store {
	d := &db{
		seq:   map[string]int64{},
		class: map[int64]models.Class{},
		prize: map[int64]models.Prize{},
		item:  map[int64]models.ShopItem{},
		admin: map[int64]models.AdminUser{},
	}
	return repositories.NewStore(
		&ClassRepository{d},
		&PrizeRepository{d},
		&ShopItemRepository{d},
		&AdminUserRepository{d},
		&TransactionRepository{d},
		nil,
	)
}

var (
	_ repositories.ClassRepository       = (*ClassRepository)(nil)
	_ repositories.PrizeRepository       = (*PrizeRepository)(nil)
	_ repositories.ShopItemRepository    = (*ShopItemRepository)(nil)
	_ repositories.AdminUserRepository   = (*AdminUserRepository)(nil)
	_ repositories.TransactionRepository = (*TransactionRepository)(nil)
)

// ClassRepository keeps classes in memory.
type ClassRepository struct{ d *db }

func (r *ClassRepository) nameTaken(name string, except int64) bool {
	for id, c := range r.d.class {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.nameTaken(class.Name, 0) {
		return fmt.Errorf("%w: class %q", repositories.ErrDuplicate, class.Name)
	}
	class.ID = r.d.next("classes")
	class.CreatedAt = time.Now()
	r.d.class[class.ID] = *class
	return nil
}

func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	c, ok := r.d.class[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *ClassRepository) FindByName(ctx context.Context, name string) (*models.Class, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, c := range r.d.class {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ClassRepository) all() []*models.Class {
	out := make([]*models.Class, 0, len(r.d.class))
	for _, c := range r.d.class {
		c := c
		out = append(out, &c)
	}
	return out
}

func (r *ClassRepository) FindAll(ctx context.Context) ([]*models.Class, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := r.all()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ClassRepository) Rating(ctx context.Context) ([]*models.Class, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := r.all()
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].TotalBalance(), out[j].TotalBalance()
		if ti != tj {
			return ti > tj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.class[class.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.nameTaken(class.Name, class.ID) {
		return fmt.Errorf("%w: class %q", repositories.ErrDuplicate, class.Name)
	}
	stored.Name = class.Name
	r.d.class[class.ID] = stored
	return nil
}

func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.class[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.d.class, id)
	kept := r.d.ledger[:0]
	for _, t := range r.d.ledger {
		if t.ClassID != id {
			kept = append(kept, t)
		}
	}
	r.d.ledger = kept
	return nil
}

func (r *ClassRepository) SetBalance(ctx context.Context, id int64, students, valera *int) (*models.Class, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.class[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if students != nil {
		c.StudentsBalance = *students
	}
	if valera != nil {
		c.ValeraBalance = *valera
	}
	r.d.class[id] = c
	return &c, nil
}

func (r *ClassRepository) ApplyDelta(ctx context.Context, id int64, studentsDelta, valeraDelta int) (*models.Class, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.class[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.StudentsBalance += studentsDelta
	c.ValeraBalance += valeraDelta
	r.d.class[id] = c
	return &c, nil
}

// PrizeRepository keeps lottery prizes in memory.
type PrizeRepository struct{ d *db }

func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	prize.ID = r.d.next("prizes")
	prize.CreatedAt = time.Now()
	r.d.prize[prize.ID] = *prize
	return nil
}

func (r *PrizeRepository) FindByID(ctx context.Context, id int64) (*models.Prize, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	p, ok := r.d.prize[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *PrizeRepository) FindByType(ctx context.Context, prizeType string) ([]*models.Prize, error) {
	return r.filter(func(p models.Prize) bool { return p.PrizeType == prizeType }), nil
}

func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	return r.filter(func(models.Prize) bool { return true }), nil
}

func (r *PrizeRepository) filter(keep func(models.Prize) bool) []*models.Prize {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := []*models.Prize{}
	for _, p := range r.d.prize {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.prize[prize.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := *prize
	updated.CreatedAt = stored.CreatedAt
	r.d.prize[prize.ID] = updated
	return nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.prize[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.d.prize, id)
	return nil
}

// ShopItemRepository keeps the price list in memory.
type ShopItemRepository struct{ d *db }

func (r *ShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	item.ID = r.d.next("shop_items")
	item.CreatedAt = time.Now()
	r.d.item[item.ID] = *item
	return nil
}

func (r *ShopItemRepository) FindByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	item, ok := r.d.item[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (r *ShopItemRepository) FindAll(ctx context.Context) ([]*models.ShopItem, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := make([]*models.ShopItem, 0, len(r.d.item))
	for _, item := range r.d.item {
		item := item
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ShopItemRepository) Update(ctx context.Context, item *models.ShopItem) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.item[item.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Name = item.Name
	stored.Price = item.Price
	r.d.item[item.ID] = stored
	return nil
}

func (r *ShopItemRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.item[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.d.item, id)
	return nil
}

// AdminUserRepository keeps admin accounts in memory.
type AdminUserRepository struct{ d *db }

func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.admin {
		if u.Username == user.Username {
			return fmt.Errorf("%w: user %q", repositories.ErrDuplicate, user.Username)
		}
	}
	user.ID = r.d.next("admin_users")
	user.CreatedAt = time.Now()
	r.d.admin[user.ID] = *user
	return nil
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, u := range r.d.admin {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	u, ok := r.d.admin[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *AdminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.admin[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.PasswordHash = user.PasswordHash
	stored.IsAdmin = user.IsAdmin
	r.d.admin[user.ID] = stored
	return nil
}

// TransactionRepository keeps the balance ledger in memory.
type TransactionRepository struct{ d *db }

func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	tx.ID = r.d.next("balance_transactions")
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.d.ledger = append(r.d.ledger, *tx)
	return nil
}

func (r *TransactionRepository) FindByClassID(ctx context.Context, classID int64, limit int) ([]*models.BalanceTransaction, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	out := []*models.BalanceTransaction{}
	for i := len(r.d.ledger) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if t := r.d.ledger[i]; t.ClassID == classID {
			out = append(out, &t)
		}
	}
	return out, nil
}
