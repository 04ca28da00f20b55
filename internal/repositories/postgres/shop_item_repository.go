package postgres

import (
	"context"
	"database/sql"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

var _ repositories.ShopItemRepository = (*ShopItemRepository)(nil)

// ShopItemRepository stores the price list in PostgreSQL.
type ShopItemRepository struct {
	db *sql.DB
}

func NewShopItemRepository(db *sql.DB) *ShopItemRepository {
	return &ShopItemRepository{db: db}
}

func scanShopItem(row scanner) (*models.ShopItem, error) {
	var item models.ShopItem
	if err := row.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (r *ShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shop_items (name, price) VALUES ($1, $2)
		RETURNING id, created_at
	`, item.Name, item.Price).Scan(&item.ID, &item.CreatedAt)
	return mapErr(err)
}

func (r *ShopItemRepository) FindByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	return scanShopItem(r.db.QueryRowContext(ctx, `SELECT id, name, price, created_at FROM shop_items WHERE id = $1`, id))
}

func (r *ShopItemRepository) FindAll(ctx context.Context) ([]*models.ShopItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price, created_at FROM shop_items ORDER BY price, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.ShopItem{}
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ShopItemRepository) Update(ctx context.Context, item *models.ShopItem) error {
	return checkAffected(r.db.ExecContext(ctx,
		`UPDATE shop_items SET name = $2, price = $3 WHERE id = $1`, item.ID, item.Name, item.Price))
}

func (r *ShopItemRepository) Delete(ctx context.Context, id int64) error {
	return checkAffected(r.db.ExecContext(ctx, `DELETE FROM shop_items WHERE id = $1`, id))
}
