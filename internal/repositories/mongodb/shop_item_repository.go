package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ShopItemRepository implements the interface
var _ repositories.ShopItemRepository = (*ShopItemRepository)(nil)

// ShopItemRepository handles MongoDB operations for the price list
type ShopItemRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewShopItemRepository creates a new ShopItemRepository
func NewShopItemRepository(db *mongo.Database) *ShopItemRepository {
	return &ShopItemRepository{
		db:         db,
		collection: db.Collection("shop_items"),
	}
}

// Create inserts a new item
func (r *ShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	id, err := nextID(ctx, r.db, "shop_items")
	if err != nil {
		return err
	}
	item.ID = id
	item.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, item)
	return mapErr(err)
}

// FindByID finds an item by ID
func (r *ShopItemRepository) FindByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	var item models.ShopItem
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

// FindAll lists items by price
func (r *ShopItemRepository) FindAll(ctx context.Context) ([]*models.ShopItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.ShopItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.ShopItem{}
	}
	return items, nil
}

// Update renames or reprices an item
func (r *ShopItemRepository) Update(ctx context.Context, item *models.ShopItem) error {
	update := bson.M{"$set": bson.M{"name": item.Name, "price": item.Price}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update))
}

// Delete removes an item
func (r *ShopItemRepository) Delete(ctx context.Context, id int64) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}
