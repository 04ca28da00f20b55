package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// NewStore wires every repository to db and makes sure the unique indexes
// exist. closeFn is called by Store.Close.
func NewStore(ctx context.Context, db *mongo.Database, closeFn func(ctx context.Context) error) (*repositories.Store, error) {
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}
	return repositories.NewStore(
		NewClassRepository(db),
		NewPrizeRepository(db),
		NewShopItemRepository(db),
		NewAdminUserRepository(db),
		NewTransactionRepository(db),
		closeFn,
	), nil
}

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string]mongo.IndexModel{
		"classes":     {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		"admin_users": {Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		"prizes":      {Keys: bson.D{{Key: "prizeType", Value: 1}}},
		"shop_items":  {Keys: bson.D{{Key: "price", Value: 1}}},
		"balance_transactions": {Keys: bson.D{
			{Key: "classId", Value: 1},
			{Key: "_id", Value: -1},
		}},
	}
	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}
	return nil
}

// nextID allocates the next integer id of a collection.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// mapErr turns driver errors into repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

func checkMatched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func checkDeleted(res *mongo.DeleteResult, err error) error {
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
