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

// Compile-time check to ensure PrizeRepository implements the interface
var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

// PrizeRepository handles MongoDB operations for lottery prizes
type PrizeRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *mongo.Database) *PrizeRepository {
	return &PrizeRepository{
		db:         db,
		collection: db.Collection("prizes"),
	}
}

// Create inserts a new prize
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	id, err := nextID(ctx, r.db, "prizes")
	if err != nil {
		return err
	}
	prize.ID = id
	prize.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, prize)
	return mapErr(err)
}

// FindByID finds a prize by ID
func (r *PrizeRepository) FindByID(ctx context.Context, id int64) (*models.Prize, error) {
	var prize models.Prize
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prize); err != nil {
		return nil, mapErr(err)
	}
	return &prize, nil
}

// FindByType lists the prizes of one lottery in insertion order
func (r *PrizeRepository) FindByType(ctx context.Context, prizeType string) ([]*models.Prize, error) {
	return r.find(ctx, bson.M{"prizeType": prizeType})
}

// FindAll lists every prize
func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	return r.find(ctx, bson.M{})
}

func (r *PrizeRepository) find(ctx context.Context, filter bson.M) ([]*models.Prize, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.Prize
	if err = cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	if prizes == nil {
		prizes = []*models.Prize{}
	}
	return prizes, nil
}

// Update replaces a prize, keeping its creation time
func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	update := bson.M{
		"$set": bson.M{
			"name":           prize.Name,
			"prizeType":      prize.PrizeType,
			"studentsChange": prize.StudentsChange,
			"valeraChange":   prize.ValeraChange,
			"probability":    prize.Probability,
		},
	}
	unset := bson.M{}
	set := update["$set"].(bson.M)
	if prize.CoinsMin != nil {
		set["coinsMin"] = *prize.CoinsMin
	} else {
		unset["coinsMin"] = ""
	}
	if prize.CoinsMax != nil {
		set["coinsMax"] = *prize.CoinsMax
	} else {
		unset["coinsMax"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": prize.ID}, update))
}

// Delete removes a prize
func (r *PrizeRepository) Delete(ctx context.Context, id int64) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}
