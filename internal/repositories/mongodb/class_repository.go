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

// Compile-time check to ensure ClassRepository implements the interface
var _ repositories.ClassRepository = (*ClassRepository)(nil)

// ClassRepository handles MongoDB operations for Class
type ClassRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db *mongo.Database) *ClassRepository {
	return &ClassRepository{
		db:         db,
		collection: db.Collection("classes"),
	}
}

// Create inserts a new class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	id, err := nextID(ctx, r.db, "classes")
	if err != nil {
		return err
	}
	class.ID = id
	class.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, class)
	return mapErr(err)
}

// FindByID finds a class by ID
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByName finds a class by its unique name
func (r *ClassRepository) FindByName(ctx context.Context, name string) (*models.Class, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *ClassRepository) findOne(ctx context.Context, filter bson.M) (*models.Class, error) {
	var class models.Class
	if err := r.collection.FindOne(ctx, filter).Decode(&class); err != nil {
		return nil, mapErr(err)
	}
	return &class, nil
}

// FindAll lists classes by id
func (r *ClassRepository) FindAll(ctx context.Context) ([]*models.Class, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *ClassRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Class, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var classes []*models.Class
	if err = cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []*models.Class{}
	}
	return classes, nil
}

// Update renames a class
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	update := bson.M{"$set": bson.M{"name": class.Name}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": class.ID}, update))
}

// Delete removes a class
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	return checkDeleted(r.collection.DeleteOne(ctx, bson.M{"_id": id}))
}

// SetBalance overwrites the given balances
func (r *ClassRepository) SetBalance(ctx context.Context, id int64, students, valera *int) (*models.Class, error) {
	set := bson.M{}
	if students != nil {
		set["studentsBalance"] = *students
	}
	if valera != nil {
		set["valeraBalance"] = *valera
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// ApplyDelta increments both balances in one document update
func (r *ClassRepository) ApplyDelta(ctx context.Context, id int64, studentsDelta, valeraDelta int) (*models.Class, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{
		"studentsBalance": studentsDelta,
		"valeraBalance":   valeraDelta,
	}})
}

func (r *ClassRepository) findOneAndUpdate(ctx context.Context, id int64, update bson.M) (*models.Class, error) {
	var class models.Class
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&class); err != nil {
		return nil, mapErr(err)
	}
	return &class, nil
}

// Rating orders classes by total balance, then by name
func (r *ClassRepository) Rating(ctx context.Context) ([]*models.Class, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{"total": bson.M{"$add": bson.A{"$studentsBalance", "$valeraBalance"}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "name", Value: 1}}}},
		{{Key: "$project", Value: bson.M{"total": 0}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var classes []*models.Class
	if err = cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []*models.Class{}
	}
	return classes, nil
}
