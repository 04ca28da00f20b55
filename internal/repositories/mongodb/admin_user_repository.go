package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure AdminUserRepository implements repositories.AdminUserRepository
var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

// AdminUserRepository handles MongoDB operations for admin accounts
type AdminUserRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new repository for admin users
func NewAdminUserRepository(db *mongo.Database) *AdminUserRepository {
	return &AdminUserRepository{
		db:         db,
		collection: db.Collection("admin_users"),
	}
}

// Create inserts a new admin user into the database
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	id, err := nextID(ctx, r.db, "admin_users")
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, user)
	return mapErr(err)
}

// FindByUsername finds an admin user by login name
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// FindByID finds an admin user by their ID
func (r *AdminUserRepository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// Update stores a new password hash or admin flag
func (r *AdminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	update := bson.M{"$set": bson.M{
		"passwordHash": user.PasswordHash,
		"isAdmin":      user.IsAdmin,
	}}
	return checkMatched(r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update))
}
