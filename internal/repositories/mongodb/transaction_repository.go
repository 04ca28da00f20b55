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

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB operations for the balance ledger
type TransactionRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		db:         db,
		collection: db.Collection("balance_transactions"),
	}
}

// Create inserts a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	id, err := nextID(ctx, r.db, "balance_transactions")
	if err != nil {
		return err
	}
	tx.ID = id
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err = r.collection.InsertOne(ctx, tx)
	return err
}

// FindByClassID finds the ledger of a class, newest first
func (r *TransactionRepository) FindByClassID(ctx context.Context, classID int64, limit int) ([]*models.BalanceTransaction, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"classId": classID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*models.BalanceTransaction
	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	// Return empty slice instead of nil if no documents found
	if transactions == nil {
		transactions = []*models.BalanceTransaction{}
	}
	return transactions, nil
}
