package postgres

import (
	"context"
	"database/sql"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository stores the balance ledger in PostgreSQL.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.BalanceTransaction) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO balance_transactions
			(class_id, students_delta, valera_delta, reason, students_after, valera_after)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, tx.ClassID, tx.StudentsDelta, tx.ValeraDelta, tx.Reason, tx.StudentsAfter, tx.ValeraAfter).
		Scan(&tx.ID, &tx.CreatedAt)
	return mapErr(err)
}

func (r *TransactionRepository) FindByClassID(ctx context.Context, classID int64, limit int) ([]*models.BalanceTransaction, error) {
	q := `
		SELECT id, class_id, students_delta, valera_delta, reason, students_after, valera_after, created_at
		FROM balance_transactions
		WHERE class_id = $1
		ORDER BY id DESC`
	args := []interface{}{classID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []*models.BalanceTransaction{}
	for rows.Next() {
		var t models.BalanceTransaction
		if err := rows.Scan(&t.ID, &t.ClassID, &t.StudentsDelta, &t.ValeraDelta, &t.Reason,
			&t.StudentsAfter, &t.ValeraAfter, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
