package postgres

import (
	"context"
	"database/sql"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

var _ repositories.PrizeRepository = (*PrizeRepository)(nil)

const prizeColumns = `id, name, prize_type, students_change, valera_change, probability, coins_min, coins_max, created_at`

// PrizeRepository stores lottery prizes in PostgreSQL.
type PrizeRepository struct {
	db *sql.DB
}

func NewPrizeRepository(db *sql.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func scanPrize(row scanner) (*models.Prize, error) {
	var (
		p      models.Prize
		lo, hi sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &p.PrizeType, &p.StudentsChange, &p.ValeraChange,
		&p.Probability, &lo, &hi, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	p.CoinsMin = intPtr(lo)
	p.CoinsMax = intPtr(hi)
	return &p, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO prizes (name, prize_type, students_change, valera_change, probability, coins_min, coins_max)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, prize.Name, prize.PrizeType, prize.StudentsChange, prize.ValeraChange, prize.Probability,
		nullInt(prize.CoinsMin), nullInt(prize.CoinsMax)).Scan(&prize.ID, &prize.CreatedAt)
	return mapErr(err)
}

func (r *PrizeRepository) FindByID(ctx context.Context, id int64) (*models.Prize, error) {
	return scanPrize(r.db.QueryRowContext(ctx, `SELECT `+prizeColumns+` FROM prizes WHERE id = $1`, id))
}

func (r *PrizeRepository) FindByType(ctx context.Context, prizeType string) ([]*models.Prize, error) {
	return r.query(ctx, `SELECT `+prizeColumns+` FROM prizes WHERE prize_type = $1 ORDER BY id`, prizeType)
}

func (r *PrizeRepository) FindAll(ctx context.Context) ([]*models.Prize, error) {
	return r.query(ctx, `SELECT `+prizeColumns+` FROM prizes ORDER BY id`)
}

func (r *PrizeRepository) query(ctx context.Context, q string, args ...interface{}) ([]*models.Prize, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prizes := []*models.Prize{}
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, err
		}
		prizes = append(prizes, p)
	}
	return prizes, rows.Err()
}

func (r *PrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	return checkAffected(r.db.ExecContext(ctx, `
		UPDATE prizes
		SET name = $2, prize_type = $3, students_change = $4, valera_change = $5,
		    probability = $6, coins_min = $7, coins_max = $8
		WHERE id = $1
	`, prize.ID, prize.Name, prize.PrizeType, prize.StudentsChange, prize.ValeraChange,
		prize.Probability, nullInt(prize.CoinsMin), nullInt(prize.CoinsMax)))
}

func (r *PrizeRepository) Delete(ctx context.Context, id int64) error {
	return checkAffected(r.db.ExecContext(ctx, `DELETE FROM prizes WHERE id = $1`, id))
}
