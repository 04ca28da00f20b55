package postgres

import (
	"context"
	"database/sql"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

var _ repositories.ClassRepository = (*ClassRepository)(nil)

const classColumns = `id, name, students_balance, valera_balance, created_at`

// ClassRepository stores classes in PostgreSQL.
type ClassRepository struct {
	db *sql.DB
}

func NewClassRepository(db *sql.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func scanClass(row scanner) (*models.Class, error) {
	var c models.Class
	if err := row.Scan(&c.ID, &c.Name, &c.StudentsBalance, &c.ValeraBalance, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO classes (name, students_balance, valera_balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, class.Name, class.StudentsBalance, class.ValeraBalance).Scan(&class.ID, &class.CreatedAt)
	return mapErr(err)
}

func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	return scanClass(r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

func (r *ClassRepository) FindByName(ctx context.Context, name string) (*models.Class, error) {
	return scanClass(r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE name = $1`, name))
}

func (r *ClassRepository) FindAll(ctx context.Context) ([]*models.Class, error) {
	return r.query(ctx, `SELECT `+classColumns+` FROM classes ORDER BY id`)
}

func (r *ClassRepository) Rating(ctx context.Context) ([]*models.Class, error) {
	return r.query(ctx, `
		SELECT `+classColumns+`
		FROM classes
		ORDER BY students_balance + valera_balance DESC, name
	`)
}

func (r *ClassRepository) query(ctx context.Context, q string, args ...interface{}) ([]*models.Class, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []*models.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	return checkAffected(r.db.ExecContext(ctx, `
		UPDATE classes
		SET name = $2
		WHERE id = $1
	`, class.ID, class.Name))
}

func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	return checkAffected(r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id))
}

func (r *ClassRepository) SetBalance(ctx context.Context, id int64, students, valera *int) (*models.Class, error) {
	return scanClass(r.db.QueryRowContext(ctx, `
		UPDATE classes
		SET students_balance = COALESCE($2, students_balance),
		    valera_balance = COALESCE($3, valera_balance)
		WHERE id = $1
		RETURNING `+classColumns, id, nullInt(students), nullInt(valera)))
}

func (r *ClassRepository) ApplyDelta(ctx context.Context, id int64, studentsDelta, valeraDelta int) (*models.Class, error) {
	return scanClass(r.db.QueryRowContext(ctx, `
		UPDATE classes
		SET students_balance = students_balance + $2,
		    valera_balance = valera_balance + $3
		WHERE id = $1
		RETURNING `+classColumns, id, studentsDelta, valeraDelta))
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
