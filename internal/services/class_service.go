package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"golang.org/x/exp/slog"
)

// ClassService handles classes and their coin balances. Every balance
// change leaves a ledger entry.
type ClassService struct {
	classRepo repositories.ClassRepository
	txRepo    repositories.TransactionRepository
}

// NewClassService creates a new ClassService
func NewClassService(classRepo repositories.ClassRepository, txRepo repositories.TransactionRepository) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		txRepo:    txRepo,
	}
}

// GetClass retrieves a class by ID
func (s *ClassService) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	return s.classRepo.FindByID(ctx, id)
}

// ListClasses lists every class by ID
func (s *ClassService) ListClasses(ctx context.Context) ([]*models.Class, error) {
	return s.classRepo.FindAll(ctx)
}

// Rating returns the leaderboard, richest class first
func (s *ClassService) Rating(ctx context.Context) ([]models.ClassRating, error) {
	classes, err := s.classRepo.Rating(ctx)
	if err != nil {
		return nil, err
	}
	rating := make([]models.ClassRating, 0, len(classes))
	for _, c := range classes {
		rating = append(rating, models.ClassRating{
			ID:              c.ID,
			Name:            c.Name,
			StudentsBalance: c.StudentsBalance,
			ValeraBalance:   c.ValeraBalance,
			TotalBalance:    c.TotalBalance(),
		})
	}
	return rating, nil
}

// CreateClass creates a class with optional starting balances
func (s *ClassService) CreateClass(ctx context.Context, req *models.ClassRequest) (*models.Class, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("class name is required")
	}
	class := &models.Class{
		Name:            name,
		StudentsBalance: req.StudentsBalance,
		ValeraBalance:   req.ValeraBalance,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	slog.Info("Class created", "classId", class.ID, "name", class.Name)
	return class, nil
}

// UpdateClass renames a class and sets the balances present in req.
// Balance changes are written to the ledger.
func (s *ClassService) UpdateClass(ctx context.Context, id int64, req *models.ClassUpdateRequest) (*models.Class, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("class name is required")
		}
		if name != class.Name {
			class.Name = name
			if err := s.classRepo.Update(ctx, class); err != nil {
				return nil, err
			}
			slog.Info("Class renamed", "classId", id, "name", name)
		}
	}
	if req.StudentsBalance == nil && req.ValeraBalance == nil {
		return class, nil
	}
	return s.SetBalance(ctx, id, &models.SetBalanceRequest{
		StudentsBalance: req.StudentsBalance,
		ValeraBalance:   req.ValeraBalance,
	})
}

// DeleteClass removes a class and its ledger
func (s *ClassService) DeleteClass(ctx context.Context, id int64) error {
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Class deleted", "classId", id)
	return nil
}

// GetBalance returns the balances of a class
func (s *ClassService) GetBalance(ctx context.Context, id int64) (game.Balance, error) {
	class, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return game.Balance{}, err
	}
	return game.Balance{Students: class.StudentsBalance, Valera: class.ValeraBalance}, nil
}

// SetBalance overwrites the balances present in req
func (s *ClassService) SetBalance(ctx context.Context, id int64, req *models.SetBalanceRequest) (*models.Class, error) {
	before, err := s.classRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.classRepo.SetBalance(ctx, id, req.StudentsBalance, req.ValeraBalance)
	if err != nil {
		return nil, err
	}
	s.record(ctx, after, after.StudentsBalance-before.StudentsBalance, after.ValeraBalance-before.ValeraBalance, models.ReasonSet)
	return after, nil
}

// ApplyDelta adds signed deltas to both balances in one update
func (s *ClassService) ApplyDelta(ctx context.Context, id int64, studentsDelta, valeraDelta int, reason string) (*models.Class, error) {
	if reason == "" {
		reason = models.ReasonManual
	}
	class, err := s.classRepo.ApplyDelta(ctx, id, studentsDelta, valeraDelta)
	if err != nil {
		return nil, err
	}
	s.record(ctx, class, studentsDelta, valeraDelta, reason)
	slog.Info("Balance updated", "classId", id, "studentsDelta", studentsDelta, "valeraDelta", valeraDelta,
		"students", class.StudentsBalance, "valera", class.ValeraBalance, "reason", reason)
	return class, nil
}

// record writes a ledger entry. A failed write is logged; the balance
// change itself has already been applied.
func (s *ClassService) record(ctx context.Context, class *models.Class, studentsDelta, valeraDelta int, reason string) {
	if s.txRepo == nil || (studentsDelta == 0 && valeraDelta == 0) {
		return
	}
	tx := &models.BalanceTransaction{
		ClassID:       class.ID,
		StudentsDelta: studentsDelta,
		ValeraDelta:   valeraDelta,
		Reason:        reason,
		StudentsAfter: class.StudentsBalance,
		ValeraAfter:   class.ValeraBalance,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		slog.Error("Failed to write ledger entry", "classId", class.ID, "error", err)
	}
}

// Transactions returns the ledger of a class, newest first
func (s *ClassService) Transactions(ctx context.Context, id int64, limit int) ([]*models.BalanceTransaction, error) {
	if _, err := s.classRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if s.txRepo == nil {
		return []*models.BalanceTransaction{}, nil
	}
	return s.txRepo.FindByClassID(ctx, id, limit)
}

// Bridge returns the in-process balance bridge of a class.
func (s *ClassService) Bridge(classID int64) game.BalanceBridge {
	return &ClassBridge{classes: s, classID: classID}
}

// ClassBridge applies game balance changes straight to storage.
type ClassBridge struct {
	classes *ClassService
	classID int64
}

var _ game.BalanceBridge = (*ClassBridge)(nil)

func (b *ClassBridge) GetBalance(ctx context.Context) (game.Balance, error) {
	return b.classes.GetBalance(ctx, b.classID)
}

func (b *ClassBridge) UpdateBalance(ctx context.Context, studentsDelta, valeraDelta int) error {
	if _, err := b.classes.ApplyDelta(ctx, b.classID, studentsDelta, valeraDelta, models.ReasonGame); err != nil {
		return fmt.Errorf("update balance of class %d: %w", b.classID, err)
	}
	return nil
}
