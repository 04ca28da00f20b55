package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"golang.org/x/exp/slog"
)

// CatalogService manages the lottery prizes and the price list. It is also
// the game.Catalog of every session.
type CatalogService struct {
	prizeRepo repositories.PrizeRepository
	itemRepo  repositories.ShopItemRepository
	defaults  game.PrizeLists
}

var _ game.Catalog = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService. defaults are used for a
// lottery that has no stored prizes.
func NewCatalogService(prizeRepo repositories.PrizeRepository, itemRepo repositories.ShopItemRepository, defaults game.PrizeLists) *CatalogService {
	return &CatalogService{
		prizeRepo: prizeRepo,
		itemRepo:  itemRepo,
		defaults:  defaults,
	}
}

// ListPrizes lists stored prizes, optionally of one type only
func (s *CatalogService) ListPrizes(ctx context.Context, prizeType string) ([]*models.Prize, error) {
	if prizeType == "" {
		return s.prizeRepo.FindAll(ctx)
	}
	if !models.ValidPrizeType(prizeType) {
		return nil, invalid("unknown prize type %q", prizeType)
	}
	return s.prizeRepo.FindByType(ctx, prizeType)
}

func normalizePrize(p *models.Prize) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("prize name is required")
	}
	if !models.ValidPrizeType(p.PrizeType) {
		return invalid("prize type must be %q or %q", models.PrizeTypeValera, models.PrizeTypeStudents)
	}
	p.Probability = strings.ToLower(strings.TrimSpace(p.Probability))
	if p.Probability == "" {
		p.Probability = string(game.ProbabilityMedium)
	}
	if !game.Probability(p.Probability).Valid() {
		return invalid("probability must be low, medium or high")
	}
	if (p.CoinsMin == nil) != (p.CoinsMax == nil) {
		return invalid("coins_min and coins_max go together")
	}
	return nil
}

// CreatePrize validates and stores a prize
func (s *CatalogService) CreatePrize(ctx context.Context, prize *models.Prize) error {
	if err := normalizePrize(prize); err != nil {
		return err
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return err
	}
	slog.Info("Prize created", "prizeId", prize.ID, "type", prize.PrizeType, "name", prize.Name)
	return nil
}

// UpdatePrize applies the fields present in req to a stored prize
func (s *CatalogService) UpdatePrize(ctx context.Context, id int64, req *models.PrizeUpdateRequest) (*models.Prize, error) {
	prize, err := s.prizeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(prize)
	if err := normalizePrize(prize); err != nil {
		return nil, err
	}
	if err := s.prizeRepo.Update(ctx, prize); err != nil {
		return nil, err
	}
	return prize, nil
}

// DeletePrize removes a prize
func (s *CatalogService) DeletePrize(ctx context.Context, id int64) error {
	return s.prizeRepo.Delete(ctx, id)
}

// ListShopItems lists the price list, cheapest first
func (s *CatalogService) ListShopItems(ctx context.Context) ([]*models.ShopItem, error) {
	return s.itemRepo.FindAll(ctx)
}

func normalizeItem(item *models.ShopItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return invalid("item name is required")
	}
	if item.Price < 0 {
		return invalid("price must not be negative")
	}
	return nil
}

// CreateShopItem validates and stores an item
func (s *CatalogService) CreateShopItem(ctx context.Context, item *models.ShopItem) error {
	if err := normalizeItem(item); err != nil {
		return err
	}
	return s.itemRepo.Create(ctx, item)
}

// UpdateShopItem applies the fields present in req to a stored item
func (s *CatalogService) UpdateShopItem(ctx context.Context, id int64, req *models.ShopItemUpdateRequest) (*models.ShopItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(item)
	if err := normalizeItem(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteShopItem removes an item
func (s *CatalogService) DeleteShopItem(ctx context.Context, id int64) error {
	return s.itemRepo.Delete(ctx, id)
}

// Prizes returns the prize list of a lottery, falling back to the defaults
// when none is stored.
func (s *CatalogService) Prizes(ctx context.Context, kind game.LotteryKind) ([]game.Prize, error) {
	stored, err := s.prizeRepo.FindByType(ctx, string(kind))
	if err != nil {
		return s.defaults.For(kind), fmt.Errorf("load %s prizes: %w", kind, err)
	}
	if len(stored) == 0 {
		return s.defaults.For(kind), nil
	}
	prizes := make([]game.Prize, 0, len(stored))
	for _, p := range stored {
		prizes = append(prizes, GamePrize(p))
	}
	return prizes, nil
}

// ShopItem looks up a price list entry for the purchase panel.
func (s *CatalogService) ShopItem(ctx context.Context, id int64) (game.ShopItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return game.ShopItem{}, fmt.Errorf("%w: %w", game.ErrUnknownItem, err)
	}
	if err != nil {
		return game.ShopItem{}, err
	}
	return game.ShopItem{ID: item.ID, Name: item.Name, Price: item.Price}, nil
}

// GamePrize converts a stored prize into its game form.
func GamePrize(p *models.Prize) game.Prize {
	gp := game.Prize{
		Name:           p.Name,
		StudentsChange: p.StudentsChange,
		ValeraChange:   p.ValeraChange,
		Probability:    game.Probability(p.Probability),
	}
	if p.CoinsMin != nil && p.CoinsMax != nil {
		gp.CoinsRange = &game.CoinsRange{Min: *p.CoinsMin, Max: *p.CoinsMax}
	}
	return gp.Normalize()
}
