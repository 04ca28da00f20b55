package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"golang.org/x/exp/slog"
)

// ErrManagerClosed is returned once the server is shutting down.
var ErrManagerClosed = errors.New("game manager closed")

// BridgeFactory builds the balance bridge of one class.
type BridgeFactory func(classID int64) game.BalanceBridge

// GameService owns one live game session per class.
type GameService struct {
	classRepo repositories.ClassRepository
	catalog   game.Catalog
	bridges   BridgeFactory
	rules     game.Rules
	assets    game.Assets
	rng       game.RandomSource
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*game.Session
	closed   bool
}

// NewGameService creates a new GameService. classRepo may be nil when the
// balances live on a remote server.
func NewGameService(classRepo repositories.ClassRepository, catalog game.Catalog, bridges BridgeFactory,
	rules game.Rules, assets game.Assets, rng game.RandomSource, logger *slog.Logger) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameService{
		classRepo: classRepo,
		catalog:   catalog,
		bridges:   bridges,
		rules:     rules,
		assets:    assets,
		rng:       rng,
		logger:    logger,
		sessions:  make(map[int64]*game.Session),
	}
}

// Rules returns the rules every session runs with.
func (s *GameService) Rules() game.Rules { return s.rules }

// Assets returns the asset URL builder.
func (s *GameService) Assets() game.Assets { return s.assets }

// Session returns the live session of a class, creating it on first use.
func (s *GameService) Session(ctx context.Context, classID int64) (*game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrManagerClosed
	}
	if sess, ok := s.sessions[classID]; ok {
		return sess, nil
	}
	if s.classRepo != nil {
		if _, err := s.classRepo.FindByID(ctx, classID); err != nil {
			return nil, err
		}
	}
	sess, err := game.NewSession(ctx, game.Deps{
		ClassID: classID,
		Bridge:  s.bridges(classID),
		Catalog: s.catalog,
		Rules:   s.rules,
		Assets:  s.assets,
		RNG:     s.rng,
		Logger:  s.logger,
	})
	if err != nil {
		return nil, err
	}
	s.sessions[classID] = sess
	s.logger.Info("Game session started", "classId", classID)
	return sess, nil
}

// Drop closes the session of a class, e.g. after the class was deleted.
func (s *GameService) Drop(classID int64) {
	s.mu.Lock()
	sess, ok := s.sessions[classID]
	delete(s.sessions, classID)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// Close stops every session.
func (s *GameService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[int64]*game.Session{}
	s.closed = true
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}
