package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDrawInProgress      = errors.New("draw already in progress")
	ErrNoPendingPurchase   = errors.New("no pending purchase")
	ErrNoCatalog           = errors.New("session has no catalog")
	ErrSessionClosed       = errors.New("session closed")
	ErrSubmitInProgress    = errors.New("coins submit already in progress")
	ErrCoinsNotShown       = errors.New("coins result is not shown")
)

// Deps is everything a session needs from the outside. Bridge and Rules are
// required; Catalog, RNG and Logger are optional.
type Deps struct {
	ClassID int64
	Bridge  BalanceBridge
	Catalog Catalog
	Rules   Rules
	Assets  Assets
	RNG     RandomSource
	Logger  *slog.Logger
}

// Validate checks the required slots.
func (d Deps) Validate() error {
	if d.ClassID <= 0 {
		return fmt.Errorf("invalid class id %d", d.ClassID)
	}
	if d.Bridge == nil {
		return errors.New("balance bridge is required")
	}
	if err := d.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

type mascotState struct {
	image        string
	scale        float64
	grillVisible bool
	gameOver     bool
}

// Session is the authoritative state of one class's game page. Every
// exported method is safe for concurrent use.
type Session struct {
	mu   sync.Mutex
	deps Deps
	log  *slog.Logger
	rng  RandomSource

	anim      *Scheduler
	signals   *SignalTracker
	modals    *ModalController
	lotteries map[LotteryKind]*Lottery

	bonus        bool
	mascot       mascotState
	pending      *PendingPurchase
	notification *Notification
	submitting   bool

	version uint64
	subs    map[int]chan View
	nextSub int
	closed  bool
	stop    chan struct{}
}

// NewSession loads the prize lists, deals both lottery grids and schedules
// the first idle animation.
func NewSession(ctx context.Context, deps Deps) (*Session, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if deps.RNG == nil {
		deps.RNG = DefaultRNG()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		deps:      deps,
		log:       logger.With("classId", deps.ClassID),
		rng:       deps.RNG,
		signals:   NewSignalTracker(deps.Rules.Signals.Count),
		modals:    NewModalController(),
		lotteries: make(map[LotteryKind]*Lottery, 2),
		subs:      make(map[int]chan View),
		stop:      make(chan struct{}),
	}
	s.anim = NewScheduler(deps.Rules.Animation, deps.Assets, deps.RNG, &s.mu)

	for _, kind := range []LotteryKind{LotteryValera, LotteryStudents} {
		prizes := s.loadPrizes(ctx, kind)
		l, err := NewLottery(kind, deps.Rules.Lottery.Cost(kind), prizes, deps.Rules.Lottery.GridSize, deps.RNG)
		if err != nil {
			return nil, err
		}
		s.lotteries[kind] = l
	}

	s.hookPanels()
	s.anim.OnFrame(s.onFrame)
	s.anim.OnComplete(s.onAnimationDone)

	s.mu.Lock()
	s.resetMascotLocked()
	s.anim.ScheduleIdle()
	s.mu.Unlock()
	return s, nil
}

func (s *Session) loadPrizes(ctx context.Context, kind LotteryKind) []Prize {
	var prizes []Prize
	if s.deps.Catalog != nil {
		stored, err := s.deps.Catalog.Prizes(ctx, kind)
		if err != nil {
			s.log.Warn("Failed to load prizes, using defaults", "lottery", kind, "error", err)
		}
		prizes = stored
	}
	if len(prizes) == 0 {
		prizes = s.deps.Rules.Prizes.For(kind)
	}
	out := make([]Prize, len(prizes))
	for i, p := range prizes {
		out[i] = p.Normalize()
	}
	return out
}

func (s *Session) hookPanels() {
	for _, kind := range []LotteryKind{LotteryValera, LotteryStudents} {
		kind := kind
		l := s.lotteries[kind]
		s.modals.Hook(kind.Panel(),
			func() {
				l.Reset()
				go s.refreshLottery(kind)
			},
			l.Reset,
		)
	}
	s.modals.Hook(PanelPurchase, nil, func() { s.pending = nil })
	s.modals.Hook(PanelNotification, nil, func() { s.notification = nil })
}

// ClassID returns the class the session belongs to.
func (s *Session) ClassID() int64 { return s.deps.ClassID }

// Close stops every timer and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.anim.Cancel()
	close(s.stop)
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// --- mascot and signals ---

func (s *Session) resetMascotLocked() {
	s.mascot = mascotState{
		image:        s.deps.Assets.Static(),
		scale:        1.0,
		grillVisible: true,
	}
}

// onFrame runs with s.mu held by the scheduler.
func (s *Session) onFrame(f Frame) {
	s.mascot.image = f.Image
	if f.Kind == AnimationRun {
		s.mascot.scale = f.Scale
	}
	s.publishLocked()
}

// onAnimationDone runs with s.mu held by the scheduler.
func (s *Session) onAnimationDone(kind AnimationKind) {
	switch kind {
	case AnimationRun:
		s.mascot.image = s.deps.Assets.Frame(AnimationEvil, s.deps.Rules.Animation.TotalFrames)
		s.mascot.scale = s.deps.Rules.Animation.RunMaxScale
		s.mascot.gameOver = true
		s.log.Info("Class lost the round")
	default:
		s.mascot.image = s.deps.Assets.Static()
		s.anim.ScheduleIdle()
	}
	s.publishLocked()
}

// Advance lights the next signal circle (red button). Filling the row plays
// the run animation and ends the round; any other advance plays evil.
func (s *Session) Advance() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signals.Advance() {
		s.mascot.grillVisible = false
		s.mascot.scale = 1.0
		s.anim.Start(AnimationRun)
	} else {
		s.mascot.scale = 1.0
		s.anim.Start(AnimationEvil)
	}
	return s.publishLocked()
}

// Retreat switches off the highest circle (green button) and takes back a
// lost round.
func (s *Session) Retreat() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.signals.Retreat() {
		return s.viewLocked()
	}
	if s.mascot.gameOver || s.anim.Active() == AnimationRun {
		s.resetMascotLocked()
		s.anim.ScheduleIdle()
	}
	return s.publishLocked()
}

// Restart puts the page back to its opening state (restart button).
func (s *Session) Restart() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartLocked()
	return s.publishLocked()
}

func (s *Session) restartLocked() {
	s.signals.Reset()
	s.resetMascotLocked()
	s.anim.ScheduleIdle()
}

// --- coins ---

func (s *Session) coinResultLocked() CoinResult {
	return FinalCoins(s.signals.Active(), s.signals.Max(), s.bonus, s.deps.Rules.Coins)
}

// CoinResult computes the current reward split.
func (s *Session) CoinResult() CoinResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coinResultLocked()
}

// ShowCoinsResult stops the game, clears the bonus checkbox and opens the
// coins panel.
func (s *Session) ShowCoinsResult() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anim.Cancel()
	s.bonus = false
	_ = s.modals.Open(PanelCoins)
	return s.publishLocked()
}

// SetBonus ticks or clears the extra point checkbox.
func (s *Session) SetBonus(checked bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bonus = checked
	return s.publishLocked()
}

// SubmitCoins credits the current result to the class and starts a new
// round. The coins panel must be open and only one submit runs at a time.
// On failure the round is left untouched.
func (s *Session) SubmitCoins(ctx context.Context) (CoinResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return CoinResult{}, ErrSubmitInProgress
	}
	if !s.modals.IsOpen(PanelCoins) {
		s.mu.Unlock()
		return CoinResult{}, ErrCoinsNotShown
	}
	s.submitting = true
	res := s.coinResultLocked()
	s.mu.Unlock()

	err := s.deps.Bridge.UpdateBalance(ctx, res.StudentsCoins, res.ValeraCoins)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.log.Error("Failed to submit coins", "error", err, "students", res.StudentsCoins, "valera", res.ValeraCoins)
		s.notifyLocked(NotifyError, "Ошибка при зачислении монет. Попробуйте еще раз.")
		s.publishLocked()
		return res, fmt.Errorf("submit coins: %w", err)
	}
	s.log.Info("Coins submitted", "students", res.StudentsCoins, "valera", res.ValeraCoins)
	_ = s.modals.Close(PanelCoins)
	s.restartLocked()
	s.publishLocked()
	return res, nil
}

// --- panels ---

func (s *Session) OpenPanel(p Panel) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.modals.Open(p); err != nil {
		return s.viewLocked(), err
	}
	return s.publishLocked(), nil
}

func (s *Session) ClosePanel(p Panel) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.modals.Close(p); err != nil {
		return s.viewLocked(), err
	}
	return s.publishLocked(), nil
}

func (s *Session) TogglePanel(p Panel) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.modals.Toggle(p); err != nil {
		return s.viewLocked(), err
	}
	return s.publishLocked(), nil
}

// Backdrop handles a click outside a panel's content.
func (s *Session) Backdrop(p Panel) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.modals.Backdrop(p); err != nil {
		return s.viewLocked(), err
	}
	return s.publishLocked(), nil
}

// CloseAll hides every panel.
func (s *Session) CloseAll() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals.CloseAll()
	return s.publishLocked()
}

// Notify shows a message in the notification panel.
func (s *Session) Notify(level NotificationLevel, message string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked(level, message)
	return s.publishLocked()
}

func (s *Session) notifyLocked(level NotificationLevel, message string) {
	s.notification = &Notification{Level: level, Message: message, At: time.Now()}
	_ = s.modals.Open(PanelNotification)
}

// --- lotteries ---

// refreshLottery reloads the balance shown in a lottery panel and the state
// of its button.
func (s *Session) refreshLottery(kind LotteryKind) {
	ctx, cancel := context.WithTimeout(context.Background(), s.deps.Rules.Lottery.SettleTimeout)
	defer cancel()
	bal, err := s.deps.Bridge.GetBalance(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if err != nil {
		s.log.Warn("Failed to refresh lottery balance", "lottery", kind, "error", err)
		return
	}
	s.lotteries[kind].updateButton(bal.For(kind))
	s.publishLocked()
}

// SelectPrize starts a draw. The balance is checked first; a short balance
// is reported to the page and nothing is charged. The highlight cycle and
// the balance update run in the background; the returned run reports when
// both are over.
func (s *Session) SelectPrize(ctx context.Context, kind LotteryKind) (*DrawRun, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	l, ok := s.lotteries[kind]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("unknown lottery %q", kind)
	}
	if l.drawing {
		s.mu.Unlock()
		return nil, ErrDrawInProgress
	}
	l.drawing = true
	s.publishLocked()
	s.mu.Unlock()

	bal, err := s.deps.Bridge.GetBalance(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		l.drawing = false
		s.log.Error("Failed to check balance before draw", "lottery", kind, "error", err)
		s.notifyLocked(NotifyError, "Ошибка при проверке баланса")
		s.publishLocked()
		return nil, fmt.Errorf("check balance: %w", err)
	}
	have := bal.For(kind)
	l.updateButton(have)
	if have < l.cost {
		l.drawing = false
		s.notifyLocked(NotifyError, fmt.Sprintf("Недостаточно монет! Нужно %d монет, у вас %d", l.cost, have))
		s.publishLocked()
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, l.cost, have)
	}

	l.result = ""
	l.clearMarks()
	run := newDrawRun(kind)
	go s.cycle(l, run)
	s.publishLocked()
	return run, nil
}

// cycle walks the highlight over the grid, then reveals the prize.
func (s *Session) cycle(l *Lottery, run *DrawRun) {
	rules := s.deps.Rules.Lottery
	ticker := time.NewTicker(rules.HighlightInterval)
	defer ticker.Stop()

	iterations := rules.Iterations()
	for i := 0; ; i++ {
		select {
		case <-s.stop:
			run.result = DrawResult{Kind: l.kind, Err: ErrSessionClosed}
			close(run.done)
			return
		case <-ticker.C:
		}
		s.mu.Lock()
		l.highlight(i % len(l.cells))
		if i+1 < iterations {
			s.publishLocked()
			s.mu.Unlock()
			continue
		}
		prize := s.revealLocked(l, run)
		s.mu.Unlock()
		s.settle(l, run, prize)
		return
	}
}

// revealLocked picks the prize and the cell shown as selected. The two are
// drawn independently.
func (s *Session) revealLocked(l *Lottery, run *DrawRun) Prize {
	prize, _ := WeightedPick(l.prizes, s.deps.Rules.Lottery.Weights, s.rng)
	cell := intn(s.rng, len(l.cells))
	l.selectCell(cell)
	l.result = prize.DisplayName(s.rng)
	run.result = DrawResult{Kind: l.kind, Prize: prize, Text: l.result, SelectedCell: cell}
	s.publishLocked()
	return prize
}

// settle charges the draw and credits the prize in one balance call.
func (s *Session) settle(l *Lottery, run *DrawRun, prize Prize) {
	defer close(run.done)
	ctx, cancel := context.WithTimeout(context.Background(), s.deps.Rules.Lottery.SettleTimeout)
	defer cancel()

	studentsDelta, valeraDelta := prize.StudentsChange, prize.ValeraChange
	if l.kind == LotteryStudents {
		studentsDelta -= l.cost
	} else {
		valeraDelta -= l.cost
	}
	err := s.deps.Bridge.UpdateBalance(ctx, studentsDelta, valeraDelta)
	var bal Balance
	var balErr error
	if err == nil {
		bal, balErr = s.deps.Bridge.GetBalance(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l.drawing = false
	if err != nil {
		run.result.Err = err
		s.log.Error("Failed to settle draw", "lottery", l.kind, "prize", prize.Name, "error", err)
		s.notifyLocked(NotifyError, "Ошибка при списании монет")
	} else {
		s.log.Info("Prize drawn", "lottery", l.kind, "prize", prize.Name, "studentsDelta", studentsDelta, "valeraDelta", valeraDelta)
		if balErr == nil {
			l.updateButton(bal.For(l.kind))
		}
	}
	if !s.closed {
		s.publishLocked()
	}
}

// --- purchases ---

// SelectItem puts a shop item into the confirmation panel.
func (s *Session) SelectItem(ctx context.Context, itemID int64) (View, error) {
	if s.deps.Catalog == nil {
		return s.Snapshot(), ErrNoCatalog
	}
	item, err := s.deps.Catalog.ShopItem(ctx, itemID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if errors.Is(err, ErrUnknownItem) {
			s.notifyLocked(NotifyError, "Товар не найден")
		} else {
			s.log.Error("Failed to load shop item", "item", itemID, "error", err)
			s.notifyLocked(NotifyError, "Ошибка при загрузке товара")
		}
		s.publishLocked()
		return s.viewLocked(), fmt.Errorf("shop item %d: %w", itemID, err)
	}
	s.pending = &PendingPurchase{ItemID: item.ID, ItemPrice: item.Price, ItemName: item.Name}
	_ = s.modals.Open(PanelPurchase)
	return s.publishLocked(), nil
}

// ConfirmPurchase charges the students for the pending item. The item is
// taken out of the panel while the charge runs, so a concurrent confirm
// finds nothing pending. It is put back when the charge does not happen.
func (s *Session) ConfirmPurchase(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.pending == nil {
		v := s.viewLocked()
		s.mu.Unlock()
		return v, ErrNoPendingPurchase
	}
	p := *s.pending
	s.pending = nil
	s.mu.Unlock()

	bal, err := s.deps.Bridge.GetBalance(ctx)
	if err == nil && bal.Students < p.ItemPrice {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.restorePendingLocked(p)
		s.notifyLocked(NotifyError, fmt.Sprintf("Недостаточно монет! Нужно %d монет, у вас %d", p.ItemPrice, bal.Students))
		return s.publishLocked(), fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, p.ItemPrice, bal.Students)
	}
	if err == nil {
		err = s.deps.Bridge.UpdateBalance(ctx, -p.ItemPrice, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.restorePendingLocked(p)
		s.log.Error("Failed to complete purchase", "item", p.ItemName, "error", err)
		s.notifyLocked(NotifyError, "Ошибка при покупке. Попробуйте еще раз.")
		return s.publishLocked(), fmt.Errorf("purchase %q: %w", p.ItemName, err)
	}
	s.log.Info("Purchase completed", "item", p.ItemName, "price", p.ItemPrice)
	if s.pending == nil {
		_ = s.modals.Close(PanelPurchase)
	}
	s.notifyLocked(NotifySuccess, fmt.Sprintf("Куплено: %s", p.ItemName))
	return s.publishLocked(), nil
}

// restorePendingLocked puts an uncharged item back unless the panel was
// closed or another item was selected meanwhile.
func (s *Session) restorePendingLocked(p PendingPurchase) {
	if s.pending == nil && s.modals.IsOpen(PanelPurchase) {
		s.pending = &p
	}
}

// CancelPurchase drops the pending item.
func (s *Session) CancelPurchase() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.modals.Close(PanelPurchase)
	return s.publishLocked()
}
