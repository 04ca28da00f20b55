package game

// MascotView is what the mascot area of the page shows.
type MascotView struct {
	Image         string        `json:"image"`
	Scale         float64       `json:"scale"`
	Animation     AnimationKind `json:"animation,omitempty"`
	IdleScheduled bool          `json:"idle_scheduled"`
	GrillVisible  bool          `json:"grill_visible"`
}

// View is the full projection of a session. The page renders it as is.
type View struct {
	ClassID        int64                       `json:"class_id"`
	Version        uint64                      `json:"version"`
	Mascot         MascotView                  `json:"mascot"`
	GameOver       bool                        `json:"game_over"`
	RestartVisible bool                        `json:"restart_visible"`
	Signals        []bool                      `json:"signals"`
	ActiveSignals  int                         `json:"active_signals"`
	Modals         map[Panel]bool              `json:"modals"`
	Bonus          bool                        `json:"bonus"`
	Coins          CoinResult                  `json:"coins"`
	Lotteries      map[LotteryKind]LotteryView `json:"lotteries"`
	Pending        *PendingPurchase            `json:"pending_purchase,omitempty"`
	Notification   *Notification               `json:"notification,omitempty"`
}

func (s *Session) viewLocked() View {
	lotteries := make(map[LotteryKind]LotteryView, len(s.lotteries))
	for k, l := range s.lotteries {
		lotteries[k] = l.view(s.deps.Assets)
	}
	var pending *PendingPurchase
	if s.pending != nil {
		p := *s.pending
		pending = &p
	}
	var note *Notification
	if s.notification != nil {
		n := *s.notification
		note = &n
	}
	return View{
		ClassID: s.deps.ClassID,
		Version: s.version,
		Mascot: MascotView{
			Image:         s.mascot.image,
			Scale:         s.mascot.scale,
			Animation:     s.anim.Active(),
			IdleScheduled: s.anim.Waiting(),
			GrillVisible:  s.mascot.grillVisible,
		},
		GameOver:       s.mascot.gameOver,
		RestartVisible: s.mascot.gameOver,
		Signals:        s.signals.Flags(),
		ActiveSignals:  s.signals.Active(),
		Modals:         s.modals.State(),
		Bonus:          s.bonus,
		Coins:          s.coinResultLocked(),
		Lotteries:      lotteries,
		Pending:        pending,
		Notification:   note,
	}
}

// publishLocked bumps the version and pushes the new view to subscribers.
// A slow subscriber only ever sees the latest view.
func (s *Session) publishLocked() View {
	s.version++
	v := s.viewLocked()
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	return v
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe streams a view after every change, starting with the current
// one. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan View, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan View, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.viewLocked()
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}
