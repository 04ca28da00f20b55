package game

import (
	"sync"
	"time"
)

// AnimationKind names one of the mascot sprite animations.
type AnimationKind string

const (
	AnimationIdle AnimationKind = "idle"
	AnimationEvil AnimationKind = "evil"
	AnimationRun  AnimationKind = "run"
)

// folder is the sprite directory of the kind. The idle sprites have always
// lived under "ilde".
func (k AnimationKind) folder() string {
	if k == AnimationIdle {
		return "ilde"
	}
	return string(k)
}

// Frame is one visual step emitted by the scheduler.
type Frame struct {
	Kind  AnimationKind `json:"kind"`
	Index int           `json:"index"`
	Image string        `json:"image"`
	Scale float64       `json:"scale"`
}

// Sequence walks the frame indexes of a single animation phase.
//
//	idle: 1..total
//	evil: 1..total..1 (ping-pong)
//	run:  1..total with scale growing linearly up to maxScale
type Sequence struct {
	kind     AnimationKind
	total    int
	maxScale float64
	next     int
	dir      int
}

func NewSequence(kind AnimationKind, total int, maxScale float64) *Sequence {
	return &Sequence{kind: kind, total: total, maxScale: maxScale, next: 1, dir: 1}
}

// Next returns the next frame index and scale, or ok=false once the phase
// is over.
func (s *Sequence) Next() (index int, scale float64, ok bool) {
	if s.dir == 0 {
		return 0, 0, false
	}
	index = s.next
	scale = 1.0
	switch s.kind {
	case AnimationEvil:
		if index >= s.total {
			s.dir = -1
		}
		s.next += s.dir
		if s.dir < 0 && index <= 1 {
			s.dir = 0
		}
	case AnimationRun:
		scale = 1.0 + float64(index)/float64(s.total)*(s.maxScale-1.0)
		s.next++
		if s.next > s.total {
			s.dir = 0
		}
	default:
		s.next++
		if s.next > s.total {
			s.dir = 0
		}
	}
	return index, scale, true
}

// Scheduler owns the single animation timer of a session. Starting a phase
// cancels whatever was running or pending. Callbacks run with guard held;
// callers that invoke Start, Cancel or ScheduleIdle must hold guard too so
// that no stale frame can land after a newer phase started.
type Scheduler struct {
	mu     sync.Mutex
	guard  sync.Locker
	rules  AnimationRules
	assets Assets
	rng    RandomSource

	gen     uint64
	stop    chan struct{}
	active  AnimationKind
	waiting bool

	onFrame    func(Frame)
	onComplete func(AnimationKind)
}

// NewScheduler returns an idle scheduler. A nil guard gets a private mutex.
func NewScheduler(rules AnimationRules, assets Assets, rng RandomSource, guard sync.Locker) *Scheduler {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Scheduler{rules: rules, assets: assets, rng: rng, guard: guard}
}

// OnFrame registers the frame sink.
func (s *Scheduler) OnFrame(cb func(Frame)) {
	s.mu.Lock()
	s.onFrame = cb
	s.mu.Unlock()
}

// OnComplete registers the callback fired when a phase plays to its end.
func (s *Scheduler) OnComplete(cb func(AnimationKind)) {
	s.mu.Lock()
	s.onComplete = cb
	s.mu.Unlock()
}

// Active reports the running animation, or "" when the mascot is still.
func (s *Scheduler) Active() AnimationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Waiting reports whether an idle phase is scheduled.
func (s *Scheduler) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// Start cancels any timer and plays kind from its first frame.
func (s *Scheduler) Start(kind AnimationKind) {
	s.mu.Lock()
	gen, stop := s.resetLocked()
	s.active = kind
	s.mu.Unlock()

	seq := NewSequence(kind, s.rules.TotalFrames, s.rules.RunMaxScale)
	go s.play(gen, stop, kind, seq, s.rules.FrameInterval(kind))
}

// ScheduleIdle cancels any timer and plays idle after a random delay.
func (s *Scheduler) ScheduleIdle() {
	s.mu.Lock()
	gen, stop := s.resetLocked()
	s.waiting = true
	spread := s.rules.IdleMaxDelay - s.rules.IdleMinDelay
	delay := s.rules.IdleMinDelay + time.Duration(s.rng.Float64()*float64(spread))
	s.mu.Unlock()

	go s.wait(gen, stop, delay)
}

// Cancel stops the running phase or the pending idle delay.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

func (s *Scheduler) resetLocked() (uint64, chan struct{}) {
	if s.stop != nil {
		close(s.stop)
	}
	s.gen++
	s.stop = make(chan struct{})
	s.active = ""
	s.waiting = false
	return s.gen, s.stop
}

func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Scheduler) wait(gen uint64, stop chan struct{}, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-stop:
		return
	case <-timer.C:
	}
	s.guard.Lock()
	defer s.guard.Unlock()
	if !s.current(gen) {
		return
	}
	s.Start(AnimationIdle)
}

func (s *Scheduler) play(gen uint64, stop chan struct{}, kind AnimationKind, seq *Sequence, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if !s.tick(gen, kind, seq) {
			return
		}
	}
}

// tick delivers one frame; it returns false once the phase is over.
func (s *Scheduler) tick(gen uint64, kind AnimationKind, seq *Sequence) bool {
	s.guard.Lock()
	defer s.guard.Unlock()

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return false
	}
	onFrame, onComplete := s.onFrame, s.onComplete
	index, scale, ok := seq.Next()
	if !ok {
		s.active = ""
	}
	s.mu.Unlock()

	if !ok {
		if onComplete != nil {
			onComplete(kind)
		}
		return false
	}
	if onFrame != nil {
		onFrame(Frame{Kind: kind, Index: index, Image: s.assets.Frame(kind, index), Scale: scale})
	}
	return true
}
