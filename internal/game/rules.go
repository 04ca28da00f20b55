package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules holds every tunable of a game session. A rules file only needs to
// name the values it overrides; the rest keep DefaultRules values.
type Rules struct {
	Animation AnimationRules `yaml:"animation"`
	Signals   SignalRules    `yaml:"signals"`
	Coins     CoinRules      `yaml:"coins"`
	Lottery   LotteryRules   `yaml:"lottery"`
	Prizes    PrizeLists     `yaml:"prizes"`
}

type AnimationRules struct {
	TotalFrames  int           `yaml:"total_frames"`
	FPS          float64       `yaml:"fps"`
	EvilSpeedup  float64       `yaml:"evil_speedup"`
	IdleMinDelay time.Duration `yaml:"idle_min_delay"`
	IdleMaxDelay time.Duration `yaml:"idle_max_delay"`
	RunMaxScale  float64       `yaml:"run_max_scale"`
}

// FrameInterval is the tick length of the given animation.
func (a AnimationRules) FrameInterval(kind AnimationKind) time.Duration {
	base := time.Duration(float64(time.Second) / a.FPS)
	if kind == AnimationEvil {
		return time.Duration(float64(base) / a.EvilSpeedup)
	}
	return base
}

type SignalRules struct {
	Count int `yaml:"count"`
}

type CoinRules struct {
	Penalty int `yaml:"penalty"`
	Bonus   int `yaml:"bonus"`
}

type LotteryRules struct {
	GridSize          int                 `yaml:"grid_size"`
	HighlightInterval time.Duration       `yaml:"highlight_interval"`
	HighlightDuration time.Duration       `yaml:"highlight_duration"`
	Weights           map[Probability]int `yaml:"weights"`
	ValeraCost        int                 `yaml:"valera_cost"`
	StudentsCost      int                 `yaml:"students_cost"`
	SettleTimeout     time.Duration       `yaml:"settle_timeout"`
}

// Iterations is the number of highlight steps of one draw.
func (l LotteryRules) Iterations() int {
	return int(l.HighlightDuration / l.HighlightInterval)
}

// Cost returns the price of one draw of the given lottery.
func (l LotteryRules) Cost(kind LotteryKind) int {
	if kind == LotteryStudents {
		return l.StudentsCost
	}
	return l.ValeraCost
}

type PrizeLists struct {
	Valera   []Prize `yaml:"valera"`
	Students []Prize `yaml:"students"`
}

// For returns the default prize list of a lottery.
func (p PrizeLists) For(kind LotteryKind) []Prize {
	if kind == LotteryStudents {
		return p.Students
	}
	return p.Valera
}

// DefaultRules mirrors the classroom setup the game shipped with.
func DefaultRules() Rules {
	return Rules{
		Animation: AnimationRules{
			TotalFrames:  121,
			FPS:          15,
			EvilSpeedup:  2.25,
			IdleMinDelay: 5 * time.Second,
			IdleMaxDelay: 10 * time.Second,
			RunMaxScale:  1.5,
		},
		Signals: SignalRules{Count: 5},
		Coins:   CoinRules{Penalty: 5, Bonus: 1},
		Lottery: LotteryRules{
			GridSize:          9,
			HighlightInterval: 100 * time.Millisecond,
			HighlightDuration: 2 * time.Second,
			Weights: map[Probability]int{
				ProbabilityLow:    2,
				ProbabilityMedium: 3,
				ProbabilityHigh:   5,
			},
			ValeraCost:    5,
			StudentsCost:  8,
			SettleTimeout: 10 * time.Second,
		},
		Prizes: PrizeLists{
			Valera: []Prize{
				{Name: "Самостоятельная работа", Probability: ProbabilityLow},
				{Name: "Дебаф: 1 замечания = 2 красных", Probability: ProbabilityMedium},
				{Name: "Варишка: забирает у вас 5 монет", Probability: ProbabilityHigh, CoinsRange: &CoinsRange{Min: 3, Max: 10}},
				{Name: "Дебаф: вы не получаете монеты за урок", Probability: ProbabilityMedium},
				{Name: "Дебаф: вы получаете доп задание домой", Probability: ProbabilityMedium},
			},
			Students: []Prize{
				{Name: "Воришка: забирает у Валеры 5 монет", Probability: ProbabilityHigh, CoinsRange: &CoinsRange{Min: 1, Max: 5}},
				{Name: "Бафф: два замечания - 1 кружок", Probability: ProbabilityMedium},
				{Name: "Бафф: Валера не получает монеты", Probability: ProbabilityLow},
				{Name: "Бафф: доступен таймер", Probability: ProbabilityMedium},
			},
		},
	}
}

// LoadRules reads a YAML rules file over DefaultRules. An empty path or a
// missing file yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rules, nil
		}
		return Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// Validate rejects rule sets the engine cannot run with.
func (r Rules) Validate() error {
	a := r.Animation
	switch {
	case a.TotalFrames < 1:
		return errors.New("animation.total_frames must be positive")
	case a.FPS <= 0:
		return errors.New("animation.fps must be positive")
	case a.EvilSpeedup <= 0:
		return errors.New("animation.evil_speedup must be positive")
	case a.IdleMinDelay < 0 || a.IdleMaxDelay < a.IdleMinDelay:
		return errors.New("animation idle delays must satisfy 0 <= min <= max")
	case a.RunMaxScale < 1:
		return errors.New("animation.run_max_scale must be at least 1")
	case r.Signals.Count < 1:
		return errors.New("signals.count must be positive")
	case r.Coins.Penalty < 0 || r.Coins.Bonus < 0:
		return errors.New("coins penalty and bonus must not be negative")
	}
	l := r.Lottery
	switch {
	case l.GridSize < 1:
		return errors.New("lottery.grid_size must be positive")
	case l.HighlightInterval <= 0 || l.HighlightDuration < l.HighlightInterval:
		return errors.New("lottery highlight interval must be positive and not exceed the duration")
	case l.ValeraCost < 0 || l.StudentsCost < 0:
		return errors.New("lottery costs must not be negative")
	case l.SettleTimeout <= 0:
		return errors.New("lottery.settle_timeout must be positive")
	}
	for _, p := range []Probability{ProbabilityLow, ProbabilityMedium, ProbabilityHigh} {
		if l.Weights[p] < 0 {
			return fmt.Errorf("lottery.weights.%s must not be negative", p)
		}
	}
	if len(r.Prizes.Valera) == 0 || len(r.Prizes.Students) == 0 {
		return errors.New("both default prize lists must be non-empty")
	}
	return nil
}
