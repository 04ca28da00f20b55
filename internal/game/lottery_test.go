package game

import (
	"errors"
	"testing"
)

func TestNewGridCoversPrizes(t *testing.T) {
	prizes := DefaultRules().Prizes.Valera
	cells, err := NewGrid(prizes, 9, NewSeededRNG(7))
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 9 {
		t.Fatalf("want 9 cells, got %d", len(cells))
	}
	seen := map[string]int{}
	for i, c := range cells {
		if c.Index != i {
			t.Fatalf("cell %d has index %d", i, c.Index)
		}
		seen[c.Prize.Name]++
	}
	for _, p := range prizes {
		if seen[p.Name] == 0 {
			t.Fatalf("prize %q missing from grid", p.Name)
		}
	}
	total := 0
	for name, n := range seen {
		valid := false
		for _, p := range prizes {
			if p.Name == name {
				valid = true
			}
		}
		if !valid {
			t.Fatalf("unknown prize %q in grid", name)
		}
		total += n
	}
	if total != 9 {
		t.Fatalf("grid holds %d prizes", total)
	}
}

func TestNewGridEmpty(t *testing.T) {
	if _, err := NewGrid(nil, 9, NewSeededRNG(1)); !errors.Is(err, ErrNoPrizes) {
		t.Fatalf("want ErrNoPrizes, got %v", err)
	}
}

func TestWeightedPickConverges(t *testing.T) {
	prizes := []Prize{
		{Name: "low", Probability: ProbabilityLow},
		{Name: "medium", Probability: ProbabilityMedium},
		{Name: "high", Probability: ProbabilityHigh},
	}
	weights := DefaultRules().Lottery.Weights
	rng := NewSeededRNG(42)
	const n = 100000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		p, err := WeightedPick(prizes, weights, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[p.Name]++
	}
	want := map[string]float64{"low": 0.2, "medium": 0.3, "high": 0.5}
	for name, p := range want {
		freq := float64(counts[name]) / n
		if diff := freq - p; diff > 0.01 || diff < -0.01 {
			t.Fatalf("%s: freq=%f not close to %f", name, freq, p)
		}
	}
}

func TestWeightedPickEmptyPool(t *testing.T) {
	prizes := []Prize{{Name: "first", Probability: ProbabilityLow}, {Name: "second", Probability: ProbabilityHigh}}
	p, err := WeightedPick(prizes, map[Probability]int{}, NewSeededRNG(3))
	if err != nil || p.Name != "first" {
		t.Fatalf("empty pool must fall back to the first prize, got %q err=%v", p.Name, err)
	}
	if _, err := WeightedPick(nil, nil, nil); !errors.Is(err, ErrNoPrizes) {
		t.Fatalf("want ErrNoPrizes, got %v", err)
	}
}

func TestLotteryButtonTracksBalance(t *testing.T) {
	l, err := NewLottery(LotteryValera, 5, DefaultRules().Prizes.Valera, 9, NewSeededRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	l.updateButton(3)
	if !l.disabled || l.title != "Недостаточно монет (нужно 5, есть 3)" {
		t.Fatalf("disabled=%v title=%q", l.disabled, l.title)
	}
	l.updateButton(5)
	if l.disabled || l.title != "Выбрать приз за 5 монет" {
		t.Fatalf("disabled=%v title=%q", l.disabled, l.title)
	}
}

func TestLotteryHighlightAndSelect(t *testing.T) {
	l, _ := NewLottery(LotteryStudents, 8, DefaultRules().Prizes.Students, 9, NewSeededRNG(1))
	l.highlight(4)
	for _, c := range l.Cells() {
		if c.Highlighted != (c.Index == 4) {
			t.Fatalf("cell %d highlighted=%v", c.Index, c.Highlighted)
		}
	}
	l.selectCell(2)
	for _, c := range l.Cells() {
		if c.Highlighted || c.Selected != (c.Index == 2) {
			t.Fatalf("cell %d: %+v", c.Index, c)
		}
	}
	l.result = "x"
	l.Reset()
	for _, c := range l.Cells() {
		if c.Selected || c.Highlighted {
			t.Fatalf("reset left marks on cell %d", c.Index)
		}
	}
	if l.result != "" {
		t.Fatalf("reset left result %q", l.result)
	}
}
