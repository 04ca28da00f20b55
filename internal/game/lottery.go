package game

import (
	"errors"
	"fmt"
)

// LotteryKind tells the two lotteries apart.
type LotteryKind string

const (
	LotteryValera   LotteryKind = "valera"
	LotteryStudents LotteryKind = "students"
)

// ParseLotteryKind maps a name onto a LotteryKind.
func ParseLotteryKind(name string) (LotteryKind, error) {
	switch LotteryKind(name) {
	case LotteryValera, LotteryStudents:
		return LotteryKind(name), nil
	}
	return "", fmt.Errorf("unknown lottery %q", name)
}

// Panel is the overlay that hosts the lottery.
func (k LotteryKind) Panel() Panel {
	if k == LotteryStudents {
		return PanelStudentsLottery
	}
	return PanelShop
}

var ErrNoPrizes = errors.New("lottery has no prizes")

// Cell is one box of the lottery grid.
type Cell struct {
	Index       int   `json:"index"`
	Prize       Prize `json:"prize"`
	Highlighted bool  `json:"highlighted"`
	Selected    bool  `json:"selected"`
}

// NewGrid deals prizes round-robin over size cells and shuffles them.
func NewGrid(prizes []Prize, size int, rng RandomSource) ([]Cell, error) {
	if len(prizes) == 0 {
		return nil, ErrNoPrizes
	}
	dealt := make([]Prize, size)
	for i := range dealt {
		dealt[i] = prizes[i%len(prizes)]
	}
	for i := len(dealt) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		dealt[i], dealt[j] = dealt[j], dealt[i]
	}
	cells := make([]Cell, size)
	for i, p := range dealt {
		cells[i] = Cell{Index: i, Prize: p}
	}
	return cells, nil
}

// WeightedPick replicates every prize weight(probability) times into a pool
// and draws one entry uniformly. An empty pool yields the first prize.
func WeightedPick(prizes []Prize, weights map[Probability]int, rng RandomSource) (Prize, error) {
	if len(prizes) == 0 {
		return Prize{}, ErrNoPrizes
	}
	pool := make([]int, 0, len(prizes)*5)
	for i, p := range prizes {
		for n := 0; n < weights[p.Probability]; n++ {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return prizes[0], nil
	}
	return prizes[pool[intn(rng, len(pool))]], nil
}

// Lottery is the state of one prize grid and its draw button.
type Lottery struct {
	kind   LotteryKind
	cost   int
	prizes []Prize
	cells  []Cell

	drawing  bool
	disabled bool
	title    string
	result   string
	balance  *int
}

// NewLottery builds a lottery with a freshly shuffled grid.
func NewLottery(kind LotteryKind, cost int, prizes []Prize, gridSize int, rng RandomSource) (*Lottery, error) {
	cells, err := NewGrid(prizes, gridSize, rng)
	if err != nil {
		return nil, fmt.Errorf("%s lottery: %w", kind, err)
	}
	l := &Lottery{kind: kind, cost: cost, prizes: prizes, cells: cells}
	l.title = l.readyTitle()
	return l, nil
}

func (l *Lottery) Kind() LotteryKind { return l.kind }
func (l *Lottery) Cost() int         { return l.cost }
func (l *Lottery) Prizes() []Prize   { return l.prizes }
func (l *Lottery) Drawing() bool     { return l.drawing }

// Cells returns a copy of the grid.
func (l *Lottery) Cells() []Cell {
	out := make([]Cell, len(l.cells))
	copy(out, l.cells)
	return out
}

// Reset clears the result and every highlight and re-enables the button.
func (l *Lottery) Reset() {
	l.result = ""
	l.clearMarks()
	l.disabled = false
}

func (l *Lottery) clearMarks() {
	for i := range l.cells {
		l.cells[i].Highlighted = false
		l.cells[i].Selected = false
	}
}

// highlight lights exactly one cell.
func (l *Lottery) highlight(i int) {
	for n := range l.cells {
		l.cells[n].Highlighted = n == i
	}
}

func (l *Lottery) selectCell(i int) {
	for n := range l.cells {
		l.cells[n].Highlighted = false
		l.cells[n].Selected = n == i
	}
}

// updateButton enables the draw button only when balance covers the cost.
func (l *Lottery) updateButton(balance int) {
	l.balance = &balance
	if balance < l.cost {
		l.disabled = true
		l.title = fmt.Sprintf("Недостаточно монет (нужно %d, есть %d)", l.cost, balance)
		return
	}
	l.disabled = false
	l.title = l.readyTitle()
}

func (l *Lottery) readyTitle() string {
	return fmt.Sprintf("Выбрать приз за %d монет", l.cost)
}

// LotteryView is the projection of a lottery for the page.
type LotteryView struct {
	Kind           LotteryKind `json:"kind"`
	Cost           int         `json:"cost"`
	Cells          []Cell      `json:"cells"`
	BoxImage       string      `json:"box_image"`
	Drawing        bool        `json:"drawing"`
	ButtonDisabled bool        `json:"button_disabled"`
	ButtonTitle    string      `json:"button_title"`
	Result         string      `json:"result,omitempty"`
	Balance        *int        `json:"balance,omitempty"`
}

func (l *Lottery) view(assets Assets) LotteryView {
	return LotteryView{
		Kind:           l.kind,
		Cost:           l.cost,
		Cells:          l.Cells(),
		BoxImage:       assets.Box(),
		Drawing:        l.drawing,
		ButtonDisabled: l.disabled || l.drawing,
		ButtonTitle:    l.title,
		Result:         l.result,
		Balance:        l.balance,
	}
}

// DrawResult is the outcome of one draw.
type DrawResult struct {
	Kind         LotteryKind `json:"kind"`
	Prize        Prize       `json:"prize"`
	Text         string      `json:"text"`
	SelectedCell int         `json:"selected_cell"`
	Err          error       `json:"-"`
}

// DrawRun tracks a draw whose highlight cycle and settlement run in the
// background.
type DrawRun struct {
	kind   LotteryKind
	done   chan struct{}
	result DrawResult
}

func newDrawRun(kind LotteryKind) *DrawRun {
	return &DrawRun{kind: kind, done: make(chan struct{})}
}

// Done is closed once the prize is shown and the balance call returned.
func (r *DrawRun) Done() <-chan struct{} { return r.done }

// Result is valid after Done is closed.
func (r *DrawRun) Result() DrawResult { return r.result }
