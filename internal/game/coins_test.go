package game

import "testing"

func TestCoinsSplitSumsToTotal(t *testing.T) {
	for a := 0; a <= 5; a++ {
		s, v := Coins(a, 5)
		if s+v != 5 {
			t.Fatalf("active=%d: students %d + valera %d != 5", a, s, v)
		}
		if v != a {
			t.Fatalf("active=%d: valera got %d", a, v)
		}
	}
	if s, _ := Coins(7, 5); s != 0 {
		t.Fatalf("students must not go negative, got %d", s)
	}
}

func TestFinalCoinsPenalties(t *testing.T) {
	rules := CoinRules{Penalty: 5, Bonus: 1}

	clean := FinalCoins(0, 5, true, rules)
	if clean.ValeraCoins != -5 || clean.StudentsCoins != 6 {
		t.Fatalf("clean row: got %+v", clean)
	}
	if clean.OriginalStudents != 5 || clean.OriginalValera != 0 {
		t.Fatalf("originals must be the raw split: %+v", clean)
	}

	full := FinalCoins(5, 5, false, rules)
	if full.StudentsCoins != -6 || full.ValeraCoins != 5 {
		t.Fatalf("full row: got %+v", full)
	}

	for a := 1; a < 5; a++ {
		r := FinalCoins(a, 5, true, rules)
		if r.ValeraCoins != a || r.StudentsCoins != 5-a+1 {
			t.Fatalf("active=%d: no penalty expected, got %+v", a, r)
		}
	}
}

func TestFinalCoinsBonusBranches(t *testing.T) {
	rules := CoinRules{Penalty: 5, Bonus: 1}
	on := FinalCoins(2, 5, true, rules)
	off := FinalCoins(2, 5, false, rules)
	if on.StudentsCoins != 4 {
		t.Fatalf("bonus on: want 4, got %d", on.StudentsCoins)
	}
	if off.StudentsCoins != 2 {
		t.Fatalf("bonus off: want 2, got %d", off.StudentsCoins)
	}
	if on.ValeraCoins != off.ValeraCoins {
		t.Fatalf("bonus must not touch valera")
	}
}
