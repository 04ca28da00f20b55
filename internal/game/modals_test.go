package game

import (
	"errors"
	"testing"
)

func TestModalToggleAndHooks(t *testing.T) {
	m := NewModalController()
	opened, closed := 0, 0
	m.Hook(PanelShop, func() { opened++ }, func() { closed++ })

	now, err := m.Toggle(PanelShop)
	if err != nil || !now || !m.IsOpen(PanelShop) {
		t.Fatalf("toggle should open: now=%v err=%v", now, err)
	}
	now, _ = m.Toggle(PanelShop)
	if now || m.IsOpen(PanelShop) {
		t.Fatalf("second toggle should close")
	}
	if err := m.Backdrop(PanelShop); err != nil {
		t.Fatal(err)
	}
	if opened != 1 || closed != 2 {
		t.Fatalf("opened=%d closed=%d", opened, closed)
	}
}

func TestModalCloseAll(t *testing.T) {
	m := NewModalController()
	for _, p := range []Panel{PanelPrice, PanelCoins, PanelShop} {
		if err := m.Open(p); err != nil {
			t.Fatal(err)
		}
	}
	m.CloseAll()
	for p, open := range m.State() {
		if open {
			t.Fatalf("%s still open", p)
		}
	}
}

func TestModalUnknownPanel(t *testing.T) {
	m := NewModalController()
	if err := m.Open("attic"); !errors.Is(err, ErrUnknownPanel) {
		t.Fatalf("want ErrUnknownPanel, got %v", err)
	}
	if _, err := ParsePanel("students_lottery"); err != nil {
		t.Fatal(err)
	}
}

func TestParseKey(t *testing.T) {
	cases := map[string]KeyAction{
		"p":      KeyTogglePrice,
		"P":      KeyTogglePrice,
		"З":      KeyNone,
		"р":      KeyTogglePrice,
		"KeyF":   KeyShowCoins,
		"Ф":      KeyShowCoins,
		"r":      KeyToggleShop,
		"К":      KeyToggleShop,
		"Escape": KeyCloseAll,
		"x":      KeyNone,
	}
	for key, want := range cases {
		if got := ParseKey(key); got != want {
			t.Fatalf("ParseKey(%q)=%q want %q", key, got, want)
		}
	}
}
