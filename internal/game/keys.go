package game

import (
	"strings"

	"golang.org/x/text/cases"
)

// KeyAction is what a keyboard shortcut does.
type KeyAction string

const (
	KeyNone        KeyAction = ""
	KeyTogglePrice KeyAction = "toggle_price"
	KeyShowCoins   KeyAction = "show_coins"
	KeyToggleShop  KeyAction = "toggle_shop"
	KeyCloseAll    KeyAction = "close_all"
)

// ParseKey maps a key name or key code onto an action. Letters are matched
// on both the Latin and the Russian keyboard layout.
func ParseKey(key string) KeyAction {
	k := cases.Fold().String(strings.TrimSpace(key))
	switch k {
	case "p", "р", "keyp":
		return KeyTogglePrice
	case "f", "ф", "keyf":
		return KeyShowCoins
	case "r", "к", "keyr":
		return KeyToggleShop
	case "escape", "esc":
		return KeyCloseAll
	}
	return KeyNone
}

// HandleKey runs the shortcut bound to key. It reports false for keys with
// no binding.
func (s *Session) HandleKey(key string) (View, bool) {
	switch ParseKey(key) {
	case KeyTogglePrice:
		v, _ := s.TogglePanel(PanelPrice)
		return v, true
	case KeyShowCoins:
		return s.ShowCoinsResult(), true
	case KeyToggleShop:
		v, _ := s.TogglePanel(PanelShop)
		return v, true
	case KeyCloseAll:
		return s.CloseAll(), true
	}
	return s.Snapshot(), false
}
