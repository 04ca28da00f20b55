package game

import (
	"errors"
	"fmt"
	"time"
)

// Panel identifies one overlay of the game page.
type Panel string

const (
	PanelPrice           Panel = "price"
	PanelCoins           Panel = "coins"
	PanelShop            Panel = "shop"
	PanelStudentsLottery Panel = "students_lottery"
	PanelPurchase        Panel = "purchase"
	PanelNotification    Panel = "notification"
)

// Panels lists every overlay in page order.
var Panels = []Panel{PanelPrice, PanelCoins, PanelShop, PanelStudentsLottery, PanelPurchase, PanelNotification}

var ErrUnknownPanel = errors.New("unknown panel")

// ParsePanel maps a panel name onto a Panel.
func ParsePanel(name string) (Panel, error) {
	for _, p := range Panels {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, name)
}

type panelHooks struct {
	onOpen  func()
	onClose func()
}

// ModalController tracks which overlays are visible. Panels are independent;
// several may be open at once.
type ModalController struct {
	open  map[Panel]bool
	hooks map[Panel]panelHooks
}

func NewModalController() *ModalController {
	return &ModalController{
		open:  make(map[Panel]bool, len(Panels)),
		hooks: make(map[Panel]panelHooks),
	}
}

// Hook registers callbacks run after a panel opens or closes.
func (m *ModalController) Hook(p Panel, onOpen, onClose func()) {
	m.hooks[p] = panelHooks{onOpen: onOpen, onClose: onClose}
}

func (m *ModalController) known(p Panel) error {
	for _, k := range Panels {
		if k == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPanel, p)
}

func (m *ModalController) Open(p Panel) error {
	if err := m.known(p); err != nil {
		return err
	}
	m.open[p] = true
	if h := m.hooks[p].onOpen; h != nil {
		h()
	}
	return nil
}

// Close hides a panel. Closing a hidden panel still runs its close hook,
// which resets the panel's content.
func (m *ModalController) Close(p Panel) error {
	if err := m.known(p); err != nil {
		return err
	}
	m.open[p] = false
	if h := m.hooks[p].onClose; h != nil {
		h()
	}
	return nil
}

// Toggle flips a panel and reports whether it is now open.
func (m *ModalController) Toggle(p Panel) (bool, error) {
	if err := m.known(p); err != nil {
		return false, err
	}
	if m.open[p] {
		return false, m.Close(p)
	}
	return true, m.Open(p)
}

// Backdrop handles a click on the dimmed area around a panel.
func (m *ModalController) Backdrop(p Panel) error {
	return m.Close(p)
}

// CloseAll hides every panel at once (Escape).
func (m *ModalController) CloseAll() {
	for _, p := range Panels {
		_ = m.Close(p)
	}
}

func (m *ModalController) IsOpen(p Panel) bool { return m.open[p] }

// State returns the visibility of every panel.
func (m *ModalController) State() map[Panel]bool {
	out := make(map[Panel]bool, len(Panels))
	for _, p := range Panels {
		out[p] = m.open[p]
	}
	return out
}

// NotificationLevel grades a user-facing message.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is the content of the notification panel.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}
