package handlers

import (
	"io"
	"net/http"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/gin-gonic/gin"
)

// GameHandler exposes the live game session of a class
type GameHandler struct {
	games *services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(games *services.GameService) *GameHandler {
	return &GameHandler{games: games}
}

type keyRequest struct {
	Key string `json:"key" binding:"required"`
}

type bonusRequest struct {
	Checked bool `json:"checked"`
}

type selectItemRequest struct {
	ItemID int64 `json:"item_id" binding:"required"`
}

// session resolves the :id of the request to its game session
func (h *GameHandler) session(c *gin.Context) (*game.Session, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	sess, err := h.games.Session(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}

// respondView answers with the view, or the error together with the view
// so the page can show the notification it carries.
func respondView(c *gin.Context, status int, v game.View, err error) {
	if err != nil {
		c.JSON(statusFor(err), gin.H{"success": false, "error": err.Error(), "state": v})
		return
	}
	c.JSON(status, v)
}

// State handles GET /class/:id/game/state
func (h *GameHandler) State(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// Events handles GET /class/:id/game/events as a server-sent event stream
func (h *GameHandler) Events(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	views, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case v, ok := <-views:
			if !ok {
				return false
			}
			c.SSEvent("state", v)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Advance handles POST /class/:id/game/signals/advance
func (h *GameHandler) Advance(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.Advance())
	}
}

// Retreat handles POST /class/:id/game/signals/retreat
func (h *GameHandler) Retreat(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.Retreat())
	}
}

// Restart handles POST /class/:id/game/restart
func (h *GameHandler) Restart(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.Restart())
	}
}

// Key handles POST /class/:id/game/keys
func (h *GameHandler) Key(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	v, handled := sess.HandleKey(req.Key)
	c.JSON(http.StatusOK, gin.H{"handled": handled, "state": v})
}

// Modal handles POST /class/:id/game/modals/:panel/:action
func (h *GameHandler) Modal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	panel, err := game.ParsePanel(c.Param("panel"))
	if err != nil {
		respondError(c, err)
		return
	}
	var v game.View
	switch c.Param("action") {
	case "open":
		v, err = sess.OpenPanel(panel)
	case "close":
		v, err = sess.ClosePanel(panel)
	case "toggle":
		v, err = sess.TogglePanel(panel)
	case "backdrop":
		v, err = sess.Backdrop(panel)
	default:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown modal action"})
		return
	}
	respondView(c, http.StatusOK, v, err)
}

// CloseAll handles POST /class/:id/game/modals/close-all
func (h *GameHandler) CloseAll(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.CloseAll())
	}
}

// ShowCoins handles POST /class/:id/game/coins/show
func (h *GameHandler) ShowCoins(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.ShowCoinsResult())
	}
}

// Bonus handles POST /class/:id/game/coins/bonus
func (h *GameHandler) Bonus(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req bonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, sess.SetBonus(req.Checked))
}

// SubmitCoins handles POST /class/:id/game/coins/submit
func (h *GameHandler) SubmitCoins(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	res, err := sess.SubmitCoins(c.Request.Context())
	if err != nil {
		respondView(c, 0, sess.Snapshot(), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "coins": res, "state": sess.Snapshot()})
}

// Draw handles POST /class/:id/game/lottery/:kind/draw. The draw continues
// in the background; progress arrives over the event stream.
func (h *GameHandler) Draw(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	kind, err := game.ParseLotteryKind(c.Param("kind"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := sess.SelectPrize(c.Request.Context(), kind); err != nil {
		respondView(c, 0, sess.Snapshot(), err)
		return
	}
	c.JSON(http.StatusAccepted, sess.Snapshot())
}

// SelectItem handles POST /class/:id/game/purchase/select
func (h *GameHandler) SelectItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req selectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	v, err := sess.SelectItem(c.Request.Context(), req.ItemID)
	respondView(c, http.StatusOK, v, err)
}

// ConfirmPurchase handles POST /class/:id/game/purchase/confirm
func (h *GameHandler) ConfirmPurchase(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v, err := sess.ConfirmPurchase(c.Request.Context())
	respondView(c, http.StatusOK, v, err)
}

// CancelPurchase handles POST /class/:id/game/purchase/cancel
func (h *GameHandler) CancelPurchase(c *gin.Context) {
	if sess, ok := h.session(c); ok {
		c.JSON(http.StatusOK, sess.CancelPurchase())
	}
}

// Manifest handles GET /assets/manifest
func (h *GameHandler) Manifest(c *gin.Context) {
	rules := h.games.Rules()
	c.JSON(http.StatusOK, gin.H{
		"total_frames": rules.Animation.TotalFrames,
		"images":       h.games.Assets().Manifest(rules.Animation.TotalFrames),
	})
}
