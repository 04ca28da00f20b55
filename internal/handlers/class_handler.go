package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/gin-gonic/gin"
)

// ClassHandler handles classes and their balances
type ClassHandler struct {
	classService *services.ClassService
	games        *services.GameService
}

// NewClassHandler creates a new ClassHandler. games may be nil; it is only
// used to stop the session of a deleted class.
func NewClassHandler(classService *services.ClassService, games *services.GameService) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		games:        games,
	}
}

// GetBalance handles GET /class/:id/balance
func (h *ClassHandler) GetBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bal, err := h.classService.GetBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bal)
}

// SetBalance handles POST /class/:id/balance
func (h *ClassHandler) SetBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := h.classService.SetBalance(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ApplyDelta handles POST /class/:id/balance/delta
func (h *ClassHandler) ApplyDelta(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.BalanceDeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	class, err := h.classService.ApplyDelta(c.Request.Context(), id, req.StudentsDelta, req.ValeraDelta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"students_balance": class.StudentsBalance,
		"valera_balance":   class.ValeraBalance,
	})
}

// Rating handles GET /classes/rating
func (h *ClassHandler) Rating(c *gin.Context) {
	rating, err := h.classService.Rating(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// ListClasses handles GET /classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.ListClasses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClass handles GET /classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.GetClass(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// CreateClass handles POST /classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req models.ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	class, err := h.classService.CreateClass(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "class": class})
}

// UpdateClass handles PUT /classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.ClassUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	class, err := h.classService.UpdateClass(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "class": class})
}

// DeleteClass handles DELETE /classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.classService.DeleteClass(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if h.games != nil {
		h.games.Drop(id)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Transactions handles GET /class/:id/transactions
func (h *ClassHandler) Transactions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txs, err := h.classService.Transactions(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}
