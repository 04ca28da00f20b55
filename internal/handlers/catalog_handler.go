package handlers

import (
	"net/http"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles lottery prizes and the price list
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListPrizes handles GET /prizes?type=valera|students
func (h *CatalogHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.catalog.ListPrizes(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prizes)
}

// CreatePrize handles POST /prizes
func (h *CatalogHandler) CreatePrize(c *gin.Context) {
	var prize models.Prize
	if err := c.ShouldBindJSON(&prize); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.catalog.CreatePrize(c.Request.Context(), &prize); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// UpdatePrize handles PUT /prizes/:id
func (h *CatalogHandler) UpdatePrize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.PrizeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	prize, err := h.catalog.UpdatePrize(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prize)
}

// DeletePrize handles DELETE /prizes/:id
func (h *CatalogHandler) DeletePrize(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeletePrize(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListShopItems handles GET /shop-items
func (h *CatalogHandler) ListShopItems(c *gin.Context) {
	items, err := h.catalog.ListShopItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateShopItem handles POST /shop-items
func (h *CatalogHandler) CreateShopItem(c *gin.Context) {
	var item models.ShopItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.catalog.CreateShopItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateShopItem handles PUT /shop-items/:id
func (h *CatalogHandler) UpdateShopItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.ShopItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.catalog.UpdateShopItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteShopItem handles DELETE /shop-items/:id
func (h *CatalogHandler) DeleteShopItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteShopItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
