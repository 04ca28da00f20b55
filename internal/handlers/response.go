package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/valera-classroom/internal/game"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
	"github.com/ArowuTest/valera-classroom/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// statusFor maps service and game errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, game.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, game.ErrUnknownPanel),
		errors.Is(err, game.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrDrawInProgress),
		errors.Is(err, game.ErrNoPendingPurchase),
		errors.Is(err, game.ErrSubmitInProgress),
		errors.Is(err, game.ErrCoinsNotShown):
		return http.StatusConflict
	case errors.Is(err, game.ErrSessionClosed),
		errors.Is(err, services.ErrManagerClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes {success:false, error} with the mapped status
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// paramID parses a positive integer path parameter
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid ID format")
		return 0, false
	}
	return id, true
}
