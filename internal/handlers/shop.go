package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/requestdata"
	"github.com/devlingo/devlingo-backend/internal/services"
)

type ShopHandler struct {
	log         *logger.Logger
	shopService services.ShopService
}

func NewShopHandler(log *logger.Logger, shopService services.ShopService) *ShopHandler {
	return &ShopHandler{
		log:         log.With("handler", "ShopHandler"),
		shopService: shopService,
	}
}

func (h *ShopHandler) GetBalance(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	balance, err := h.shopService.GetBalance(c.Request.Context(), rd.UserID)
	if err != nil {
		h.respondShopError(c, rd.UserID, "get_balance_failed", err)
		return
	}
	RespondOK(c, balance)
}

type buyHeartsRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
	Price  int `json:"price" binding:"required,gt=0"`
}

func (h *ShopHandler) BuyHearts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req buyHeartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	balance, err := h.shopService.BuyHearts(c.Request.Context(), rd.UserID, req.Amount, req.Price)
	if err != nil {
		h.respondShopError(c, rd.UserID, "buy_hearts_failed", err)
		return
	}
	RespondOK(c, balance)
}

func (h *ShopHandler) SpinWheel(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	result, err := h.shopService.SpinWheel(c.Request.Context(), rd.UserID)
	if err != nil {
		h.respondShopError(c, rd.UserID, "spin_wheel_failed", err)
		return
	}
	RespondOK(c, result)
}

func (h *ShopHandler) respondShopError(c *gin.Context, userID, code string, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientCoins):
		RespondError(c, http.StatusBadRequest, "insufficient_coins", err)
	case errors.Is(err, services.ErrUserProgressNotFound):
		RespondError(c, http.StatusNotFound, "user_progress_not_found", err)
	default:
		h.log.Error("Shop operation failed", "code", code, "error", err, "user_id", userID)
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
