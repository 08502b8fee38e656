package api

import (
	"context"
	"net/http"

	reqdto "loyalty-engine/internal/handler/dto/request"
	resdto "loyalty-engine/internal/handler/dto/response"

	"github.com/gin-gonic/gin"
)

// PointsService is the read/credit surface of the local points ledger. The
// coupon engine itself only sees the spend/add capability; the handler uses
// this wider view to show balances and accept earned points.
type PointsService interface {
	Balance() int64
	AddPoints(ctx context.Context, amount int64, reason string) (bool, error)
}

type PointsHandler struct {
	points PointsService
}

func NewPointsHandler(points PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// @Summary Get point balance
// @Tags points
// @Produce json
// @Success 200 {object} resdto.BalanceResponse
// @Router /points [get]
func (h *PointsHandler) GetBalance(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.BalanceResponse{Balance: h.points.Balance()})
}

// @Summary Earn points
// @Description Credits points to the local balance
// @Tags points
// @Accept json
// @Produce json
// @Param request body reqdto.EarnPointsRequest true "Earn request"
// @Success 200 {object} resdto.BalanceResponse
// @Failure 400 {object} map[string]string
// @Router /points/earn [post]
func (h *PointsHandler) EarnPoints(c *gin.Context) {
	var req reqdto.EarnPointsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	ok, err := h.points.AddPoints(c.Request.Context(), req.Amount, req.GetReason())
	if err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not credit points",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.BalanceResponse{Balance: h.points.Balance()})
}
