package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	reqdto "loyalty-engine/internal/handler/dto/request"
	resdto "loyalty-engine/internal/handler/dto/response"
	"loyalty-engine/internal/usecase/commands"
	"loyalty-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
	points         PointsService
}

func NewCouponHandler(
	couponCommands commands.CouponCommands,
	couponQueries queries.CouponQueries,
	points PointsService,
) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
		points:         points,
	}
}

// @Summary Exchange points for a coupon
// @Description Converts a fixed quantity of points into one new coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.ExchangeCouponRequest true "Exchange request"
// @Success 201 {object} resdto.ExchangeResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /coupons/exchange [post]
func (h *CouponHandler) Exchange(c *gin.Context) {
	var req reqdto.ExchangeCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.couponCommands.Exchange(c.Request.Context(), req.ToKind(), h.points.Balance())
	if err != nil {
		h.respondExchangeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.ExchangeResponse{
		Coupon:  resdto.FromCouponSnapshot(result.Coupon),
		Message: "Coupon issued",
	})
}

func (h *CouponHandler) respondExchangeError(c *gin.Context, err error) {
	var cooldownErr *commands.CooldownError
	var chargeErr *commands.ChargeError

	switch {
	case errors.Is(err, commands.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Another coupon operation is in progress, retry shortly",
		})
	case errors.As(err, &cooldownErr):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Please wait %s before exchanging again", cooldownErr.Remaining.Round(time.Second)),
		})
	case errors.Is(err, commands.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown coupon kind",
		})
	case errors.Is(err, commands.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Not enough points for this exchange",
		})
	case errors.Is(err, commands.ErrCapacityExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "You already hold the maximum number of unused coupons",
		})
	case errors.Is(err, commands.ErrSpendRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Points could not be spent; no coupon was issued",
		})
	case errors.As(err, &chargeErr):
		if chargeErr.Refunded {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Exchange failed; your points were refunded",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Exchange failed and your points were charged; please contact support",
			})
		}
	case errors.Is(err, commands.ErrIssuanceFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Coupon issuance is temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Use a coupon directly
// @Description Marks a selected coupon as used from the in-app flow
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.UseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupons/{id}/use [post]
func (h *CouponHandler) Use(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID format",
		})
		return
	}

	if err := h.couponCommands.UseDirectly(c.Request.Context(), id); err != nil {
		h.respondUsageError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.UseResponse{Message: "Coupon used"})
}

// @Summary Verify a secret code
// @Description Proves possession of a coupon's secret code and marks it used
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyCodeRequest true "Verification request"
// @Success 200 {object} resdto.VerifyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /coupons/verify [post]
func (h *CouponHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyCodeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.couponCommands.VerifyByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.respondVerifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.VerifyResponse{
		Coupon:  resdto.FromCouponSnapshot(result.Coupon),
		Message: "Code verified, coupon used",
	})
}

func (h *CouponHandler) respondVerifyError(c *gin.Context, err error) {
	var lockedErr *commands.LockedOutError
	var wrongCodeErr *commands.WrongCodeError

	switch {
	case errors.Is(err, commands.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Another coupon operation is in progress, retry shortly",
		})
	case errors.As(err, &lockedErr):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Too many failed attempts; try again in %s", lockedErr.Remaining.Round(time.Second)),
		})
	case errors.As(err, &wrongCodeErr):
		if wrongCodeErr.LockedNow {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Code did not match; verification is now locked",
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Code did not match; %d attempts remaining", wrongCodeErr.Remaining),
		})
	case errors.Is(err, commands.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "The entered code is too short",
		})
	default:
		h.respondUsageError(c, err)
	}
}

func (h *CouponHandler) respondUsageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Another coupon operation is in progress, retry shortly",
		})
	case errors.Is(err, commands.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, commands.ErrCouponAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "This coupon has already been used",
		})
	case errors.Is(err, commands.ErrCouponExpired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "This coupon has expired",
		})
	case errors.Is(err, commands.ErrPersistenceFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not save your change, nothing was modified",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary List available coupons
// @Description Lists unused and unexpired coupons
// @Tags coupons
// @Produce json
// @Success 200 {array} resdto.CouponResponse
// @Router /coupons [get]
func (h *CouponHandler) ListAvailable(c *gin.Context) {
	views, err := h.couponQueries.AvailableCoupons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	h.respondCoupons(c, views)
}

// @Summary List all coupons
// @Description Lists every coupon including used and expired ones
// @Tags coupons
// @Produce json
// @Success 200 {array} resdto.CouponResponse
// @Router /coupons/all [get]
func (h *CouponHandler) ListAll(c *gin.Context) {
	views, err := h.couponQueries.AllCoupons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	h.respondCoupons(c, views)
}

func (h *CouponHandler) respondCoupons(c *gin.Context, views []queries.CouponView) {
	response := make([]*resdto.CouponResponse, len(views))
	for i := range views {
		response[i] = resdto.FromCouponView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get coupon history
// @Description Read-only audit trail of exchanges, uses and expirations
// @Tags history
// @Produce json
// @Success 200 {array} resdto.HistoryEntryResponse
// @Router /history [get]
func (h *CouponHandler) GetHistory(c *gin.Context) {
	views, err := h.couponQueries.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.HistoryEntryResponse, len(views))
	for i := range views {
		response[i] = resdto.FromHistoryView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get engine stats
// @Description Exchange/use totals, live coupon count and point balance
// @Tags stats
// @Produce json
// @Success 200 {object} resdto.StatsResponse
// @Router /stats [get]
func (h *CouponHandler) GetStats(c *gin.Context) {
	stats, err := h.couponQueries.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.StatsResponse{
		TotalExchanged: stats.TotalExchanged,
		TotalUsed:      stats.TotalUsed,
		LiveCoupons:    stats.LiveCoupons,
		PointBalance:   h.points.Balance(),
	})
}
