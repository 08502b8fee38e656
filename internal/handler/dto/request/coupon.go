package request

import (
	"strings"

	"loyalty-engine/internal/domain/coupon"
)

type ExchangeCouponRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (r ExchangeCouponRequest) ToKind() coupon.Kind {
	return coupon.Kind(strings.TrimSpace(strings.ToLower(r.Kind)))
}

// VerifyCodeRequest carries free-text code entry: with or without grouping
// delimiters, any case. Normalization happens in the engine.
type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type EarnPointsRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason,omitempty"`
}

func (r EarnPointsRequest) GetReason() string {
	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		return "manual credit"
	}
	return reason
}
