package response

import (
	"time"

	"loyalty-engine/internal/usecase/queries"
	"loyalty-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SecretCode  string     `json:"secretCode"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	Used        bool       `json:"used"`
}

type ExchangeResponse struct {
	Coupon  *CouponResponse `json:"coupon"`
	Message string          `json:"message"`
}

type VerifyResponse struct {
	Coupon  *CouponResponse `json:"coupon"`
	Message string          `json:"message"`
}

type UseResponse struct {
	Message string `json:"message"`
}

type HistoryEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	CouponID    uuid.UUID `json:"couponId"`
	CouponName  string    `json:"couponName"`
	PointsSpent *int64    `json:"pointsSpent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type StatsResponse struct {
	TotalExchanged int64 `json:"totalExchanged"`
	TotalUsed      int64 `json:"totalUsed"`
	LiveCoupons    int   `json:"liveCoupons"`
	PointBalance   int64 `json:"pointBalance"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

func FromCouponSnapshot(snap shared.CouponSnapshot) *CouponResponse {
	return &CouponResponse{
		ID:          snap.ID,
		Kind:        snap.Kind,
		Name:        snap.Name,
		Description: snap.Description,
		SecretCode:  snap.SecretCode,
		CreatedAt:   snap.CreatedAt,
		ExpiresAt:   snap.ExpiresAt,
		UsedAt:      snap.UsedAt,
		VerifiedAt:  snap.VerifiedAt,
		Used:        snap.Used,
	}
}

func FromCouponView(view *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:          view.ID,
		Kind:        view.Kind,
		Name:        view.Name,
		Description: view.Description,
		SecretCode:  view.SecretCode,
		CreatedAt:   view.CreatedAt,
		ExpiresAt:   view.ExpiresAt,
		UsedAt:      view.UsedAt,
		VerifiedAt:  view.VerifiedAt,
		Used:        view.Used,
	}
}

func FromHistoryView(view *queries.HistoryView) *HistoryEntryResponse {
	return &HistoryEntryResponse{
		ID:          view.ID,
		Action:      view.Action,
		CouponID:    view.CouponID,
		CouponName:  view.CouponName,
		PointsSpent: view.PointsSpent,
		Timestamp:   view.Timestamp,
	}
}
