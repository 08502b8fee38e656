package coupon

type Kind string

const (
	KindFreeAdmission   Kind = "free_admission"
	KindPercentDiscount Kind = "percent_discount"
	KindSpecial         Kind = "special"
)

type KindInfo struct {
	Name        string
	Description string
}

// kindCatalog is the static lookup table that determines display name and
// description per kind.
var kindCatalog = map[Kind]KindInfo{
	KindFreeAdmission: {
		Name:        "Free Admission Pass",
		Description: "Free entry to one partner event",
	},
	KindPercentDiscount: {
		Name:        "10% Discount Coupon",
		Description: "10% off a single purchase at partner stores",
	},
	KindSpecial: {
		Name:        "Special Reward",
		Description: "Limited reward redeemable at featured events",
	},
}

func (k Kind) IsValid() bool {
	_, ok := kindCatalog[k]
	return ok
}

func (k Kind) Info() KindInfo {
	return kindCatalog[k]
}

func (k Kind) String() string {
	return string(k)
}
